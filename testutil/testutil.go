package testutil

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/pivotring/distance"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformPoints generates random points with coordinates in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformPoints(num int, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	points := make([][]float64, num)

	for i := range num {
		p := data[i*dimensions : (i+1)*dimensions : (i+1)*dimensions]
		for j := range p {
			p[j] = r.rand.Float64()
		}
		points[i] = p
	}

	return points
}

// ClusteredPoints generates points scattered around random centroids in
// [0, 1)^dimensions with the given standard deviation.
// Useful for testing pruning on non-uniform data.
func (r *RNG) ClusteredPoints(num, dimensions, clusters int, stddev float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	centroids := make([][]float64, clusters)
	for c := range centroids {
		centroids[c] = make([]float64, dimensions)
		for j := range centroids[c] {
			centroids[c][j] = r.rand.Float64()
		}
	}

	points := make([][]float64, num)
	for i := range points {
		center := centroids[r.rand.Intn(clusters)]
		p := make([]float64, dimensions)
		for j := range p {
			p[j] = center[j] + r.rand.NormFloat64()*stddev
		}
		points[i] = p
	}

	return points
}

// Words generates random strings with lengths in [minLen, maxLen] drawn
// from alphabet.
func (r *RNG) Words(num, minLen, maxLen int, alphabet string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	letters := []rune(alphabet)
	words := make([]string, num)
	for i := range words {
		n := minLen + r.rand.Intn(maxLen-minLen+1)
		w := make([]rune, n)
		for j := range w {
			w[j] = letters[r.rand.Intn(len(letters))]
		}
		words[i] = string(w)
	}
	return words
}

// Shuffle returns a shuffled copy of items.
func Shuffle[T any](r *RNG, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// BruteForceRange returns the positions of all items strictly closer than
// threshold to query, in ascending order.
func BruteForceRange[T any](items []T, query T, threshold float64, fn distance.Func[T]) ([]int, error) {
	var hits []int
	for i, item := range items {
		d, err := fn(query, item)
		if err != nil {
			return nil, err
		}
		if d < threshold {
			hits = append(hits, i)
		}
	}
	sort.Ints(hits)
	return hits, nil
}
