package distance

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"unicode/utf8"
)

// ErrInvalidDistance is returned when a distance function yields a negative,
// NaN or infinite value.
var ErrInvalidDistance = errors.New("invalid distance value")

// Func computes the distance between two elements.
type Func[T any] func(a, b T) (float64, error)

// ErrDimensionMismatch indicates vectors of different lengths.
type ErrDimensionMismatch struct {
	Left  int
	Right int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: %d != %d", e.Left, e.Right)
}

// Infallible adapts a distance function that cannot fail.
func Infallible[T any](fn func(a, b T) float64) Func[T] {
	return func(a, b T) (float64, error) {
		return fn(a, b), nil
	}
}

// Validate checks that d is a usable distance value.
func Validate(d float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDistance, d)
	}
	return nil
}

// Counter counts distance evaluations. The zero value is ready to use.
type Counter struct {
	n atomic.Int64
}

// Add increments the counter by delta.
func (c *Counter) Add(delta int64) {
	c.n.Add(delta)
}

// Load returns the current count.
func (c *Counter) Load() int64 {
	return c.n.Load()
}

// Reset sets the count back to zero and returns the previous value.
func (c *Counter) Reset() int64 {
	return c.n.Swap(0)
}

// Counting decorates fn so that every invocation increments c.
// Results and errors pass through untouched. A nil counter returns fn as is.
func Counting[T any](fn Func[T], c *Counter) Func[T] {
	if c == nil {
		return fn
	}
	return func(a, b T) (float64, error) {
		c.n.Add(1)
		return fn(a, b)
	}
}

// Euclidean calculates the L2 distance between two vectors.
func Euclidean(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &ErrDimensionMismatch{Left: len(a), Right: len(b)}
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// Manhattan calculates the L1 distance between two vectors.
func Manhattan(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &ErrDimensionMismatch{Left: len(a), Right: len(b)}
	}
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum, nil
}

// Chebyshev calculates the L∞ distance between two vectors.
func Chebyshev(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &ErrDimensionMismatch{Left: len(a), Right: len(b)}
	}
	var maxVal float64
	for i := range a {
		maxVal = max(maxVal, math.Abs(a[i]-b[i]))
	}
	return maxVal, nil
}

// Levenshtein returns the edit distance between two strings, counted in runes.
func Levenshtein(a, b string) (float64, error) {
	if !utf8.ValidString(a) || !utf8.ValidString(b) {
		return 0, errors.New("levenshtein: invalid utf-8 input")
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}

	// Two-row dynamic programming over the shorter string.
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return float64(prev[len(rb)]), nil
}

// Jaccard returns the Jaccard distance between two sets of tokens.
// Duplicate tokens are ignored. Two empty sets have distance 0.
func Jaccard(a, b []string) (float64, error) {
	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[s] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		setB[s] = struct{}{}
	}
	if len(setA) == 0 && len(setB) == 0 {
		return 0, nil
	}

	inter := 0
	for s := range setA {
		if _, ok := setB[s]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return 1 - float64(inter)/float64(union), nil
}
