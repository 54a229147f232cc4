package pivotring

import (
	"context"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/pivotring/distance"
	"github.com/hupe1980/pivotring/internal/container"
	"github.com/hupe1980/pivotring/internal/pivot"
)

// Index is a pivot-ring metric-space index over elements of type T.
//
// The lifecycle has two phases. During the build phase Add appends
// elements; Finalize ends it. Afterwards the index is read-only and
// RangeSearch may be called from any number of goroutines.
type Index[T any] struct {
	dist   distance.Func[T]
	pivots []T
	radii  []float64

	// pivotDist is the symmetric k×k inter-pivot distance matrix.
	pivotDist [][]float64

	pools  []*pivot.Pool
	values *container.SegmentedArray[T]

	// aliases[i] is the id of the first element at distance 0 from pivot i,
	// or -1.
	aliases []int64

	mu             sync.Mutex // serializes Add and Finalize
	finalized      atomic.Bool
	numValues      uint32
	overflowLogged []bool

	opts   options
	logger *Logger
}

// New creates an index over the given pivots and shared ring radii.
//
// radii must be positive, finite and strictly increasing; the largest radius
// should cover the largest distance between any element and any pivot. New
// makes one distance call per unordered pivot pair and fails if two pivots
// are at distance 0 from each other.
func New[T any](fn distance.Func[T], pivots []T, radii []float64, optFns ...Option) (*Index[T], error) {
	if len(pivots) == 0 {
		return nil, ErrNoPivots
	}
	if err := validateRadii(radii); err != nil {
		return nil, err
	}

	opts := defaultOptions()
	for _, opt := range optFns {
		opt(&opts)
	}

	k := len(pivots)
	idx := &Index[T]{
		dist:           fn,
		pivots:         slices.Clone(pivots),
		radii:          slices.Clone(radii),
		pivotDist:      make([][]float64, k),
		pools:          make([]*pivot.Pool, k),
		values:         container.NewSegmentedArray[T](),
		aliases:        make([]int64, k),
		overflowLogged: make([]bool, k),
		opts:           opts,
		logger:         opts.logger.WithPivots(k).WithRings(len(radii)),
	}

	for i := range k {
		idx.pivotDist[i] = make([]float64, k)
		idx.aliases[i] = -1
	}
	for i := range k {
		for j := i + 1; j < k; j++ {
			d, err := measure(fn, idx.pivots[i], idx.pivots[j])
			if err != nil {
				return nil, &ErrDistance{Op: "new", cause: err}
			}
			if d == 0 {
				return nil, &ErrDuplicatePivot{I: i, J: j}
			}
			idx.pivotDist[i][j] = d
			idx.pivotDist[j][i] = d
		}
	}

	for i := range k {
		idx.pools[i] = pivot.NewPool(i, k, idx.radii)
	}

	return idx, nil
}

func validateRadii(radii []float64) error {
	if len(radii) == 0 {
		return &ErrInvalidRadii{Index: -1}
	}
	prev := 0.0
	for i, r := range radii {
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= prev {
			return &ErrInvalidRadii{Index: i, Value: r}
		}
		prev = r
	}
	return nil
}

// measure calls fn and rejects values that are not valid distances.
func measure[T any](fn distance.Func[T], a, b T) (float64, error) {
	d, err := fn(a, b)
	if err != nil {
		return 0, err
	}
	if err := distance.Validate(d); err != nil {
		return 0, err
	}
	return d, nil
}

// Add appends value and returns its id.
//
// Add computes the distance from value to every pivot before touching any
// state, so a failing distance call or a coverage violation leaves the index
// unchanged.
func (idx *Index[T]) Add(ctx context.Context, value T) (ID, error) {
	start := time.Now()
	id, err := idx.add(ctx, value)
	idx.opts.metrics.RecordAdd(time.Since(start), err)
	idx.logger.LogAdd(ctx, uint32(id), err)
	return id, err
}

func (idx *Index[T]) add(ctx context.Context, value T) (ID, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.finalized.Load() {
		return 0, ErrFinalized
	}
	if uint64(idx.values.Len()) >= math.MaxUint32 {
		return 0, ErrIndexFull
	}

	dists := make([]float64, len(idx.pivots))
	for i, p := range idx.pivots {
		d, err := measure(idx.dist, value, p)
		if err != nil {
			return 0, &ErrDistance{Op: "add", cause: err}
		}
		dists[i] = d
	}

	if idx.opts.coverage == CoverageReject {
		for i, d := range dists {
			if maxRadius := idx.pools[i].MaxRadius(); d >= maxRadius {
				return 0, &ErrCoverage{Pivot: i, Distance: d, MaxRadius: maxRadius}
			}
		}
	}

	id := idx.values.Append(value)

	for i, pool := range idx.pools {
		di := dists[i]
		if !pool.Add(id, di) {
			pool.AddOverflow(id)
			if !idx.overflowLogged[i] {
				idx.overflowLogged[i] = true
				idx.logger.LogCoverage(ctx, i, di, pool.MaxRadius())
			}
		}
		for j, dj := range dists {
			if j != i && di < dj {
				pool.MarkCloser(j, id)
			}
		}
		if di == 0 && idx.aliases[i] < 0 {
			idx.aliases[i] = int64(id)
		}
	}

	return ID(id), nil
}

// AddBatch adds values in order. It stops at the first error and returns the
// ids added so far.
func (idx *Index[T]) AddBatch(ctx context.Context, values []T) ([]ID, error) {
	ids := make([]ID, 0, len(values))
	for _, v := range values {
		id, err := idx.Add(ctx, v)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Finalize ends the build phase. It fixes the universe of element ids and
// derives the cumulative ring balls. It must be called exactly once, before
// the first query.
func (idx *Index[T]) Finalize() error {
	start := time.Now()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.finalized.Load() {
		return ErrAlreadyFinalized
	}

	idx.numValues = uint32(idx.values.Len())
	overflow := 0
	for _, pool := range idx.pools {
		pool.Finalize()
		overflow += int(pool.Overflow().Cardinality())
	}
	idx.finalized.Store(true)

	idx.opts.metrics.RecordFinalize(int(idx.numValues), time.Since(start))
	idx.logger.LogFinalize(context.Background(), int(idx.numValues), overflow)
	return nil
}

// Finalized reports whether Finalize has been called.
func (idx *Index[T]) Finalized() bool {
	return idx.finalized.Load()
}

// Len returns the number of elements added.
func (idx *Index[T]) Len() int {
	return idx.values.Len()
}

// Value returns the element with the given id.
func (idx *Index[T]) Value(id ID) (T, bool) {
	return idx.values.Get(uint32(id))
}

// NumPivots returns the number of pivots.
func (idx *Index[T]) NumPivots() int {
	return len(idx.pivots)
}

// Pivot returns pivot i.
func (idx *Index[T]) Pivot(i int) T {
	return idx.pivots[i]
}

// Radii returns a copy of the ring radii.
func (idx *Index[T]) Radii() []float64 {
	return slices.Clone(idx.radii)
}

// PivotDistance returns the precomputed distance between pivots i and j.
func (idx *Index[T]) PivotDistance(i, j int) float64 {
	return idx.pivotDist[i][j]
}

// RingStats describes the rings of one pivot.
type RingStats struct {
	Pivot    int
	Sizes    []int
	Overflow int
}

// RingStats returns ring cardinalities for every pivot.
func (idx *Index[T]) RingStats() []RingStats {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	stats := make([]RingStats, len(idx.pools))
	for i, pool := range idx.pools {
		stats[i] = RingStats{
			Pivot:    i,
			Sizes:    pool.RingSizes(),
			Overflow: int(pool.Overflow().Cardinality()),
		}
	}
	return stats
}
