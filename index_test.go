package pivotring

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/hupe1980/pivotring/distance"
	"github.com/hupe1980/pivotring/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	planePivots = [][]float64{{0, 0}, {1, 0}, {0, 1}}
	// covers the unit square from every corner pivot
	planeRadii = []float64{0.1, 0.2, 0.4, 0.6, 0.8, 1.0, 1.5}
)

func newPlaneIndex(t *testing.T, points [][]float64, opts ...Option) *Index[[]float64] {
	t.Helper()

	idx, err := New(distance.Euclidean, planePivots, planeRadii, opts...)
	require.NoError(t, err)

	_, err = idx.AddBatch(context.Background(), points)
	require.NoError(t, err)
	require.NoError(t, idx.Finalize())
	return idx
}

func TestNew_Validation(t *testing.T) {
	boom := errors.New("boom")
	failing := func(a, b []float64) (float64, error) { return 0, boom }

	tests := []struct {
		name   string
		fn     distance.Func[[]float64]
		pivots [][]float64
		radii  []float64
		check  func(t *testing.T, err error)
	}{
		{
			name:  "NoPivots",
			fn:    distance.Euclidean,
			radii: []float64{1},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNoPivots) },
		},
		{
			name:   "EmptyRadii",
			fn:     distance.Euclidean,
			pivots: planePivots,
			check: func(t *testing.T, err error) {
				var ir *ErrInvalidRadii
				require.ErrorAs(t, err, &ir)
				assert.Equal(t, -1, ir.Index)
			},
		},
		{
			name:   "NotIncreasing",
			fn:     distance.Euclidean,
			pivots: planePivots,
			radii:  []float64{0.1, 0.3, 0.3},
			check: func(t *testing.T, err error) {
				var ir *ErrInvalidRadii
				require.ErrorAs(t, err, &ir)
				assert.Equal(t, 2, ir.Index)
			},
		},
		{
			name:   "ZeroRadius",
			fn:     distance.Euclidean,
			pivots: planePivots,
			radii:  []float64{0, 1},
			check: func(t *testing.T, err error) {
				var ir *ErrInvalidRadii
				require.ErrorAs(t, err, &ir)
				assert.Equal(t, 0, ir.Index)
			},
		},
		{
			name:   "InfiniteRadius",
			fn:     distance.Euclidean,
			pivots: planePivots,
			radii:  []float64{1, math.Inf(1)},
			check: func(t *testing.T, err error) {
				var ir *ErrInvalidRadii
				assert.ErrorAs(t, err, &ir)
			},
		},
		{
			name:   "DuplicatePivots",
			fn:     distance.Euclidean,
			pivots: [][]float64{{0, 0}, {1, 1}, {0, 0}},
			radii:  []float64{1},
			check: func(t *testing.T, err error) {
				var dp *ErrDuplicatePivot
				require.ErrorAs(t, err, &dp)
				assert.Equal(t, 0, dp.I)
				assert.Equal(t, 2, dp.J)
			},
		},
		{
			name:   "DistanceError",
			fn:     failing,
			pivots: planePivots,
			radii:  []float64{1},
			check: func(t *testing.T, err error) {
				var de *ErrDistance
				require.ErrorAs(t, err, &de)
				assert.ErrorIs(t, err, boom)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := New(tt.fn, tt.pivots, tt.radii)
			require.Error(t, err)
			assert.Nil(t, idx)
			tt.check(t, err)
		})
	}
}

func TestNew_PivotDistanceMatrix(t *testing.T) {
	var calls distance.Counter
	pivots := [][]float64{{0, 0}, {3, 0}, {0, 4}, {3, 4}}

	idx, err := New(distance.Counting(distance.Euclidean, &calls), pivots, []float64{10})
	require.NoError(t, err)

	// one call per unordered pair
	assert.Equal(t, int64(6), calls.Load())
	assert.Equal(t, 4, idx.NumPivots())
	assert.Equal(t, []float64{10}, idx.Radii())

	for i := range pivots {
		assert.Zero(t, idx.PivotDistance(i, i))
		for j := range pivots {
			assert.Equal(t, idx.PivotDistance(i, j), idx.PivotDistance(j, i))
		}
	}
	assert.InDelta(t, 5.0, idx.PivotDistance(1, 2), 1e-12)
	assert.InDelta(t, 4.0, idx.PivotDistance(0, 2), 1e-12)
	assert.Equal(t, []float64{3, 4}, idx.Pivot(3))
}

func TestNew_CopiesInputs(t *testing.T) {
	radii := []float64{1, 2}
	pivots := [][]float64{{0}, {1}}
	idx, err := New(distance.Euclidean, pivots, radii)
	require.NoError(t, err)

	radii[1] = 100
	pivots[0] = []float64{50}
	assert.Equal(t, []float64{1, 2}, idx.Radii())
	assert.Equal(t, []float64{0}, idx.Pivot(0))
}

func TestLifecycle_Sequencing(t *testing.T) {
	ctx := context.Background()
	idx, err := New(distance.Euclidean, planePivots, planeRadii)
	require.NoError(t, err)

	_, err = idx.RangeSearch(ctx, []float64{0.5, 0.5}, 0.1)
	assert.ErrorIs(t, err, ErrNotFinalized)

	id, err := idx.Add(ctx, []float64{0.5, 0.5})
	require.NoError(t, err)
	assert.Equal(t, ID(0), id)
	assert.False(t, idx.Finalized())

	require.NoError(t, idx.Finalize())
	assert.True(t, idx.Finalized())
	assert.ErrorIs(t, idx.Finalize(), ErrAlreadyFinalized)

	_, err = idx.Add(ctx, []float64{0.1, 0.1})
	assert.ErrorIs(t, err, ErrFinalized)
	assert.Equal(t, 1, idx.Len())
}

func TestAdd_SequentialIDs(t *testing.T) {
	points := testutil.NewRNG(1).UniformPoints(20, 2)
	idx, err := New(distance.Euclidean, planePivots, planeRadii)
	require.NoError(t, err)

	ids, err := idx.AddBatch(context.Background(), points)
	require.NoError(t, err)
	require.Len(t, ids, 20)
	for i, id := range ids {
		assert.Equal(t, ID(i), id)
		v, ok := idx.Value(id)
		require.True(t, ok)
		assert.Equal(t, points[i], v)
	}

	_, ok := idx.Value(20)
	assert.False(t, ok)
}

func TestAdd_CanceledContext(t *testing.T) {
	idx, err := New(distance.Euclidean, planePivots, planeRadii)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = idx.Add(ctx, []float64{0.5, 0.5})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, idx.Len())
}

func TestAdd_CoverageReject(t *testing.T) {
	ctx := context.Background()
	idx, err := New(distance.Euclidean, planePivots, []float64{0.5, 1})
	require.NoError(t, err)

	_, err = idx.Add(ctx, []float64{0.2, 0.2})
	require.NoError(t, err)

	// (0.9, 0.9) is 1.27 from the origin pivot
	_, err = idx.Add(ctx, []float64{0.9, 0.9})
	var ce *ErrCoverage
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 0, ce.Pivot)
	assert.Equal(t, 1.0, ce.MaxRadius)
	assert.InDelta(t, math.Sqrt(2*0.81), ce.Distance, 1e-12)

	// rejected element left no trace
	assert.Equal(t, 1, idx.Len())
	for _, rs := range idx.RingStats() {
		total := rs.Overflow
		for _, n := range rs.Sizes {
			total += n
		}
		assert.Equal(t, 1, total)
	}
	for i := range idx.pools {
		for j := range idx.pools {
			if i != j {
				assert.False(t, idx.pools[i].Closer(j).Contains(1))
			}
		}
	}
}

func TestAdd_CoverageBoundary(t *testing.T) {
	idx, err := New(distance.Euclidean, [][]float64{{0}}, []float64{1, 2})
	require.NoError(t, err)

	_, err = idx.Add(context.Background(), []float64{2})
	var ce *ErrCoverage
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 2.0, ce.Distance)

	_, err = idx.Add(context.Background(), []float64{1.999})
	require.NoError(t, err)
}

func TestAdd_CoverageOverflow(t *testing.T) {
	idx, err := New(distance.Euclidean, planePivots, []float64{0.5}, WithCoveragePolicy(CoverageOverflow))
	require.NoError(t, err)

	_, err = idx.Add(context.Background(), []float64{0.9, 0.9})
	require.NoError(t, err)
	require.NoError(t, idx.Finalize())

	stats := idx.RingStats()
	require.Len(t, stats, 3)
	for _, rs := range stats {
		assert.Equal(t, []int{0}, rs.Sizes)
		assert.Equal(t, 1, rs.Overflow)
	}
}

func TestAdd_DistanceFailureLeavesIndexUnchanged(t *testing.T) {
	boom := errors.New("boom")
	fn := func(a, b []float64) (float64, error) {
		if a[0] < 0 || b[0] < 0 {
			return 0, boom
		}
		return distance.Euclidean(a, b)
	}

	idx, err := New(fn, planePivots, planeRadii)
	require.NoError(t, err)

	_, err = idx.Add(context.Background(), []float64{-1, 0})
	var de *ErrDistance
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "add", de.Op)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, idx.Len())

	t.Run("InvalidValue", func(t *testing.T) {
		nan := func(a, b []float64) (float64, error) { return math.NaN(), nil }
		bad, err := New(nan, [][]float64{{0}}, []float64{1})
		require.NoError(t, err)

		_, err = bad.Add(context.Background(), []float64{0.5})
		assert.ErrorIs(t, err, distance.ErrInvalidDistance)
		assert.Zero(t, bad.Len())
	})
}

func TestAddBatch_StopsAtFirstError(t *testing.T) {
	idx, err := New(distance.Euclidean, [][]float64{{0}}, []float64{1})
	require.NoError(t, err)

	ids, err := idx.AddBatch(context.Background(), [][]float64{{0.1}, {0.2}, {5}, {0.3}})
	var ce *ErrCoverage
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []ID{0, 1}, ids)
	assert.Equal(t, 2, idx.Len())
}

func TestRingPartitionInvariant(t *testing.T) {
	points := testutil.NewRNG(99).UniformPoints(500, 2)
	idx := newPlaneIndex(t, points)

	for i, pool := range idx.pools {
		for id, p := range points {
			d, err := distance.Euclidean(p, planePivots[i])
			require.NoError(t, err)

			hits := 0
			for r := range pool.NumRings() {
				ring := pool.Ring(r)
				if ring.Members().Contains(uint32(id)) {
					hits++
					lo, hi := ring.Bounds()
					assert.GreaterOrEqual(t, d, lo)
					assert.Less(t, d, hi)
				}
			}
			assert.Equal(t, 1, hits, "pivot %d element %d", i, id)
		}

		// balls are cumulative and the outermost covers everything
		for r := 1; r < pool.NumRings(); r++ {
			inner := pool.Ball(r - 1).Clone()
			inner.AndNot(pool.Ball(r))
			assert.True(t, inner.IsEmpty())
		}
		assert.Equal(t, uint64(len(points)), pool.Ball(pool.NumRings()-1).Cardinality())
	}
}

func TestCloserPartitions(t *testing.T) {
	points := [][]float64{{0.1, 0.1}, {0.9, 0.1}, {0.5, 0}, {0.1, 0.8}}
	idx := newPlaneIndex(t, points)

	// pivots 0=(0,0) and 1=(1,0)
	assert.Equal(t, []uint32{0, 3}, idx.pools[0].Closer(1).ToArray())
	assert.Equal(t, []uint32{1}, idx.pools[1].Closer(0).ToArray())
	// (0.5, 0) is equidistant and belongs to neither side
	assert.False(t, idx.pools[0].Closer(1).Contains(2))
	assert.False(t, idx.pools[1].Closer(0).Contains(2))
}
