package pivotring

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/hupe1980/pivotring/distance"
	"github.com/hupe1980/pivotring/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	idx, err := New(distance.Euclidean, planePivots, []float64{0.5}, WithLogger(logger), WithCoveragePolicy(CoverageOverflow))
	require.NoError(t, err)

	_, err = idx.Add(context.Background(), []float64{0.9, 0.9})
	require.NoError(t, err)
	require.NoError(t, idx.Finalize())

	_, err = idx.RangeSearch(context.Background(), []float64{0.5, 0.5}, 0.1)
	require.NoError(t, err)

	_, err = idx.RangeSearch(context.Background(), []float64{0.5, 0.5}, -1)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "add completed")
	assert.Contains(t, out, "element beyond largest radius")
	assert.Contains(t, out, "index finalized")
	assert.Contains(t, out, `"overflow":3`)
	assert.Contains(t, out, "range search completed")
	assert.Contains(t, out, "range search failed")
	assert.Contains(t, out, `"pivots":3`)
}

func TestMetricsCollector(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}

	points := testutil.NewRNG(31).UniformPoints(200, 2)
	idx, err := New(distance.Euclidean, planePivots, planeRadii, WithMetricsCollector(metrics))
	require.NoError(t, err)

	_, err = idx.AddBatch(ctx, points)
	require.NoError(t, err)
	_, err = idx.Add(ctx, []float64{1})
	require.Error(t, err)
	require.NoError(t, idx.Finalize())

	var stats SearchStats
	_, err = idx.RangeSearch(ctx, []float64{0.5, 0.5}, 0.1, WithStats(&stats))
	require.NoError(t, err)
	_, err = idx.RangeSearch(ctx, []float64{0.5, 0.5}, 10)
	require.NoError(t, err)
	_, err = idx.RangeSearch(ctx, []float64{0.5}, 0.1)
	require.Error(t, err)

	s := metrics.GetStats()
	assert.Equal(t, int64(201), s.AddCount)
	assert.Equal(t, int64(1), s.AddErrors)
	assert.Equal(t, int64(200), s.FinalizedValues)
	assert.Equal(t, int64(3), s.SearchCount)
	assert.Equal(t, int64(1), s.SearchErrors)
	assert.Equal(t, int64(1), s.BruteForceQueries)
	assert.Equal(t, stats.DistanceCalls()+int64(3+len(points)), metrics.DistanceCalls.Load())
	assert.Positive(t, s.AvgDistanceCalls)
}

func TestNoopCollectorsAndLoggers(t *testing.T) {
	idx, err := New(distance.Euclidean, planePivots, planeRadii, WithLogger(nil), WithMetricsCollector(nil))
	require.NoError(t, err)
	_, err = idx.Add(context.Background(), []float64{0.2, 0.2})
	require.NoError(t, err)
	require.NoError(t, idx.Finalize())

	NoopMetricsCollector{}.RecordSearch(SearchStats{}, 0, nil)
	assert.NotNil(t, NewTextLogger(slog.LevelInfo))
	assert.NotNil(t, NewJSONLogger(slog.LevelInfo))
	assert.NotNil(t, NewLogger(nil))
}

func TestOptionStrings(t *testing.T) {
	assert.Equal(t, "linear", HyperplaneLinear.String())
	assert.Equal(t, "four-point", HyperplaneFourPoint.String())
	assert.Equal(t, "none", HyperplaneNone.String())
	assert.Equal(t, "unknown", HyperplaneMode(42).String())
}
