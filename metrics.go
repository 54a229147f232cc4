package pivotring

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordAdd is called after each add operation.
	// duration is the total time taken, err is nil if successful.
	RecordAdd(duration time.Duration, err error)

	// RecordFinalize is called once when the build phase ends.
	RecordFinalize(numValues int, duration time.Duration)

	// RecordSearch is called after each range search with the pruning
	// statistics of that query.
	RecordSearch(stats SearchStats, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(time.Duration, error)                 {}
func (NoopMetricsCollector) RecordFinalize(int, time.Duration)              {}
func (NoopMetricsCollector) RecordSearch(SearchStats, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and benchmarking pruning effectiveness.
type BasicMetricsCollector struct {
	AddCount          atomic.Int64
	AddErrors         atomic.Int64
	AddTotalNanos     atomic.Int64
	FinalizedValues   atomic.Int64
	SearchCount       atomic.Int64
	SearchErrors      atomic.Int64
	SearchTotalNanos  atomic.Int64
	DistanceCalls     atomic.Int64
	CandidateCount    atomic.Int64
	ResultCount       atomic.Int64
	BruteForceQueries atomic.Int64
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(duration time.Duration, err error) {
	b.AddCount.Add(1)
	b.AddTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AddErrors.Add(1)
	}
}

// RecordFinalize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFinalize(numValues int, _ time.Duration) {
	b.FinalizedValues.Store(int64(numValues))
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(stats SearchStats, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
		return
	}
	b.DistanceCalls.Add(stats.DistanceCalls())
	b.CandidateCount.Add(int64(stats.Candidates))
	b.ResultCount.Add(int64(stats.Results))
	if stats.BruteForce {
		b.BruteForceQueries.Add(1)
	}
}

// MetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type MetricsStats struct {
	AddCount          int64
	AddErrors         int64
	AvgAddLatency     time.Duration
	FinalizedValues   int64
	SearchCount       int64
	SearchErrors      int64
	AvgSearchLatency  time.Duration
	AvgDistanceCalls  float64
	AvgCandidates     float64
	BruteForceQueries int64
}

// GetStats returns a snapshot of the collected metrics.
func (b *BasicMetricsCollector) GetStats() MetricsStats {
	s := MetricsStats{
		AddCount:          b.AddCount.Load(),
		AddErrors:         b.AddErrors.Load(),
		FinalizedValues:   b.FinalizedValues.Load(),
		SearchCount:       b.SearchCount.Load(),
		SearchErrors:      b.SearchErrors.Load(),
		BruteForceQueries: b.BruteForceQueries.Load(),
	}
	if s.AddCount > 0 {
		s.AvgAddLatency = time.Duration(b.AddTotalNanos.Load() / s.AddCount)
	}
	if s.SearchCount > 0 {
		s.AvgSearchLatency = time.Duration(b.SearchTotalNanos.Load() / s.SearchCount)
	}
	if ok := s.SearchCount - s.SearchErrors; ok > 0 {
		s.AvgDistanceCalls = float64(b.DistanceCalls.Load()) / float64(ok)
		s.AvgCandidates = float64(b.CandidateCount.Load()) / float64(ok)
	}
	return s
}
