package pivotring

import (
	"github.com/hupe1980/pivotring/distance"
	"github.com/hupe1980/pivotring/resource"
)

// HyperplaneMode selects the pairwise pivot partition test.
type HyperplaneMode int

const (
	// HyperplaneLinear excludes a partition when d(q,p_j) - d(q,p_i) > 2t.
	// Valid for every metric.
	HyperplaneLinear HyperplaneMode = iota
	// HyperplaneFourPoint excludes a partition when
	// (d(q,p_j)² - d(q,p_i)²) / d(p_i,p_j) > 2t. Tighter, but only valid for
	// distances with the four-point property (e.g. Euclidean).
	HyperplaneFourPoint
	// HyperplaneNone disables pairwise pruning.
	HyperplaneNone
)

func (m HyperplaneMode) String() string {
	switch m {
	case HyperplaneLinear:
		return "linear"
	case HyperplaneFourPoint:
		return "four-point"
	case HyperplaneNone:
		return "none"
	default:
		return "unknown"
	}
}

// CoveragePolicy decides what happens to an element farther from a pivot
// than the largest radius.
type CoveragePolicy int

const (
	// CoverageReject fails Add with *ErrCoverage and leaves the index unchanged.
	CoverageReject CoveragePolicy = iota
	// CoverageOverflow keeps the element in an unbounded outer band of the
	// pivot. Radius exclusion never removes it and radius inclusion always
	// does, so results stay exact.
	CoverageOverflow
)

type options struct {
	logger      *Logger
	metrics     MetricsCollector
	hyperplane  HyperplaneMode
	coverage    CoveragePolicy
	parallelism int
	resources   *resource.Controller
}

func defaultOptions() options {
	return options{
		logger:      NoopLogger(),
		metrics:     NoopMetricsCollector{},
		hyperplane:  HyperplaneLinear,
		coverage:    CoverageReject,
		parallelism: 1,
	}
}

// Option configures an Index.
type Option func(*options)

// WithLogger sets the logger. Pass nil to disable logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &pivotring.BasicMetricsCollector{}
//	idx, _ := pivotring.New(fn, pivots, radii, pivotring.WithMetricsCollector(metrics))
//	// ... perform operations ...
//	stats := metrics.GetStats()
//	fmt.Printf("Avg distance calls per query: %.1f\n", stats.AvgDistanceCalls)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithHyperplane selects the pairwise pruning test. Default HyperplaneLinear.
func WithHyperplane(mode HyperplaneMode) Option {
	return func(o *options) {
		o.hyperplane = mode
	}
}

// WithCoveragePolicy selects how elements beyond the largest radius are
// handled. Default CoverageReject.
func WithCoveragePolicy(p CoveragePolicy) Option {
	return func(o *options) {
		o.coverage = p
	}
}

// WithParallelism sets the default number of workers per query.
// Values <= 1 run queries on the calling goroutine.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = max(n, 1)
	}
}

// WithResourceController shares a resource controller between indexes.
// Every parallel query worker holds a slot from it while it runs; a query
// that runs on the calling goroutine takes no slot. Exact verification calls
// are throttled by its distance budget.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

type searchOptions struct {
	counter     *distance.Counter
	stats       *SearchStats
	parallelism int
}

// SearchOption configures a single range search.
type SearchOption func(*searchOptions)

// WithDistanceCounter counts every distance call made by the query into c.
// The counter belongs to the caller; concurrent queries may use separate
// counters without interfering.
func WithDistanceCounter(c *distance.Counter) SearchOption {
	return func(o *searchOptions) {
		o.counter = c
	}
}

// WithStats fills s with the pruning statistics of the query.
func WithStats(s *SearchStats) SearchOption {
	return func(o *searchOptions) {
		o.stats = s
	}
}

// WithSearchParallelism overrides the index parallelism for one query.
func WithSearchParallelism(n int) SearchOption {
	return func(o *searchOptions) {
		o.parallelism = max(n, 1)
	}
}
