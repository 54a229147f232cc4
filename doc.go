// Package pivotring provides an exact range-search index for arbitrary
// metric spaces.
//
// The index needs no coordinates: it only calls a distance function that is
// symmetric, non-negative and satisfies the triangle inequality. Each pivot
// partitions the dataset into distance rings; each pivot pair partitions it
// by which pivot is closer. A query turns these partitions into compressed
// bitmaps of ids that must or cannot hold a result, combines them, and then
// verifies the surviving candidates with exact distance calls.
//
// # Quick Start
//
//	pivots := [][]float64{{0, 0}, {1, 0}, {0, 1}}
//	idx, _ := pivotring.New(distance.Euclidean, pivots, []float64{0.1, 0.2, 0.4, 1.5})
//
//	for _, p := range points {
//	    idx.Add(ctx, p)
//	}
//	idx.Finalize()
//
//	matches, _ := idx.RangeSearch(ctx, []float64{0.5, 0.5}, 0.05)
//	for _, m := range matches {
//	    fmt.Println(m.ID, m.Distance)
//	}
//
// # Lifecycle
//
// Add and Finalize form the single-threaded build phase. Add after Finalize
// fails with ErrFinalized; queries before Finalize fail with ErrNotFinalized.
// A finalized index is read-only and safe for concurrent queries.
//
// # Radii
//
// The largest radius must cover the largest element-to-pivot distance. By
// default Add rejects elements beyond it (CoverageReject); CoverageOverflow
// keeps them in an unbounded outer band instead.
//
// # Pruning
//
// For a query q with threshold t and a pivot p, the ball of radius r around
// p cannot hold a result if d(q,p) > r + t, and holds every result if
// d(q,p) <= r - t. For pivots p_i, p_j the elements closer to p_j cannot hold
// a result if d(q,p_j) - d(q,p_i) > 2t (HyperplaneLinear), or, for
// distances with the four-point property, if
// (d(q,p_j)² - d(q,p_i)²) / d(p_i,p_j) > 2t (HyperplaneFourPoint).
//
// # Instrumentation
//
// WithDistanceCounter and WithStats report the work of a single query;
// WithMetricsCollector aggregates over all operations.
package pivotring
