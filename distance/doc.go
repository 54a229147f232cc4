// Package distance defines the distance function contract consumed by the
// pivot-ring index, plus a handful of stock metrics.
//
// A distance function must be symmetric and non-negative, return zero for
// identical inputs and satisfy the triangle inequality. Functions may fail;
// the index propagates failures to the caller unchanged.
//
// # Supported Metrics
//
//   - Euclidean: L2 distance over []float64 (also satisfies the four-point property)
//   - Manhattan: L1 distance over []float64
//   - Chebyshev: L∞ distance over []float64
//   - Levenshtein: edit distance over strings
//   - Jaccard: 1 - |A∩B|/|A∪B| over string sets
//
// # Instrumentation
//
// Counting wraps any Func and counts invocations into a caller-owned Counter.
// Counters are values, not globals, so concurrent queries keep separate counts:
//
//	var c distance.Counter
//	fn := distance.Counting(distance.Euclidean, &c)
//	_, _ = fn(a, b)
//	fmt.Println(c.Load()) // 1
package distance
