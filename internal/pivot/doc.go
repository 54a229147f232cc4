// Package pivot implements distance rings and pivot pools.
//
// A Pool partitions the dataset by distance from one pivot. Its rings are
// disjoint, contiguous annuli [r_{i-1}, r_i) holding element ids. Once the
// build phase ends, Finalize derives cumulative balls {s : d(s,p) < r_i} by a
// prefix-OR over the rings. Radius pruning reads balls only; rings stay exact
// annuli for the partition invariant.
//
// A Pool also keeps one closer-than partition per other pivot j: the ids
// strictly closer to this pivot than to pivot j. Equidistant ids belong to
// neither side of the pair.
package pivot
