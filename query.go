package pivotring

import (
	"fmt"
	"math"
)

// ID identifies an element of the index. IDs are dense and assigned in Add
// order starting at 0.
type ID uint32

// RangeQuery asks for every element strictly closer than Threshold to Value.
type RangeQuery[T any] struct {
	Value     T
	Threshold float64
}

// NewRangeQuery creates a range query.
func NewRangeQuery[T any](value T, threshold float64) RangeQuery[T] {
	return RangeQuery[T]{Value: value, Threshold: threshold}
}

// Validate checks the threshold.
func (q RangeQuery[T]) Validate() error {
	if math.IsNaN(q.Threshold) || q.Threshold < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, q.Threshold)
	}
	return nil
}

// Match is one result of a range search.
type Match[T any] struct {
	// Value is the matching element or pivot.
	Value T
	// Distance is the exact distance to the query.
	Distance float64
	// ID is the element id; only meaningful when Indexed is true.
	ID ID
	// Indexed reports whether the match is an element added to the index.
	// A pivot that was never added as an element has Indexed == false.
	Indexed bool
	// Pivot is the index of the pivot this match is, or -1.
	Pivot int
}

// IsPivot reports whether the match is one of the index pivots.
func (m Match[T]) IsPivot() bool { return m.Pivot >= 0 }

// SearchStats describes how much work a range search did.
type SearchStats struct {
	// PivotDistanceCalls is the number of query-to-pivot distance calls.
	PivotDistanceCalls int
	// VerifyDistanceCalls is the number of exact candidate checks.
	VerifyDistanceCalls int
	// MustBeIn is the number of masks every result has to belong to.
	MustBeIn int
	// CannotBeIn is the number of masks no result may belong to.
	CannotBeIn int
	// Candidates is the size of the candidate mask.
	Candidates int
	// PivotHits is the number of pivots within the threshold.
	PivotHits int
	// Results is the number of returned matches.
	Results int
	// BruteForce is set when no mask applied and every element was verified.
	BruteForce bool
}

// DistanceCalls returns the total number of distance calls.
func (s SearchStats) DistanceCalls() int64 {
	return int64(s.PivotDistanceCalls + s.VerifyDistanceCalls)
}

// PruningRatio returns the fraction of elements excluded without an exact
// distance call.
func (s SearchStats) PruningRatio(numValues int) float64 {
	if numValues == 0 {
		return 0
	}
	return 1 - float64(s.Candidates)/float64(numValues)
}
