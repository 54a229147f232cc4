package pivotring

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPivots is returned when an index is created without pivots.
	ErrNoPivots = errors.New("at least one pivot is required")

	// ErrFinalized is returned when Add is called after Finalize.
	ErrFinalized = errors.New("index is finalized")

	// ErrAlreadyFinalized is returned when Finalize is called twice.
	ErrAlreadyFinalized = errors.New("index already finalized")

	// ErrNotFinalized is returned when a query is issued before Finalize.
	ErrNotFinalized = errors.New("index not finalized")

	// ErrInvalidThreshold is returned for negative or NaN query thresholds.
	ErrInvalidThreshold = errors.New("invalid threshold")

	// ErrIndexFull is returned when the id space is exhausted.
	ErrIndexFull = errors.New("index is full")
)

// ErrInvalidRadii indicates a radii vector that is empty, not strictly
// increasing, or holds a non-positive or non-finite radius.
type ErrInvalidRadii struct {
	Index int
	Value float64
}

func (e *ErrInvalidRadii) Error() string {
	if e.Index < 0 {
		return "invalid radii: empty"
	}
	return fmt.Sprintf("invalid radii: radius %d = %g is not positive, finite and strictly increasing", e.Index, e.Value)
}

// ErrDuplicatePivot indicates two pivots at distance zero from each other.
type ErrDuplicatePivot struct {
	I, J int
}

func (e *ErrDuplicatePivot) Error() string {
	return fmt.Sprintf("duplicate pivots: %d and %d are at distance 0", e.I, e.J)
}

// ErrCoverage indicates an element farther from a pivot than the largest
// radius. Under CoverageReject the element is not added.
type ErrCoverage struct {
	Pivot     int
	Distance  float64
	MaxRadius float64
}

func (e *ErrCoverage) Error() string {
	return fmt.Sprintf("element at distance %g from pivot %d exceeds largest radius %g", e.Distance, e.Pivot, e.MaxRadius)
}

// ErrDistance wraps a failure of the distance function, or an invalid value
// returned by it. The original error is available via errors.Unwrap.
type ErrDistance struct {
	Op    string
	cause error
}

func (e *ErrDistance) Error() string {
	return fmt.Sprintf("%s: distance: %v", e.Op, e.cause)
}

func (e *ErrDistance) Unwrap() error { return e.cause }
