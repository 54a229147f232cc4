// Package container implements container data structures.
package container

import (
	"sync"
	"sync/atomic"
)

const (
	// segmentBits determines the size of each segment.
	// 12 bits = 4096 items per segment.
	segmentBits = 12
	segmentSize = 1 << segmentBits
	segmentMask = segmentSize - 1
)

// SegmentedArray is an append-only array addressed by dense uint32 ids.
// Appends are serialized; reads are lock-free and never observe a moved
// element because full segments are never reallocated.
type SegmentedArray[T any] struct {
	segments atomic.Pointer[[]*Segment[T]]
	length   atomic.Uint32
	mu       sync.Mutex // Protects appends
}

// Segment is a fixed-size array of items.
type Segment[T any] struct {
	items [segmentSize]T
}

// NewSegmentedArray creates a new SegmentedArray.
func NewSegmentedArray[T any]() *SegmentedArray[T] {
	sa := &SegmentedArray[T]{}
	segments := make([]*Segment[T], 0)
	sa.segments.Store(&segments)
	return sa
}

// Len returns the number of appended items.
func (sa *SegmentedArray[T]) Len() int {
	return int(sa.length.Load())
}

// Get returns the item at the given index.
// Returns zero value and false if index is out of bounds.
func (sa *SegmentedArray[T]) Get(index uint32) (T, bool) {
	if index >= sa.length.Load() {
		var zero T
		return zero, false
	}
	segments := *sa.segments.Load()
	return segments[index>>segmentBits].items[index&segmentMask], true
}

// Append stores value at the next index and returns that index.
func (sa *SegmentedArray[T]) Append(value T) uint32 {
	sa.mu.Lock()
	defer sa.mu.Unlock()

	index := sa.length.Load()
	segIdx := int(index >> segmentBits)

	segments := *sa.segments.Load()
	if segIdx >= len(segments) {
		grown := make([]*Segment[T], segIdx+1)
		copy(grown, segments)
		grown[segIdx] = &Segment[T]{}
		sa.segments.Store(&grown)
		segments = grown
	}

	segments[segIdx].items[index&segmentMask] = value

	// Publish after the write so readers never see an unset slot.
	sa.length.Store(index + 1)
	return index
}
