package bitmap

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Bitmap is a compressed set of element ids.
type Bitmap struct {
	rb *roaring.Bitmap
}

// New creates a new empty bitmap.
func New() *Bitmap {
	return &Bitmap{
		rb: roaring.New(),
	}
}

// Of creates a bitmap holding the given ids.
func Of(ids ...uint32) *Bitmap {
	return &Bitmap{
		rb: roaring.BitmapOf(ids...),
	}
}

// Universe returns the full set [0, size).
func Universe(size uint32) *Bitmap {
	b := New()
	b.rb.AddRange(0, uint64(size))
	return b
}

// Add inserts id into the bitmap.
func (b *Bitmap) Add(id uint32) {
	b.rb.Add(id)
}

// Contains reports whether id is in the bitmap.
func (b *Bitmap) Contains(id uint32) bool {
	return b.rb.Contains(id)
}

// IsEmpty returns true if the bitmap is empty.
func (b *Bitmap) IsEmpty() bool {
	return b.rb.IsEmpty()
}

// Cardinality returns the number of ids in the bitmap.
func (b *Bitmap) Cardinality() uint64 {
	return b.rb.GetCardinality()
}

// Clone returns a deep copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{
		rb: b.rb.Clone(),
	}
}

// Equals reports whether both bitmaps hold the same ids.
func (b *Bitmap) Equals(other *Bitmap) bool {
	return b.rb.Equals(other.rb)
}

// Or computes the union in place.
func (b *Bitmap) Or(other *Bitmap) {
	b.rb.Or(other.rb)
}

// And computes the intersection in place.
func (b *Bitmap) And(other *Bitmap) {
	b.rb.And(other.rb)
}

// AndNot removes every id of other in place.
func (b *Bitmap) AndNot(other *Bitmap) {
	b.rb.AndNot(other.rb)
}

// Optimize converts containers to run-length encoding where it saves space.
func (b *Bitmap) Optimize() {
	b.rb.RunOptimize()
}

// ToArray returns the ids in ascending order.
func (b *Bitmap) ToArray() []uint32 {
	return b.rb.ToArray()
}

// GetSizeInBytes returns the size of the bitmap in bytes.
func (b *Bitmap) GetSizeInBytes() uint64 {
	return b.rb.GetSizeInBytes()
}

// AndAll intersects all bitmaps into a new bitmap. The inputs are not
// modified. AndAll of nothing is the empty set.
func AndAll(bitmaps ...*Bitmap) *Bitmap {
	switch len(bitmaps) {
	case 0:
		return New()
	case 1:
		return bitmaps[0].Clone()
	}
	return &Bitmap{rb: roaring.FastAnd(unwrap(bitmaps)...)}
}

// OrAll unites all bitmaps into a new bitmap. The inputs are not modified.
func OrAll(bitmaps ...*Bitmap) *Bitmap {
	switch len(bitmaps) {
	case 0:
		return New()
	case 1:
		return bitmaps[0].Clone()
	}
	return &Bitmap{rb: roaring.FastOr(unwrap(bitmaps)...)}
}

func unwrap(bitmaps []*Bitmap) []*roaring.Bitmap {
	out := make([]*roaring.Bitmap, len(bitmaps))
	for i, b := range bitmaps {
		out[i] = b.rb
	}
	return out
}
