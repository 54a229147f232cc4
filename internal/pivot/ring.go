package pivot

import (
	"fmt"

	"github.com/hupe1980/pivotring/internal/bitmap"
)

// Ring is a distance band [min, max) around one pivot.
type Ring struct {
	index   int
	min     float64
	max     float64
	members *bitmap.Bitmap
}

func newRing(index int, lo, hi float64) *Ring {
	return &Ring{
		index:   index,
		min:     lo,
		max:     hi,
		members: bitmap.New(),
	}
}

// Index returns the position of the ring inside its pool, innermost first.
func (r *Ring) Index() int { return r.index }

// Bounds returns the half-open distance interval covered by the ring.
func (r *Ring) Bounds() (lo, hi float64) { return r.min, r.max }

// Covers reports whether d falls inside [min, max).
func (r *Ring) Covers(d float64) bool {
	return d >= r.min && d < r.max
}

// Members returns the ids whose distance to the pivot lies in the band.
// The bitmap is owned by the ring and must not be modified.
func (r *Ring) Members() *bitmap.Bitmap { return r.members }

// Len returns the number of ids in the ring.
func (r *Ring) Len() int { return int(r.members.Cardinality()) }

func (r *Ring) String() string {
	return fmt.Sprintf("ring[%d][%g,%g) n=%d", r.index, r.min, r.max, r.Len())
}
