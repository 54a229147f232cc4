package pivot

import (
	"sort"

	"github.com/hupe1980/pivotring/internal/bitmap"
)

// Pool owns one pivot's rings and closer-than partitions.
type Pool struct {
	pivot    int
	radii    []float64
	rings    []*Ring
	overflow *bitmap.Bitmap

	// closer[j] holds ids strictly closer to this pivot than to pivot j.
	// closer[pivot] is nil.
	closer []*bitmap.Bitmap

	// balls[i] is the union of rings[0..i]; nil until Finalize.
	balls []*bitmap.Bitmap
}

// NewPool creates the pool of pivot index pivot out of numPivots.
// The radii slice is shared and must not be modified afterwards.
func NewPool(pivot, numPivots int, radii []float64) *Pool {
	p := &Pool{
		pivot:    pivot,
		radii:    radii,
		rings:    make([]*Ring, len(radii)),
		overflow: bitmap.New(),
		closer:   make([]*bitmap.Bitmap, numPivots),
	}

	lo := 0.0
	for i, hi := range radii {
		p.rings[i] = newRing(i, lo, hi)
		lo = hi
	}

	for j := range p.closer {
		if j != pivot {
			p.closer[j] = bitmap.New()
		}
	}

	return p
}

// Pivot returns the index of the pool's pivot.
func (p *Pool) Pivot() int { return p.pivot }

// NumRings returns the number of rings.
func (p *Pool) NumRings() int { return len(p.rings) }

// Ring returns ring i.
func (p *Pool) Ring(i int) *Ring { return p.rings[i] }

// MaxRadius returns the outer bound of the outermost ring.
func (p *Pool) MaxRadius() float64 { return p.radii[len(p.radii)-1] }

// Locate returns the index of the ring covering distance d.
// ok is false when d lies at or beyond the largest radius.
func (p *Pool) Locate(d float64) (i int, ok bool) {
	i = sort.Search(len(p.radii), func(i int) bool { return d < p.radii[i] })
	return i, i < len(p.radii)
}

// Add places id in the ring covering d. It reports false, and stores
// nothing, when no ring covers d.
func (p *Pool) Add(id uint32, d float64) bool {
	i, ok := p.Locate(d)
	if !ok {
		return false
	}
	p.rings[i].members.Add(id)
	return true
}

// AddOverflow records id as lying beyond the largest radius.
func (p *Pool) AddOverflow(id uint32) {
	p.overflow.Add(id)
}

// Overflow returns the ids beyond the largest radius.
func (p *Pool) Overflow() *bitmap.Bitmap { return p.overflow }

// MarkCloser records id as strictly closer to this pivot than to pivot other.
func (p *Pool) MarkCloser(other int, id uint32) {
	p.closer[other].Add(id)
}

// Closer returns the ids strictly closer to this pivot than to pivot other.
func (p *Pool) Closer(other int) *bitmap.Bitmap { return p.closer[other] }

// Finalize computes the cumulative balls. It must be called exactly once,
// after the last Add.
func (p *Pool) Finalize() {
	p.balls = make([]*bitmap.Bitmap, len(p.rings))
	acc := bitmap.New()
	for i, r := range p.rings {
		r.members.Optimize()
		acc.Or(r.members)
		ball := acc.Clone()
		ball.Optimize()
		p.balls[i] = ball
	}
	for _, c := range p.closer {
		if c != nil {
			c.Optimize()
		}
	}
}

// Ball returns the ids with distance to the pivot below radius i.
func (p *Pool) Ball(i int) *bitmap.Bitmap { return p.balls[i] }

// ExclusionBall returns the largest ball whose members are all farther than
// threshold from a query at distance dq from the pivot: r_i + threshold < dq.
func (p *Pool) ExclusionBall(dq, threshold float64) (*bitmap.Bitmap, int, bool) {
	i := sort.Search(len(p.radii), func(i int) bool { return !Exceeds(dq, p.radii[i]+threshold) }) - 1
	if i < 0 {
		return nil, -1, false
	}
	return p.balls[i], i, true
}

// InclusionBall returns the smallest ball that contains every element within
// threshold of a query at distance dq from the pivot: dq + threshold < r_i.
func (p *Pool) InclusionBall(dq, threshold float64) (*bitmap.Bitmap, int, bool) {
	i := sort.Search(len(p.radii), func(i int) bool { return Exceeds(p.radii[i], dq+threshold) })
	if i == len(p.radii) {
		return nil, -1, false
	}
	return p.balls[i], i, true
}

// RingSizes returns the cardinality of every ring, innermost first.
func (p *Pool) RingSizes() []int {
	sizes := make([]int, len(p.rings))
	for i, r := range p.rings {
		sizes[i] = r.Len()
	}
	return sizes
}
