package pivotring

import (
	"context"

	"github.com/hupe1980/pivotring/internal/bitmap"
	"github.com/hupe1980/pivotring/internal/pivot"
)

// masks collects the pruning bitmaps of one query. The bitmaps are shared
// with the pools and are never modified.
type masks struct {
	must   []*bitmap.Bitmap
	cannot []*bitmap.Bitmap
}

func (m *masks) merge(other masks) {
	m.must = append(m.must, other.must...)
	m.cannot = append(m.cannot, other.cannot...)
}

// pruneTask is either a single pivot (j < 0) or a pivot pair i < j.
type pruneTask struct {
	i, j int
}

func (idx *Index[T]) pruneTasks() []pruneTask {
	k := len(idx.pivots)
	tasks := make([]pruneTask, 0, k+k*(k-1)/2)
	for i := range k {
		tasks = append(tasks, pruneTask{i: i, j: -1})
	}
	if idx.opts.hyperplane != HyperplaneNone {
		for i := range k {
			for j := i + 1; j < k; j++ {
				tasks = append(tasks, pruneTask{i: i, j: j})
			}
		}
	}
	return tasks
}

// radiusMasks applies the pivot exclusion and inclusion rules of pivot i.
// Only the tightest ball of each rule is used.
func (idx *Index[T]) radiusMasks(m *masks, i int, dq, t float64) {
	pool := idx.pools[i]
	if ball, _, ok := pool.ExclusionBall(dq, t); ok {
		m.cannot = append(m.cannot, ball)
	}
	if ball, _, ok := pool.InclusionBall(dq, t); ok {
		m.must = append(m.must, ball)
	}
}

// hyperplaneMasks applies the generalized hyperplane test to pivots i < j.
// At most one side of the pair can be excluded.
func (idx *Index[T]) hyperplaneMasks(m *masks, i, j int, di, dj, t float64) {
	// towardI: the query lies deep on p_i's side; nothing closer to p_j
	// qualifies.
	var towardI, towardJ bool
	switch idx.opts.hyperplane {
	case HyperplaneFourPoint:
		// (dj² - di²) / D > 2t
		margin := 2 * t * idx.pivotDist[i][j]
		towardI = pivot.Exceeds(dj*dj, di*di+margin)
		towardJ = pivot.Exceeds(di*di, dj*dj+margin)
	case HyperplaneLinear:
		// dj - di > 2t
		towardI = pivot.Exceeds(dj, di+2*t)
		towardJ = pivot.Exceeds(di, dj+2*t)
	default:
		return
	}

	switch {
	case towardI:
		m.must = append(m.must, idx.pools[i].Closer(j))
	case towardJ:
		m.must = append(m.must, idx.pools[j].Closer(i))
	}
}

// collectMasks runs every per-pivot and per-pair test. With more than one
// worker the tests are sharded and the partial mask lists merged in shard
// order, so the outcome does not depend on scheduling.
func (idx *Index[T]) collectMasks(ctx context.Context, dq []float64, t float64, workers int) (masks, error) {
	tasks := idx.pruneTasks()
	shards := shard(len(tasks), workers, minPruneShard)
	partial := make([]masks, len(shards))

	err := idx.run(ctx, workers, len(shards), func(s int) error {
		local := &partial[s]
		for _, task := range tasks[shards[s].lo:shards[s].hi] {
			if task.j < 0 {
				idx.radiusMasks(local, task.i, dq[task.i], t)
			} else {
				idx.hyperplaneMasks(local, task.i, task.j, dq[task.i], dq[task.j], t)
			}
		}
		return nil
	})
	if err != nil {
		return masks{}, err
	}

	var m masks
	for _, p := range partial {
		m.merge(p)
	}
	return m, nil
}

// candidateMask combines the masks: AND(must) minus OR(cannot), within
// [0, universe). It reports bruteForce when no mask applied.
func candidateMask(m masks, universe uint32) (mask *bitmap.Bitmap, bruteForce bool) {
	if len(m.must) == 0 {
		mask = bitmap.Universe(universe)
	} else {
		mask = bitmap.AndAll(m.must...)
	}
	if len(m.cannot) > 0 {
		mask.AndNot(bitmap.OrAll(m.cannot...))
	}
	return mask, len(m.must) == 0 && len(m.cannot) == 0
}
