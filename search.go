package pivotring

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/hupe1980/pivotring/distance"
	"github.com/hupe1980/pivotring/resource"
	"golang.org/x/sync/errgroup"
)

const (
	// minPruneShard is the smallest number of pivot/pair tests per shard.
	minPruneShard = 64
	// minVerifyShard is the smallest number of candidates per shard.
	minVerifyShard = 256
)

// RangeSearch returns every pivot and element strictly closer than threshold
// to query. Results are exact and sorted by distance.
//
// Example:
//
//	var calls distance.Counter
//	matches, err := idx.RangeSearch(ctx, query, 0.05, pivotring.WithDistanceCounter(&calls))
func (idx *Index[T]) RangeSearch(ctx context.Context, query T, threshold float64, optFns ...SearchOption) ([]Match[T], error) {
	return idx.Search(ctx, NewRangeQuery(query, threshold), optFns...)
}

// Search executes a range query.
func (idx *Index[T]) Search(ctx context.Context, q RangeQuery[T], optFns ...SearchOption) ([]Match[T], error) {
	start := time.Now()

	so := searchOptions{parallelism: idx.opts.parallelism}
	for _, opt := range optFns {
		opt(&so)
	}

	var stats SearchStats
	matches, err := idx.search(ctx, q, so, &stats)

	elapsed := time.Since(start)
	if so.stats != nil {
		*so.stats = stats
	}
	idx.opts.metrics.RecordSearch(stats, elapsed, err)
	idx.logger.LogSearch(ctx, q.Threshold, stats, elapsed, err)

	if err != nil {
		return nil, err
	}
	return matches, nil
}

func (idx *Index[T]) search(ctx context.Context, q RangeQuery[T], so searchOptions, stats *SearchStats) ([]Match[T], error) {
	if !idx.finalized.Load() {
		return nil, ErrNotFinalized
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fn := distance.Counting(idx.dist, so.counter)
	t := q.Threshold

	// Step 1: distances to every pivot.
	dq := make([]float64, len(idx.pivots))
	for i, p := range idx.pivots {
		d, err := measure(fn, q.Value, p)
		if err != nil {
			return nil, &ErrDistance{Op: "search", cause: err}
		}
		dq[i] = d
	}
	stats.PivotDistanceCalls = len(dq)

	// Steps 2-3: radius and hyperplane masks.
	m, err := idx.collectMasks(ctx, dq, t, so.parallelism)
	if err != nil {
		return nil, err
	}
	stats.MustBeIn = len(m.must)
	stats.CannotBeIn = len(m.cannot)

	// Step 4: candidate mask.
	mask, brute := candidateMask(m, idx.numValues)
	stats.BruteForce = brute
	candidates := mask.ToArray()
	stats.Candidates = len(candidates)

	// Step 5: exact verification.
	matches, err := idx.verify(ctx, fn, q, candidates, so.parallelism)
	if err != nil {
		return nil, err
	}
	stats.VerifyDistanceCalls = len(candidates)

	matches = idx.mergePivotHits(matches, dq, t, stats)
	sortMatches(matches)
	stats.Results = len(matches)
	return matches, nil
}

// verify computes the exact distance of every candidate, sharded across
// workers. Shard results are concatenated in shard order.
func (idx *Index[T]) verify(ctx context.Context, fn distance.Func[T], q RangeQuery[T], candidates []uint32, workers int) ([]Match[T], error) {
	shards := shard(len(candidates), workers, minVerifyShard)
	partial := make([][]Match[T], len(shards))

	err := idx.run(ctx, workers, len(shards), func(s int) error {
		check := resource.Throttle(ctx, fn, idx.opts.resources)
		for _, id := range candidates[shards[s].lo:shards[s].hi] {
			value, _ := idx.values.Get(id)
			d, err := measure(check, q.Value, value)
			if err != nil {
				return &ErrDistance{Op: "search", cause: err}
			}
			if d < q.Threshold {
				partial[s] = append(partial[s], Match[T]{
					Value:    value,
					Distance: d,
					ID:       ID(id),
					Indexed:  true,
					Pivot:    -1,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return slices.Concat(partial...), nil
}

// mergePivotHits adds the pivots within the threshold. A pivot that was also
// added as an element is reported once, on its element match.
func (idx *Index[T]) mergePivotHits(matches []Match[T], dq []float64, t float64, stats *SearchStats) []Match[T] {
	for i, d := range dq {
		if !(d < t) {
			continue
		}
		stats.PivotHits++

		alias := idx.aliases[i]
		if alias < 0 {
			matches = append(matches, Match[T]{
				Value:    idx.pivots[i],
				Distance: d,
				Pivot:    i,
			})
			continue
		}

		pos := slices.IndexFunc(matches, func(m Match[T]) bool { return m.Indexed && int64(m.ID) == alias })
		if pos >= 0 {
			matches[pos].Pivot = i
			continue
		}
		value, _ := idx.values.Get(uint32(alias))
		matches = append(matches, Match[T]{
			Value:    value,
			Distance: d,
			ID:       ID(alias),
			Indexed:  true,
			Pivot:    i,
		})
	}
	return matches
}

func sortMatches[T any](matches []Match[T]) {
	slices.SortFunc(matches, func(a, b Match[T]) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		if a.Indexed != b.Indexed {
			if !a.Indexed {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.ID, b.ID); c != 0 {
			return c
		}
		return cmp.Compare(a.Pivot, b.Pivot)
	})
}

type span struct {
	lo, hi int
}

// shard splits n items into contiguous spans for up to workers goroutines,
// keeping at least minSize items per span.
func shard(n, workers, minSize int) []span {
	if n == 0 {
		return nil
	}
	count := 1
	if workers > 1 {
		// oversubscribe so a slow span does not hold the whole query
		count = min(workers*4, max(n/minSize, 1))
	}
	size := (n + count - 1) / count

	spans := make([]span, 0, count)
	for lo := 0; lo < n; lo += size {
		spans = append(spans, span{lo: lo, hi: min(lo+size, n)})
	}
	return spans
}

// run executes fn for every shard. A single shard runs on the calling
// goroutine; otherwise an errgroup with at most workers goroutines is used,
// each holding a worker slot of the resource controller.
func (idx *Index[T]) run(ctx context.Context, workers, shards int, fn func(s int) error) error {
	if shards == 0 {
		return nil
	}
	if shards == 1 || workers <= 1 {
		for s := range shards {
			if err := fn(s); err != nil {
				return err
			}
		}
		return nil
	}

	rc := idx.opts.resources
	if limit := rc.MaxWorkers(); limit > 0 && int64(workers) > limit {
		// more goroutines would only queue on the controller
		workers = int(limit)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for s := range shards {
		g.Go(func() error {
			if err := rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer rc.ReleaseWorker()
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(s)
		})
	}
	return g.Wait()
}
