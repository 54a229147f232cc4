// Package resource bounds the work that range queries may consume.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxQueryWorkers is the maximum number of query worker goroutines
	// running at once across every query sharing the controller.
	// If 0, defaults to 1.
	MaxQueryWorkers int64

	// DistanceCallsPerSec throttles exact verification distance calls.
	// Useful when the distance function is expensive or remote.
	// If 0, unlimited.
	DistanceCallsPerSec int64

	// DistanceBurst is the burst size of the distance throttle.
	// If 0, defaults to DistanceCallsPerSec.
	DistanceBurst int
}

// Controller manages shared query resources (workers, distance budget).
// A nil *Controller imposes no limits.
type Controller struct {
	cfg Config

	// Concurrency
	workerSem    *semaphore.Weighted
	workersInUse atomic.Int64

	// Distance budget
	distLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxQueryWorkers <= 0 {
		cfg.MaxQueryWorkers = 1
	}

	c := &Controller{
		cfg:       cfg,
		workerSem: semaphore.NewWeighted(cfg.MaxQueryWorkers),
	}

	if cfg.DistanceCallsPerSec > 0 {
		burst := cfg.DistanceBurst
		if burst <= 0 {
			burst = int(cfg.DistanceCallsPerSec)
		}
		c.distLimiter = rate.NewLimiter(rate.Limit(cfg.DistanceCallsPerSec), burst)
	}

	return c
}

// MaxWorkers returns the configured worker limit, or 0 for a nil controller.
func (c *Controller) MaxWorkers() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MaxQueryWorkers
}

// AcquireWorker reserves a query worker slot.
// Blocks until a slot is free or ctx is canceled.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.workerSem.Acquire(ctx, 1); err != nil {
		return err
	}
	c.workersInUse.Add(1)
	return nil
}

// ReleaseWorker releases a worker slot.
func (c *Controller) ReleaseWorker() {
	if c == nil {
		return
	}
	c.workersInUse.Add(-1)
	c.workerSem.Release(1)
}

// WorkersInUse returns the number of reserved worker slots.
func (c *Controller) WorkersInUse() int64 {
	if c == nil {
		return 0
	}
	return c.workersInUse.Load()
}

// AcquireDistance waits until the distance budget allows n calls.
func (c *Controller) AcquireDistance(ctx context.Context, n int) error {
	if c == nil || c.distLimiter == nil || n <= 0 {
		return nil
	}
	return c.distLimiter.WaitN(ctx, n)
}
