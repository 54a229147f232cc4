package resource

import (
	"context"

	"github.com/hupe1980/pivotring/distance"
)

// Throttle wraps fn so that every call first waits for the controller's
// distance budget. The wait is bound to ctx; a canceled context surfaces as
// the distance error.
func Throttle[T any](ctx context.Context, fn distance.Func[T], rc *Controller) distance.Func[T] {
	if rc == nil || rc.distLimiter == nil {
		return fn
	}
	return func(a, b T) (float64, error) {
		if err := rc.AcquireDistance(ctx, 1); err != nil {
			return 0, err
		}
		return fn(a, b)
	}
}
