package pivot

import "math"

// tolerance is the relative margin a pruning comparison must clear. Computed
// distances satisfy the triangle inequality only up to rounding, so a test
// that holds by less than this margin is treated as undecided.
const tolerance = 1e-9

// Exceeds reports whether a > b by more than the rounding tolerance relative
// to the larger magnitude. A false result never prunes.
func Exceeds(a, b float64) bool {
	return a-b > tolerance*max(math.Abs(a), math.Abs(b))
}
