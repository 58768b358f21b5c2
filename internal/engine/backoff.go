package engine

import (
	"math/rand"
	"time"
)

// backoffWait implements the per-list backoff schedule of spec
// section 4.4 exactly, including its non-deterministic middle tiers;
// only errors==1 and errors>=6 are required to be exactly
// deterministic by spec section 8 property 5, and both are handled
// without touching rnd.
func backoffWait(errors int, rnd *rand.Rand) time.Duration {
	switch {
	case errors <= 1:
		return 60 * time.Second
	case errors == 2:
		return randMinutes(rnd, 30, 60)
	case errors == 3:
		return randMinutes(rnd, 60, 120)
	case errors == 4:
		return randMinutes(rnd, 120, 240)
	case errors == 5:
		return randMinutes(rnd, 240, 480)
	default:
		return 480 * time.Minute
	}
}

func randMinutes(rnd *rand.Rand, lo, hi int) time.Duration {
	return time.Duration(lo+rnd.Intn(hi-lo+1)) * time.Minute
}
