package hashcache

import (
	"time"

	"github.com/listguard/urlguard/internal/scratch"
)

// errorWindow is the 5-minute elapsed-time gate spec section 4.6/9
// names for per-prefix error accounting.
const errorWindow = 5 * time.Minute

// backoffEntry mirrors scratch.PrefixErrorState; it is the value type
// of the in-memory read-through cache sitting in front of the scratch
// store so a hot lookup path doesn't round-trip to disk for every
// candidate prefix.
type backoffEntry = scratch.PrefixErrorState

// suppressed reports whether a prefix with error state s should be
// omitted from the outgoing gethash batch at time now, per the
// section 4.6 table. Per Open Question 1, this is reproduced exactly
// as specified rather than "fixed": errors==2 is unconditionally
// retryable even though errors==1 and errors==3 both gate on an
// elapsed-time window.
func suppressed(s backoffEntry, now time.Time) bool {
	switch {
	case s.Errors <= 0:
		return false
	case s.Errors == 1:
		return now.Before(s.Timestamp.Add(errorWindow))
	case s.Errors == 2:
		return false
	case s.Errors == 3:
		return now.Before(s.Timestamp.Add(30 * time.Minute))
	case s.Errors == 4:
		return now.Before(s.Timestamp.Add(60 * time.Minute))
	default:
		return now.Before(s.Timestamp.Add(120 * time.Minute))
	}
}

// onFailure advances a prefix's error state after a failed gethash
// round trip for it. The error count only increments once the
// elapsed-time window since the last recorded error has passed; a
// failure arriving inside that window is folded into the existing
// record without bumping the counter. This is the literal reading of
// Open Question 1 ("increments conditionally on elapsed time since
// the last error"), applied uniformly rather than guessing which
// tiers it governs.
func onFailure(prior backoffEntry, now time.Time) backoffEntry {
	if prior.Errors == 0 || !now.Before(prior.Timestamp.Add(errorWindow)) {
		return backoffEntry{Timestamp: now, Errors: prior.Errors + 1}
	}

	return prior
}
