// Package clock abstracts time so the backoff schedules in engine and
// hashcache can be driven deterministically from tests instead of the
// wall clock. Production code injects Real(); tests inject Fake().
package clock

import "time"

// Clock is the narrow slice of the time package urlguard needs:
// reading the current time and waiting for a duration to elapse.
// Every place that would otherwise call time.Now or time.After takes
// a Clock instead.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time once
	// duration d has elapsed. Equivalent to time.After.
	After(d time.Duration) <-chan time.Time

	// Sleep pauses the calling goroutine for at least duration d.
	Sleep(d time.Duration)
}
