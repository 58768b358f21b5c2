package clock

import "time"

// realClock is the production Clock, backed directly by the time
// package.
type realClock struct{}

// Real returns the production Clock.
func Real() Clock { return realClock{} }

func (realClock) Now() time.Time                       { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
func (realClock) Sleep(d time.Duration)                 { time.Sleep(d) }
