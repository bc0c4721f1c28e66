// Package clock narrows clockwork.Clock to what the step clock schedules
// with, so the run loop can wrap it and tests can pass a clockwork.FakeClock.
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer is a pending callback. Stop reports false if it already fired or
// was already stopped.
type Timer = clockwork.Timer

// Clock schedules one-shot callbacks. Every clockwork.Clock satisfies it.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real returns the wall clock
func Real() Clock {
	return clockwork.NewRealClock()
}
