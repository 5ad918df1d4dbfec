// Package clock provides the time capability injected into the scheduler.
package clock

import "time"

// Timer is a handle to a pending callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer, false if it already fired or was stopped.
	Stop() bool
}

// Clock reads the current time and schedules delayed callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// System is the Clock backed by the runtime.
type System struct{}

// Now returns the current local time.
func (System) Now() time.Time {
	return time.Now()
}

// AfterFunc calls f in its own goroutine once d has elapsed.
//
//nolint:ireturn // Timer is the capability callers depend on.
func (System) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
