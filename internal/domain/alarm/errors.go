package alarm

import (
	"fmt"
	"time"
)

// DisplayLayout is the layout used when alarm times are shown to users.
const DisplayLayout = "Mon, 02 Jan 2006 15:04:05 MST"

// InvalidTimeError is returned when an alarm is requested for a time that
// is not strictly in the future.
type InvalidTimeError struct {
	// Time is the rejected alarm time.
	Time time.Time
	// Now is the clock reading the time was compared against.
	Now time.Time
}

// Error implements the error interface.
func (e *InvalidTimeError) Error() string {
	return fmt.Sprintf(
		"you cannot establish an alarm in the past %s, please provide a future date",
		e.Time.Format(DisplayLayout),
	)
}

// IndexOutOfRangeError is returned when an alarm position does not exist.
type IndexOutOfRangeError struct {
	// Index is the requested position.
	Index int
	// Len is the number of alarms in the list.
	Len int
}

// Error implements the error interface.
func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("alarm index %d out of range [0, %d)", e.Index, e.Len)
}

// PersistenceError is returned when the alarm list cannot be read or written.
type PersistenceError struct {
	// Op names the failed operation ("load" or "save").
	Op string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s alarms: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}
