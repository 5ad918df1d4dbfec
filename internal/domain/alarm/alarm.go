package alarm

import (
	"slices"
	"time"
)

// Alarm is a single instant at which a notification should fire.
type Alarm struct {
	// Time is the moment the alarm rings.
	Time time.Time
}

// IsDue reports whether the alarm time is not strictly after now.
// Alarms exactly at now are treated as past.
func (a Alarm) IsDue(now time.Time) bool {
	return !a.Time.After(now)
}

// State is the lifecycle position of an alarm held by the scheduler.
type State int

const (
	// StatePending means the alarm is in the list and its timer is armed.
	StatePending State = iota
	// StateFired means the timer elapsed and the notification was triggered.
	StateFired
	// StateRemoved means the alarm was deleted by the user.
	StateRemoved
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFired:
		return "fired"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// ParseState converts the output of State.String back into a State.
func ParseState(s string) (State, bool) {
	switch s {
	case "pending":
		return StatePending, true
	case "fired":
		return StateFired, true
	case "removed":
		return StateRemoved, true
	default:
		return StatePending, false
	}
}

// Entry is an alarm as listed for display: its position, time and state.
type Entry struct {
	// Index is the zero-based position in the ascending list.
	Index int
	// Time is the alarm time.
	Time time.Time
	// State is the lifecycle state at the moment of listing.
	State State
}

// Sort orders alarms ascending by time.
// Equal timestamps keep their relative order.
func Sort(alarms []Alarm) {
	slices.SortStableFunc(alarms, func(a, b Alarm) int {
		return a.Time.Compare(b.Time)
	})
}

// IsSorted reports whether alarms are in ascending time order.
func IsSorted(alarms []Alarm) bool {
	return slices.IsSortedFunc(alarms, func(a, b Alarm) int {
		return a.Time.Compare(b.Time)
	})
}

// Purge returns the alarms that are still in the future relative to now,
// sorted ascending. The input slice is not modified.
func Purge(alarms []Alarm, now time.Time) []Alarm {
	result := make([]Alarm, 0, len(alarms))

	for _, a := range alarms {
		if a.IsDue(now) {
			continue
		}

		result = append(result, a)
	}

	Sort(result)

	return result
}
