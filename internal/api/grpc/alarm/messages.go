package alarm

import "time"

// Alarm is an alarm as exchanged over the wire.
type Alarm struct {
	// Index is the position in the ascending list.
	Index int `json:"index"`
	// Time is the alarm time.
	Time time.Time `json:"time"`
	// State is "pending", "fired" or "removed".
	State string `json:"state"`
}

// ScheduleAlarmRequest asks for a new alarm.
type ScheduleAlarmRequest struct {
	// Time is the requested alarm time; it must be in the future.
	Time time.Time `json:"time"`
}

// ScheduleAlarmResponse returns the stored alarm and the updated list.
type ScheduleAlarmResponse struct {
	Alarm  Alarm   `json:"alarm"`
	Alarms []Alarm `json:"alarms"`
}

// ListAlarmsRequest asks for the alarm list.
type ListAlarmsRequest struct{}

// ListAlarmsResponse carries the ascending alarm list.
type ListAlarmsResponse struct {
	Alarms []Alarm `json:"alarms"`
}

// DeleteAlarmRequest removes the alarm at Index.
type DeleteAlarmRequest struct {
	Index int `json:"index"`
}

// DeleteAlarmResponse returns the removed alarm and the updated list.
type DeleteAlarmResponse struct {
	Removed Alarm   `json:"removed"`
	Alarms  []Alarm `json:"alarms"`
}

// DismissAlarmsRequest stops ringing alarms.
type DismissAlarmsRequest struct{}

// DismissAlarmsResponse reports how many notifications were stopped.
type DismissAlarmsResponse struct {
	Dismissed int `json:"dismissed"`
}
