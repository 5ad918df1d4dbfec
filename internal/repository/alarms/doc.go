// Package alarms implements the typed, versioned serialization of the alarm
// list on top of a key-value store.
//
// The list is stored under the fixed key "alarms" as
//
//	{"version": 1, "alarms": [{"time": "2026-10-14T10:05:00Z"}]}
//
// A bare JSON array of {"time": ...} records is accepted as version 0, and
// record times may be RFC 3339 strings or Unix milliseconds.
package alarms
