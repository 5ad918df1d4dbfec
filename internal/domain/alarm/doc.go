// Package alarm contains the core domain types of the alarm clock.
//
// It defines Alarm (a single future instant), Entry (an alarm as seen in the
// ordered list together with its lifecycle State), the ordering and purge
// helpers that keep an alarm list sorted, and the error taxonomy shared by
// the scheduler, the transport and the CLI.
package alarm
