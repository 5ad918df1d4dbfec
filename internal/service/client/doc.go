// Package client implements the alarm-ctl commands.
//
// Each command loads the settings, dials the alarm daemon and prints a
// human-readable result. ParseWhen turns the user's time input into an
// absolute moment before it is sent to the daemon.
package client
