// Package config defines the settings shared by alarm-server and alarm-ctl
// and provides helpers to load, validate and save them in YAML format.
//
// Validate fills defaults, so a zero Config describes a daemon on
// 127.0.0.1:50551 keeping its alarms in the alarm-clock-data directory.
package config
