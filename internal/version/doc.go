// Package version exposes build metadata of alarm-server and alarm-ctl.
//
// Version, Commit and BuildTime are injected at build time via ldflags.
package version
