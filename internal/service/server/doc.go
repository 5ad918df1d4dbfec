// Package server wires the alarm daemon.
//
// Run loads the configuration, opens the configured key-value store, builds
// the notifiers, initializes the scheduler and serves the AlarmService and the
// gRPC health service until the context is cancelled.
package server
