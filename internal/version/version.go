package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// shortRevisionLength is the length of a revision taken from build info.
const shortRevisionLength = 7

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit, build time and Go version.
func Full() string {
	return fmt.Sprintf(
		"version: %s, commit: %s, built at: %s, go: %s",
		Version,
		commit(),
		BuildTime,
		runtime.Version(),
	)
}

// commit falls back to the VCS revision recorded by the Go toolchain.
func commit() string {
	if Commit != "none" && Commit != "" {
		return Commit
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Commit
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && setting.Value != "" {
			if len(setting.Value) > shortRevisionLength {
				return setting.Value[:shortRevisionLength]
			}

			return setting.Value
		}
	}

	return Commit
}
