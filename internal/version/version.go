// Package version exposes build metadata injected via ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Build-time variables injected via ldflags
var (
	// Version is the semantic version, injected at build time
	Version = "dev"

	// GitCommit is the git commit hash, injected at build time
	GitCommit = "unknown"

	// BuildDate is the build date, injected at build time
	BuildDate = "unknown"
)

// Full returns the version with commit information when available.
func Full() string {
	if GitCommit != "unknown" && len(GitCommit) >= 7 {
		return fmt.Sprintf("%s (%s)", Version, GitCommit[:7])
	}
	return Version
}

// GoVersion returns the Go toolchain version used for the build.
func GoVersion() string {
	return runtime.Version()
}
