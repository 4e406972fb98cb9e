// Package version holds build-time version metadata, set via ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info returns a multi-line human-readable version report.
func Info() string {
	return fmt.Sprintf(
		"dupescan %s\nCommit: %s\nBuilt: %s\nGo: %s\nOS/Arch: %s/%s",
		Version, Commit, Date, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	)
}

// Short returns just the version string, used as cobra's Version field.
func Short() string {
	return Version
}
