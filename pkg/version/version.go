// Package version records build metadata stamped via ldflags.
package version

// Build metadata, overridden at link time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
