package buildinfo

import "fmt"

// Version, Commit and Date are set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for the window title.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// String returns the full build line used in the startup log.
func String() string {
	return fmt.Sprintf("carousel %s (commit %s, built %s)", Version, Commit, Date)
}
