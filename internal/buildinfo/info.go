// Package buildinfo carries the version stamped into the capbudget binary.
package buildinfo

// Set with -ldflags "-X github.com/cleared-dev/capbudget/internal/buildinfo.Version=..." at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
