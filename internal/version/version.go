// Package version holds build information set through -ldflags.
package version

import "fmt"

// Build information, overridden at build time:
//
//	go build -ldflags "-X github.com/eduardolat/pwforge/internal/version.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns a one-line description of the build
func String() string {
	return fmt.Sprintf("pwforge %s (commit %s, built %s)", Version, Commit, Date)
}
