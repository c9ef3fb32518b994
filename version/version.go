// Package version holds build information injected at link time.
package version

import "runtime"

// Set via -ldflags at build time:
//
//	-X github.com/periscan/periscan/version.GitRelease=v0.1.0
var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
)

// GoInfo is the Go toolchain used for the build.
var GoInfo = runtime.Version()
