package version

import "fmt"

// Populated at build time via -ldflags.
// 在构建时通过 -ldflags 填充。
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String returns the full human-readable version line.
func String() string {
	return fmt.Sprintf("sentryd %s (commit %s, built %s)", Version, GitCommit, BuildDate)
}
