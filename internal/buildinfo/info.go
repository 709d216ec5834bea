// Package buildinfo carries the version stamp shown by `chaegbu --version`.
package buildinfo

// Set at build time:
//
//	go build -ldflags "-X github.com/chaegbu-dev/chaegbu/internal/buildinfo.Version=v0.3.0"
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
