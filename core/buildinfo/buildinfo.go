// Package buildinfo carries version data stamped at link time:
//
//	go build -ldflags "-X github.com/citygreen/mastersbot/core/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

var (
	Version = "dev"
	Commit  = "local"
	// Date is the build time in RFC3339.
	Date = ""
)
