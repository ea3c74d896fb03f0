// Package buildinfo holds the version stamped into the legalscan binary.
//
// The linker sets the variables:
//
//	go build -ldflags "-X github.com/matzehuels/legalscan/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/legalscan/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/legalscan/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/legalscan
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the source revision.
	Commit = "none"

	// Date is the UTC build time.
	Date = "unknown"
)

// String returns the build information on three lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent identifies legalscan in outgoing HTTP requests.
func UserAgent() string {
	return "legalscan/" + Version
}
