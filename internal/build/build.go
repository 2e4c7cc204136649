// Package build holds values stamped into the binary at link time.
package build

// Version is the release version, set with -ldflags "-X go.trai.ch/assetmap/internal/build.Version=...".
var Version = "dev"

// Commit is the source revision the binary was built from.
var Commit = "unknown"

// String renders the version and commit for display.
func String() string {
	return Version + " (" + Commit + ")"
}
