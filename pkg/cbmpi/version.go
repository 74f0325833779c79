package cbmpi

var (
	Version   = "v0.0.0-in-progress"
	CommitSHA = "unknown"
)

// ModuleVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-in-progress.
func ModuleVersion() string {
	return Version
}

// BuildInfo returns the version together with the commit it was built from.
func BuildInfo() string {
	return Version + " (" + CommitSHA + ")"
}
