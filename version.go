package main

// Build-time variables, set with -ldflags "-X main.Version=..." in release builds.
var (
	// Version is the semantic version of the binary (e.g., "v1.0.0")
	Version = "dev"

	// GitCommit is the git commit hash at build time
	GitCommit = ""

	// BuildDate is the RFC3339 build timestamp
	BuildDate = ""
)
