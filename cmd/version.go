// Package cmd holds build metadata stamped into the mcpsync binary.
package cmd

// Set with -ldflags "-X github.com/thoreinstein/mcpsync/cmd.Version=..." at
// release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
