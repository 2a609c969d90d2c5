// Package version exposes build metadata for the CLI, the /version endpoint
// and the engine version stamped on attribution results.
package version
