// Package runner executes the expanded version matrix on the local
// machine. Every cell walks the same lifecycle: runtime provisioning,
// the before-install and install hooks, the pinned dependency install,
// the environment's commands, and for passing cells the after-success
// hook plus a coverage upload.
//
// Cells run with an allowlisted copy of the parent environment. The
// working directory is shared across cells, so commands in parallel
// runs must write per-environment output paths.
package runner
