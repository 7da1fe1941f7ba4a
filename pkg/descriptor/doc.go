// Package descriptor models the package metadata file (package.yml):
// distribution metadata, runtime dependencies, extras groups, the
// source-layout mapping, linter exclusions and the test-runner
// configuration.
//
// Validate checks the descriptor's structural consistency: the
// declared source root must match the actual layout, and the test
// category markers must cover the version matrix's dependency
// back-ends.
package descriptor
