// Package wrangler defines the engine-independent contract shared by
// all data wranglers.
//
// A wrangler encapsulates one transformation of tabular data together
// with its parameters. Wranglers follow the fit/transform convention:
//
//   - Fit validates parameters against a frame (stateless wranglers
//     treat it as a parameter check only)
//   - Transform computes a new frame and never mutates its input
//   - FitTransform chains both
//
// The package also carries the parameter plumbing wranglers share:
// scalar-or-list decoding for plan and config documents, and sort flag
// normalization.
package wrangler
