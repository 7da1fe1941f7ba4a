// Package engine provides the computation engines that execute
// interval identification, behind a common registry.
//
// All engines produce identical results for the same identifier and
// frame. They differ in how the work runs:
//
//   - sequential: scan algorithm, groups in order
//   - vectorized: cumulative-sum algorithm, groups in order
//   - parallel: cumulative-sum per group on a bounded worker pool
//
// The parallel engine requires explicit order columns, partitioned
// frames have no implicit row order.
package engine
