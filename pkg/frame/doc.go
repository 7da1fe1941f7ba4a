// Package frame provides the column-oriented in-memory table that
// wranglers operate on.
//
// A Frame is an ordered set of equally sized, typed columns. Row order
// is significant: wranglers rely on stable multi-column sorting and on
// group-by preserving the relative order of rows inside each group.
//
// # Values
//
// Cells are tagged Value scalars (null, bool, int, float, string,
// time). Equality is null-safe: two nulls compare equal, which is what
// marker comparison requires. Int and float values compare numerically
// so that data arriving through JSON (where every number is a float)
// still matches integer markers.
//
// # I/O
//
//   - CSV: header row plus type-inferred cells
//   - Parquet: SNAPPY-compressed, one optional field per column
package frame
