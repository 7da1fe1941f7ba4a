// Package interval implements the interval identification wrangler.
//
// An interval is a range of rows beginning with an opening marker and
// ending with a closing marker (the interval daylight, say, as all
// rows between sunrise and sunset). The wrangler assigns ids so rows
// of the same interval share an id, counting from 1 per group in row
// order. Rows outside any valid interval get id 0. Opening and
// closing markers belong to their interval.
//
// # Strategies
//
// When several opening or closing markers occur in sequence, the
// strategy selects which pair delimits the interval:
//
//   - shortest_interval: last start, first end (the default)
//   - first_start_first_end
//   - last_start_last_end
//   - widest_interval: first start, last end before the next start
//
// With an absent closing marker, or a closing marker equal to the
// opening one, every marker row begins a new interval and ids are the
// running count of marker rows.
//
// # Algorithms
//
// Two id algorithms produce identical results: Scan walks each group
// once holding open and close positions, Cumsum works in whole-column
// vector passes (boolean marker vectors, edge selection, a shifted
// cumulative sum, a validity mask, renumbering) and can trace its
// intermediate vectors for debugging. Marker comparison is null safe.
package interval
