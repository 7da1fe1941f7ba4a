package interval

import "wrangler-in-go/pkg/frame"

// Cumsum assigns interval ids to one ordered run of marker values
// with whole-column vector passes: boolean marker vectors, effective
// edge selection, a shifted cumulative sum enumerating raw segments, a
// validity mask and a renumbering pass. It produces exactly the ids
// Scan produces.
func (ident *Identifier) Cumsum(markers []frame.Value) []int64 {
	return ident.CumsumTraced(markers, nil)
}

// CumsumTraced is Cumsum recording intermediate vectors into the
// optional trace.
func (ident *Identifier) CumsumTraced(markers []frame.Value, trace *Trace) []int64 {
	n := len(markers)

	boolStart := make([]bool, n)
	for i, v := range markers {
		boolStart[i] = v.Equal(ident.MarkerStart)
	}
	trace.add("bool_start", boolsToInt64(boolStart))

	if ident.IdenticalMarkers() {
		// counting mode: ids are the cumulative sum of marker rows
		ids := make([]int64, n)
		var count int64
		for i, b := range boolStart {
			if b {
				count++
			}
			ids[i] = count
		}
		trace.add("result", ids)
		return ids
	}

	boolEnd := make([]bool, n)
	for i, v := range markers {
		boolEnd[i] = v.Equal(ident.MarkerEnd)
	}
	trace.add("bool_end", boolsToInt64(boolEnd))

	effStart := ident.effectiveStarts(boolStart, boolEnd)
	effEnd := ident.effectiveEnds(boolStart, boolEnd)
	trace.add("eff_start", boolsToInt64(effStart))
	trace.add("eff_end", boolsToInt64(effEnd))

	// shifting the closing marker lets the cumulative sum include it
	// in its segment
	effEndShift := shiftBools(effEnd)
	rawIDs := make([]int64, n)
	var running int64
	for i := 0; i < n; i++ {
		if effStart[i] {
			running++
		}
		if effEndShift[i] {
			running++
		}
		rawIDs[i] = running
	}
	trace.add("raw_ids", rawIDs)

	// a segment is valid when it holds both its opening and its
	// closing marker
	markerCount := make(map[int64]int, n)
	for i := range rawIDs {
		if effStart[i] || effEnd[i] {
			markerCount[rawIDs[i]]++
		}
	}
	valid := make([]bool, n)
	for i := range rawIDs {
		valid[i] = markerCount[rawIDs[i]] == 2
	}
	trace.add("valid", boolsToInt64(valid))

	// renumber valid segments from 1 in row order, invalid rows to 0
	ids := make([]int64, n)
	var next, last int64
	for i := range rawIDs {
		if !valid[i] {
			continue
		}
		if rawIDs[i] != last {
			next++
			last = rawIDs[i]
		}
		ids[i] = next
	}
	trace.add("result", ids)
	return ids
}

// effectiveStarts keeps the opening markers the strategy pairs from:
// each run's first start scanning forward, or its last start scanning
// from the back.
func (ident *Identifier) effectiveStarts(boolStart, boolEnd []bool) []bool {
	if ident.Strategy.startUseFirst() {
		return openingEdges(boolStart, boolEnd)
	}
	rs, re := reverseBools(boolStart), reverseBools(boolEnd)
	return reverseBools(openingEdges(rs, re))
}

// effectiveEnds keeps the closing markers the strategy pairs to: each
// run's first close after an opening, or the last close before the
// next start.
func (ident *Identifier) effectiveEnds(boolStart, boolEnd []bool) []bool {
	if ident.Strategy.endUseFirst() {
		return closingEdges(boolStart, boolEnd)
	}
	rs, re := reverseBools(boolStart), reverseBools(boolEnd)
	return reverseBools(openingEdges(re, rs))
}

// forwardFill carries 1 from open rows and 0 from close rows across
// the gaps, seeded closed.
func forwardFill(open, close []bool) []int {
	out := make([]int, len(open))
	state := 0
	for i := range open {
		switch {
		case open[i]:
			state = 1
		case close[i]:
			state = 0
		}
		out[i] = state
	}
	return out
}

// openingEdges marks the open rows where the shifted fill state is
// still closed, the first open marker of each run.
func openingEdges(open, close []bool) []bool {
	fill := shiftInts(forwardFill(open, close), 0)
	out := make([]bool, len(open))
	for i := range open {
		out[i] = open[i] && fill[i] == 0
	}
	return out
}

// closingEdges marks the close rows where the shifted fill state is
// open, the first close marker after an open run.
func closingEdges(open, close []bool) []bool {
	fill := shiftInts(forwardFill(open, close), 0)
	out := make([]bool, len(close))
	for i := range close {
		out[i] = close[i] && fill[i] == 1
	}
	return out
}

func shiftInts(v []int, seed int) []int {
	out := make([]int, len(v))
	if len(v) == 0 {
		return out
	}
	out[0] = seed
	copy(out[1:], v[:len(v)-1])
	return out
}

func shiftBools(v []bool) []bool {
	out := make([]bool, len(v))
	if len(v) == 0 {
		return out
	}
	copy(out[1:], v[:len(v)-1])
	return out
}

func reverseBools(v []bool) []bool {
	out := make([]bool, len(v))
	for i := range v {
		out[len(v)-1-i] = v[i]
	}
	return out
}

func boolsToInt64(v []bool) []int64 {
	out := make([]int64, len(v))
	for i, b := range v {
		if b {
			out[i] = 1
		}
	}
	return out
}
