package interval

import "wrangler-in-go/pkg/frame"

// Scan assigns interval ids to one ordered run of marker values in a
// single pass, holding the positions of the chosen opening marker and
// the current closing candidate. It is the sequential reference the
// vectorized variant must match.
func (ident *Identifier) Scan(markers []frame.Value) []int64 {
	if ident.IdenticalMarkers() {
		return ident.countMarkers(markers)
	}

	startUseFirst := ident.Strategy.startUseFirst()
	endUseFirst := ident.Strategy.endUseFirst()

	ids := make([]int64, len(markers))
	var counter int64
	open := -1
	closing := -1

	finalize := func(from, to int) {
		counter++
		for i := from; i <= to; i++ {
			ids[i] = counter
		}
	}

	for pos, v := range markers {
		switch {
		case v.Equal(ident.MarkerStart):
			switch {
			case open == -1:
				open = pos
			case closing != -1:
				// the pending interval ends at its last close marker
				finalize(open, closing)
				open = pos
				closing = -1
			case !startUseFirst:
				// a later start supersedes, skipped rows stay invalid
				open = pos
			}
		case v.Equal(ident.MarkerEnd):
			if open == -1 {
				// a close without an open interval is noise
				continue
			}
			closing = pos
			if endUseFirst {
				finalize(open, closing)
				open = -1
				closing = -1
			}
		}
	}

	// an unterminated opening flushes as invalid
	if open != -1 && closing != -1 {
		finalize(open, closing)
	}
	return ids
}

// countMarkers implements the identical start and end marker mode:
// every marker row begins a new interval and ids are the running
// count of marker rows.
func (ident *Identifier) countMarkers(markers []frame.Value) []int64 {
	ids := make([]int64, len(markers))
	var count int64
	for i, v := range markers {
		if v.Equal(ident.MarkerStart) {
			count++
		}
		ids[i] = count
	}
	return ids
}
