package interval

//go:generate go run github.com/dmarkham/enumer -type Strategy -trimprefix Strategy -transform snake -json -output strategy.gen.go

// Strategy selects which opening and closing markers delimit an
// interval when several occur in sequence.
type Strategy int

const (
	// StrategyShortestInterval pairs the last opening marker with the
	// first closing marker.
	StrategyShortestInterval Strategy = iota
	// StrategyFirstStartFirstEnd pairs the first opening marker with
	// the first closing marker.
	StrategyFirstStartFirstEnd
	// StrategyLastStartLastEnd pairs the last opening marker with the
	// last closing marker before the next start.
	StrategyLastStartLastEnd
	// StrategyWidestInterval pairs the first opening marker with the
	// last closing marker before the next start.
	StrategyWidestInterval
)

// startUseFirst reports whether the first opening marker of a run
// opens the interval rather than the last.
func (i Strategy) startUseFirst() bool {
	return i == StrategyFirstStartFirstEnd || i == StrategyWidestInterval
}

// endUseFirst reports whether the first closing marker closes the
// interval rather than the last one before the next start.
func (i Strategy) endUseFirst() bool {
	return i == StrategyShortestInterval || i == StrategyFirstStartFirstEnd
}
