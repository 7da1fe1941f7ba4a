package runner

//go:generate go run github.com/dmarkham/enumer -type CellState -trimprefix State -transform lower -json -output state.gen.go

// CellState is the lifecycle state of one matrix cell.
type CellState int

const (
	// StatePending cells have not started yet.
	StatePending CellState = iota
	// StateRunning cells are executing their lifecycle stages.
	StateRunning
	// StatePassed cells completed every stage.
	StatePassed
	// StateFailed cells had a command exit non-zero.
	StateFailed
	// StateExcluded cells are allowlisted skips; no command runs.
	StateExcluded
	// StateErrored cells hit an infrastructure problem, such as a
	// missing runtime or a command that could not start.
	StateErrored
)

// Terminal reports whether the state is an end state.
func (i CellState) Terminal() bool {
	switch i {
	case StatePassed, StateFailed, StateExcluded, StateErrored:
		return true
	}
	return false
}
