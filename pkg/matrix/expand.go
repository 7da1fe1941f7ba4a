package matrix

import (
	"errors"
	"fmt"
)

// ErrUnknownEnvironment is returned when a cross-product cell names an
// environment the matrix does not define.
var ErrUnknownEnvironment = errors.New("unknown environment")

// Cell is one (interpreter, environment) pair of the cross product.
type Cell struct {
	Interpreter string
	Env         Environment
	Selector    Selector
	Excluded    bool
}

// ID returns the canonical cell identifier, interpreter/env.
func (c Cell) ID() string { return c.Interpreter + "/" + c.Env.Name }

// Expand produces the interpreter × pin cross product in declaration
// order, interpreter-major, marking excluded cells. Every cell's
// composed environment name must be defined by the matrix.
func Expand(ci *CIDescriptor, m *Matrix) ([]Cell, error) {
	cells := make([]Cell, 0, len(ci.Interpreters)*len(ci.Env))
	for _, interp := range ci.Interpreters {
		for _, sel := range ci.Env {
			name := ComposeEnvName(interp, sel.Pin)
			env, ok := m.Env(name)
			if !ok {
				return nil, fmt.Errorf("%w: %q (interpreter %q × selector %s, line %d)",
					ErrUnknownEnvironment, name, interp, sel, sel.Line)
			}
			cells = append(cells, Cell{
				Interpreter: interp,
				Env:         env,
				Selector:    sel,
				Excluded:    ci.ExcludedPair(interp, name),
			})
		}
	}
	return cells, nil
}
