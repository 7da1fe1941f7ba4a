package matrix

import "fmt"

// ValidationError is one lint finding, tagged with its source line
// when known.
type ValidationError struct {
	Line    int
	Message string
}

func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ValidationResult collects every lint finding rather than stopping at
// the first.
type ValidationResult struct {
	Errors []ValidationError
}

// Valid reports whether no finding was collected.
func (r *ValidationResult) Valid() bool { return len(r.Errors) == 0 }

// Merge appends another result's findings.
func (r *ValidationResult) Merge(other *ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
}

func (r *ValidationResult) addf(line int, format string, args ...interface{}) {
	r.Errors = append(r.Errors, ValidationError{Line: line, Message: fmt.Sprintf(format, args...)})
}

// Validate lints the matrix against its ci descriptor. Exclusions are
// legitimate skips, never findings.
func Validate(ci *CIDescriptor, m *Matrix) *ValidationResult {
	res := &ValidationResult{}

	if len(ci.Interpreters) == 0 {
		res.addf(0, "ci lists no interpreters")
	}
	if len(ci.Env) == 0 {
		res.addf(0, "ci lists no env selectors")
	}
	if len(m.Envs) == 0 {
		res.addf(0, "matrix defines no environments")
	}

	interps := map[string]bool{}
	for _, it := range ci.Interpreters {
		interps[it] = true
	}
	pins := map[string]bool{}
	for _, sel := range ci.Env {
		if pins[sel.Pin] {
			res.addf(sel.Line, "duplicate env selector for pin %q", sel.Pin)
		}
		pins[sel.Pin] = true
	}

	seen := map[string]bool{}
	for _, e := range m.Envs {
		if seen[e.Name] {
			res.addf(e.Line, "duplicate environment %q", e.Name)
			continue
		}
		seen[e.Name] = true

		name, err := ParseEnvName(e.Name)
		if err != nil {
			res.addf(e.Line, "%v", err)
			continue
		}
		if len(interps) > 0 && !interps[name.Interpreter] {
			res.addf(e.Line, "environment %q names interpreter %q, which ci does not list", e.Name, name.Interpreter)
		}
		if len(pins) > 0 && !pins[name.Token()] {
			res.addf(e.Line, "environment %q is not selected by any ci env entry", e.Name)
		}
		if _, err := m.ResolveDeps(e); err != nil {
			res.addf(e.Line, "%v", err)
		}
		if len(m.ResolveCommands(e)) == 0 {
			res.addf(e.Line, "environment %q has no commands", e.Name)
		}
	}

	// Every cell of the cross product must be defined, and each pin
	// must stay runnable on at least one interpreter.
	for _, sel := range ci.Env {
		missing := false
		runnable := false
		for _, interp := range ci.Interpreters {
			name := ComposeEnvName(interp, sel.Pin)
			if _, ok := m.Env(name); !ok {
				res.addf(sel.Line, "no matrix environment %q for interpreter %q and pin %q", name, interp, sel.Pin)
				missing = true
				continue
			}
			if !ci.ExcludedPair(interp, name) {
				runnable = true
			}
		}
		if len(ci.Interpreters) > 0 && !missing && !runnable {
			res.addf(sel.Line, "pin %q is excluded for every listed interpreter", sel.Pin)
		}
	}

	type pair struct{ interpreter, env string }
	seenExcl := map[pair]bool{}
	for _, x := range ci.Exclusions {
		p := pair{x.Interpreter, x.Env}
		if seenExcl[p] {
			res.addf(x.Line, "duplicate exclusion of %s/%s", x.Interpreter, x.Env)
			continue
		}
		seenExcl[p] = true

		if len(interps) > 0 && !interps[x.Interpreter] {
			res.addf(x.Line, "exclusion names interpreter %q, which ci does not list", x.Interpreter)
		}
		name, err := ParseEnvName(x.Env)
		if err != nil {
			res.addf(x.Line, "exclusion env: %v", err)
			continue
		}
		if name.Interpreter != x.Interpreter {
			res.addf(x.Line, "exclusion pairs interpreter %q with environment %q, which belongs to %q",
				x.Interpreter, x.Env, name.Interpreter)
		}
		if len(pins) > 0 && !pins[name.Token()] {
			res.addf(x.Line, "exclusion references pin %q, which no ci env entry selects", name.Token())
		}
	}

	return res
}
