package interval

// Trace records the named intermediate vectors of a cumsum run. A nil
// trace is valid and records nothing.
type Trace struct {
	steps []TraceStep
}

// TraceStep is one recorded vector.
type TraceStep struct {
	Name   string
	Values []int64
}

func (tr *Trace) add(name string, values []int64) {
	if tr == nil {
		return
	}
	tr.steps = append(tr.steps, TraceStep{Name: name, Values: values})
}

// Steps returns the recorded vectors in computation order.
func (tr *Trace) Steps() []TraceStep {
	if tr == nil {
		return nil
	}
	return tr.steps
}
