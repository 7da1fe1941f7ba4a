package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnNotFound is returned when a referenced column does not exist.
	ErrColumnNotFound = errors.New("column not found")
	// ErrLengthMismatch is returned when column lengths differ.
	ErrLengthMismatch = errors.New("column length mismatch")
	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")
)

// Column is a named vector of values.
type Column struct {
	Name   string
	Values []Value
}

// Frame is an ordered set of equally sized columns.
type Frame struct {
	cols  []Column
	index map[string]int
}

// New builds a frame from columns, validating that lengths match and
// names are unique.
func New(cols ...Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if len(f.cols) > 0 && len(c.Values) != f.Len() {
			return nil, fmt.Errorf("%w: column %q has %d values, want %d",
				ErrLengthMismatch, c.Name, len(c.Values), f.Len())
		}
		if _, ok := f.index[c.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		f.index[c.Name] = len(f.cols)
		f.cols = append(f.cols, c)
	}
	return f, nil
}

// Len is the number of rows.
func (f *Frame) Len() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0].Values)
}

// Columns lists the column names in order.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column.
func (f *Frame) Column(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return Column{}, false
	}
	return f.cols[i], true
}

// HasColumn reports whether the column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// RequireColumns fails with ErrColumnNotFound for the first referenced
// column that does not exist.
func (f *Frame) RequireColumns(names ...string) error {
	for _, name := range names {
		if !f.HasColumn(name) {
			return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
		}
	}
	return nil
}

// WithColumn returns a copy of the frame with the named column replaced,
// or appended when it does not exist yet.
func (f *Frame) WithColumn(name string, values []Value) (*Frame, error) {
	if f.Len() != len(values) && len(f.cols) > 0 {
		return nil, fmt.Errorf("%w: column %q has %d values, want %d",
			ErrLengthMismatch, name, len(values), f.Len())
	}
	out := f.Clone()
	if i, ok := out.index[name]; ok {
		out.cols[i] = Column{Name: name, Values: values}
		return out, nil
	}
	out.index[name] = len(out.cols)
	out.cols = append(out.cols, Column{Name: name, Values: values})
	return out, nil
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		cols:  make([]Column, len(f.cols)),
		index: make(map[string]int, len(f.index)),
	}
	for i, c := range f.cols {
		values := make([]Value, len(c.Values))
		copy(values, c.Values)
		out.cols[i] = Column{Name: c.Name, Values: values}
		out.index[c.Name] = i
	}
	return out
}

// Equal reports whether two frames have the same columns, order and
// cell values.
func (f *Frame) Equal(o *Frame) bool {
	if len(f.cols) != len(o.cols) || f.Len() != o.Len() {
		return false
	}
	for i, c := range f.cols {
		oc := o.cols[i]
		if c.Name != oc.Name {
			return false
		}
		for j, v := range c.Values {
			if !v.Equal(oc.Values[j]) {
				return false
			}
		}
	}
	return true
}

// Row returns the values of one row in column order.
func (f *Frame) Row(i int) []Value {
	row := make([]Value, len(f.cols))
	for c := range f.cols {
		row[c] = f.cols[c].Values[i]
	}
	return row
}

// gather builds a new frame whose row i is the source row perm[i].
func (f *Frame) gather(perm []int) *Frame {
	out := &Frame{
		cols:  make([]Column, len(f.cols)),
		index: make(map[string]int, len(f.index)),
	}
	for i, c := range f.cols {
		values := make([]Value, len(perm))
		for j, src := range perm {
			values[j] = c.Values[src]
		}
		out.cols[i] = Column{Name: c.Name, Values: values}
		out.index[c.Name] = i
	}
	return out
}
