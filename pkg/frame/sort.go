package frame

import (
	"fmt"
	"sort"
)

// SortByColumns returns a stable copy of the frame sorted by the given
// columns, plus the permutation mapping sorted row positions back to
// original row positions. Ascending must be empty (all ascending) or
// match the column count. Sorting by no columns returns the frame as is
// with the identity permutation.
func (f *Frame) SortByColumns(cols []string, ascending []bool) (*Frame, []int, error) {
	if err := f.RequireColumns(cols...); err != nil {
		return nil, nil, err
	}
	if len(ascending) != 0 && len(ascending) != len(cols) {
		return nil, nil, fmt.Errorf("ascending has %d flags, want %d", len(ascending), len(cols))
	}

	perm := make([]int, f.Len())
	for i := range perm {
		perm[i] = i
	}
	if len(cols) == 0 {
		return f.Clone(), perm, nil
	}

	keys := make([]Column, len(cols))
	for i, name := range cols {
		c, _ := f.Column(name)
		keys[i] = c
	}
	asc := func(i int) bool { return len(ascending) == 0 || ascending[i] }

	sort.SliceStable(perm, func(a, b int) bool {
		ra, rb := perm[a], perm[b]
		for i, key := range keys {
			cmp := key.Values[ra].Compare(key.Values[rb])
			if cmp == 0 {
				continue
			}
			if asc(i) {
				return cmp < 0
			}
			return cmp > 0
		}
		return false
	})

	return f.gather(perm), perm, nil
}
