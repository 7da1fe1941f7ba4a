package frame

import "strconv"

// Group is one partition produced by GroupBy. Rows are indices into the
// source frame, in frame order.
type Group struct {
	Key  []Value
	Rows []int
}

// GroupBy partitions rows by the given key columns. Groups appear in
// first-appearance order and rows keep their relative order inside each
// group. Grouping by no columns yields a single group of all rows.
func (f *Frame) GroupBy(cols []string) ([]Group, error) {
	if err := f.RequireColumns(cols...); err != nil {
		return nil, err
	}

	n := f.Len()
	if len(cols) == 0 {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		return []Group{{Rows: rows}}, nil
	}

	keys := make([]Column, len(cols))
	for i, name := range cols {
		c, _ := f.Column(name)
		keys[i] = c
	}

	var groups []Group
	seen := make(map[string]int)
	for row := 0; row < n; row++ {
		// length-prefix each column's encoding so cell values containing
		// the separator cannot make distinct keys collide
		hash := ""
		for _, key := range keys {
			k := key.Values[row].hashKey()
			hash += strconv.Itoa(len(k)) + ":" + k
		}
		gi, ok := seen[hash]
		if !ok {
			key := make([]Value, len(keys))
			for i, k := range keys {
				key[i] = k.Values[row]
			}
			gi = len(groups)
			seen[hash] = gi
			groups = append(groups, Group{Key: key})
		}
		groups[gi].Rows = append(groups[gi].Rows, row)
	}
	return groups, nil
}
