package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ReadCSV reads a frame from CSV with a header row. Cell types are
// inferred with Parse.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv input is empty")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = Column{Name: name}
	}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		for i := range cols {
			cols[i].Values = append(cols[i].Values, Parse(record[i]))
		}
	}
	return New(cols...)
}

// WriteCSV writes the frame as CSV with a header row.
func WriteCSV(w io.Writer, f *Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(f.cols))
	for row := 0; row < f.Len(); row++ {
		for i, c := range f.cols {
			record[i] = c.Values[row].String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", row, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
