package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParquet_RoundTrip(t *testing.T) {
	f, err := New(
		Column{Name: "order", Values: []Value{Int(1), Int(2), Int(3)}},
		Column{Name: "marker", Values: []Value{String("start"), Null(), String("end")}},
		Column{Name: "ratio", Values: []Value{Float(0.5), Float(1.5), Null()}},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, f))

	got, err := ReadParquet(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, f.Len(), got.Len())
	assert.Equal(t, f.Columns(), got.Columns())
	for row := 0; row < f.Len(); row++ {
		want := f.Row(row)
		for i, v := range got.Row(row) {
			assert.True(t, want[i].Equal(v), "row %d column %d: %v != %v", row, i, want[i], v)
		}
	}
}

func TestParquetType(t *testing.T) {
	tests := []struct {
		name     string
		values   []Value
		expected string
	}{
		{
			name:     "ints",
			values:   []Value{Int(1), Null(), Int(2)},
			expected: "INT64",
		},
		{
			name:     "bools",
			values:   []Value{Bool(true), Bool(false)},
			expected: "BOOLEAN",
		},
		{
			name:     "floats",
			values:   []Value{Float(1.5)},
			expected: "DOUBLE",
		},
		{
			name:     "mixed int and float widens",
			values:   []Value{Int(1), Float(2.5)},
			expected: "DOUBLE",
		},
		{
			name:     "strings",
			values:   []Value{String("a")},
			expected: "BYTE_ARRAY, convertedtype=UTF8",
		},
		{
			name:     "mixed kinds fall back to text",
			values:   []Value{Int(1), String("a")},
			expected: "BYTE_ARRAY, convertedtype=UTF8",
		},
		{
			name:     "all null",
			values:   []Value{Null(), Null()},
			expected: "BYTE_ARRAY, convertedtype=UTF8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parquetType(Column{Name: "c", Values: tt.values})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParquetSchema(t *testing.T) {
	f, err := New(
		Column{Name: "served", Values: []Value{Bool(true)}},
		Column{Name: "iids", Values: []Value{Int(1)}},
	)
	assert.NoError(t, err)

	schema := parquetSchema(f, []string{"BOOLEAN", "INT64"})
	assert.Contains(t, schema, `"name=parquet_go_root, repetitiontype=REQUIRED"`)
	assert.Contains(t, schema, `"name=served, type=BOOLEAN, repetitiontype=OPTIONAL"`)
	assert.Contains(t, schema, `"name=iids, type=INT64, repetitiontype=OPTIONAL"`)
}

func TestParquetCell(t *testing.T) {
	assert.Nil(t, parquetCell(Null(), "INT64"))
	assert.Equal(t, int64(5), parquetCell(Int(5), "INT64"))
	assert.Equal(t, 5.0, parquetCell(Int(5), "DOUBLE"))
	assert.Equal(t, true, parquetCell(Bool(true), "BOOLEAN"))
	assert.Equal(t, "5", parquetCell(Int(5), "BYTE_ARRAY, convertedtype=UTF8"))
}
