package frame

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/common"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

const parquetRoot = "parquet_go_root"

// WriteParquet writes the frame as a SNAPPY-compressed Parquet file
// with one optional field per column. Time values are written in their
// RFC 3339 text form.
func WriteParquet(w io.Writer, f *Frame) error {
	pfw := writerfile.NewWriterFile(w)
	types := make([]string, len(f.cols))
	for i, c := range f.cols {
		types[i] = parquetType(c)
	}
	pw, err := writer.NewJSONWriter(parquetSchema(f, types), pfw, 4)
	if err != nil {
		return fmt.Errorf("open parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for row := 0; row < f.Len(); row++ {
		record := make(map[string]interface{}, len(f.cols))
		for i, c := range f.cols {
			record[c.Name] = parquetCell(c.Values[row], types[i])
		}
		// JSONWriter.Write only accepts JSON text (string or []byte);
		// anything else nil-panics inside the library's marshal step.
		rec, err := json.Marshal(record)
		if err != nil {
			_ = pw.WriteStop()
			_ = pfw.Close()
			return fmt.Errorf("write parquet row %d: %w", row, err)
		}
		if err := pw.Write(rec); err != nil {
			_ = pw.WriteStop()
			_ = pfw.Close()
			return fmt.Errorf("write parquet row %d: %w", row, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = pfw.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return pfw.Close()
}

// WriteParquetFile writes the frame to a Parquet file at path.
func WriteParquetFile(path string, f *Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteParquet(out, f); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// ReadParquet reads a frame from Parquet bytes.
func ReadParquet(data []byte) (*Frame, error) {
	pf, err := buffer.NewBufferFile(data)
	if err != nil {
		return nil, fmt.Errorf("open parquet buffer: %w", err)
	}
	return readParquet(pf)
}

// ReadParquetFile reads a frame from a Parquet file at path.
func ReadParquetFile(path string) (*Frame, error) {
	pf, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	defer func() { _ = pf.Close() }()
	return readParquet(pf)
}

func readParquet(pf source.ParquetFile) (*Frame, error) {
	pr, err := reader.NewParquetReader(pf, nil, 4)
	if err != nil {
		return nil, fmt.Errorf("open parquet reader: %w", err)
	}
	defer pr.ReadStop()

	rows := pr.GetNumRows()
	var cols []Column
	for i, se := range pr.Footer.Schema[1:] {
		if se.NumChildren != nil && *se.NumChildren > 0 {
			continue
		}
		// the reader renames the footer to the library's internal
		// (capitalized) names; paths must use them, while the original
		// column name lives in the schema handler's ex-name.
		name := pr.SchemaHandler.Infos[i+1].ExName
		path := common.ReformPathStr(pr.Footer.Schema[0].Name + "." + se.Name)
		raw, _, dls, err := pr.ReadColumnByPath(path, rows)
		if err != nil {
			return nil, fmt.Errorf("read parquet column %q: %w", name, err)
		}
		values := make([]Value, len(raw))
		for i, x := range raw {
			if dls[i] == 0 || x == nil {
				values[i] = Null()
				continue
			}
			if s, ok := x.(string); ok {
				// text cells carry times as RFC 3339, re-infer the kind
				values[i] = Parse(s)
				continue
			}
			values[i] = FromGo(x)
		}
		cols = append(cols, Column{Name: name, Values: values})
	}
	return New(cols...)
}

// parquetCell converts a value to the shape the resolved column type
// expects. Nulls map to nil.
func parquetCell(v Value, typ string) interface{} {
	if v.IsNull() {
		return nil
	}
	switch typ {
	case "BOOLEAN":
		return v.Bool()
	case "INT64":
		return v.Int()
	case "DOUBLE":
		return v.Float()
	default:
		return v.String()
	}
}

// parquetSchema renders the JSON schema definition for the writer, in
// the tag form the parquet library expects.
func parquetSchema(f *Frame, types []string) string {
	type field struct {
		Tag string `json:"Tag"`
	}
	fields := make([]field, 0, len(f.cols))
	for i, c := range f.cols {
		fields = append(fields, field{
			Tag: fmt.Sprintf("name=%s, type=%s, repetitiontype=OPTIONAL", c.Name, types[i]),
		})
	}
	schema := map[string]interface{}{
		"Tag":    fmt.Sprintf("name=%s, repetitiontype=REQUIRED", parquetRoot),
		"Fields": fields,
	}
	b, _ := json.Marshal(schema)
	return string(b)
}

// parquetType picks the physical type from the first non-null cell.
// Mixed int/float columns widen to DOUBLE; all-null and text columns
// are byte arrays.
func parquetType(c Column) string {
	kind := KindNull
	for _, v := range c.Values {
		k := v.Kind()
		if k == KindNull {
			continue
		}
		if kind == KindNull {
			kind = k
			continue
		}
		if kind != k {
			if (kind == KindInt && k == KindFloat) || (kind == KindFloat && k == KindInt) {
				kind = KindFloat
				continue
			}
			kind = KindString
			break
		}
	}
	switch kind {
	case KindBool:
		return "BOOLEAN"
	case KindInt:
		return "INT64"
	case KindFloat:
		return "DOUBLE"
	default:
		return "BYTE_ARRAY, convertedtype=UTF8"
	}
}
