package frame

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind enumerates the scalar types a cell can hold.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a single typed cell.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	t    time.Time
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a bool value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an int value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Time returns a time value.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool reports the underlying bool. Zero value for other kinds.
func (v Value) Bool() bool { return v.b }

// Int reports the underlying int. Zero value for other kinds.
func (v Value) Int() int64 { return v.i }

// Float reports the underlying float, converting from int.
func (v Value) Float() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// Str reports the underlying string. Empty for other kinds.
func (v Value) Str() string { return v.s }

// Time reports the underlying time. Zero value for other kinds.
func (v Value) Time() time.Time { return v.t }

func (v Value) isNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

// Equal reports whether two values are equal. The comparison is
// null-safe (null equals null) and numeric across int/float.
func (v Value) Equal(o Value) bool {
	if v.kind == KindNull || o.kind == KindNull {
		return v.kind == o.kind
	}
	if v.isNumeric() && o.isNumeric() {
		return v.Float() == o.Float()
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindTime:
		return v.t.Equal(o.t)
	default:
		return false
	}
}

// Compare orders two values for sorting: null first, then numeric kinds
// together, then bool, string, time. Cross-kind comparisons outside the
// numeric pair fall back to kind rank.
func (v Value) Compare(o Value) int {
	if v.kind == KindNull || o.kind == KindNull {
		return kindRank(v.kind) - kindRank(o.kind)
	}
	if v.isNumeric() && o.isNumeric() {
		a, b := v.Float(), o.Float()
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
	if v.kind != o.kind {
		return kindRank(v.kind) - kindRank(o.kind)
	}
	switch v.kind {
	case KindBool:
		switch {
		case !v.b && o.b:
			return -1
		case v.b && !o.b:
			return 1
		default:
			return 0
		}
	case KindString:
		return strings.Compare(v.s, o.s)
	case KindTime:
		switch {
		case v.t.Before(o.t):
			return -1
		case v.t.After(o.t):
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

func kindRank(k Kind) int {
	switch k {
	case KindNull:
		return 0
	case KindInt, KindFloat:
		return 1
	case KindBool:
		return 2
	case KindString:
		return 3
	case KindTime:
		return 4
	default:
		return 5
	}
}

// String renders the value for display and CSV output.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// Go returns the underlying value as an interface suitable for JSON
// encoding. Null becomes nil.
func (v Value) Go() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	default:
		return nil
	}
}

// FromGo converts a JSON-decoded scalar into a Value. Unsupported types
// are rendered through fmt as strings.
func FromGo(x interface{}) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case string:
		return String(t)
	case time.Time:
		return Time(t)
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

// Parse infers a Value from its text form: empty means null, then bool,
// int, float, RFC 3339 time, and finally plain string.
func Parse(s string) Value {
	if s == "" {
		return Null()
	}
	switch s {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Time(t)
	}
	return String(s)
}

// hashKey is a canonical string form used for group-by keys. Equal
// values hash equal; GroupBy length-prefixes the encodings so distinct
// multi-column keys stay distinct.
func (v Value) hashKey() string {
	switch v.kind {
	case KindNull:
		return "n:"
	case KindBool:
		return "b:" + strconv.FormatBool(v.b)
	case KindInt:
		// ints and floats that compare equal must hash equal
		return "f:" + strconv.FormatFloat(float64(v.i), 'g', -1, 64)
	case KindFloat:
		return "f:" + strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return "s:" + v.s
	case KindTime:
		return "t:" + v.t.UTC().Format(time.RFC3339Nano)
	default:
		return "?"
	}
}
