package crud

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindBlob
	KindBlobFile
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "integer"
	case KindFloat:
		return "double"
	case KindText:
		return "string"
	case KindBlob, KindBlobFile:
		return "blob"
	case KindRaw:
		return "raw"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// rawPrefix marks a string as a raw SQL expression at the ValueOf boundary.
const rawPrefix = "function:"

// Value is a single column value. Construct it with Int, Float, Text, Blob,
// BlobFile, Raw or Null, or infer it once from a plain Go value with ValueOf.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    []byte
}

func Int(v int64) Value     { return Value{kind: KindInt, i: v} }
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }
func Text(v string) Value   { return Value{kind: KindText, s: v} }
func Blob(v []byte) Value   { return Value{kind: KindBlob, b: v} }
func Null() Value           { return Value{} }

// BlobFile references a regular file whose contents are bound as a blob
// when the statement is executed.
func BlobFile(path string) Value { return Value{kind: KindBlobFile, s: path} }

// Raw is spliced verbatim into the generated SQL in place of a placeholder.
// It is never escaped or validated.
func Raw(expr string) Value { return Value{kind: KindRaw, s: strings.TrimSpace(expr)} }

// ValueOf converts a plain Go value. Strings carrying a case-insensitive
// "function:" prefix become Raw expressions.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return unsigned(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return unsigned(x)
	case bool:
		if x {
			return Int(1), nil
		}
		return Int(0), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case string:
		if hasRawPrefix(x) {
			return Raw(x[len(rawPrefix):]), nil
		}
		return Text(x), nil
	case []byte:
		return Blob(x), nil
	case *os.File:
		return BlobFile(x.Name()), nil
	case time.Time:
		return Text(x.Format(time.DateTime)), nil
	default:
		return Value{}, fmt.Errorf("crud: unsupported value type %T", v)
	}
}

func hasRawPrefix(s string) bool {
	return len(s) >= len(rawPrefix) && strings.EqualFold(s[:len(rawPrefix)], rawPrefix)
}

func unsigned(x uint64) (Value, error) {
	if x > math.MaxInt64 {
		return Value{}, fmt.Errorf("crud: unsigned value %d overflows int64", x)
	}
	return Int(int64(x)), nil
}

// MustValueOf is like ValueOf but panics on unsupported types.
func MustValueOf(v any) Value {
	val, err := ValueOf(v)
	if err != nil {
		panic(err)
	}
	return val
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) IsRaw() bool  { return v.kind == KindRaw }

// Int64 returns the integer payload; text holding a base-10 integer is
// parsed as well.
func (v Value) Int64() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindText:
		n, err := strconv.ParseInt(v.s, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

func (v Value) Bytes() []byte {
	if v.kind == KindBlob {
		return v.b
	}
	return nil
}

// String renders the value as text. Raw expressions render their SQL and
// blob files their path.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText, KindRaw, KindBlobFile:
		return v.s
	case KindBlob:
		return string(v.b)
	}
	return ""
}

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBlob:
		return string(v.b) == string(o.b)
	case KindNull:
		return true
	}
	return v.s == o.s
}

// Param returns the argument bound for the value. Raw values have no
// parameter and must be spliced instead.
func (v Value) Param() (any, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindInt:
		return v.i, nil
	case KindFloat:
		return v.f, nil
	case KindText:
		return v.s, nil
	case KindBlob:
		return v.b, nil
	case KindBlobFile:
		fi, err := os.Stat(v.s)
		if err != nil {
			return nil, fmt.Errorf("crud: blob file: %w", err)
		}
		if !fi.Mode().IsRegular() {
			return nil, fmt.Errorf("crud: blob file %s is not a regular file", v.s)
		}
		data, err := os.ReadFile(v.s)
		if err != nil {
			return nil, fmt.Errorf("crud: blob file: %w", err)
		}
		return data, nil
	case KindRaw:
		return nil, fmt.Errorf("crud: raw expression %q has no parameter", v.s)
	}
	return nil, fmt.Errorf("crud: unknown value kind %v", v.kind)
}
