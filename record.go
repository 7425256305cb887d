package crud

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Field is one column of a Record.
type Field struct {
	Column string
	Value  Value
}

// Record is one row: column names mapped to values in insertion order.
// Column order decides the column order of generated SQL.
type Record []Field

// Batch is an ordered sequence of records processed independently.
type Batch []Record

// R builds a Record from alternating column/value pairs, inferring each
// value with ValueOf.
//
//	crud.R("firstName", "Foo", "lastName", "Bar")
func R(pairs ...any) (Record, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("crud: odd number of arguments to R")
	}
	rec := make(Record, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		col, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("crud: column name at position %d is %T, not string", i, pairs[i])
		}
		v, err := ValueOf(pairs[i+1])
		if err != nil {
			return nil, fmt.Errorf("crud: column %s: %w", col, err)
		}
		rec = rec.Set(col, v)
	}
	return rec, nil
}

// Set replaces the value of an existing column in place or appends a new
// column at the end.
func (r Record) Set(col string, v Value) Record {
	for i := range r {
		if r[i].Column == col {
			r[i].Value = v
			return r
		}
	}
	return append(r, Field{Column: col, Value: v})
}

func (r Record) Get(col string) (Value, bool) {
	for _, f := range r {
		if f.Column == col {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Lookup is Get with a case-insensitive column match.
func (r Record) Lookup(col string) (Value, bool) {
	for _, f := range r {
		if strings.EqualFold(f.Column, col) {
			return f.Value, true
		}
	}
	return Value{}, false
}

func (r Record) Columns() []string {
	cols := make([]string, len(r))
	for i, f := range r {
		cols[i] = f.Column
	}
	return cols
}

// Without returns a copy of r lacking col.
func (r Record) Without(col string) Record {
	out := make(Record, 0, len(r))
	for _, f := range r {
		if f.Column != col {
			out = append(out, f)
		}
	}
	return out
}

// MarshalJSON writes the record as an object whose keys keep column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Column)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", f.Column, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalValue(v Value) ([]byte, error) {
	switch v.Kind() {
	case KindNull:
		return []byte("null"), nil
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindBlob:
		return json.Marshal(v.b)
	case KindRaw:
		return json.Marshal(rawPrefix + " " + v.s)
	case KindText:
		if escapedText(v.s) {
			return json.Marshal(`\` + v.s)
		}
	}
	return json.Marshal(v.s)
}

// escapedText reports whether s, once its leading backslashes are removed,
// starts with the raw prefix. Such text gets one extra backslash in JSON so
// it reads back as text instead of a raw expression.
func escapedText(s string) bool {
	return hasRawPrefix(strings.TrimLeft(s, `\`))
}

// UnmarshalJSON reads an object keeping its key order. Integral numbers
// become Int, other numbers Float, and strings go through ValueOf so the
// "function:" prefix yields a Raw value. A leading backslash before the
// prefix is dropped and the rest kept as text.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	rec, err := decodeRecord(dec)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// DecodeJSON reads either a single object or an array of objects. The
// second return value is true for an array.
func DecodeJSON(rd io.Reader) (Batch, bool, error) {
	dec := json.NewDecoder(rd)
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, false, fmt.Errorf("crud: decode: %w", err)
	}
	switch tok {
	case json.Delim('{'):
		rec, err := decodeFields(dec)
		if err != nil {
			return nil, false, err
		}
		return Batch{rec}, false, nil
	case json.Delim('['):
		var batch Batch
		for dec.More() {
			rec, err := decodeRecord(dec)
			if err != nil {
				return nil, true, fmt.Errorf("crud: decode row %d: %w", len(batch), err)
			}
			batch = append(batch, rec)
		}
		if _, err := dec.Token(); err != nil {
			return nil, true, fmt.Errorf("crud: decode: %w", err)
		}
		return batch, true, nil
	}
	return nil, false, fmt.Errorf("crud: decode: expected object or array, got %v", tok)
}

func decodeRecord(dec *json.Decoder) (Record, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('{') {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	return decodeFields(dec)
}

// decodeFields consumes the remainder of an object whose opening brace has
// already been read.
func decodeFields(dec *json.Decoder) (Record, error) {
	rec := Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		col, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected column name, got %v", tok)
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		v, err := jsonValue(raw)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		rec = rec.Set(col, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rec, nil
}

func jsonValue(raw any) (Value, error) {
	switch x := raw.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return Int(n), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case string:
		if strings.HasPrefix(x, `\`) && escapedText(x) {
			return Text(x[1:]), nil
		}
	case map[string]any, []any:
		return Value{}, errors.New("nested values are not supported")
	}
	return ValueOf(raw)
}
