// Package privacy projects user-shaped records into the view a given viewer is
// allowed to see, according to the subject's privacy level.
package privacy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

type Kind uint8

const (
	KindScalar Kind = iota
	KindRecord
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindSequence:
		return "sequence"
	default:
		return "scalar"
	}
}

// Value is a record, a sequence or a scalar. The zero Value is the null scalar.
type Value struct {
	kind   Kind
	scalar any
	record map[string]Value
	seq    []Value
}

func Null() Value {
	return Value{}
}

func Scalar(v any) Value {
	return Value{kind: KindScalar, scalar: v}
}

func Record(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: KindRecord, record: fields}
}

func Sequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSequence, seq: items}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindScalar && v.scalar == nil
}

// Field returns the named field of a record. It reports false for missing
// fields and for values that are not records.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != KindRecord {
		return Value{}, false
	}
	f, ok := v.record[key]
	return f, ok
}

func (v Value) Has(key string) bool {
	_, ok := v.Field(key)
	return ok
}

// Keys returns the record's keys in sorted order.
func (v Value) Keys() []string {
	if v.kind != KindRecord {
		return nil
	}
	keys := make([]string, 0, len(v.record))
	for k := range v.record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len is the number of elements of a sequence or fields of a record.
func (v Value) Len() int {
	switch v.kind {
	case KindRecord:
		return len(v.record)
	case KindSequence:
		return len(v.seq)
	default:
		return 0
	}
}

func (v Value) Index(i int) Value {
	if v.kind != KindSequence || i < 0 || i >= len(v.seq) {
		return Value{}
	}
	return v.seq[i]
}

func (v Value) Str() (string, bool) {
	if v.kind != KindScalar {
		return "", false
	}
	s, ok := v.scalar.(string)
	return s, ok
}

// text renders a scalar the way it would be compared as an identifier.
func (v Value) text() string {
	if v.kind != KindScalar {
		return ""
	}
	switch s := v.scalar.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}

// FromAny converts decoded JSON (or values shaped like it) into a Value.
// Anything that is neither a map nor a slice becomes a scalar.
func FromAny(x any) Value {
	switch t := x.(type) {
	case Value:
		return t
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, f := range t {
			fields[k] = FromAny(f)
		}
		return Record(fields)
	case map[string]string:
		fields := make(map[string]Value, len(t))
		for k, f := range t {
			fields[k] = Scalar(f)
		}
		return Record(fields)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return Sequence(items...)
	case []string:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = Scalar(item)
		}
		return Sequence(items...)
	case []map[string]any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return Sequence(items...)
	default:
		return Scalar(t)
	}
}

// Any converts v back into plain maps, slices and scalars.
func (v Value) Any() any {
	switch v.kind {
	case KindRecord:
		out := make(map[string]any, len(v.record))
		for k, f := range v.record {
			out[k] = f.Any()
		}
		return out
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.Any()
		}
		return out
	default:
		return v.scalar
	}
}

// Decode parses a JSON document. Numbers are kept as json.Number so they are
// written back exactly as received.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var x any
	if err := dec.Decode(&x); err != nil {
		return Value{}, fmt.Errorf("decode value: %w", err)
	}
	if dec.More() {
		return Value{}, fmt.Errorf("decode value: trailing data after document")
	}
	return FromAny(x), nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func (v Value) clone() Value {
	switch v.kind {
	case KindRecord:
		fields := make(map[string]Value, len(v.record))
		for k, f := range v.record {
			fields[k] = f.clone()
		}
		return Record(fields)
	case KindSequence:
		items := make([]Value, len(v.seq))
		for i, item := range v.seq {
			items[i] = item.clone()
		}
		return Sequence(items...)
	default:
		return v
	}
}
