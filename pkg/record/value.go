// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindMap
	KindList
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IsScalar reports whether the Kind is one of the leaf variants (null, bool, number, string).
func (k Kind) IsScalar() bool {
	return k <= KindString
}

// Value is a tagged variant: a scalar (null, bool, number, string), an ordered Map,
// or a List of Values. The zero Value is null.
//
// Numbers keep their textual JSON form so integers and floats survive a round trip
// through the snapshot log unchanged.
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	s    string
	m    *Map
	l    []Value
}

// Convenience constructors for each variant.
func Null() Value                 { return Value{} }
func Bool(v bool) Value           { return Value{kind: KindBool, b: v} }
func Int(v int64) Value           { return Value{kind: KindNumber, num: json.Number(strconv.FormatInt(v, 10))} }
func Uint(v uint64) Value         { return Value{kind: KindNumber, num: json.Number(strconv.FormatUint(v, 10))} }
func Str(v string) Value          { return Value{kind: KindString, s: v} }
func Number(v json.Number) Value  { return Value{kind: KindNumber, num: v} }
func MapValue(m *Map) Value       { return Value{kind: KindMap, m: m} }
func List(items ...Value) Value   { return Value{kind: KindList, l: items} }
func ListOf(items []Value) Value  { return Value{kind: KindList, l: items} }
func Float(v float64) Value       { return Value{kind: KindNumber, num: json.Number(formatFloat(v))} }

// formatFloat renders v the way encoding/json does. NaN and Inf have no JSON
// representation and become 0.
func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	format := byte('f')
	if abs := math.Abs(v); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	return strconv.FormatFloat(v, format, -1, 64)
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Map returns the Map held by v, or nil and false when v is not a map.
func (v Value) Map() (*Map, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// List returns the elements held by v, or nil and false when v is not a list.
func (v Value) List() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.l, true
}

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Text returns the string held by v.
func (v Value) Text() (string, bool) {
	return v.s, v.kind == KindString
}

// Number returns the textual number held by v.
func (v Value) Number() (json.Number, bool) {
	return v.num, v.kind == KindNumber
}

// Float64 returns the numeric value of v as a float64.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := v.num.Float64()
	return f, err == nil
}

// Int64 returns the numeric value of v as an int64 when it is an integer.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	i, err := v.num.Int64()
	return i, err == nil
}

// Any returns the plain Go representation of v: nil, bool, int64 or float64, string,
// map[string]any, or []any.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if i, err := v.num.Int64(); err == nil {
			return i
		}
		if f, err := v.num.Float64(); err == nil {
			return f
		}
		return v.num.String()
	case KindString:
		return v.s
	case KindMap:
		out := make(map[string]any, v.m.Len())
		for k, item := range v.m.All() {
			out[k] = item.Any()
		}
		return out
	case KindList:
		out := make([]any, len(v.l))
		for i, item := range v.l {
			out[i] = item.Any()
		}
		return out
	default:
		return nil
	}
}

// String returns a human readable form of v. Scalars render as their plain value,
// containers render as compact JSON.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return v.num.String()
	case KindString:
		return v.s
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("<%s>", v.kind)
		}
		return string(b)
	}
}

// Equal reports whether v and o hold the same variant and content.
// Numbers compare by numeric value, maps compare by key set regardless of order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		if v.num == o.num {
			return true
		}
		a, errA := v.num.Float64()
		b, errB := o.num.Float64()
		return errA == nil && errB == nil && a == b
	case KindString:
		return v.s == o.s
	case KindMap:
		return v.m.Equal(o.m)
	case KindList:
		if len(v.l) != len(o.l) {
			return false
		}
		for i := range v.l {
			if !v.l[i].Equal(o.l[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindMap:
		if v.m == nil {
			return MapValue(NewMap())
		}
		return MapValue(v.m.Clone())
	case KindList:
		items := make([]Value, len(v.l))
		for i, item := range v.l {
			items[i] = item.Clone()
		}
		return ListOf(items)
	default:
		return v
	}
}

// MarshalJSON writes the underlying value, not a wrapper object.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		if v.num == "" {
			return []byte("0"), nil
		}
		return []byte(v.num), nil
	case KindString:
		return json.Marshal(v.s)
	case KindMap:
		if v.m == nil {
			return []byte("{}"), nil
		}
		return v.m.MarshalJSON()
	case KindList:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.l {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("cannot marshal value of kind %s", v.kind)
	}
}

// UnmarshalJSON decodes any JSON document into a Value, preserving object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	val, err := decodeValue(dec)
	if err != nil {
		return err
	}
	// Anything but EOF after the value, including a stray '}' or ']', is extra data.
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return fmt.Errorf("unexpected trailing data after JSON value: %w", err)
		}
		return fmt.Errorf("unexpected trailing data after JSON value: %v", tok)
	}
	*v = val
	return nil
}

// MarshalYAML makes the YAML value be the underlying value.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindMap:
		return v.m.MarshalYAML()
	case KindList:
		items := make([]any, len(v.l))
		for i, item := range v.l {
			y, err := item.MarshalYAML()
			if err != nil {
				return nil, err
			}
			items[i] = y
		}
		return items, nil
	default:
		return v.Any(), nil
	}
}

// FromAny converts plain Go data (as produced by encoding/json or built by hand) into a Value.
// Maps built from Go maps have their keys sorted, since Go maps carry no order.
// Unsupported types are stored as their fmt representation.
func FromAny(x any) Value {
	switch val := x.(type) {
	case nil:
		return Null()
	case Value:
		return val
	case *Map:
		return MapValue(val)
	case bool:
		return Bool(val)
	case int:
		return Int(int64(val))
	case int32:
		return Int(int64(val))
	case int64:
		return Int(val)
	case uint:
		return Uint(uint64(val))
	case uint32:
		return Uint(uint64(val))
	case uint64:
		return Uint(val)
	case float32:
		return Float(float64(val))
	case float64:
		return Float(val)
	case json.Number:
		return Number(val)
	case string:
		return Str(val)
	case []any:
		items := make([]Value, len(val))
		for i, item := range val {
			items[i] = FromAny(item)
		}
		return ListOf(items)
	case []string:
		items := make([]Value, len(val))
		for i, item := range val {
			items[i] = Str(item)
		}
		return ListOf(items)
	case map[string]any:
		return MapValue(MapFromGo(val))
	default:
		return Str(fmt.Sprintf("%v", val))
	}
}
