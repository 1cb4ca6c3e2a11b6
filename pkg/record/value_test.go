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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValue_Kinds(t *testing.T) {
	tests := []struct {
		name   string
		value  Value
		kind   Kind
		scalar bool
	}{
		{name: "zero value", value: Value{}, kind: KindNull, scalar: true},
		{name: "bool", value: Bool(true), kind: KindBool, scalar: true},
		{name: "int", value: Int(-3), kind: KindNumber, scalar: true},
		{name: "uint", value: Uint(7), kind: KindNumber, scalar: true},
		{name: "float", value: Float(0.25), kind: KindNumber, scalar: true},
		{name: "string", value: Str("kB"), kind: KindString, scalar: true},
		{name: "map", value: MapValue(NewMap()), kind: KindMap, scalar: false},
		{name: "list", value: List(Int(1)), kind: KindList, scalar: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
			assert.Equal(t, tt.scalar, tt.value.Kind().IsScalar())
		})
	}
}

func TestValue_Any(t *testing.T) {
	assert.Nil(t, Null().Any())
	assert.Equal(t, int64(42), Int(42).Any())
	assert.Equal(t, 0.5, Float(0.5).Any())
	assert.Equal(t, "x", Str("x").Any())
	assert.Equal(t, true, Bool(true).Any())

	m := NewMap().Set("a", Int(1)).Set("b", List(Str("x")))
	assert.Equal(t, map[string]any{"a": int64(1), "b": []any{"x"}}, MapValue(m).Any())
}

func TestValue_FloatNaNBecomesZero(t *testing.T) {
	zero := 0.0
	v := Float(zero / zero)
	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "0", string(b))
}

func TestValue_JSONRoundTrip_PreservesOrderAndNumbers(t *testing.T) {
	in := `{"z":1,"a":{"y":2.50,"b":null},"m":[{"num":5,"name":"Raw_Read","value":100}],"s":"x","t":true}`

	var v Value
	require.NoError(t, json.Unmarshal([]byte(in), &v))

	m, ok := v.Map()
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m", "s", "t"}, m.Keys())

	nested, _ := m.Get("a")
	nm, ok := nested.Map()
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b"}, nm.Keys())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestValue_UnmarshalRejectsTrailingData(t *testing.T) {
	var v Value
	assert.Error(t, v.UnmarshalJSON([]byte(`{"a":1} {"b":2}`)))
	assert.Error(t, v.UnmarshalJSON([]byte(`{"a":1}}`)))
	assert.Error(t, v.UnmarshalJSON([]byte(`[1]]`)))
	assert.Error(t, v.UnmarshalJSON([]byte(`1 2`)))
	assert.Error(t, v.UnmarshalJSON([]byte(`{"a":`)))
	assert.Error(t, v.UnmarshalJSON([]byte(``)))
}

func TestValue_Equal(t *testing.T) {
	a := MapValue(NewMap().Set("x", Int(1)).Set("y", Str("b")))
	b := MapValue(NewMap().Set("y", Str("b")).Set("x", Number("1.0")))
	assert.True(t, a.Equal(b), "order and number spelling should not matter")

	c := MapValue(NewMap().Set("x", Int(2)).Set("y", Str("b")))
	assert.False(t, a.Equal(c))
	assert.False(t, Int(1).Equal(Str("1")))
	assert.True(t, List(Int(1), Null()).Equal(List(Int(1), Null())))
	assert.False(t, List(Int(1)).Equal(List(Int(1), Int(2))))
}

func TestValue_CloneIsDeep(t *testing.T) {
	inner := NewMap().Set("total", Int(1000))
	orig := MapValue(NewMap().Set("mem", MapValue(inner)))

	cp := orig.Clone()
	inner.Set("total", Int(1))

	m, _ := cp.Map()
	mem, _ := m.Get("mem")
	mm, _ := mem.Map()
	total, _ := mm.Get("total")
	assert.True(t, total.Equal(Int(1000)))
}

func TestValue_MarshalYAML_KeepsOrder(t *testing.T) {
	m := NewMap().Set("b", Int(1)).Set("a", MapValue(NewMap().Set("z", Str("x")).Set("c", Bool(false))))

	out, err := yaml.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "b: 1\na:\n    z: x\n    c: false\n", string(out))
}

func TestFromAny(t *testing.T) {
	v := FromAny(map[string]any{
		"b":     1,
		"a":     []any{"root", "bob"},
		"float": 1.5,
		"nil":   nil,
	})

	m, ok := v.Map()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "float", "nil"}, m.Keys())

	users, _ := m.Get("a")
	items, ok := users.List()
	require.True(t, ok)
	assert.Len(t, items, 2)

	n, _ := m.Get("nil")
	assert.True(t, n.IsNull())
}

func TestMap_SetReplacesInPlace(t *testing.T) {
	m := NewMap().Set("a", Int(1)).Set("b", Int(2)).Set("a", Int(3))

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, ok := m.Get("a")
	require.True(t, ok)
	assert.True(t, v.Equal(Int(3)))
}

func TestMap_NilIsEmpty(t *testing.T) {
	var m *Map
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Keys())
	_, ok := m.Get("x")
	assert.False(t, ok)

	b, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}

func TestMap_UnmarshalJSON_DuplicateKeys(t *testing.T) {
	var m Map
	require.NoError(t, json.Unmarshal([]byte(`{"a":1,"b":2,"a":3}`), &m))

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, _ := m.Get("a")
	assert.True(t, v.Equal(Int(3)))
}

func TestMap_UnmarshalJSON_NotObject(t *testing.T) {
	var m Map
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &m))
}

func TestFloat_Formatting(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{16384000, "16384000"},
		{350735.47, "350735.47"},
		{0.25, "0.25"},
		{1e21, "1e+21"},
		{0.0000001, "1e-07"},
		{0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Float(tt.in).String())
		})
	}
}
