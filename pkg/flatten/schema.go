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

package flatten

import (
	"fmt"
	"math/bits"
	"slices"
	"strconv"
	"strings"

	"github.com/NVIDIA/sysmon/pkg/record"
)

// shape is the set of non-null value kinds seen at one path.
type shape uint8

const (
	shapeScalar shape = 1 << iota
	shapeMap
	shapeList
)

func (s shape) count() int {
	return bits.OnesCount8(uint8(s))
}

func (s shape) String() string {
	var names []string
	if s&shapeScalar != 0 {
		names = append(names, "scalar")
	}
	if s&shapeMap != 0 {
		names = append(names, "map")
	}
	if s&shapeList != 0 {
		names = append(names, "list")
	}
	if len(names) == 0 {
		return "null"
	}
	return strings.Join(names, "+")
}

// node accumulates everything the first pass saw at one path, across all rows.
type node struct {
	shapes shape

	keys     []string
	children map[string]*node

	items []*node

	attrs     []*attrColumn
	attrIndex map[string]*attrColumn
	notAttr   bool
}

func (n *node) child(key string) *node {
	if n.children == nil {
		n.children = make(map[string]*node)
	}
	c, ok := n.children[key]
	if !ok {
		c = &node{}
		n.children[key] = c
		n.keys = append(n.keys, key)
	}
	return c
}

func (n *node) item(i int) *node {
	for len(n.items) <= i {
		n.items = append(n.items, &node{})
	}
	return n.items[i]
}

func (n *node) addAttr(a attribute) {
	label := a.label()
	if _, ok := n.attrIndex[label]; ok {
		return
	}
	if n.attrIndex == nil {
		n.attrIndex = make(map[string]*attrColumn)
	}
	col := &attrColumn{label: label, idKey: a.idKey, id: a.id, name: a.name}
	n.attrIndex[label] = col
	n.attrs = append(n.attrs, col)
}

// isAttributeList reports whether every element ever seen under this list was
// an {id, name, value} triple.
func (n *node) isAttributeList() bool {
	return !n.notAttr && len(n.attrs) > 0
}

// attribute is one {id, name, value} triple of a variable-schema list.
type attribute struct {
	idKey string
	id    record.Value
	name  record.Value
	value record.Value
}

func (a attribute) label() string {
	return a.id.String() + separator + a.name.String()
}

// attrColumn is one <id>_<name> column discovered under an attribute list.
// id and name keep the kinds first seen so a collapsed row rebuilds them as is.
type attrColumn struct {
	label string
	idKey string
	id    record.Value
	name  record.Value
}

// observe folds one value into the schema tree.
func (e *Engine) observe(n *node, v record.Value) {
	switch v.Kind() {
	case record.KindNull:
	case record.KindMap:
		n.shapes |= shapeMap
		m, _ := v.Map()
		for key, child := range m.All() {
			e.observe(n.child(key), child)
		}
	case record.KindList:
		n.shapes |= shapeList
		items, _ := v.List()
		for i, item := range items {
			e.observe(n.item(i), item)
			if n.notAttr {
				continue
			}
			a, ok := e.attribute(item)
			if !ok {
				n.notAttr = true
				continue
			}
			n.addAttr(a)
		}
	default:
		n.shapes |= shapeScalar
	}
}

// attribute reports whether v is a triple with exactly an id key, "name" and
// "value", all scalar.
func (e *Engine) attribute(v record.Value) (attribute, bool) {
	m, ok := v.Map()
	if !ok || m.Len() != 3 {
		return attribute{}, false
	}
	name, ok := m.Get("name")
	if !ok || name.IsNull() || !name.Kind().IsScalar() {
		return attribute{}, false
	}
	value, ok := m.Get("value")
	if !ok || !value.Kind().IsScalar() {
		return attribute{}, false
	}
	for _, key := range e.idKeys {
		id, ok := m.Get(key)
		if ok && !id.IsNull() && id.Kind().IsScalar() {
			return attribute{idKey: key, id: id, name: name, value: value}, true
		}
	}
	return attribute{}, false
}

type stepKind uint8

const (
	stepKey stepKind = iota
	stepIndex
	stepAttr
)

// step is one hop from a value to its child.
type step struct {
	kind  stepKind
	key   string
	index int
	attr  *attrColumn
}

func (s step) String() string {
	switch s.kind {
	case stepIndex:
		return "[" + strconv.Itoa(s.index) + "]"
	case stepAttr:
		return "[" + s.attr.idKey + "=" + s.attr.id.String() + ",name=" + s.attr.name.String() + "]"
	default:
		return "." + s.key
	}
}

// planner turns the schema tree into the ordered column list.
type planner struct {
	columns  []Column
	warnings []Warning
}

func (p *planner) plan(n *node, name string, path []step) {
	if n.shapes.count() > 1 {
		p.warnings = append(p.warnings, Warning{
			Kind:    ShapeDivergence,
			Column:  name,
			Message: fmt.Sprintf("value at %s is %s across rows, each kind flattens separately", sourcePath(path), n.shapes),
		})
	}

	if n.shapes == 0 || n.shapes&shapeScalar != 0 {
		p.columns = append(p.columns, Column{Name: name, path: path})
	}

	if n.shapes&shapeMap != 0 {
		for _, key := range n.keys {
			p.plan(n.children[key], name+separator+key, extend(path, step{kind: stepKey, key: key}))
		}
	}

	if n.shapes&shapeList != 0 {
		if n.isAttributeList() {
			for _, a := range n.attrs {
				p.columns = append(p.columns, Column{
					Name: name + separator + a.label,
					path: extend(path, step{kind: stepAttr, attr: a}),
				})
			}
			return
		}
		for i, item := range n.items {
			p.plan(item, name+separator+strconv.Itoa(i), extend(path, step{kind: stepIndex, index: i}))
		}
	}
}

// dedupe renames repeated column names with _2, _3, ... suffixes.
func (p *planner) dedupe() {
	taken := make(map[string]bool, len(p.columns))
	for i := range p.columns {
		name := p.columns[i].Name
		if !taken[name] {
			taken[name] = true
			continue
		}
		renamed := name
		for n := 2; taken[renamed]; n++ {
			renamed = name + separator + strconv.Itoa(n)
		}
		taken[renamed] = true
		p.columns[i].Name = renamed
		p.warnings = append(p.warnings, Warning{
			Kind:    NameCollision,
			Column:  renamed,
			Message: fmt.Sprintf("%s also names another column, renamed to %s", name, renamed),
		})
	}
}

func extend(path []step, s step) []step {
	return append(slices.Clip(path), s)
}

func sourcePath(path []step) string {
	var b strings.Builder
	for i, s := range path {
		str := s.String()
		if i == 0 && s.kind == stepKey {
			str = s.key
		}
		b.WriteString(str)
	}
	return b.String()
}
