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

	"github.com/NVIDIA/sysmon/pkg/errors"
	"github.com/NVIDIA/sysmon/pkg/record"
)

// Cell is one table value. A cell that is not Present is missing, which is
// different from a present null.
type Cell struct {
	Value   record.Value
	Present bool
}

// String renders the cell for text output; missing and null cells are empty.
func (c Cell) String() string {
	if !c.Present || c.Value.IsNull() {
		return ""
	}
	return c.Value.String()
}

// Column is one flattened leaf path.
type Column struct {
	Name string
	// path is nil for the datetime column.
	path []step
}

// Source returns the record path the column was flattened from,
// e.g. SMART.sda.attributes[num=5,name=Reallocated_Sector_Ct].
func (c Column) Source() string {
	if c.path == nil {
		return DatetimeColumn
	}
	return sourcePath(c.path)
}

// Table is the wide projection of a snapshot log: one row per parsed line,
// one column per leaf path seen in any row.
type Table struct {
	columns []Column
	index   map[string]int
	rows    [][]Cell
}

func newTable(columns []Column) *Table {
	t := &Table{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		t.index[c.Name] = i
	}
	return t
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// ColumnDefs returns the column descriptors in order.
func (t *Table) ColumnDefs() []Column {
	return append([]Column(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.columns)
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []Cell {
	if i < 0 || i >= len(t.rows) {
		return nil
	}
	return append([]Cell(nil), t.rows[i]...)
}

// Column returns every cell of the named column, top to bottom.
func (t *Table) Column(name string) ([]Cell, bool) {
	ci, ok := t.index[name]
	if !ok {
		return nil, false
	}
	cells := make([]Cell, len(t.rows))
	for i, row := range t.rows {
		cells[i] = row[ci]
	}
	return cells, true
}

// Value returns the cell at row and column name. The second result is false
// when the row or column does not exist; a missing cell is returned with
// Present set to false.
func (t *Table) Value(row int, name string) (Cell, bool) {
	ci, ok := t.index[name]
	if !ok || row < 0 || row >= len(t.rows) {
		return Cell{}, false
	}
	return t.rows[row][ci], true
}

// Select returns a table with the datetime column and the columns matching
// any of the wildcard patterns. No patterns selects everything.
func (t *Table) Select(patterns []string) *Table {
	var keep []int
	for i, c := range t.columns {
		if len(patterns) == 0 || c.path == nil || record.MatchesAny(c.Name, patterns) {
			keep = append(keep, i)
		}
	}

	cols := make([]Column, len(keep))
	for j, i := range keep {
		cols[j] = t.columns[i]
	}
	out := newTable(cols)
	out.rows = make([][]Cell, len(t.rows))
	for r, row := range t.rows {
		cells := make([]Cell, len(keep))
		for j, i := range keep {
			cells[j] = row[i]
		}
		out.rows[r] = cells
	}
	return out
}

// Collapse rebuilds the snapshot a row was flattened from. Only present cells
// contribute, so empty maps and lists in the original are not restored.
func (t *Table) Collapse(row int) (record.Snapshot, error) {
	if row < 0 || row >= len(t.rows) {
		return record.Snapshot{}, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("row %d out of range [0,%d)", row, len(t.rows)))
	}

	var ts string
	root := &tree{}
	for ci, col := range t.columns {
		cell := t.rows[row][ci]
		if !cell.Present {
			continue
		}
		if col.path == nil {
			ts = cell.Value.String()
			continue
		}
		root.insert(col.path, cell.Value)
	}

	rec, _ := root.value().Map()
	return record.NewSnapshot(ts, rec), nil
}

// tree is the mutable scaffold Collapse fills before producing Values.
type tree struct {
	leaf  *record.Value
	keys  []string
	kids  map[string]*tree
	items []*tree
	attrs []attrCell
}

type attrCell struct {
	col   *attrColumn
	value record.Value
}

func (t *tree) insert(path []step, v record.Value) {
	if len(path) == 0 {
		t.leaf = &v
		return
	}
	s := path[0]
	switch s.kind {
	case stepKey:
		if t.kids == nil {
			t.kids = make(map[string]*tree)
		}
		kid, ok := t.kids[s.key]
		if !ok {
			kid = &tree{}
			t.kids[s.key] = kid
			t.keys = append(t.keys, s.key)
		}
		kid.insert(path[1:], v)
	case stepIndex:
		for len(t.items) <= s.index {
			t.items = append(t.items, nil)
		}
		if t.items[s.index] == nil {
			t.items[s.index] = &tree{}
		}
		t.items[s.index].insert(path[1:], v)
	case stepAttr:
		t.attrs = append(t.attrs, attrCell{col: s.attr, value: v})
	}
}

func (t *tree) value() record.Value {
	switch {
	case t.leaf != nil:
		return *t.leaf
	case len(t.keys) > 0:
		m := record.NewMap()
		for _, k := range t.keys {
			m.Set(k, t.kids[k].value())
		}
		return record.MapValue(m)
	case len(t.attrs) > 0:
		items := make([]record.Value, len(t.attrs))
		for i, a := range t.attrs {
			items[i] = record.MapValue(record.NewMap().
				Set(a.col.idKey, a.col.id).
				Set("name", a.col.name).
				Set("value", a.value))
		}
		return record.ListOf(items)
	case len(t.items) > 0:
		items := make([]record.Value, len(t.items))
		for i, it := range t.items {
			if it == nil {
				items[i] = record.Null()
				continue
			}
			items[i] = it.value()
		}
		return record.ListOf(items)
	default:
		return record.MapValue(record.NewMap())
	}
}
