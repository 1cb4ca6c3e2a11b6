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
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/NVIDIA/sysmon/pkg/record"
	"github.com/NVIDIA/sysmon/pkg/snaplog"
)

// DatetimeColumn is the name of the first column, holding each row's timestamp key.
const DatetimeColumn = "datetime"

const separator = "_"

// DefaultIDKeys are the keys tried, in order, as the id of an attribute triple.
var DefaultIDKeys = []string{"id", "num"}

// Engine flattens snapshot logs into tables. The zero value is not usable; use New.
type Engine struct {
	idKeys []string
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDKeys sets the keys accepted as the id of an {id, name, value} attribute triple.
func WithIDKeys(keys ...string) Option {
	return func(e *Engine) {
		if len(keys) > 0 {
			e.idKeys = append([]string(nil), keys...)
		}
	}
}

// WithLogger sets the logger row errors and warnings are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New returns an Engine with the given options applied.
func New(opts ...Option) *Engine {
	e := &Engine{
		idKeys: DefaultIDKeys,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Flatten parses every line and builds the table with a default Engine.
func Flatten(lines [][]byte) (*Table, *Report) {
	return New().Flatten(lines)
}

// Flatten parses every line independently and builds the table. Blank lines
// are skipped; a line that does not parse is reported and left out.
func (e *Engine) Flatten(lines [][]byte) (*Table, *Report) {
	numbered := make([]snaplog.Line, len(lines))
	for i, line := range lines {
		numbered[i] = snaplog.Line{No: i + 1, Data: line}
	}
	t, rep, _ := e.FlattenLines(context.Background(), numbered)
	return t, rep
}

// FlattenReader reads a whole snapshot log from r and flattens it.
func (e *Engine) FlattenReader(ctx context.Context, r io.Reader) (*Table, *Report, error) {
	lines, err := snaplog.ReadLines(r)
	if err != nil {
		return nil, nil, err
	}
	return e.FlattenLines(ctx, lines)
}

// FlattenSnapshots builds the table from already decoded snapshots, one row each.
func (e *Engine) FlattenSnapshots(snaps []record.Snapshot) (*Table, *Report) {
	rows := make([]row, len(snaps))
	for i, s := range snaps {
		rows[i] = row{line: i + 1, ts: s.Timestamp(), rec: s.Record()}
	}
	rep := &Report{Lines: len(snaps)}
	t := e.build(rows, rep)
	e.log(rep)
	return t, rep
}

type row struct {
	line int
	ts   string
	rec  *record.Map
}

// FlattenLines flattens lines as returned by snaplog.ReadLines. A line that
// could not be read, such as one over snaplog.MaxLineSize, is reported as a
// row error like a line that does not parse. Only ctx cancellation fails the call.
func (e *Engine) FlattenLines(ctx context.Context, lines []snaplog.Line) (*Table, *Report, error) {
	rep := &Report{}
	rows := make([]row, 0, len(lines))

	for i, line := range lines {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		if line.Err != nil {
			rep.Lines++
			rep.RowErrors = append(rep.RowErrors, RowError{Line: line.No, Err: line.Err})
			continue
		}
		if len(bytes.TrimSpace(line.Data)) == 0 {
			continue
		}
		rep.Lines++

		snap, err := record.DecodeLine(line.Data)
		if err != nil {
			rep.RowErrors = append(rep.RowErrors, RowError{Line: line.No, Err: err})
			continue
		}
		rows = append(rows, row{line: line.No, ts: snap.Timestamp(), rec: snap.Record()})
	}

	t := e.build(rows, rep)
	e.log(rep)
	return t, rep, nil
}

// build runs both passes: the schema over all rows first, then the cells.
func (e *Engine) build(rows []row, rep *Report) *Table {
	root := &node{}
	for _, r := range rows {
		e.observe(root, record.MapValue(r.rec))
	}

	p := &planner{columns: []Column{{Name: DatetimeColumn}}}
	for _, key := range root.keys {
		p.plan(root.children[key], key, []step{{kind: stepKey, key: key}})
	}
	p.dedupe()
	rep.Warnings = append(rep.Warnings, p.warnings...)

	t := newTable(p.columns)
	t.rows = make([][]Cell, len(rows))
	for ri, r := range rows {
		cells := make([]Cell, len(p.columns))
		cells[0] = Cell{Value: record.Str(r.ts), Present: true}
		rv := record.MapValue(r.rec)
		for ci := 1; ci < len(p.columns); ci++ {
			col := p.columns[ci]
			cell, dup := e.cell(rv, col.path)
			if dup {
				rep.Warnings = append(rep.Warnings, Warning{
					Kind:    DuplicateAttribute,
					Column:  col.Name,
					Line:    r.line,
					Message: fmt.Sprintf("%s appears more than once, keeping the last", col.Source()),
				})
			}
			cells[ci] = cell
		}
		t.rows[ri] = cells
	}
	rep.Rows = len(rows)
	return t
}

// cell follows path from v. Only scalars and nulls fill a cell; a container at
// the end of the path belongs to the columns of its children.
func (e *Engine) cell(v record.Value, path []step) (Cell, bool) {
	cur := v
	for _, s := range path {
		switch s.kind {
		case stepKey:
			m, ok := cur.Map()
			if !ok {
				return Cell{}, false
			}
			next, ok := m.Get(s.key)
			if !ok {
				return Cell{}, false
			}
			cur = next
		case stepIndex:
			items, ok := cur.List()
			if !ok || s.index >= len(items) {
				return Cell{}, false
			}
			cur = items[s.index]
		case stepAttr:
			items, ok := cur.List()
			if !ok {
				return Cell{}, false
			}
			var found, dup bool
			for _, item := range items {
				a, ok := e.attribute(item)
				if !ok || a.label() != s.attr.label {
					continue
				}
				dup = found
				found = true
				cur = a.value
			}
			if !found {
				return Cell{}, false
			}
			return Cell{Value: cur, Present: true}, dup
		}
	}
	if !cur.Kind().IsScalar() {
		return Cell{}, false
	}
	return Cell{Value: cur, Present: true}, false
}

func (e *Engine) log(rep *Report) {
	for _, re := range rep.RowErrors {
		e.logger.Warn("skipping malformed log line",
			slog.Int("line", re.Line),
			slog.String("error", re.Err.Error()))
	}
	for _, w := range rep.Warnings {
		e.logger.Warn("flatten warning",
			slog.String("kind", w.Kind.String()),
			slog.String("column", w.Column),
			slog.Int("line", w.Line),
			slog.String("detail", w.Message))
	}
}
