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

package serializer

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	// Registers the sqlite3 driver.
	_ "github.com/mattn/go-sqlite3"

	"github.com/NVIDIA/sysmon/pkg/errors"
	"github.com/NVIDIA/sysmon/pkg/flatten"
	"github.com/NVIDIA/sysmon/pkg/record"
)

// DefaultSQLiteTable is the table name used when none is given.
const DefaultSQLiteTable = "snapshots"

// sqliteMaxColumns is SQLite's default SQLITE_MAX_COLUMN.
const sqliteMaxColumns = 2000

// SQLiteWriter replaces a SQLite table with the contents of a flattened table.
// The drop, create and inserts run in one transaction.
type SQLiteWriter struct {
	db    *sql.DB
	table string
	owned bool
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(path, table string) (*SQLiteWriter, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, "failed to open database", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "database not responding", err,
			map[string]any{"path": path})
	}

	w := NewSQLiteWriter(db, table)
	w.owned = true
	return w, nil
}

// NewSQLiteWriter wraps an open database. The caller keeps ownership of db.
func NewSQLiteWriter(db *sql.DB, table string) *SQLiteWriter {
	if table == "" {
		table = DefaultSQLiteTable
	}
	return &SQLiteWriter{db: db, table: table}
}

// Close closes the database when it was opened by OpenSQLite.
func (w *SQLiteWriter) Close() error {
	if !w.owned || w.db == nil {
		return nil
	}
	err := w.db.Close()
	w.db = nil
	return err
}

// Serialize implements Serializer. data must be a *flatten.Table.
func (w *SQLiteWriter) Serialize(ctx context.Context, data any) (err error) {
	t, ok := data.(*flatten.Table)
	if !ok {
		return errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("sqlite output needs a table, got %T", data))
	}
	if t.Width() > sqliteMaxColumns {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("table has %d columns, sqlite allows at most %d", t.Width(), sqliteMaxColumns),
			map[string]any{"columns": t.Width(), "max": sqliteMaxColumns})
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to begin transaction", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Warn("failed to roll back", "error", rbErr)
			}
		}
	}()

	table := quoteIdent(w.table)
	columns := sqlColumns(t.Columns())

	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to drop table", err)
	}
	if _, err = tx.ExecContext(ctx, createStatement(table, t, columns)); err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to create table", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertStatement(table, columns))
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to prepare insert", err)
	}
	defer stmt.Close()

	args := make([]any, len(columns))
	for i := range t.Len() {
		for ci, c := range t.Row(i) {
			args[ci] = sqlValue(c)
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return errors.WrapWithContext(errors.ErrCodeIO, "failed to insert row", err,
				map[string]any{"row": i})
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to commit", err)
	}
	slog.Debug("table written to sqlite", "table", w.table, "rows", t.Len(), "columns", len(columns))
	return nil
}

// sqlColumns maps table columns to SQLite column names. SQLite compares
// identifiers case-insensitively, so a name equal to an earlier one up to case
// gets a _2, _3 suffix.
func sqlColumns(names []string) []string {
	out := make([]string, len(names))
	used := make(map[string]bool, len(names))
	for i, name := range names {
		candidate := name
		for n := 2; used[strings.ToLower(candidate)]; n++ {
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		if candidate != name {
			slog.Warn("renaming sqlite column that differs only in case",
				"column", name, "renamed", candidate)
		}
		used[strings.ToLower(candidate)] = true
		out[i] = candidate
	}
	return out
}

func createStatement(table string, t *flatten.Table, columns []string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(table)
	b.WriteString(" (")
	for i, name := range t.Columns() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteIdent(columns[i]))
		b.WriteString(" ")
		b.WriteString(columnType(t, name))
	}
	b.WriteString(")")
	return b.String()
}

func insertStatement(table string, columns []string) string {
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table,
		strings.Join(quoted, ", "), strings.Join(marks, ", "))
}

// columnType is NUMERIC when every present value in the column is a number.
func columnType(t *flatten.Table, name string) string {
	cells, _ := t.Column(name)
	numeric := false
	for _, c := range cells {
		if !c.Present || c.Value.IsNull() {
			continue
		}
		if c.Value.Kind() != record.KindNumber {
			return "TEXT"
		}
		numeric = true
	}
	if numeric {
		return "NUMERIC"
	}
	return "TEXT"
}

func sqlValue(c flatten.Cell) any {
	if !c.Present {
		return nil
	}
	switch c.Value.Kind() {
	case record.KindNumber:
		if n, ok := c.Value.Int64(); ok {
			return n
		}
		if f, ok := c.Value.Float64(); ok {
			return f
		}
		return c.Value.String()
	case record.KindBool:
		b, _ := c.Value.Bool()
		return b
	case record.KindString:
		s, _ := c.Value.Text()
		return s
	default:
		return nil
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
