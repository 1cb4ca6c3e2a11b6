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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	syserrors "github.com/NVIDIA/sysmon/pkg/errors"
	"github.com/NVIDIA/sysmon/pkg/flatten"
)

func TestSQLiteWriter_Serialize(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DROP TABLE IF EXISTS "mem"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE "mem" ("datetime" TEXT, "mem_total" NUMERIC, "mem_free" NUMERIC)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	insert := mock.ExpectPrepare(`INSERT INTO "mem" ("datetime", "mem_total", "mem_free") VALUES (?, ?, ?)`)
	insert.ExpectExec().
		WithArgs("2024-01-01 00:00", int64(1000), int64(400)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	insert.ExpectExec().
		WithArgs("2024-01-01 00:01", int64(1000), nil).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	w := NewSQLiteWriter(db, "mem")
	if err := w.Serialize(context.Background(), memTable(t)); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}

	// The caller owns db.
	if err := w.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestSQLiteWriter_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DROP TABLE IF EXISTS "snapshots"`).
		WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	w := NewSQLiteWriter(db, "")
	if err := w.Serialize(context.Background(), memTable(t)); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLiteWriter_RejectsNonTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	if err := NewSQLiteWriter(db, "x").Serialize(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for non-table data")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database calls: %v", err)
	}
}

func TestSQLiteWriter_CaseInsensitiveColumns(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	engine := flatten.New(flatten.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	tbl, rep := engine.Flatten([][]byte{
		[]byte(`{"2024-01-01 00:00": {"Sensors": {"t": 40}, "sensors": {"t": "hot"}}}`),
	})
	if !rep.OK() {
		t.Fatalf("unexpected row errors: %v", rep.RowErrors)
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DROP TABLE IF EXISTS "snapshots"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE "snapshots" ("datetime" TEXT, "Sensors_t" NUMERIC, "sensors_t_2" TEXT)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	insert := mock.ExpectPrepare(`INSERT INTO "snapshots" ("datetime", "Sensors_t", "sensors_t_2") VALUES (?, ?, ?)`)
	insert.ExpectExec().
		WithArgs("2024-01-01 00:00", int64(40), "hot").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := NewSQLiteWriter(db, "").Serialize(context.Background(), tbl); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLColumns(t *testing.T) {
	got := sqlColumns([]string{"datetime", "a_b", "A_B", "a_b_2", "A_b"})
	want := []string{"datetime", "a_b", "A_B_2", "a_b_2_2", "A_b_3"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("sqlColumns = %v, want %v", got, want)
	}
}

func TestSQLiteWriter_TooManyColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	var b strings.Builder
	b.WriteString(`{"2024-01-01 00:00": {"wide": {`)
	for i := range sqliteMaxColumns {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `"c%d": %d`, i, i)
	}
	b.WriteString(`}}}`)

	engine := flatten.New(flatten.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	tbl, rep := engine.Flatten([][]byte{[]byte(b.String())})
	if !rep.OK() {
		t.Fatalf("unexpected row errors: %v", rep.RowErrors)
	}
	if tbl.Width() != sqliteMaxColumns+1 {
		t.Fatalf("width = %d, want %d", tbl.Width(), sqliteMaxColumns+1)
	}

	err = NewSQLiteWriter(db, "").Serialize(context.Background(), tbl)
	if err == nil {
		t.Fatal("expected error for a table wider than sqlite allows")
	}
	if code := syserrors.CodeOf(err); code != syserrors.ErrCodeInvalidRequest {
		t.Errorf("code = %s, want %s", code, syserrors.ErrCodeInvalidRequest)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database calls: %v", err)
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := quoteIdent(`SMART_sda_s/n`); got != `"SMART_sda_s/n"` {
		t.Errorf("quoteIdent = %s", got)
	}
	if got := quoteIdent(`a"b`); got != `"a""b"` {
		t.Errorf("quoteIdent = %s", got)
	}
}

func TestOpenSQLite(t *testing.T) {
	w, err := OpenSQLite(filepath.Join(t.TempDir(), "sysmon.db"), "")
	if err != nil {
		// go-sqlite3 needs cgo; without it Ping fails.
		t.Skipf("sqlite3 unavailable: %v", err)
	}
	defer w.Close()

	if err := w.Serialize(context.Background(), memTable(t)); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var n int
	if err := w.db.QueryRow(`SELECT COUNT(*) FROM "snapshots" WHERE "mem_free" IS NULL`).Scan(&n); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if n != 1 {
		t.Errorf("rows with missing mem_free = %d, want 1", n)
	}
}
