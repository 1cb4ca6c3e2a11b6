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
	stderrors "errors"
	"fmt"

	"github.com/NVIDIA/sysmon/pkg/errors"
)

// RowError is a log line that could not be turned into a row.
type RowError struct {
	// Line is the 1-based line number in the input.
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// WarningKind classifies a data-quality warning.
type WarningKind int

const (
	// ShapeDivergence means one path held values of different kinds across rows.
	ShapeDivergence WarningKind = iota
	// NameCollision means two paths joined to the same column name.
	NameCollision
	// DuplicateAttribute means one row repeated an <id>_<name> pair; the last one wins.
	DuplicateAttribute
)

// String returns the string representation of the WarningKind.
func (k WarningKind) String() string {
	switch k {
	case ShapeDivergence:
		return "shape-divergence"
	case NameCollision:
		return "name-collision"
	case DuplicateAttribute:
		return "duplicate-attribute"
	default:
		return fmt.Sprintf("warning(%d)", int(k))
	}
}

// Warning is a data-quality finding that did not stop the table from being built.
type Warning struct {
	Kind   WarningKind
	Column string
	// Line is the 1-based input line the warning applies to, or 0 for the whole table.
	Line    int
	Message string
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", w.Kind, w.Line, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// Report lists what the engine skipped or could not reconcile.
type Report struct {
	// Lines is the number of non-blank input lines.
	Lines     int
	Rows      int
	RowErrors []RowError
	Warnings  []Warning
}

// OK reports whether every non-blank line became a row.
func (r *Report) OK() bool {
	return len(r.RowErrors) == 0
}

// Err returns nil when every line parsed, otherwise a structured error wrapping all row errors.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, len(r.RowErrors))
	for i, re := range r.RowErrors {
		errs[i] = re
	}
	return errors.WrapWithContext(errors.ErrCodeInvalidRecord,
		fmt.Sprintf("%d of %d log lines could not be parsed", len(r.RowErrors), r.Lines),
		stderrors.Join(errs...),
		map[string]any{"rows": r.Rows, "lines": r.Lines})
}
