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
	"strconv"
	"time"

	"github.com/NVIDIA/sysmon/pkg/flatten"
	"github.com/NVIDIA/sysmon/pkg/header"
	"github.com/NVIDIA/sysmon/pkg/record"
)

// TableDocument is the JSON and YAML form of a flattened table. Each row maps
// column names to values; missing cells are left out of the row.
type TableDocument struct {
	header.Header `json:",inline" yaml:",inline"`

	Columns []string      `json:"columns" yaml:"columns"`
	Rows    []*record.Map `json:"rows" yaml:"rows"`

	records [][]string
}

// NewTableDocument converts t into a document stamped with version and at.
func NewTableDocument(t *flatten.Table, version string, at time.Time) *TableDocument {
	doc := &TableDocument{
		Columns: t.Columns(),
		Rows:    make([]*record.Map, t.Len()),
		records: make([][]string, t.Len()),
	}
	doc.InitAt(header.KindTable, version, at)
	doc.Metadata["rows"] = strconv.Itoa(t.Len())
	doc.Metadata["columns"] = strconv.Itoa(t.Width())

	for i := range t.Len() {
		cells := t.Row(i)
		m := record.NewMap()
		rec := make([]string, len(cells))
		for ci, c := range cells {
			rec[ci] = c.String()
			if c.Present {
				m.Set(doc.Columns[ci], c.Value)
			}
		}
		doc.Rows[i] = m
		doc.records[i] = rec
	}
	return doc
}

// Headers implements Tabular.
func (d *TableDocument) Headers() []string {
	return d.Columns
}

// Records implements Tabular.
func (d *TableDocument) Records() [][]string {
	return d.records
}
