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

// Package serializer writes flattened tables and other documents.
//
// The Writer supports four formats:
//   - CSV: header row of column names, missing and null cells as empty fields
//   - JSON: TableDocument with a header and one object per row
//   - YAML: the same document in YAML
//   - Table: bordered text table for terminals
//
// Usage:
//
//	writer := serializer.NewFileWriterOrStdout(serializer.FormatFromPath(path), path)
//	defer writer.Close() // Important: close to release file handles
//	if err := writer.Serialize(ctx, table); err != nil {
//		return err
//	}
//
// SQLiteWriter stores the same table in a SQLite database, replacing any
// previous table of that name in one transaction:
//
//	w, err := serializer.OpenSQLite("sysmon.db", "snapshots")
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//	err = w.Serialize(ctx, table)
//
// The Reader decodes JSON and YAML files and backs configuration loading.
package serializer
