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

// Package flatten turns a snapshot log into a wide table: one row per parsed
// line and one column per scalar leaf path seen in any row.
//
// The engine makes two passes. The first folds every row into a schema tree
// that records, per path, which value kinds occurred and which child keys,
// list positions and attribute pairs were seen, in first-seen order. The second
// commits the column list from that tree and fills the cells.
//
// Column names join the path with underscores:
//
//	{"mem": {"total": 1000, "free": 400}}  ->  mem_total, mem_free
//
// Lists whose elements are all {id, name, value} triples become one column per
// <id>_<name> pair, unioned across rows; the id key defaults to "id" then "num".
// Other lists expand by position:
//
//	{"SMART": {"sda": {"attributes": [{"num": 5, "name": "Raw", "value": 0}]}}}
//	    ->  SMART_sda_attributes_5_Raw
//	{"users": {"users": ["root", "alice"]}}
//	    ->  users_users_0, users_users_1
//
// A cell is either a scalar, a present null, or missing. Rows never drop
// columns; a row lacking a path has a missing cell there.
//
// Nothing is reconciled silently. Malformed lines become RowErrors, a path
// holding different kinds across rows yields a ShapeDivergence warning while
// each kind keeps its own columns, and two paths joining to the same name are
// disambiguated with _2, _3 suffixes and a NameCollision warning.
//
// Usage:
//
//	lines, err := snaplog.ReadFile("/var/log/sysmon.log")
//	if err != nil {
//	    return err
//	}
//	table, report, err := flatten.New().FlattenLines(ctx, lines)
//	if err != nil {
//	    return err
//	}
//	for _, re := range report.RowErrors {
//	    fmt.Println(re)
//	}
//	snap, err := table.Collapse(0) // rebuild the first row's record
package flatten
