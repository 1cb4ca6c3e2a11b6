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

// Package record defines the snapshot data model shared by the collector, the snapshot
// log and the flattening engine.
//
// # Core Types
//
//   - Value: tagged variant, one of null, bool, number, string, Map or List
//   - Map: ordered string → Value mapping with unique keys
//   - Record: alias for Map, the per-snapshot source name → Value mapping
//   - Snapshot: immutable timestamp key + Record
//
// # Creating Records
//
//	rec := record.NewMap().
//	    Set("meminfo", record.MapValue(record.NewMap().
//	        Set("total", record.Int(16318420)).
//	        Set("unit", record.Str("kB")))).
//	    Set("users", record.MapValue(record.NewMap().
//	        Set("total", record.Int(2))))
//
//	snap := record.NewSnapshot(record.FormatTimestamp(time.Now()), rec)
//
// # Log Lines
//
// Each snapshot is written as one JSON object with a single key:
//
//	{"2024-01-01 00:00":{"meminfo":{"total":16318420,"unit":"kB"}}}
//
// EncodeLine and DecodeLine convert between Snapshot and that form. Object key order is
// preserved in both directions, and numbers keep their textual representation.
//
// # Filtering
//
// FilterIn, FilterOut and MatchesPattern select keys with wildcard patterns such as
// "meminfo_*", "*_percent" or "SMART*attributes*".
package record
