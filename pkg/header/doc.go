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

// Package header provides the common document header for sysmon output.
//
// Exported tables (JSON, YAML) and probe listings start with a Header so that a
// reader can tell what a document is without inspecting its body:
//
//	kind: Table
//	apiVersion: sysmon.nvidia.com/v1
//	metadata:
//	  timestamp: "2025-01-15T10:30:00Z"
//	  version: v1.0.0
//	  rows: "1440"
//
// # Usage
//
//	h := header.New(header.WithKind(header.KindTable))
//	h.Init(header.KindTable, version)
//	h.Metadata["rows"] = strconv.Itoa(len(t.Rows))
package header
