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

// Package snaplog reads and appends the snapshot log: a UTF-8 text file with
// one compact JSON object per line, each holding exactly one timestamp key
// mapped to that minute's record.
//
//	{"2024-03-01 12:05":{"base":{"uptime":3600,...},"meminfo":{...}}}
//
// Appends open the file with O_APPEND and write the whole line in a single
// call. There is no locking; concurrent writers are not supported.
package snaplog
