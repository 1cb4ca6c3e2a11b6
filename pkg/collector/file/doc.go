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

// Package file provides a small line parser for kernel pseudo-files and command output.
//
// Probes read files such as /proc/uptime and /proc/interrupts, and the output
// of tools such as smartctl, which are all line oriented. Parser centralizes
// size limits, UTF-8 validation and blank-line handling so that each probe
// only deals with fields:
//
//	p := file.NewParser()
//	rows, err := p.GetFields("/proc/softirqs")
//	if err != nil {
//	    return nil, fmt.Errorf("failed to read softirqs: %w", err)
//	}
//
// Command output is parsed with SplitLines and ToMap:
//
//	lines, _ := p.SplitLines(out)
//	info := p.ToMap(lines) // "Device Model: X" -> {"Device Model": "X"}
//
// Errors are wrapped with the file path:
//
//	failed to read file "/proc/uptime": open /proc/uptime: no such file or directory
package file
