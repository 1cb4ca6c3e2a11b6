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

// Package tools provides probes that shell out to host utilities:
// lm-sensors (sensors) and smartmontools (smartctl).
//
// Commands go through a Runner. The default ExecRunner bounds every command
// by defaults.CommandTimeout and throttles starts with a golang.org/x/time/rate
// limiter, so a host with many disks does not fork a burst of smartctl processes.
// A missing binary is not an error; the probe reports an empty map.
package tools
