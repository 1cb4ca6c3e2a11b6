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

// Command sysmon-logger appends one host telemetry snapshot to the log file
// named by its only argument. Settings come from SYSMON_* environment
// variables and the file named by SYSMON_CONFIG.
package main

import "github.com/NVIDIA/sysmon/pkg/cli"

func main() {
	cli.ExecuteLogger()
}
