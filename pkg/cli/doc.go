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

// Package cli implements the sysmon command-line interface.
//
// # Commands
//
// collect - Append one snapshot to a log:
//
//	sysmon collect [--parallel] [--verbose-errors] [--probe-timeout 10s] [--metrics-file FILE] <log>
//
// Runs every registered probe once and appends the snapshot as a single JSON
// line. A failing load-bearing probe aborts the run, nothing is appended and
// the command exits non-zero.
//
// flatten - Turn a log into a table:
//
//	sysmon flatten [--format csv|json|yaml|table] [--output FILE] [--columns PATTERN...] [--strict] <log>
//	sysmon flatten --sqlite FILE [--sqlite-table NAME] <log>
//
// probes - List registered probes and their failure class:
//
//	sysmon probes [--format table|csv|json|yaml]
//
// # Global Flags
//
//	--config, -c   Config file (env: SYSMON_CONFIG)
//	--log-level    debug, info, warn, error (env: LOG_LEVEL)
//	--debug        Same as --log-level=debug
//
// Command flags override the config file, which overrides the defaults. See
// pkg/config for the file layout and environment variables.
//
// # Logging
//
// Logs are JSON on stderr. Every invocation carries a random run_id so the
// lines of one cron run can be grouped.
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, aborted collection, I/O failure)
//	2  Context canceled or timeout
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/sysmon/pkg/cli.version=1.0.0'"
package cli
