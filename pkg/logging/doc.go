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

// Package logging provides structured logging utilities for sysmon.
//
// # Overview
//
// This package wraps the standard library slog package with sysmon defaults
// so that the collector, the flattening engine and the CLI all emit the same
// JSON shape. It supports environment-based log level configuration,
// module/version context injection and source locations for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Omitted probes (with verbose errors), row errors, shape warnings
//   - ERROR: Fatal collection failures
//
// # Usage
//
// Setting the default logger:
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("sysmon", version)
//	    slog.Info("collecting", "log", path)
//	}
//
// Tagging one invocation:
//
//	logger := logging.WithRunID(slog.Default(), uuid.NewString())
//	slog.SetDefault(logger)
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls verbosity when no level is given:
//
//	LOG_LEVEL=debug sysmon collect /var/log/sysmon.log
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "WARN",
//	    "msg": "probe omitted",
//	    "module": "sysmon",
//	    "version": "v1.0.0",
//	    "run_id": "0b6f0c5e-...",
//	    "probe": "SMART"
//	}
//
// Stdout is left to command output (tables, usage text) so logs never mix with data.
package logging
