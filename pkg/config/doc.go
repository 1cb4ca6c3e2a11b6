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

// Package config loads sysmon settings.
//
// Settings come from four layers, later ones winning:
//
//  1. built-in defaults (pkg/defaults)
//  2. an optional YAML or JSON file, given explicitly or via SYSMON_CONFIG
//  3. a .env file in the working directory, if present
//  4. environment variables
//
// Recognized environment variables:
//
//	SYSMON_CONFIG          path of the config file
//	SYSMON_PROBE_TIMEOUT   per-probe timeout (Go duration, e.g. 5s)
//	SYSMON_PARALLEL        run best-effort probes concurrently (bool)
//	SYSMON_VERBOSE_ERRORS  log omitted probes at WARN (bool)
//	SYSMON_METRICS_FILE    node-exporter textfile to write after each collection
//	LOG_LEVEL              debug, info, warn, error
//
// Example file:
//
//	log_level: info
//	collect:
//	  probe_timeout: 10s
//	  parallel: true
//	probes:
//	  systemd_services: [containerd.service, kubelet.service]
//	  disabled: [SMART]
//	flatten:
//	  id_keys: [id, num]
//	  format: csv
//
// The loaded Config builds the probe factory, the snapshotter and the
// flatten engine options, so commands never read the environment directly.
package config
