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

// Package proc provides probes over the Linux proc and sys pseudo-filesystems.
//
// Structured files (stat, meminfo, net/dev, cpuinfo, power_supply, cpufreq)
// are read through github.com/prometheus/procfs; the tabular files procfs does
// not model the way sysmon reports them (uptime, loadavg process counts,
// interrupts, softirqs) are read with the collector file parser.
//
// All probes share a Source:
//
//	src := proc.NewSource("/proc", "/sys")
//	m, err := proc.MemInfo{Source: src}.Probe(ctx)
//
// Tests replace Source.Proc and Source.Sys with fakes and point ProcRoot at a
// temporary directory holding fixture files.
package proc
