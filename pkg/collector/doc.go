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

// Package collector defines source probes and assembles them for a snapshot.
//
// # Core Interface
//
// A Probe is a named source of telemetry:
//
//	type Probe interface {
//	    Name() string
//	    Probe(ctx context.Context) (*record.Map, error)
//	}
//
// Its name is the key its sub-record gets in the snapshot. Each probe is
// registered with a Class: LoadBearing probes abort the collection when they
// fail, BestEffort probes are simply left out.
//
// # Factory Pattern
//
// DefaultFactory returns the Linux probes in their fixed collection order,
// minus any whose name matches a Disabled pattern:
//
//	factory := collector.NewDefaultFactory(
//	    collector.WithSystemDServices([]string{"containerd.service"}),
//	)
//	regs := factory.Registrations()
//
// # Available Probes
//
//   - proc: base, cpustats, IRQs, SoftIRQs, meminfo, cpufreqs, power, net_if
//   - host: disk, users, netstat
//   - tools: sensors, SMART
//   - os: os (release, kernel cmdline, loaded modules)
//   - systemd: systemd (only when services are configured)
//
// Tests register Func probes to simulate any mix of successes and failures.
package collector
