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

package proc

import (
	"context"
	"fmt"
	"sort"

	"github.com/prometheus/procfs"

	"github.com/NVIDIA/sysmon/pkg/record"
)

// CPUStats reports per-CPU time shares and kernel activity counters from /proc/stat.
type CPUStats struct{ *Source }

// Name implements collector.Probe.
func (CPUStats) Name() string { return NameCPUStats }

// Probe implements collector.Probe.
func (p CPUStats) Probe(ctx context.Context) (*record.Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fs, err := p.procFS()
	if err != nil {
		return nil, err
	}
	st, err := fs.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to read stat: %w", err)
	}

	type cpu struct {
		id   int64
		stat procfs.CPUStat
	}
	cpus := make([]cpu, 0, len(st.CPU))
	for id, cs := range st.CPU {
		cpus = append(cpus, cpu{id: int64(id), stat: cs})
	}
	sort.Slice(cpus, func(i, j int) bool { return cpus[i].id < cpus[j].id })

	out := record.NewMap().Set("cpu", record.MapValue(cpuShares(st.CPUTotal)))
	for _, c := range cpus {
		out.Set(fmt.Sprintf("cpu%d", c.id), record.MapValue(cpuShares(c.stat)))
	}

	return out.
		Set("interrupts", record.Uint(st.IRQTotal)).
		Set("context_switches", record.Uint(st.ContextSwitches)).
		Set("forks", record.Uint(st.ProcessCreated)).
		Set("processes_running", record.Uint(st.ProcessesRunning)).
		Set("processes_blocked", record.Uint(st.ProcessesBlocked)).
		Set("softirqs", record.Uint(st.SoftIRQTotal)), nil
}

// cpuShares converts cumulative CPU times into fractions of their sum.
// An all-zero line yields zero shares.
func cpuShares(cs procfs.CPUStat) *record.Map {
	fields := []struct {
		name string
		v    float64
	}{
		{"user", cs.User},
		{"nice", cs.Nice},
		{"system", cs.System},
		{"idle", cs.Idle},
		{"iowait", cs.Iowait},
		{"irq", cs.IRQ},
		{"softirq", cs.SoftIRQ},
		{"steal", cs.Steal},
		{"guest", cs.Guest},
		{"guest_nice", cs.GuestNice},
	}

	var sum float64
	for _, f := range fields {
		sum += f.v
	}

	m := record.NewMap()
	for _, f := range fields {
		share := 0.0
		if sum > 0 {
			share = f.v / sum
		}
		m.Set(f.name, record.Float(share))
	}
	return m
}
