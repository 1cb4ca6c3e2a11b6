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
	"log/slog"
	"strings"

	"github.com/NVIDIA/sysmon/pkg/record"
)

// CPUFreqs reports per-CPU model name, current clock and cpufreq scaling limits in MHz.
type CPUFreqs struct{ *Source }

// Name implements collector.Probe.
func (CPUFreqs) Name() string { return NameCPUFreqs }

// Probe implements collector.Probe. Scaling values are added only for CPUs
// that expose cpufreq in sysfs.
func (p CPUFreqs) Probe(ctx context.Context) (*record.Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fs, err := p.procFS()
	if err != nil {
		return nil, err
	}
	infos, err := fs.CPUInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to read cpuinfo: %w", err)
	}

	out := record.NewMap()
	cpus := make(map[string]*record.Map, len(infos))
	for _, ci := range infos {
		key := fmt.Sprintf("cpu%d", ci.Processor)
		// "Intel(R) Core(TM) i7-8550U CPU @ 1.80GHz" -> "Intel(R) Core(TM) i7-8550U CPU"
		name, _, _ := strings.Cut(ci.ModelName, " @ ")
		m := record.NewMap().
			Set("name", record.Str(name)).
			Set("frequency", record.Float(ci.CPUMHz))
		cpus[key] = m
		out.Set(key, record.MapValue(m))
	}

	sys, err := p.sysFS()
	if err != nil {
		slog.Debug("cpufreq scaling unavailable", "error", err)
		return out, nil
	}
	stats, err := sys.SystemCpufreq()
	if err != nil {
		slog.Debug("cpufreq scaling unavailable", "error", err)
		return out, nil
	}
	for _, st := range stats {
		m, ok := cpus["cpu"+strings.TrimPrefix(st.Name, "cpu")]
		if !ok {
			continue
		}
		setMHz(m, "scaling_min_freq", st.ScalingMinimumFrequency)
		setMHz(m, "scaling_max_freq", st.ScalingMaximumFrequency)
		setMHz(m, "scaling_cur_freq", st.ScalingCurrentFrequency)
	}
	return out, nil
}

// setMHz stores a kHz reading as MHz when present.
func setMHz(m *record.Map, key string, khz *uint64) {
	if khz != nil {
		m.Set(key, record.Float(float64(*khz)/1000))
	}
}
