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
	"strconv"
	"strings"

	"github.com/NVIDIA/sysmon/pkg/record"
)

// Base reports uptime, load averages and process counters.
type Base struct{ *Source }

// Name implements collector.Probe.
func (Base) Name() string { return NameBase }

// Probe implements collector.Probe.
func (p Base) Probe(ctx context.Context) (*record.Map, error) {
	uptime, err := p.fields(ctx, "uptime")
	if err != nil {
		return nil, err
	}
	if len(uptime) == 0 || len(uptime[0]) == 0 {
		return nil, fmt.Errorf("empty uptime")
	}
	up, err := strconv.ParseFloat(uptime[0][0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid uptime %q: %w", uptime[0][0], err)
	}

	fs, err := p.procFS()
	if err != nil {
		return nil, err
	}
	la, err := fs.LoadAvg()
	if err != nil {
		return nil, fmt.Errorf("failed to read load average: %w", err)
	}

	// loadavg: "0.20 0.18 0.12 1/80 11206"
	raw, err := p.fields(ctx, "loadavg")
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || len(raw[0]) < 5 {
		return nil, fmt.Errorf("unexpected loadavg format")
	}
	running, total, ok := strings.Cut(raw[0][3], "/")
	if !ok {
		return nil, fmt.Errorf("unexpected process counts %q", raw[0][3])
	}
	nRunning, err := strconv.ParseInt(running, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid running processes %q: %w", running, err)
	}
	nTotal, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid total processes %q: %w", total, err)
	}
	lastPID, err := strconv.ParseInt(raw[0][4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid last pid %q: %w", raw[0][4], err)
	}

	return record.NewMap().
		Set("uptime", record.Float(up)).
		Set("LA1", record.Float(la.Load1)).
		Set("LA5", record.Float(la.Load5)).
		Set("LA15", record.Float(la.Load15)).
		Set("running_processes", record.Int(nRunning)).
		Set("total_processes", record.Int(nTotal)).
		Set("last_processid", record.Int(lastPID)), nil
}
