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

// IRQs reports per-interrupt totals from /proc/interrupts.
type IRQs struct{ *Source }

// Name implements collector.Probe.
func (IRQs) Name() string { return NameIRQs }

// Probe implements collector.Probe.
//
// Numbered interrupts get "type" (controller and trigger) and "devices";
// named ones (NMI, LOC, ...) get their description as "type"; ERR and MIS
// carry only "sum".
func (p IRQs) Probe(ctx context.Context) (*record.Map, error) {
	rows, err := p.fields(ctx, "interrupts")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty interrupts table")
	}
	cpus := len(rows[0])

	out := record.NewMap()
	for _, tokens := range rows[1:] {
		if len(tokens) == 0 {
			continue
		}
		name := strings.TrimSuffix(tokens[0], ":")
		sum, n := sumCounters(tokens[1:], cpus)
		rest := tokens[1+n:]

		irq := record.NewMap().Set("sum", record.Uint(sum))
		if _, err := strconv.Atoi(name); err == nil {
			split := min(2, len(rest))
			irq.Set("type", record.Str(strings.Join(rest[:split], " ")))
			irq.Set("devices", record.Str(strings.Join(rest[split:], " ")))
		} else if name != "ERR" && name != "MIS" {
			irq.Set("type", record.Str(strings.Join(rest, " ")))
		}
		out.Set(name, record.MapValue(irq))
	}
	return out, nil
}

// SoftIRQs reports per-softirq totals summed across CPUs from /proc/softirqs.
type SoftIRQs struct{ *Source }

// Name implements collector.Probe.
func (SoftIRQs) Name() string { return NameSoftIRQs }

// Probe implements collector.Probe.
func (p SoftIRQs) Probe(ctx context.Context) (*record.Map, error) {
	rows, err := p.fields(ctx, "softirqs")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty softirqs table")
	}

	out := record.NewMap()
	for _, tokens := range rows[1:] {
		if len(tokens) == 0 {
			continue
		}
		sum, n := sumCounters(tokens[1:], len(tokens)-1)
		if n != len(tokens)-1 {
			return nil, fmt.Errorf("invalid softirq counter in %q", strings.Join(tokens, " "))
		}
		out.Set(strings.TrimSuffix(tokens[0], ":"), record.Uint(sum))
	}
	return out, nil
}

// sumCounters adds up to limit leading unsigned integers from tokens and
// reports how many were consumed.
func sumCounters(tokens []string, limit int) (uint64, int) {
	var sum uint64
	n := 0
	for n < limit && n < len(tokens) {
		v, err := strconv.ParseUint(tokens[n], 10, 64)
		if err != nil {
			break
		}
		sum += v
		n++
	}
	return sum, n
}
