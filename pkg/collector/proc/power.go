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
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/NVIDIA/sysmon/pkg/record"
)

// Power reports battery voltage (V), current (A) and power draw (W), plus
// the total draw across batteries.
type Power struct{ *Source }

// Name implements collector.Probe.
func (Power) Name() string { return NamePower }

// Probe implements collector.Probe. A host without a power_supply class
// reports a zero total.
func (p Power) Probe(ctx context.Context) (*record.Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sys, err := p.sysFS()
	if err != nil {
		return nil, err
	}
	class, err := sys.PowerSupplyClass()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read power supplies: %w", err)
	}

	names := make([]string, 0, len(class))
	for name := range class {
		if strings.HasPrefix(name, "BAT") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := record.NewMap()
	var total float64
	for _, name := range names {
		ps := class[name]
		current := micro(ps.CurrentNow)
		voltage := micro(ps.VoltageNow)
		power := current * voltage
		if ps.PowerNow != nil {
			power = micro(ps.PowerNow)
		}
		total += power

		out.Set(name, record.MapValue(record.NewMap().
			Set("voltage", record.Float(voltage)).
			Set("current", record.Float(current)).
			Set("power", record.Float(power))))
	}
	return out.Set("total", record.Float(total)), nil
}

// micro converts a micro-unit sysfs reading to base units; missing readings are zero.
func micro(v *int64) float64 {
	if v == nil {
		return 0
	}
	return float64(*v) / 1e6
}
