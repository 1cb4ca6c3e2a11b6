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

package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/NVIDIA/sysmon/pkg/collector/file"
	"github.com/NVIDIA/sysmon/pkg/record"
)

// NameSensors is the record key produced by Sensors.
const NameSensors = "sensors"

var sensorLine = regexp.MustCompile(`Package|Core|CPU|[Ff]an`)

// Sensors reports CPU temperatures and fan speeds from lm-sensors.
type Sensors struct {
	Runner Runner
}

// Name implements collector.Probe.
func (Sensors) Name() string { return NameSensors }

// Probe implements collector.Probe. A host without the sensors binary
// reports an empty map.
func (p Sensors) Probe(ctx context.Context) (*record.Map, error) {
	out, err := p.Runner.Run(ctx, "sensors")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			slog.Debug("sensors not installed")
			return record.NewMap(), nil
		}
		return nil, err
	}
	return ParseSensors(out)
}

// ParseSensors extracts "<id>: <value><unit>" readings for packages, cores,
// CPUs and fans. Numeric readings are stored as numbers, anything else as text.
func ParseSensors(out []byte) (*record.Map, error) {
	lines, err := file.NewParser().SplitLines(out)
	if err != nil {
		return nil, fmt.Errorf("sensors output: %w", err)
	}

	result := record.NewMap()
	for _, line := range lines {
		if !sensorLine.MatchString(line) {
			continue
		}
		id, reading, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		// "+45.0°C  (high = +80.0°C, crit = +100.0°C)" -> ["+45.0", "C", ...]
		metering := strings.Fields(strings.ReplaceAll(reading, "°", " "))
		if len(metering) < 2 {
			continue
		}
		result.Set(id, record.MapValue(record.NewMap().
			Set("value", scalar(metering[0])).
			Set("unit", record.Str(metering[1]))))
	}
	return result, nil
}

// scalar stores s as a number when it parses as one.
func scalar(s string) record.Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return record.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return record.Float(f)
	}
	return record.Str(s)
}
