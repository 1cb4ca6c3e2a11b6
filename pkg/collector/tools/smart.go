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
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/NVIDIA/sysmon/pkg/collector/file"
	"github.com/NVIDIA/sysmon/pkg/record"
)

// NameSMART is the record key produced by SMART.
const NameSMART = "SMART"

// DefaultDevicePatterns match whole SATA/IDE disks and NVMe controllers, not partitions.
var DefaultDevicePatterns = []string{"sd[a-z]", "hd[a-z]", "nvme[0-9]"}

// SMART reports model, serial number and attribute table of each disk via smartctl.
type SMART struct {
	Runner   Runner
	DevDir   string
	Patterns []string
}

// Name implements collector.Probe.
func (SMART) Name() string { return NameSMART }

// Probe implements collector.Probe.
//
// Disks are keyed by device name. smartctl sets exit status bits for
// health conditions, so its output is used even on a non-zero exit. A host
// without smartctl reports an empty map.
func (p SMART) Probe(ctx context.Context) (*record.Map, error) {
	disks, err := p.devices()
	if err != nil {
		return nil, err
	}

	out := record.NewMap()
	for _, disk := range disks {
		dev := filepath.Join(p.devDir(), disk)

		info, err := p.run(ctx, "-i", dev)
		if err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				slog.Debug("smartctl not installed")
				return record.NewMap(), nil
			}
			return nil, err
		}
		attrs, err := p.run(ctx, "-A", dev)
		if err != nil {
			return nil, err
		}

		entry, err := parseSMART(info, attrs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", dev, err)
		}
		out.Set(disk, record.MapValue(entry))
	}
	return out, nil
}

func (p SMART) devDir() string {
	if p.DevDir == "" {
		return "/dev"
	}
	return p.DevDir
}

func (p SMART) devices() ([]string, error) {
	patterns := p.Patterns
	if len(patterns) == 0 {
		patterns = DefaultDevicePatterns
	}

	var names []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(p.devDir(), pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid device pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			names = append(names, filepath.Base(m))
		}
	}
	sort.Strings(names)
	return names, nil
}

// run invokes smartctl, keeping output produced alongside a non-zero exit.
func (p SMART) run(ctx context.Context, args ...string) ([]byte, error) {
	out, err := p.Runner.Run(ctx, "smartctl", args...)
	var exitErr *exec.ExitError
	if err != nil && errors.As(err, &exitErr) && len(out) > 0 {
		return out, nil
	}
	return out, err
}

// parseSMART builds {"model", "s/n", "attributes"} from "smartctl -i" and "smartctl -A" output.
// Missing model or serial number are null. Attributes are {num, name, value} entries
// where value is the RAW_VALUE column.
func parseSMART(info, attrs []byte) (*record.Map, error) {
	p := file.NewParser()

	infoLines, err := p.SplitLines(info)
	if err != nil {
		return nil, err
	}
	fields := p.ToMap(infoLines)

	model := lookup(fields, "Device Model", "Model Number")
	serial := lookup(fields, "Serial Number")

	attrLines, err := p.SplitLines(attrs)
	if err != nil {
		return nil, err
	}
	table := record.ListOf(parseAttributes(attrLines))

	return record.NewMap().
		Set("model", model).
		Set("s/n", serial).
		Set("attributes", table), nil
}

func lookup(m *record.Map, keys ...string) record.Value {
	for _, k := range keys {
		if v, ok := m.Get(k); ok {
			return v
		}
	}
	return record.Null()
}

// parseAttributes reads the rows following the "ID#" header. The value column
// is the header's last column, so trailing annotations such as
// "34 (Min/Max 20/45)" are ignored.
func parseAttributes(lines []string) []record.Value {
	out := make([]record.Value, 0)
	valuePos := -1
	for _, line := range lines {
		tokens := strings.Fields(line)
		if valuePos < 0 {
			if strings.HasPrefix(line, "ID#") {
				valuePos = len(tokens) - 1
			}
			continue
		}
		if len(tokens) <= valuePos {
			continue
		}
		num, err := strconv.ParseInt(tokens[0], 10, 64)
		if err != nil {
			continue
		}
		out = append(out, record.MapValue(record.NewMap().
			Set("num", record.Int(num)).
			Set("name", record.Str(tokens[1])).
			Set("value", scalar(tokens[valuePos]))))
	}
	return out
}
