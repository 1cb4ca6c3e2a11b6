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

package host

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/NVIDIA/sysmon/pkg/record"
)

// Disk reports capacity and inode usage per mounted filesystem, keyed by mountpoint.
type Disk struct{ *Source }

// Name implements collector.Probe.
func (Disk) Name() string { return NameDisk }

// Probe implements collector.Probe. Mountpoints whose usage cannot be read
// (stale network mounts, permission denied) are skipped.
func (p Disk) Probe(ctx context.Context) (*record.Map, error) {
	parts, err := p.Partitions(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}

	out := record.NewMap()
	for _, part := range parts {
		if out.Has(part.Mountpoint) {
			continue
		}
		u, err := p.Usage(ctx, part.Mountpoint)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Debug("skipping mountpoint", "mountpoint", part.Mountpoint, "error", err)
			continue
		}

		out.Set(part.Mountpoint, record.MapValue(record.NewMap().
			Set("device", record.Str(part.Device)).
			Set("kb_total", record.Uint(u.Total/1024)).
			Set("kb_used", record.Uint(u.Used/1024)).
			Set("kb_avail", record.Uint(u.Free/1024)).
			Set("kb_percent", record.Int(percent(u.UsedPercent))).
			Set("inodes_total", record.Uint(u.InodesTotal)).
			Set("inodes_used", record.Uint(u.InodesUsed)).
			Set("inodes_avail", record.Uint(u.InodesFree)).
			Set("inodes_percent", record.Int(percent(u.InodesUsedPercent)))))
	}
	return out, nil
}

// percent rounds up like df does; NaN (filesystems without inodes) becomes 0.
func percent(v float64) int64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	return int64(math.Ceil(v))
}
