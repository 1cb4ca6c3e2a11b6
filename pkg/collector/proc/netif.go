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

	"github.com/NVIDIA/sysmon/pkg/record"
)

// NetIf reports per-interface packet, byte, error and drop counters from /proc/net/dev.
type NetIf struct{ *Source }

// Name implements collector.Probe.
func (NetIf) Name() string { return NameNetIf }

// Probe implements collector.Probe.
func (p NetIf) Probe(ctx context.Context) (*record.Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fs, err := p.procFS()
	if err != nil {
		return nil, err
	}
	dev, err := fs.NetDev()
	if err != nil {
		return nil, fmt.Errorf("failed to read net/dev: %w", err)
	}

	names := make([]string, 0, len(dev))
	for name := range dev {
		names = append(names, name)
	}
	sort.Strings(names)

	out := record.NewMap()
	for _, name := range names {
		l := dev[name]
		out.Set(name, record.MapValue(record.NewMap().
			Set("rx_packets", record.Uint(l.RxPackets)).
			Set("rx_bytes", record.Uint(l.RxBytes)).
			Set("rx_errors", record.Uint(l.RxErrors)).
			Set("rx_dropped", record.Uint(l.RxDropped)).
			Set("tx_packets", record.Uint(l.TxPackets)).
			Set("tx_bytes", record.Uint(l.TxBytes)).
			Set("tx_errors", record.Uint(l.TxErrors)).
			Set("tx_dropped", record.Uint(l.TxDropped))))
	}
	return out, nil
}
