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

	gonet "github.com/shirou/gopsutil/v4/net"

	"github.com/NVIDIA/sysmon/pkg/record"
)

// Netstat reports listening and connected socket counts for TCP, UDP and unix sockets.
type Netstat struct{ *Source }

// Name implements collector.Probe.
func (Netstat) Name() string { return NameNetstat }

// Probe implements collector.Probe.
func (p Netstat) Probe(ctx context.Context) (*record.Map, error) {
	out := record.NewMap()
	for _, kind := range []struct {
		kind, listen, connected string
	}{
		{"tcp", "tcp_listen", "tcp_established"},
		{"udp", "udp_listen", "udp_established"},
		{"unix", "sock_listen", "sock_connected"},
	} {
		conns, err := p.Connections(ctx, kind.kind)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s connections: %w", kind.kind, err)
		}
		listen, connected := countStates(conns)
		out.Set(kind.listen, record.Int(listen))
		out.Set(kind.connected, record.Int(connected))
	}
	return out, nil
}

// countStates classifies sockets as listening or connected. Stateless sockets
// (UDP, unix datagram) count as connected when they have a peer.
func countStates(conns []gonet.ConnectionStat) (listen, connected int64) {
	for _, c := range conns {
		switch c.Status {
		case "LISTEN":
			listen++
		case "ESTABLISHED":
			connected++
		case "", "NONE":
			if c.Raddr.IP == "" && c.Raddr.Port == 0 {
				listen++
			} else {
				connected++
			}
		}
	}
	return listen, connected
}
