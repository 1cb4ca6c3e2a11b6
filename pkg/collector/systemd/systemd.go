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

package systemd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/NVIDIA/sysmon/pkg/record"
)

// NameSystemd is the record key produced by Units.
const NameSystemd = "systemd"

// Conn is the part of the systemd D-Bus connection the probe uses.
type Conn interface {
	ListUnitsContext(ctx context.Context) ([]dbus.UnitStatus, error)
	ListUnitsByNamesContext(ctx context.Context, units []string) ([]dbus.UnitStatus, error)
	Close()
}

// DialFunc opens a connection to systemd.
type DialFunc func(ctx context.Context) (Conn, error)

// Dial connects to the system instance of systemd over D-Bus.
func Dial(ctx context.Context) (Conn, error) {
	return dbus.NewSystemdConnectionContext(ctx)
}

// Units reports unit totals and the state of configured services.
type Units struct {
	Services []string
	Dial     DialFunc
}

// Name implements collector.Probe.
func (Units) Name() string { return NameSystemd }

// Probe implements collector.Probe.
func (u Units) Probe(ctx context.Context) (*record.Map, error) {
	dial := u.Dial
	if dial == nil {
		dial = Dial
	}
	conn, err := dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	defer conn.Close()

	units, err := conn.ListUnitsContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	var active, failed int64
	for _, unit := range units {
		switch unit.ActiveState {
		case "active":
			active++
		case "failed":
			failed++
		}
	}

	out := record.NewMap().
		Set("units_total", record.Int(int64(len(units)))).
		Set("units_active", record.Int(active)).
		Set("units_failed", record.Int(failed))

	if len(u.Services) == 0 {
		return out, nil
	}

	statuses, err := conn.ListUnitsByNamesContext(ctx, u.Services)
	if err != nil {
		return nil, fmt.Errorf("failed to get service states: %w", err)
	}
	byName := make(map[string]dbus.UnitStatus, len(statuses))
	for _, st := range statuses {
		byName[st.Name] = st
	}
	for _, service := range u.Services {
		st, ok := byName[service]
		if !ok {
			slog.Debug("service not reported by systemd", "service", service)
			continue
		}
		out.Set(service, record.MapValue(record.NewMap().
			Set("load_state", record.Str(st.LoadState)).
			Set("active_state", record.Str(st.ActiveState)).
			Set("sub_state", record.Str(st.SubState))))
	}
	return out, nil
}
