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
	"errors"
	"math"
	"testing"

	"github.com/shirou/gopsutil/v4/disk"
	gohost "github.com/shirou/gopsutil/v4/host"
	gonet "github.com/shirou/gopsutil/v4/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/sysmon/pkg/record"
)

func number(t *testing.T, m *record.Map, key string) float64 {
	t.Helper()
	v, ok := m.Get(key)
	require.True(t, ok, "missing key %q", key)
	f, ok := v.Float64()
	require.True(t, ok, "key %q is not a number", key)
	return f
}

func TestNewSource_UsesGopsutil(t *testing.T) {
	src := NewSource()
	assert.NotNil(t, src.Partitions)
	assert.NotNil(t, src.Usage)
	assert.NotNil(t, src.Users)
	assert.NotNil(t, src.Connections)
}

func TestDisk_Probe(t *testing.T) {
	src := &Source{
		Partitions: func(context.Context, bool) ([]disk.PartitionStat, error) {
			return []disk.PartitionStat{
				{Device: "/dev/sda1", Mountpoint: "/"},
				{Device: "/dev/sda2", Mountpoint: "/home"},
				{Device: "server:/export", Mountpoint: "/mnt/nfs"},
				{Device: "/dev/sda1", Mountpoint: "/"},
			}, nil
		},
		Usage: func(_ context.Context, path string) (*disk.UsageStat, error) {
			switch path {
			case "/":
				return &disk.UsageStat{
					Total: 10 * 1024 * 1024, Used: 4 * 1024 * 1024, Free: 6 * 1024 * 1024,
					UsedPercent: 40.2,
					InodesTotal: 1000, InodesUsed: 100, InodesFree: 900, InodesUsedPercent: 10,
				}, nil
			case "/home":
				return &disk.UsageStat{Total: 2048, Used: 1024, Free: 1024, UsedPercent: 50, InodesUsedPercent: math.NaN()}, nil
			default:
				return nil, errors.New("stale file handle")
			}
		},
	}

	m, err := Disk{src}.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/", "/home"}, m.Keys())

	rootV, _ := m.Get("/")
	root, _ := rootV.Map()
	assert.Equal(t, []string{"device", "kb_total", "kb_used", "kb_avail", "kb_percent",
		"inodes_total", "inodes_used", "inodes_avail", "inodes_percent"}, root.Keys())
	assert.Equal(t, 10240.0, number(t, root, "kb_total"))
	assert.Equal(t, 41.0, number(t, root, "kb_percent"), "percent rounds up")
	assert.Equal(t, 900.0, number(t, root, "inodes_avail"))

	homeV, _ := m.Get("/home")
	home, _ := homeV.Map()
	assert.Equal(t, 0.0, number(t, home, "inodes_percent"))
}

func TestDisk_Probe_PartitionError(t *testing.T) {
	src := &Source{
		Partitions: func(context.Context, bool) ([]disk.PartitionStat, error) {
			return nil, errors.New("cannot read mounts")
		},
	}
	_, err := Disk{src}.Probe(context.Background())
	assert.ErrorContains(t, err, "cannot read mounts")
}

func TestUsers_Probe(t *testing.T) {
	src := &Source{
		Users: func(context.Context) ([]gohost.UserStat, error) {
			return []gohost.UserStat{
				{User: "root", Terminal: "tty1"},
				{User: "alice", Terminal: "pts/0"},
				{User: "alice", Terminal: "pts/1"},
				{User: "bob", Terminal: ":0"},
			}, nil
		},
	}

	m, err := Users{src}.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"users", "tty", "pts", "total"}, m.Keys())

	users, _ := m.Get("users")
	assert.True(t, users.Equal(record.List(record.Str("root"), record.Str("alice"), record.Str("bob"))))
	assert.Equal(t, 1.0, number(t, m, "tty"))
	assert.Equal(t, 2.0, number(t, m, "pts"))
	assert.Equal(t, 3.0, number(t, m, "total"))
}

func TestUsers_Probe_NoSessions(t *testing.T) {
	src := &Source{
		Users: func(context.Context) ([]gohost.UserStat, error) { return nil, nil },
	}

	m, err := Users{src}.Probe(context.Background())
	require.NoError(t, err)
	users, _ := m.Get("users")
	items, ok := users.List()
	require.True(t, ok)
	assert.Empty(t, items)
}

func TestNetstat_Probe(t *testing.T) {
	src := &Source{
		Connections: func(_ context.Context, kind string) ([]gonet.ConnectionStat, error) {
			switch kind {
			case "tcp":
				return []gonet.ConnectionStat{
					{Status: "LISTEN"},
					{Status: "LISTEN"},
					{Status: "ESTABLISHED", Raddr: gonet.Addr{IP: "10.0.0.1", Port: 443}},
					{Status: "TIME_WAIT"},
				}, nil
			case "udp":
				return []gonet.ConnectionStat{
					{Status: "NONE", Laddr: gonet.Addr{IP: "0.0.0.0", Port: 53}},
					{Status: "NONE", Raddr: gonet.Addr{IP: "10.0.0.2", Port: 123}},
				}, nil
			default:
				return []gonet.ConnectionStat{
					{Status: "LISTEN", Laddr: gonet.Addr{IP: "/run/dbus.sock"}},
					{Status: "", Raddr: gonet.Addr{IP: "/run/other.sock"}},
				}, nil
			}
		},
	}

	m, err := Netstat{src}.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"tcp_listen", "tcp_established", "udp_listen", "udp_established",
		"sock_listen", "sock_connected"}, m.Keys())
	assert.Equal(t, 2.0, number(t, m, "tcp_listen"))
	assert.Equal(t, 1.0, number(t, m, "tcp_established"))
	assert.Equal(t, 1.0, number(t, m, "udp_listen"))
	assert.Equal(t, 1.0, number(t, m, "udp_established"))
	assert.Equal(t, 1.0, number(t, m, "sock_listen"))
	assert.Equal(t, 1.0, number(t, m, "sock_connected"))
}

func TestNetstat_Probe_Error(t *testing.T) {
	src := &Source{
		Connections: func(context.Context, string) ([]gonet.ConnectionStat, error) {
			return nil, errors.New("permission denied")
		},
	}
	_, err := Netstat{src}.Probe(context.Background())
	assert.ErrorContains(t, err, "tcp")
}
