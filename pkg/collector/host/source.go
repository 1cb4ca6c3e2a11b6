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

	"github.com/shirou/gopsutil/v4/disk"
	gohost "github.com/shirou/gopsutil/v4/host"
	gonet "github.com/shirou/gopsutil/v4/net"
)

// Record keys produced by the probes in this package.
const (
	NameDisk    = "disk"
	NameUsers   = "users"
	NameNetstat = "netstat"
)

// Source holds the gopsutil calls the probes make, so tests can substitute them.
type Source struct {
	Partitions  func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	Usage       func(ctx context.Context, path string) (*disk.UsageStat, error)
	Users       func(ctx context.Context) ([]gohost.UserStat, error)
	Connections func(ctx context.Context, kind string) ([]gonet.ConnectionStat, error)
}

// NewSource returns a Source backed by gopsutil.
func NewSource() *Source {
	return &Source{
		Partitions:  disk.PartitionsWithContext,
		Usage:       disk.UsageWithContext,
		Users:       gohost.UsersWithContext,
		Connections: gonet.ConnectionsWithContext,
	}
}
