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

	"github.com/NVIDIA/sysmon/pkg/record"
)

// MemInfo reports memory and swap usage in kB from /proc/meminfo.
type MemInfo struct{ *Source }

// Name implements collector.Probe.
func (MemInfo) Name() string { return NameMemInfo }

// Probe implements collector.Probe. Fields the kernel does not expose are left out.
func (p MemInfo) Probe(ctx context.Context) (*record.Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fs, err := p.procFS()
	if err != nil {
		return nil, err
	}
	mi, err := fs.Meminfo()
	if err != nil {
		return nil, fmt.Errorf("failed to read meminfo: %w", err)
	}

	out := record.NewMap()
	set := func(key string, v *uint64) {
		if v != nil {
			out.Set(key, record.Uint(*v))
		}
	}

	set("total", mi.MemTotal)
	if mi.MemTotal != nil {
		out.Set("unit", record.Str("kB"))
	}
	set("free", mi.MemFree)
	set("available", mi.MemAvailable)
	set("buffers", mi.Buffers)
	set("cached", mi.Cached)
	set("swaptotal", mi.SwapTotal)
	set("swapfree", mi.SwapFree)
	set("dirty", mi.Dirty)
	set("mapped", mi.Mapped)
	set("shmem", mi.Shmem)
	set("slab", mi.Slab)
	set("pagetbl", mi.PageTables)

	return out, nil
}
