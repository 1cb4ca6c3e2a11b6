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

package os

import (
	"context"

	"github.com/NVIDIA/sysmon/pkg/record"
)

// Name is the record key of the OS probe.
const Name = "os"

// Info reports the OS release, the kernel command line and the loaded kernel
// modules. Empty fields use the host defaults.
type Info struct {
	// ProcRoot is where /proc is mounted.
	ProcRoot string
	// ReleaseFiles are tried in order; the first that exists is read.
	ReleaseFiles []string
}

// Name implements collector.Probe.
func (Info) Name() string { return Name }

// Probe implements collector.Probe.
func (p Info) Probe(ctx context.Context) (*record.Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	release, err := p.release()
	if err != nil {
		return nil, err
	}

	cmdline, err := p.cmdline()
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	modules, err := p.modules()
	if err != nil {
		return nil, err
	}

	return record.NewMap().
		Set("release", record.MapValue(release)).
		Set("cmdline", record.MapValue(cmdline)).
		Set("kmod", record.MapValue(modules)), nil
}

func (p Info) procRoot() string {
	if p.ProcRoot == "" {
		return "/proc"
	}
	return p.ProcRoot
}
