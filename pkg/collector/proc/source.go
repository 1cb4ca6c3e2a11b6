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
	"path/filepath"

	"github.com/prometheus/procfs"
	"github.com/prometheus/procfs/sysfs"

	"github.com/NVIDIA/sysmon/pkg/collector/file"
)

// Record keys produced by the probes in this package.
const (
	NameBase     = "base"
	NameCPUStats = "cpustats"
	NameIRQs     = "IRQs"
	NameSoftIRQs = "SoftIRQs"
	NameMemInfo  = "meminfo"
	NameCPUFreqs = "cpufreqs"
	NamePower    = "power"
	NameNetIf    = "net_if"
)

// ProcReader is the part of procfs.FS the probes read.
type ProcReader interface {
	LoadAvg() (*procfs.LoadAvg, error)
	Stat() (procfs.Stat, error)
	Meminfo() (procfs.Meminfo, error)
	NetDev() (procfs.NetDev, error)
	CPUInfo() ([]procfs.CPUInfo, error)
}

// SysReader is the part of sysfs.FS the probes read.
type SysReader interface {
	PowerSupplyClass() (sysfs.PowerSupplyClass, error)
	SystemCpufreq() ([]sysfs.SystemCPUCpufreqStats, error)
}

// Source locates the proc and sys filesystems for the probes.
// Proc and Sys override the filesystems opened from ProcRoot and SysRoot.
type Source struct {
	ProcRoot string
	SysRoot  string

	Proc ProcReader
	Sys  SysReader

	parser *file.Parser
}

// NewSource creates a Source rooted at the given mount points.
// Empty roots default to /proc and /sys.
func NewSource(procRoot, sysRoot string) *Source {
	if procRoot == "" {
		procRoot = procfs.DefaultMountPoint
	}
	if sysRoot == "" {
		sysRoot = sysfs.DefaultMountPoint
	}
	return &Source{
		ProcRoot: procRoot,
		SysRoot:  sysRoot,
		parser:   file.NewParser(),
	}
}

func (s *Source) procFS() (ProcReader, error) {
	if s.Proc != nil {
		return s.Proc, nil
	}
	fs, err := procfs.NewFS(s.ProcRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to open procfs at %q: %w", s.ProcRoot, err)
	}
	return fs, nil
}

func (s *Source) sysFS() (SysReader, error) {
	if s.Sys != nil {
		return s.Sys, nil
	}
	fs, err := sysfs.NewFS(s.SysRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to open sysfs at %q: %w", s.SysRoot, err)
	}
	return fs, nil
}

// fields reads a file under ProcRoot as whitespace separated fields.
func (s *Source) fields(ctx context.Context, name string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := s.parser
	if p == nil {
		p = file.NewParser()
	}
	return p.GetFields(filepath.Join(s.ProcRoot, name))
}
