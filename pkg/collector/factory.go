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

package collector

import (
	"log/slog"

	"github.com/NVIDIA/sysmon/pkg/collector/host"
	osinfo "github.com/NVIDIA/sysmon/pkg/collector/os"
	"github.com/NVIDIA/sysmon/pkg/collector/proc"
	"github.com/NVIDIA/sysmon/pkg/collector/systemd"
	"github.com/NVIDIA/sysmon/pkg/collector/tools"
	"github.com/NVIDIA/sysmon/pkg/record"
)

// Factory produces the ordered probe registrations for one collection.
type Factory interface {
	Registrations() []Registration
}

// DefaultFactory creates the Linux probes with production dependencies.
type DefaultFactory struct {
	ProcRoot        string
	SysRoot         string
	DevDir          string
	SystemDServices []string
	Disabled        []string
	Runner          tools.Runner
}

// Option is a functional option for configuring DefaultFactory instances.
type Option func(*DefaultFactory)

// WithProcRoot sets the proc filesystem mount point.
func WithProcRoot(path string) Option {
	return func(f *DefaultFactory) {
		f.ProcRoot = path
	}
}

// WithSysRoot sets the sys filesystem mount point.
func WithSysRoot(path string) Option {
	return func(f *DefaultFactory) {
		f.SysRoot = path
	}
}

// WithDevDir sets the directory scanned for SMART-capable disks.
func WithDevDir(path string) Option {
	return func(f *DefaultFactory) {
		f.DevDir = path
	}
}

// WithSystemDServices sets the services whose state is reported.
// The systemd probe is registered only when at least one service is set.
func WithSystemDServices(services []string) Option {
	return func(f *DefaultFactory) {
		f.SystemDServices = services
	}
}

// WithDisabled skips probes whose names match any of the wildcard patterns.
func WithDisabled(patterns []string) Option {
	return func(f *DefaultFactory) {
		f.Disabled = patterns
	}
}

// WithRunner sets the runner used for external commands.
func WithRunner(r tools.Runner) Option {
	return func(f *DefaultFactory) {
		f.Runner = r
	}
}

// NewDefaultFactory creates a factory with default settings.
func NewDefaultFactory(opts ...Option) *DefaultFactory {
	f := &DefaultFactory{
		ProcRoot: "/proc",
		SysRoot:  "/sys",
		DevDir:   "/dev",
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.Runner == nil {
		f.Runner = tools.NewExecRunner()
	}
	return f
}

// Registrations returns the probes in collection order with their failure classes.
func (f *DefaultFactory) Registrations() []Registration {
	src := proc.NewSource(f.ProcRoot, f.SysRoot)
	hs := host.NewSource()

	regs := []Registration{
		{Probe: proc.Base{Source: src}, Class: LoadBearing},
		{Probe: proc.CPUStats{Source: src}, Class: LoadBearing},
		{Probe: proc.IRQs{Source: src}, Class: LoadBearing},
		{Probe: proc.SoftIRQs{Source: src}, Class: LoadBearing},
		{Probe: proc.MemInfo{Source: src}, Class: LoadBearing},
		{Probe: host.Disk{Source: hs}, Class: LoadBearing},
		{Probe: host.Users{Source: hs}, Class: LoadBearing},
		{Probe: tools.Sensors{Runner: f.Runner}, Class: BestEffort},
		{Probe: tools.SMART{Runner: f.Runner, DevDir: f.DevDir}, Class: BestEffort},
		{Probe: proc.CPUFreqs{Source: src}, Class: BestEffort},
		{Probe: proc.Power{Source: src}, Class: BestEffort},
		{Probe: osinfo.Info{ProcRoot: f.ProcRoot}, Class: BestEffort},
		{Probe: proc.NetIf{Source: src}, Class: LoadBearing},
		{Probe: host.Netstat{Source: hs}, Class: LoadBearing},
	}

	if len(f.SystemDServices) > 0 {
		regs = append(regs, Registration{
			Probe: systemd.Units{Services: f.SystemDServices},
			Class: BestEffort,
		})
	}

	if len(f.Disabled) == 0 {
		return regs
	}
	kept := regs[:0]
	for _, r := range regs {
		if record.MatchesAny(r.Name(), f.Disabled) {
			slog.Debug("probe disabled", "probe", r.Name(), "class", r.Class.String())
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
