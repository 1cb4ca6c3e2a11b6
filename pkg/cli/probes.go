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

package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/sysmon/pkg/collector"
	"github.com/NVIDIA/sysmon/pkg/header"
	"github.com/NVIDIA/sysmon/pkg/serializer"
	"github.com/NVIDIA/sysmon/pkg/snapshotter"
)

// ProbeInfo describes one registered probe.
type ProbeInfo struct {
	Name   string `json:"name" yaml:"name"`
	Class  string `json:"class" yaml:"class"`
	OnFail string `json:"onFail" yaml:"onFail"`
}

// ProbeList is the document written by the probes command.
type ProbeList struct {
	header.Header `json:",inline" yaml:",inline"`

	Probes []ProbeInfo `json:"probes" yaml:"probes"`
}

func newProbeList(regs []collector.Registration, policy snapshotter.Policy, at time.Time) *ProbeList {
	l := &ProbeList{Probes: make([]ProbeInfo, 0, len(regs))}
	l.InitAt(header.KindProbeList, version, at)
	l.Metadata["probes"] = strconv.Itoa(len(regs))

	for _, r := range regs {
		l.Probes = append(l.Probes, ProbeInfo{
			Name:   r.Name(),
			Class:  r.Class.String(),
			OnFail: policy.ActionFor(r.Class).String(),
		})
	}
	return l
}

// Headers implements serializer.Tabular.
func (l *ProbeList) Headers() []string {
	return []string{"name", "class", "on_fail"}
}

// Records implements serializer.Tabular.
func (l *ProbeList) Records() [][]string {
	out := make([][]string, len(l.Probes))
	for i, p := range l.Probes {
		out[i] = []string{p.Name, p.Class, p.OnFail}
	}
	return out
}

func probesCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:                  "probes",
		EnableShellCompletion: true,
		Usage:                 "List the probes a collection would run",
		Description: `Print the probes in collection order with their failure class. Probes
removed with probes.disabled in the config are not listed.`,
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(serializer.FormatTable),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd, serializer.FormatTable)
			if err != nil {
				return err
			}

			f := a.probeFactory()
			if f == nil {
				f = a.cfg.Factory()
			}

			w := a.newWriter(outFormat, cmd.String("output"))
			defer func() {
				if err := w.Close(); err != nil {
					a.logger.Warn("failed to close writer", "error", err)
				}
			}()

			return w.Serialize(ctx, newProbeList(f.Registrations(), snapshotter.DefaultPolicy(), time.Now()))
		},
	}
}
