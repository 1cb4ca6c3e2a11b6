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

	"github.com/urfave/cli/v3"
)

func collectCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:                  "collect",
		EnableShellCompletion: true,
		Usage:                 "Collect one snapshot and append it to a log",
		ArgsUsage:             "<log>",
		Description: `Probe the host once and append the snapshot as one JSON line to <log>,
creating the file if needed. Each line maps a minute-resolution timestamp to the
record of every probe that succeeded:

  {"2024-03-01 12:05":{"base":{...},"meminfo":{...},...}}

A failing best-effort probe is left out of the record. A failing load-bearing
probe aborts the collection and nothing is appended.

Run it from cron or a systemd timer to build a time series:

  */5 * * * * sysmon collect /var/log/sysmon.log`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write collection metrics in node-exporter textfile format to this path",
			},
			&cli.BoolFlag{
				Name:  "parallel",
				Usage: "Run best-effort probes concurrently",
			},
			&cli.BoolFlag{
				Name:  "verbose-errors",
				Usage: "Log omitted best-effort probes at WARN instead of DEBUG",
			},
			&cli.DurationFlag{
				Name:  "probe-timeout",
				Usage: "Bound on a single probe",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := logPathArg(cmd)
			if err != nil {
				return err
			}

			cfg := a.cfg
			if cmd.IsSet("metrics-file") {
				cfg.Collect.MetricsFile = cmd.String("metrics-file")
			}
			if cmd.IsSet("parallel") {
				cfg.Collect.Parallel = cmd.Bool("parallel")
			}
			if cmd.IsSet("verbose-errors") {
				cfg.Collect.VerboseErrors = cmd.Bool("verbose-errors")
			}
			if cmd.IsSet("probe-timeout") {
				cfg.Collect.ProbeTimeout = cmd.Duration("probe-timeout")
			}

			s := cfg.Snapshotter(a.probeFactory())
			s.Clock = a.clock
			s.Logger = a.logger

			_, err = s.AppendTo(ctx, path)
			return err
		},
	}
}
