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
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/sysmon/pkg/collector"
	"github.com/NVIDIA/sysmon/pkg/config"
	"github.com/NVIDIA/sysmon/pkg/logging"
)

const (
	name           = "sysmon"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// app is the state shared by all commands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	// factory overrides the probe factory built from config when non-nil.
	factory func(cfg *config.Config) collector.Factory
	// clock overrides time.Now for snapshot timestamps when non-nil.
	clock func() time.Time

	cfg    *config.Config
	logger *slog.Logger
}

func newApp() *app {
	return &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

func (a *app) probeFactory() collector.Factory {
	if a.factory == nil {
		return nil
	}
	return a.factory(a.cfg)
}

// before loads the config and sets up the logger once flags are parsed, so
// --log-level and --debug take effect before any command runs.
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	a.cfg = cfg

	level := cmd.String("log-level")
	if level == "" {
		level = cfg.LogLevel
	}
	if cmd.Bool("debug") {
		level = "debug"
	}

	runID := uuid.NewString()
	a.logger = logging.WithRunID(logging.NewStructuredLogger(name, version, level), runID)
	slog.SetDefault(a.logger)

	a.logger.Debug("starting",
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", level)
	return ctx, nil
}

func newRootCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Linux host telemetry snapshot logger",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Writer:                a.stdout,
		ErrWriter:             a.stderr,
		Description: `Collects host telemetry into an append-only snapshot log and turns
the log into a flat table for analysis.

collect  - probe the host once and append a timestamped snapshot to a log
flatten  - flatten a snapshot log into CSV, JSON, YAML, a terminal table or SQLite
probes   - list the probes a collection would run`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML or JSON config file",
				Sources: cli.EnvVars(config.EnvConfig),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars(logging.EnvLogLevel),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Shorthand for --log-level=debug",
			},
		},
		Before: a.before,
		Commands: []*cli.Command{
			collectCmd(a),
			flattenCmd(a),
			probesCmd(a),
		},
	}
}

// Execute runs the sysmon command line and exits the process on failure.
// This is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd(newApp()).Run(ctx, os.Args)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return 2
	default:
		return 1
	}
}
