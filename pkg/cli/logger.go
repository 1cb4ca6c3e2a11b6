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
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"

	"github.com/NVIDIA/sysmon/pkg/config"
	"github.com/NVIDIA/sysmon/pkg/logging"
)

// ExecuteLogger runs the single-purpose sysmon-logger command and exits.
// It takes exactly one argument, the log path, and appends one snapshot to it.
func ExecuteLogger() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := runLogger(ctx, newApp(), os.Args)
	stop()
	os.Exit(code)
}

func runLogger(ctx context.Context, a *app, args []string) int {
	prog := "sysmon-logger"
	if len(args) > 0 {
		prog = filepath.Base(args[0])
	}
	if len(args) != 2 {
		fmt.Fprintf(a.stdout, "usage: %s <log>\n", prog)
		return 1
	}

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	a.cfg = cfg
	if a.logger == nil {
		a.logger = logging.WithRunID(logging.NewStructuredLogger(prog, version, cfg.LogLevel), uuid.NewString())
	}

	s := cfg.Snapshotter(a.probeFactory())
	s.Clock = a.clock
	s.Logger = a.logger

	if _, err := s.AppendTo(ctx, args[1]); err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	return 0
}
