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
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/sysmon/pkg/flatten"
	"github.com/NVIDIA/sysmon/pkg/serializer"
	"github.com/NVIDIA/sysmon/pkg/snaplog"
)

func flattenCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:                  "flatten",
		EnableShellCompletion: true,
		Usage:                 "Flatten a snapshot log into a table",
		ArgsUsage:             "<log>",
		Description: `Read every line of <log> and produce one row per snapshot and one column
per leaf value. Column names join the path with "_", so {"mem":{"total":1}} becomes
mem_total. Lists of {id|num, name, value} objects become one column per attribute,
e.g. SMART_sda_attributes_9_Power_On_Hours.

Lines that do not parse are skipped and reported; use --strict to fail instead.

# Examples

CSV to stdout:
  sysmon flatten /var/log/sysmon.log

Memory columns only, as a terminal table:
  sysmon flatten --columns 'meminfo_*' --format table /var/log/sysmon.log

Into SQLite for ad hoc queries:
  sysmon flatten --sqlite sysmon.db /var/log/sysmon.log`,
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(serializer.DefaultFormat),
			&cli.StringSliceFlag{
				Name:  "columns",
				Usage: "Keep only columns matching these wildcard patterns (datetime is always kept)",
			},
			&cli.StringSliceFlag{
				Name:  "id-key",
				Usage: "Keys that identify an attribute in {id, name, value} lists, in order of preference",
			},
			&cli.StringFlag{
				Name:  "sqlite",
				Usage: "Write the table to this SQLite database instead of --output",
			},
			&cli.StringFlag{
				Name:  "sqlite-table",
				Usage: "SQLite table name (replaced on every run)",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail when any log line cannot be parsed",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := logPathArg(cmd)
			if err != nil {
				return err
			}

			cfg := a.cfg
			if keys := cmd.StringSlice("id-key"); len(keys) > 0 {
				cfg.Flatten.IDKeys = keys
			}
			if cmd.IsSet("sqlite-table") {
				cfg.Flatten.SQLiteTable = cmd.String("sqlite-table")
			}

			outFormat, err := parseOutputFormat(cmd, serializer.Format(cfg.Flatten.Format))
			if err != nil {
				return err
			}

			lines, err := snaplog.ReadFile(path)
			if err != nil {
				return err
			}

			opts := append(cfg.FlattenOptions(), flatten.WithLogger(a.logger))
			table, report, err := flatten.New(opts...).FlattenLines(ctx, lines)
			if err != nil {
				return err
			}

			a.logger.Info("log flattened",
				slog.String("path", path),
				slog.Int("lines", report.Lines),
				slog.Int("rows", report.Rows),
				slog.Int("columns", table.Width()),
				slog.Int("row_errors", len(report.RowErrors)),
				slog.Int("warnings", len(report.Warnings)))

			if cmd.Bool("strict") {
				if err := report.Err(); err != nil {
					return err
				}
			}

			if patterns := cmd.StringSlice("columns"); len(patterns) > 0 {
				table = table.Select(patterns)
			}

			if dbPath := cmd.String("sqlite"); dbPath != "" {
				return writeSQLite(ctx, dbPath, cfg.Flatten.SQLiteTable, table)
			}

			w := a.newWriter(outFormat, cmd.String("output"))
			defer func() {
				if err := w.Close(); err != nil {
					slog.Warn("failed to close writer", "error", err)
				}
			}()

			return w.Serialize(ctx, table)
		},
	}
}

func writeSQLite(ctx context.Context, dbPath, tableName string, table *flatten.Table) (err error) {
	w, err := serializer.OpenSQLite(dbPath, tableName)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close sqlite database: %w", closeErr)
		}
	}()

	return w.Serialize(ctx, table)
}
