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
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/sysmon/pkg/errors"
	"github.com/NVIDIA/sysmon/pkg/serializer"
)

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}
}

func formatFlag(def serializer.Format) cli.Flag {
	usage := fmt.Sprintf("Output format (supported values: %s)", strings.Join(serializer.SupportedFormats(), ", "))
	if def != "" {
		usage += fmt.Sprintf(" (default: %s)", def)
	}
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   usage,
	}
}

// logPathArg returns the single positional log path.
func logPathArg(cmd *cli.Command) (string, error) {
	if n := cmd.Args().Len(); n != 1 {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("expected exactly one log path argument (usage: %s %s)", cmd.Name, cmd.ArgsUsage),
			map[string]any{"args": n})
	}
	return cmd.Args().First(), nil
}

// parseOutputFormat resolves --format, then the --output extension, then fallback.
func parseOutputFormat(cmd *cli.Command, fallback serializer.Format) (serializer.Format, error) {
	raw := strings.TrimSpace(cmd.String("format"))
	if raw == "" {
		if out := strings.TrimSpace(cmd.String("output")); out != "" && out != "-" {
			return serializer.FormatFromPath(out), nil
		}
		return fallback, nil
	}

	f := serializer.Format(strings.ToLower(raw))
	if f.IsUnknown() {
		return "", errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("unknown output format: %q", raw))
	}
	return f, nil
}

func (a *app) newWriter(format serializer.Format, output string) *serializer.Writer {
	out := strings.TrimSpace(output)
	if out == "" || out == "-" {
		return serializer.NewWriter(format, a.stdout).WithVersion(version)
	}
	return serializer.NewFileWriterOrStdout(format, out).WithVersion(version)
}
