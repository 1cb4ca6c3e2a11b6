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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/sysmon/pkg/collector/file"
	"github.com/NVIDIA/sysmon/pkg/record"
)

// cmdlineHidden are boot parameters left out of the record.
var cmdlineHidden = []string{"root", "BOOT_IMAGE", "initrd"}

// cmdline reads the kernel boot parameters. Flags without a value ("quiet")
// are recorded as true.
func (p Info) cmdline() (*record.Map, error) {
	parser := file.NewParser(file.WithDelimiter(" "))
	params, err := parser.GetLines(filepath.Join(p.procRoot(), "cmdline"))
	if err != nil {
		return nil, fmt.Errorf("failed to read kernel cmdline: %w", err)
	}

	out := record.NewMap()
	for _, param := range params {
		key, value, ok := strings.Cut(param, "=")
		if record.MatchesAny(key, cmdlineHidden) {
			continue
		}
		if !ok {
			out.Set(key, record.Bool(true))
			continue
		}
		out.Set(key, record.Str(value))
	}
	return out, nil
}
