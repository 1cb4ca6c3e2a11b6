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
	"os"

	"github.com/NVIDIA/sysmon/pkg/collector/file"
	"github.com/NVIDIA/sysmon/pkg/record"
)

// DefaultReleaseFiles are the os-release locations, primary first.
var DefaultReleaseFiles = []string{"/etc/os-release", "/usr/lib/os-release"}

// release reads the first os-release file that exists, e.g.
//
//	NAME="Ubuntu"
//	ID=ubuntu
//	VERSION_ID="22.04"
//	PRETTY_NAME="Ubuntu 22.04.4 LTS"
func (p Info) release() (*record.Map, error) {
	files := p.ReleaseFiles
	if len(files) == 0 {
		files = DefaultReleaseFiles
	}

	path := files[len(files)-1]
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			path = f
			break
		}
	}

	parser := file.NewParser(
		file.WithKVDelimiter("="),
		file.WithVTrimChars(`"'`),
		file.WithSkipComments(true),
	)
	lines, err := parser.GetLines(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read os release: %w", err)
	}

	out := record.NewMap()
	for k, v := range parser.ToMap(lines).All() {
		if s, _ := v.Text(); s == "" {
			continue
		}
		out.Set(k, v)
	}
	return out, nil
}
