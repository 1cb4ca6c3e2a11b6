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
	"strconv"

	"github.com/NVIDIA/sysmon/pkg/collector/file"
	"github.com/NVIDIA/sysmon/pkg/record"
)

// modules reads /proc/modules into module name -> instance count, e.g.
//
//	nvidia_uvm 1531904 2 - Live 0x0000000000000000 (POE)
func (p Info) modules() (*record.Map, error) {
	rows, err := file.NewParser().GetFields(filepath.Join(p.procRoot(), "modules"))
	if err != nil {
		return nil, fmt.Errorf("failed to read kernel modules: %w", err)
	}

	out := record.NewMap()
	for _, f := range rows {
		if len(f) == 0 {
			continue
		}
		if len(f) < 3 {
			out.Set(f[0], record.Int(0))
			continue
		}
		n, err := strconv.ParseInt(f[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid instance count %q for module %s: %w", f[2], f[0], err)
		}
		out.Set(f[0], record.Int(n))
	}
	return out, nil
}
