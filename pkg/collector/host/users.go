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

package host

import (
	"context"
	"fmt"
	"strings"

	"github.com/NVIDIA/sysmon/pkg/record"
)

// Users reports logged-in user names and session counts by terminal type.
type Users struct{ *Source }

// Name implements collector.Probe.
func (Users) Name() string { return NameUsers }

// Probe implements collector.Probe.
func (p Users) Probe(ctx context.Context) (*record.Map, error) {
	sessions, err := p.Source.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	seen := make(map[string]bool)
	names := make([]record.Value, 0)
	var tty, pts int64
	for _, s := range sessions {
		if !seen[s.User] {
			seen[s.User] = true
			names = append(names, record.Str(s.User))
		}
		switch {
		case strings.HasPrefix(s.Terminal, "tty"):
			tty++
		case strings.HasPrefix(s.Terminal, "pts"):
			pts++
		}
	}

	return record.NewMap().
		Set("users", record.ListOf(names)).
		Set("tty", record.Int(tty)).
		Set("pts", record.Int(pts)).
		Set("total", record.Int(tty+pts)), nil
}
