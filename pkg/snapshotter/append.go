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

package snapshotter

import (
	"context"
	"log/slog"

	"github.com/NVIDIA/sysmon/pkg/record"
	"github.com/NVIDIA/sysmon/pkg/snaplog"
)

// AppendTo collects one snapshot and appends it to the log at path. On a
// collection error nothing is written and the log is left as it was.
func (s *Snapshotter) AppendTo(ctx context.Context, path string) (record.Snapshot, error) {
	snap, err := s.CollectSnapshot(ctx)
	if err != nil {
		return record.Snapshot{}, err
	}

	if err := snaplog.AppendSnapshot(path, snap); err != nil {
		return record.Snapshot{}, err
	}

	s.Logger.Info("snapshot appended",
		slog.String("path", path),
		slog.String("timestamp", snap.Timestamp()),
		slog.Int("sources", snap.Len()))

	return snap, nil
}
