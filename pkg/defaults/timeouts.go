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

package defaults

import "time"

// Collection timeouts.
const (
	// ProbeTimeout bounds a single probe invocation. A probe that exceeds it
	// fails like any other probe, according to its class.
	ProbeTimeout = 10 * time.Second

	// CollectTimeout bounds a whole snapshot collection.
	// Must exceed ProbeTimeout so the last probe can still time out on its own.
	CollectTimeout = 2 * time.Minute

	// CommandTimeout bounds a single external command (sensors, smartctl).
	// Kept below ProbeTimeout because the SMART probe runs several commands.
	CommandTimeout = 5 * time.Second
)

// External command throttling.
const (
	// CommandRate is the sustained number of external commands started per second.
	CommandRate = 20

	// CommandBurst is the number of commands that may start back to back.
	CommandBurst = 5
)
