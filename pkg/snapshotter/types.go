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
	"fmt"
	"time"

	"github.com/NVIDIA/sysmon/pkg/collector"
	"github.com/NVIDIA/sysmon/pkg/record"
)

// Action is what the snapshotter does with a failed probe.
type Action int

const (
	// Abort stops the collection; no snapshot is produced.
	Abort Action = iota
	// Omit leaves the probe's key out of the record and continues.
	Omit
)

// String returns the string representation of the Action.
func (a Action) String() string {
	switch a {
	case Abort:
		return "abort"
	case Omit:
		return "omit"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Policy maps a failure class to the action taken when a probe of that class fails.
type Policy map[collector.Class]Action

// DefaultPolicy aborts on load-bearing failures and omits best-effort ones.
func DefaultPolicy() Policy {
	return Policy{
		collector.LoadBearing: Abort,
		collector.BestEffort:  Omit,
	}
}

// ActionFor returns the action for class c. Unknown classes abort.
func (p Policy) ActionFor(c collector.Class) Action {
	if a, ok := p[c]; ok {
		return a
	}
	return Abort
}

// Result is the outcome of running one probe.
type Result struct {
	Probe    string
	Class    collector.Class
	Data     *record.Map
	Err      error
	Duration time.Duration
}

// OK reports whether the probe produced data.
func (r Result) OK() bool {
	return r.Err == nil
}

// ProbeError describes the probe failure that aborted a collection.
type ProbeError struct {
	Probe string
	Class collector.Class
	Cause error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("%s probe %q failed: %v", e.Class, e.Probe, e.Cause)
}

func (e *ProbeError) Unwrap() error {
	return e.Cause
}
