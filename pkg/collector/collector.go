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

package collector

import (
	"context"
	"fmt"

	"github.com/NVIDIA/sysmon/pkg/record"
)

// Probe is a named source of telemetry. Probe returns the source's sub-record
// or fails; it should honor ctx cancellation where the underlying read allows.
type Probe interface {
	Name() string
	Probe(ctx context.Context) (*record.Map, error)
}

// Class tells the snapshotter how to treat a probe failure.
type Class int

const (
	// LoadBearing probes abort the whole collection when they fail.
	LoadBearing Class = iota
	// BestEffort probes are omitted from the record when they fail.
	BestEffort
)

// String returns the string representation of the Class.
func (c Class) String() string {
	switch c {
	case LoadBearing:
		return "load-bearing"
	case BestEffort:
		return "best-effort"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Registration binds a probe to its failure class.
type Registration struct {
	Probe Probe
	Class Class
}

// Name returns the registered probe's name, which is also its record key.
func (r Registration) Name() string {
	return r.Probe.Name()
}

// Func adapts a plain function into a Probe.
type Func struct {
	ProbeName string
	Fn        func(ctx context.Context) (*record.Map, error)
}

// Name implements Probe.
func (f Func) Name() string { return f.ProbeName }

// Probe implements Probe.
func (f Func) Probe(ctx context.Context) (*record.Map, error) { return f.Fn(ctx) }
