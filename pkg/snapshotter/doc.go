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

// Package snapshotter collects one snapshot of host telemetry by running every
// registered probe once and assembling their sub-records under the probe names.
//
// # Failure policy
//
// Each registration carries a collector.Class. The Policy table maps the class to
// an Action:
//
//	collector.LoadBearing -> Abort  // collection fails, nothing is returned
//	collector.BestEffort  -> Omit   // key left out of the record
//
// A probe that exceeds ProbeTimeout or panics counts as failed.
//
// # Usage
//
//	s := &snapshotter.Snapshotter{
//	    Factory:       collector.NewDefaultFactory(),
//	    ProbeTimeout:  10 * time.Second,
//	    VerboseErrors: true,
//	}
//
//	snap, err := s.CollectSnapshot(ctx)
//	if err != nil {
//	    var pe *snapshotter.ProbeError
//	    if errors.As(err, &pe) {
//	        // pe.Probe names the load-bearing probe that failed
//	    }
//	    return err
//	}
//
// With Parallel set, best-effort probes run concurrently while the load-bearing
// ones run in order on the calling goroutine. Record key order is the
// registration order either way.
//
// # Metrics
//
// Collections update Prometheus metrics in the default registry:
//
//	sysmon_snapshot_collection_duration_seconds
//	sysmon_snapshot_collection_total{status}
//	sysmon_probe_duration_seconds{probe}
//	sysmon_probe_outcome_total{probe,outcome}
//	sysmon_snapshot_sources
//
// Setting MetricsFile writes them in node-exporter textfile format after each run.
package snapshotter
