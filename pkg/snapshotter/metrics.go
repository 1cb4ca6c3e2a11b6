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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Probe outcome label values.
const (
	outcomeOK      = "ok"
	outcomeOmitted = "omitted"
	outcomeFatal   = "fatal"
)

var (
	snapshotCollectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sysmon_snapshot_collection_duration_seconds",
			Help:    "Time taken to collect a complete snapshot",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
	)

	snapshotCollectionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysmon_snapshot_collection_total",
			Help: "Total number of snapshot collection attempts",
		},
		[]string{"status"}, // success or error
	)

	probeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sysmon_probe_duration_seconds",
			Help:    "Time taken by individual probes",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"probe"},
	)

	probeOutcomeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sysmon_probe_outcome_total",
			Help: "Probe results by outcome (ok, omitted, fatal)",
		},
		[]string{"probe", "outcome"},
	)

	snapshotSourceCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sysmon_snapshot_sources",
			Help: "Number of sources in the last collected snapshot",
		},
	)
)
