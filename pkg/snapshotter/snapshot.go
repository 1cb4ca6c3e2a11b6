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
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/sysmon/pkg/collector"
	"github.com/NVIDIA/sysmon/pkg/defaults"
	"github.com/NVIDIA/sysmon/pkg/errors"
	"github.com/NVIDIA/sysmon/pkg/record"
)

// Snapshotter runs the registered probes once and assembles their output into a
// timestamped snapshot.
type Snapshotter struct {
	// Factory supplies the ordered probe registrations.
	// When nil, collector.NewDefaultFactory is used.
	Factory collector.Factory

	// Policy decides what a probe failure does. When nil, DefaultPolicy is used.
	Policy Policy

	// ProbeTimeout bounds every single probe. Zero means defaults.ProbeTimeout.
	ProbeTimeout time.Duration

	// Parallel runs best-effort probes concurrently with the load-bearing ones.
	Parallel bool

	// VerboseErrors logs omitted best-effort probes at WARN instead of DEBUG.
	VerboseErrors bool

	// Clock returns the collection time. When nil, time.Now is used.
	Clock func() time.Time

	// MetricsFile, when set, receives the registry in node-exporter textfile
	// format after each collection.
	MetricsFile string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// CollectSnapshot invokes every registered probe exactly once and returns the
// snapshot. The first failing probe whose class maps to Abort fails the whole
// collection; no partial snapshot is returned.
func (s *Snapshotter) CollectSnapshot(ctx context.Context) (record.Snapshot, error) {
	s.setDefaults()

	start := time.Now()
	regs := s.Factory.Registrations()
	s.Logger.Debug("starting snapshot collection", slog.Int("probes", len(regs)), slog.Bool("parallel", s.Parallel))

	results, err := s.runAll(ctx, regs)
	snapshotCollectionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		snapshotCollectionTotal.WithLabelValues("error").Inc()
		s.writeMetrics()
		return record.Snapshot{}, err
	}

	rec := record.NewMap()
	for _, r := range results {
		if !r.OK() {
			s.logOmitted(r)
			continue
		}
		data := r.Data
		if data == nil {
			data = record.NewMap()
		}
		rec.Set(r.Probe, record.MapValue(data))
	}

	// Taken after the record is complete, so a slow probe moves the stamp forward.
	snap := record.NewSnapshot(record.FormatTimestamp(s.Clock()), rec)

	snapshotCollectionTotal.WithLabelValues("success").Inc()
	snapshotSourceCount.Set(float64(snap.Len()))
	s.writeMetrics()

	s.Logger.Debug("snapshot collected",
		slog.String("timestamp", snap.Timestamp()),
		slog.Int("sources", snap.Len()),
		slog.Duration("duration", time.Since(start)))

	return snap, nil
}

func (s *Snapshotter) setDefaults() {
	if s.Factory == nil {
		s.Factory = collector.NewDefaultFactory()
	}
	if s.Policy == nil {
		s.Policy = DefaultPolicy()
	}
	if s.ProbeTimeout <= 0 {
		s.ProbeTimeout = defaults.ProbeTimeout
	}
	if s.Clock == nil {
		s.Clock = time.Now
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
}

// runAll returns one result per registration, in registration order.
func (s *Snapshotter) runAll(ctx context.Context, regs []collector.Registration) ([]Result, error) {
	results := make([]Result, len(regs))

	if !s.Parallel {
		for i, reg := range regs {
			results[i] = s.run(ctx, reg)
			if err := s.check(results[i]); err != nil {
				return nil, err
			}
		}
		return results, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(runCtx)

	for i, reg := range regs {
		if s.Policy.ActionFor(reg.Class) != Omit {
			continue
		}
		g.Go(func() error {
			r := s.run(gctx, reg)
			_ = s.check(r)
			mu.Lock()
			results[i] = r
			mu.Unlock()
			return nil
		})
	}

	var fatal error
	for i, reg := range regs {
		if s.Policy.ActionFor(reg.Class) == Omit {
			continue
		}
		r := s.run(runCtx, reg)
		mu.Lock()
		results[i] = r
		mu.Unlock()
		if fatal = s.check(r); fatal != nil {
			cancel()
			break
		}
	}

	// Goroutines never return an error; Wait only joins them.
	_ = g.Wait()

	if fatal != nil {
		return nil, fatal
	}
	return results, nil
}

// check records the outcome of r and returns a fatal error when the policy aborts.
func (s *Snapshotter) check(r Result) error {
	probeDuration.WithLabelValues(r.Probe).Observe(r.Duration.Seconds())

	if r.OK() {
		probeOutcomeTotal.WithLabelValues(r.Probe, outcomeOK).Inc()
		return nil
	}
	if s.Policy.ActionFor(r.Class) == Omit {
		probeOutcomeTotal.WithLabelValues(r.Probe, outcomeOmitted).Inc()
		return nil
	}

	probeOutcomeTotal.WithLabelValues(r.Probe, outcomeFatal).Inc()
	s.Logger.Error("probe failed, aborting collection",
		slog.String("probe", r.Probe),
		slog.String("class", r.Class.String()),
		slog.String("error", r.Err.Error()))

	return errors.WrapWithContext(errors.ErrCodeProbeFailed, "snapshot collection aborted",
		&ProbeError{Probe: r.Probe, Class: r.Class, Cause: r.Err},
		map[string]any{"probe": r.Probe, "class": r.Class.String()})
}

// run executes one probe under its own timeout. A probe that ignores ctx is
// abandoned when the timeout fires; its late result is discarded.
func (s *Snapshotter) run(ctx context.Context, reg collector.Registration) Result {
	res := Result{Probe: reg.Name(), Class: reg.Class}

	pctx, cancel := context.WithTimeout(ctx, s.ProbeTimeout)
	defer cancel()

	type outcome struct {
		data *record.Map
		err  error
	}
	done := make(chan outcome, 1)

	start := time.Now()
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: fmt.Errorf("probe panicked: %v", p)}
			}
		}()
		data, err := reg.Probe.Probe(pctx)
		done <- outcome{data: data, err: err}
	}()

	select {
	case o := <-done:
		res.Data, res.Err = o.data, o.err
	case <-pctx.Done():
		res.Err = errors.Wrap(errors.ErrCodeTimeout,
			fmt.Sprintf("probe did not finish within %s", s.ProbeTimeout), pctx.Err())
	}
	res.Duration = time.Since(start)
	return res
}

func (s *Snapshotter) logOmitted(r Result) {
	level := slog.LevelDebug
	if s.VerboseErrors {
		level = slog.LevelWarn
	}
	s.Logger.Log(context.Background(), level, "probe omitted from snapshot",
		slog.String("probe", r.Probe),
		slog.String("class", r.Class.String()),
		slog.Duration("duration", r.Duration),
		slog.String("error", r.Err.Error()))
}

func (s *Snapshotter) writeMetrics() {
	if s.MetricsFile == "" {
		return
	}
	if err := prometheus.WriteToTextfile(s.MetricsFile, prometheus.DefaultGatherer); err != nil {
		s.Logger.Warn("failed to write metrics textfile",
			slog.String("path", s.MetricsFile),
			slog.String("error", err.Error()))
	}
}
