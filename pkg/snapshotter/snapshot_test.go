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
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/sysmon/pkg/collector"
	"github.com/NVIDIA/sysmon/pkg/errors"
	"github.com/NVIDIA/sysmon/pkg/record"
)

type staticFactory []collector.Registration

func (f staticFactory) Registrations() []collector.Registration { return f }

type countingProbe struct {
	name  string
	data  *record.Map
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (p *countingProbe) Name() string { return p.name }

func (p *countingProbe) Probe(ctx context.Context) (*record.Map, error) {
	p.calls.Add(1)
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.data, p.err
}

func okProbe(name string, key string, v int64) *countingProbe {
	return &countingProbe{name: name, data: record.NewMap().Set(key, record.Int(v))}
}

func failing(name string) *countingProbe {
	return &countingProbe{name: name, err: stderrors.New(name + " unavailable")}
}

func lb(p collector.Probe) collector.Registration {
	return collector.Registration{Probe: p, Class: collector.LoadBearing}
}

func be(p collector.Probe) collector.Registration {
	return collector.Registration{Probe: p, Class: collector.BestEffort}
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 12, 5, 42, 0, time.Local)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestCollectSnapshot_RegistrationOrder(t *testing.T) {
	probes := []*countingProbe{okProbe("base", "uptime", 10), okProbe("meminfo", "total", 1024), okProbe("net_if", "lo", 1)}
	s := &Snapshotter{
		Factory: staticFactory{lb(probes[0]), be(probes[1]), lb(probes[2])},
		Clock:   fixedClock,
		Logger:  quietLogger(),
	}

	snap, err := s.CollectSnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01 12:05", snap.Timestamp())
	assert.Equal(t, []string{"base", "meminfo", "net_if"}, snap.Sources())
	for _, p := range probes {
		assert.Equal(t, int32(1), p.calls.Load(), "probe %s must run exactly once", p.name)
	}

	mem, ok := snap.Get("meminfo")
	require.True(t, ok)
	m, _ := mem.Map()
	total, _ := m.Get("total")
	assert.True(t, total.Equal(record.Int(1024)))
}

func TestCollectSnapshot_BestEffortIsolation(t *testing.T) {
	build := func(smart collector.Probe) *Snapshotter {
		return &Snapshotter{
			Factory: staticFactory{
				lb(okProbe("base", "uptime", 10)),
				be(okProbe("sensors", "Core 0", 45)),
				be(smart),
				lb(okProbe("netstat", "tcp_listen", 3)),
			},
			Clock:  fixedClock,
			Logger: quietLogger(),
		}
	}

	healthy, err := build(okProbe("SMART", "sda", 1)).CollectSnapshot(context.Background())
	require.NoError(t, err)

	degraded, err := build(failing("SMART")).CollectSnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "sensors", "SMART", "netstat"}, healthy.Sources())
	assert.Equal(t, []string{"base", "sensors", "netstat"}, degraded.Sources())

	for _, key := range degraded.Sources() {
		want, _ := healthy.Get(key)
		got, _ := degraded.Get(key)
		assert.True(t, want.Equal(got), "source %s differs", key)
	}
}

func TestCollectSnapshot_LoadBearingAborts(t *testing.T) {
	after := okProbe("netstat", "tcp_listen", 1)
	s := &Snapshotter{
		Factory: staticFactory{
			lb(okProbe("base", "uptime", 10)),
			lb(failing("meminfo")),
			lb(after),
		},
		Clock:  fixedClock,
		Logger: quietLogger(),
	}

	snap, err := s.CollectSnapshot(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, snap.Len())
	assert.Equal(t, int32(0), after.calls.Load(), "probes after the failure must not run")

	assert.Equal(t, errors.ErrCodeProbeFailed, errors.CodeOf(err))

	var pe *ProbeError
	require.True(t, stderrors.As(err, &pe))
	assert.Equal(t, "meminfo", pe.Probe)
	assert.Equal(t, collector.LoadBearing, pe.Class)
	assert.EqualError(t, pe.Cause, "meminfo unavailable")
}

func TestCollectSnapshot_Timeout(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	hung := collector.Func{
		ProbeName: "sensors",
		Fn: func(context.Context) (*record.Map, error) {
			<-release
			return record.NewMap(), nil
		},
	}

	t.Run("best-effort timeout is omitted", func(t *testing.T) {
		s := &Snapshotter{
			Factory:      staticFactory{lb(okProbe("base", "uptime", 1)), be(hung)},
			ProbeTimeout: 20 * time.Millisecond,
			Clock:        fixedClock,
			Logger:       quietLogger(),
		}
		snap, err := s.CollectSnapshot(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"base"}, snap.Sources())
	})

	t.Run("load-bearing timeout aborts", func(t *testing.T) {
		s := &Snapshotter{
			Factory:      staticFactory{lb(hung)},
			ProbeTimeout: 20 * time.Millisecond,
			Clock:        fixedClock,
			Logger:       quietLogger(),
		}
		_, err := s.CollectSnapshot(context.Background())
		require.Error(t, err)

		var pe *ProbeError
		require.True(t, stderrors.As(err, &pe))
		assert.Equal(t, errors.ErrCodeTimeout, errors.CodeOf(pe.Cause))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestCollectSnapshot_PanickingProbeIsAFailure(t *testing.T) {
	boom := collector.Func{
		ProbeName: "power",
		Fn: func(context.Context) (*record.Map, error) {
			panic("no battery")
		},
	}
	s := &Snapshotter{
		Factory: staticFactory{lb(okProbe("base", "uptime", 1)), be(boom)},
		Clock:   fixedClock,
		Logger:  quietLogger(),
	}

	snap, err := s.CollectSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"base"}, snap.Sources())
}

func TestCollectSnapshot_NilDataIsEmptyMap(t *testing.T) {
	empty := collector.Func{
		ProbeName: "power",
		Fn:        func(context.Context) (*record.Map, error) { return nil, nil },
	}
	s := &Snapshotter{Factory: staticFactory{be(empty)}, Clock: fixedClock, Logger: quietLogger()}

	snap, err := s.CollectSnapshot(context.Background())
	require.NoError(t, err)

	line, err := record.EncodeLine(snap)
	require.NoError(t, err)
	assert.Equal(t, `{"2024-03-01 12:05":{"power":{}}}`, string(line))
}

func TestCollectSnapshot_TimestampTakenAfterProbes(t *testing.T) {
	var ran atomic.Int32
	probe := collector.Func{
		ProbeName: "base",
		Fn: func(context.Context) (*record.Map, error) {
			ran.Add(1)
			return record.NewMap(), nil
		},
	}
	var seen int32 = -1
	s := &Snapshotter{
		Factory: staticFactory{lb(probe), lb(probe)},
		Clock: func() time.Time {
			seen = ran.Load()
			return fixedClock()
		},
		Logger: quietLogger(),
	}

	_, err := s.CollectSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), seen)
}

func TestCollectSnapshot_Parallel(t *testing.T) {
	t.Run("keeps registration order", func(t *testing.T) {
		slow := okProbe("sensors", "Core 0", 40)
		slow.delay = 30 * time.Millisecond
		s := &Snapshotter{
			Factory: staticFactory{
				lb(okProbe("base", "uptime", 1)),
				be(slow),
				be(okProbe("SMART", "sda", 1)),
				be(failing("power")),
				lb(okProbe("net_if", "lo", 1)),
			},
			Parallel: true,
			Clock:    fixedClock,
			Logger:   quietLogger(),
		}

		snap, err := s.CollectSnapshot(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"base", "sensors", "SMART", "net_if"}, snap.Sources())
	})

	t.Run("load-bearing failure still aborts", func(t *testing.T) {
		slow := okProbe("sensors", "Core 0", 40)
		slow.delay = time.Second
		s := &Snapshotter{
			Factory:  staticFactory{be(slow), lb(failing("base"))},
			Parallel: true,
			Clock:    fixedClock,
			Logger:   quietLogger(),
		}

		start := time.Now()
		_, err := s.CollectSnapshot(context.Background())
		require.Error(t, err)
		assert.Less(t, time.Since(start), 500*time.Millisecond, "best-effort probes should be cancelled")
	})
}

func TestCollectSnapshot_VerboseErrors(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    string
	}{
		{name: "verbose", verbose: true, want: "level=WARN"},
		{name: "quiet", verbose: false, want: "level=DEBUG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			s := &Snapshotter{
				Factory:       staticFactory{be(failing("sensors"))},
				VerboseErrors: tt.verbose,
				Clock:         fixedClock,
				Logger:        logger,
			}

			_, err := s.CollectSnapshot(context.Background())
			require.NoError(t, err)
			assert.Contains(t, buf.String(), tt.want+` msg="probe omitted from snapshot"`)
			assert.Contains(t, buf.String(), "probe=sensors")
		})
	}
}

func TestCollectSnapshot_Metrics(t *testing.T) {
	okBefore := testutil.ToFloat64(probeOutcomeTotal.WithLabelValues("metrics_ok", outcomeOK))
	omittedBefore := testutil.ToFloat64(probeOutcomeTotal.WithLabelValues("metrics_omitted", outcomeOmitted))
	fatalBefore := testutil.ToFloat64(probeOutcomeTotal.WithLabelValues("metrics_fatal", outcomeFatal))
	successBefore := testutil.ToFloat64(snapshotCollectionTotal.WithLabelValues("success"))
	errorBefore := testutil.ToFloat64(snapshotCollectionTotal.WithLabelValues("error"))

	good := &Snapshotter{
		Factory: staticFactory{lb(okProbe("metrics_ok", "x", 1)), be(failing("metrics_omitted"))},
		Clock:   fixedClock,
		Logger:  quietLogger(),
	}
	_, err := good.CollectSnapshot(context.Background())
	require.NoError(t, err)

	bad := &Snapshotter{
		Factory: staticFactory{lb(failing("metrics_fatal"))},
		Clock:   fixedClock,
		Logger:  quietLogger(),
	}
	_, err = bad.CollectSnapshot(context.Background())
	require.Error(t, err)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(probeOutcomeTotal.WithLabelValues("metrics_ok", outcomeOK)))
	assert.Equal(t, omittedBefore+1, testutil.ToFloat64(probeOutcomeTotal.WithLabelValues("metrics_omitted", outcomeOmitted)))
	assert.Equal(t, fatalBefore+1, testutil.ToFloat64(probeOutcomeTotal.WithLabelValues("metrics_fatal", outcomeFatal)))
	assert.Equal(t, successBefore+1, testutil.ToFloat64(snapshotCollectionTotal.WithLabelValues("success")))
	assert.Equal(t, errorBefore+1, testutil.ToFloat64(snapshotCollectionTotal.WithLabelValues("error")))
}

func TestCollectSnapshot_MetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sysmon.prom")
	s := &Snapshotter{
		Factory:     staticFactory{lb(okProbe("base", "uptime", 1))},
		MetricsFile: path,
		Clock:       fixedClock,
		Logger:      quietLogger(),
	}

	_, err := s.CollectSnapshot(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sysmon_snapshot_collection_total")
	assert.Contains(t, string(data), `sysmon_probe_outcome_total{outcome="ok",probe="base"}`)
}

func TestPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, Abort, p.ActionFor(collector.LoadBearing))
	assert.Equal(t, Omit, p.ActionFor(collector.BestEffort))
	assert.Equal(t, Abort, p.ActionFor(collector.Class(42)), "unknown classes abort")

	// A lenient policy turns every failure into an omission.
	s := &Snapshotter{
		Factory: staticFactory{lb(failing("base")), lb(okProbe("meminfo", "total", 1))},
		Policy:  Policy{collector.LoadBearing: Omit},
		Clock:   fixedClock,
		Logger:  quietLogger(),
	}
	snap, err := s.CollectSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"meminfo"}, snap.Sources())
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "abort", Abort.String())
	assert.Equal(t, "omit", Omit.String())
	assert.Equal(t, "action(7)", Action(7).String())
}
