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

package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/sysmon/pkg/collector"
	"github.com/NVIDIA/sysmon/pkg/collector/tools"
	"github.com/NVIDIA/sysmon/pkg/defaults"
	"github.com/NVIDIA/sysmon/pkg/errors"
	"github.com/NVIDIA/sysmon/pkg/flatten"
	"github.com/NVIDIA/sysmon/pkg/logging"
	"github.com/NVIDIA/sysmon/pkg/serializer"
	"github.com/NVIDIA/sysmon/pkg/snapshotter"
)

// Environment variables read by Load.
const (
	EnvConfig        = "SYSMON_CONFIG"
	EnvVerboseErrors = "SYSMON_VERBOSE_ERRORS"
	EnvProbeTimeout  = "SYSMON_PROBE_TIMEOUT"
	EnvParallel      = "SYSMON_PARALLEL"
	EnvMetricsFile   = "SYSMON_METRICS_FILE"
)

type Config struct {
	LogLevel string        `yaml:"log_level" json:"log_level"`
	Collect  CollectConfig `yaml:"collect" json:"collect"`
	Probes   ProbeConfig   `yaml:"probes" json:"probes"`
	Flatten  FlattenConfig `yaml:"flatten" json:"flatten"`
}

type CollectConfig struct {
	ProbeTimeout  time.Duration `yaml:"probe_timeout" json:"probe_timeout"`
	Parallel      bool          `yaml:"parallel" json:"parallel"`
	VerboseErrors bool          `yaml:"verbose_errors" json:"verbose_errors"`
	MetricsFile   string        `yaml:"metrics_file" json:"metrics_file"`
}

type ProbeConfig struct {
	ProcRoot        string        `yaml:"proc_root" json:"proc_root"`
	SysRoot         string        `yaml:"sys_root" json:"sys_root"`
	DevDir          string        `yaml:"dev_dir" json:"dev_dir"`
	SystemDServices []string      `yaml:"systemd_services" json:"systemd_services"`
	Disabled        []string      `yaml:"disabled" json:"disabled"`
	CommandTimeout  time.Duration `yaml:"command_timeout" json:"command_timeout"`
	CommandRate     float64       `yaml:"command_rate" json:"command_rate"`
	CommandBurst    int           `yaml:"command_burst" json:"command_burst"`
}

type FlattenConfig struct {
	IDKeys      []string `yaml:"id_keys" json:"id_keys"`
	Format      string   `yaml:"format" json:"format"`
	SQLiteTable string   `yaml:"sqlite_table" json:"sqlite_table"`
}

// Load reads .env if present, then the config file at path (or $SYSMON_CONFIG),
// fills defaults, applies environment overrides and validates the result.
// An empty path with no $SYSMON_CONFIG yields the defaults.
func Load(path string) (*Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := &Config{}
	if path != "" {
		loaded, err := serializer.FromFile[Config](path)
		if err != nil {
			code := errors.ErrCodeInvalidRequest
			if stderrors.Is(err, os.ErrNotExist) {
				code = errors.ErrCodeNotFound
			}
			return nil, errors.WrapWithContext(code, "failed to load config", err,
				map[string]any{"path": path})
		}
		cfg = loaded
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid environment override", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid config", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = os.Getenv(logging.EnvLogLevel)
	}
	if c.Collect.ProbeTimeout == 0 {
		c.Collect.ProbeTimeout = defaults.ProbeTimeout
	}
	if c.Probes.ProcRoot == "" {
		c.Probes.ProcRoot = "/proc"
	}
	if c.Probes.SysRoot == "" {
		c.Probes.SysRoot = "/sys"
	}
	if c.Probes.DevDir == "" {
		c.Probes.DevDir = "/dev"
	}
	if c.Probes.CommandTimeout == 0 {
		c.Probes.CommandTimeout = defaults.CommandTimeout
	}
	if c.Probes.CommandRate == 0 {
		c.Probes.CommandRate = defaults.CommandRate
	}
	if c.Probes.CommandBurst == 0 {
		c.Probes.CommandBurst = defaults.CommandBurst
	}
	if len(c.Flatten.IDKeys) == 0 {
		c.Flatten.IDKeys = append([]string(nil), flatten.DefaultIDKeys...)
	}
	if c.Flatten.Format == "" {
		c.Flatten.Format = string(serializer.DefaultFormat)
	}
	if c.Flatten.SQLiteTable == "" {
		c.Flatten.SQLiteTable = serializer.DefaultSQLiteTable
	}
}

func (c *Config) applyEnv() error {
	if raw := os.Getenv(EnvProbeTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvProbeTimeout, err)
		}
		c.Collect.ProbeTimeout = d
	}
	if raw := os.Getenv(EnvVerboseErrors); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvVerboseErrors, err)
		}
		c.Collect.VerboseErrors = b
	}
	if raw := os.Getenv(EnvParallel); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvParallel, err)
		}
		c.Collect.Parallel = b
	}
	if raw := os.Getenv(EnvMetricsFile); raw != "" {
		c.Collect.MetricsFile = raw
	}
	if raw := os.Getenv(logging.EnvLogLevel); raw != "" {
		c.LogLevel = raw
	}
	return nil
}

func (c *Config) validate() error {
	if c.Collect.ProbeTimeout < 0 {
		return fmt.Errorf("collect.probe_timeout must not be negative")
	}
	if c.Probes.CommandTimeout < 0 {
		return fmt.Errorf("probes.command_timeout must not be negative")
	}
	if c.Probes.CommandRate < 0 || c.Probes.CommandBurst < 0 {
		return fmt.Errorf("probes.command_rate and probes.command_burst must not be negative")
	}
	if serializer.Format(c.Flatten.Format).IsUnknown() {
		return fmt.Errorf("flatten.format %q is not one of %s",
			c.Flatten.Format, strings.Join(serializer.SupportedFormats(), ", "))
	}
	for _, k := range c.Flatten.IDKeys {
		if k == "name" || k == "value" || strings.TrimSpace(k) == "" {
			return fmt.Errorf("flatten.id_keys: %q cannot be used as an attribute id", k)
		}
	}
	return nil
}

// Runner builds the command runner for tool-backed probes.
func (c *Config) Runner() *tools.ExecRunner {
	return &tools.ExecRunner{
		Timeout: c.Probes.CommandTimeout,
		Limiter: rate.NewLimiter(rate.Limit(c.Probes.CommandRate), c.Probes.CommandBurst),
	}
}

// Factory builds the probe factory described by the config.
func (c *Config) Factory() *collector.DefaultFactory {
	return collector.NewDefaultFactory(
		collector.WithProcRoot(c.Probes.ProcRoot),
		collector.WithSysRoot(c.Probes.SysRoot),
		collector.WithDevDir(c.Probes.DevDir),
		collector.WithSystemDServices(c.Probes.SystemDServices),
		collector.WithDisabled(c.Probes.Disabled),
		collector.WithRunner(c.Runner()),
	)
}

// Snapshotter builds a snapshotter from the collect settings. A nil factory
// means the one returned by Factory.
func (c *Config) Snapshotter(f collector.Factory) *snapshotter.Snapshotter {
	if f == nil {
		f = c.Factory()
	}
	return &snapshotter.Snapshotter{
		Factory:       f,
		ProbeTimeout:  c.Collect.ProbeTimeout,
		Parallel:      c.Collect.Parallel,
		VerboseErrors: c.Collect.VerboseErrors,
		MetricsFile:   c.Collect.MetricsFile,
	}
}

// FlattenOptions returns the flatten engine options described by the config.
func (c *Config) FlattenOptions() []flatten.Option {
	return []flatten.Option{flatten.WithIDKeys(c.Flatten.IDKeys...)}
}
