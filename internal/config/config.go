package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"corvid-debug/internal/logs"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CORVID_MAX_SNAPSHOTS.
const EnvPrefix = "CORVID"

// Config holds every configurable value for the profiler host.
type Config struct {
	// Logging
	LogLevel  string `mapstructure:"log_level"`  // debug|info|warn|error
	LogBuffer int    `mapstructure:"log_buffer"` // entries kept in memory

	// Retention
	MaxSnapshots int           `mapstructure:"max_snapshots"` // per-monitor bound
	CullInterval time.Duration `mapstructure:"cull_interval"`

	// Frame loop
	FrameBudget time.Duration `mapstructure:"frame_budget"`
	FrameRate   int           `mapstructure:"frame_rate"`
	Frames      int           `mapstructure:"frames"`       // 0 runs until interrupted
	ReportEvery int           `mapstructure:"report_every"` // frames between reports
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		LogLevel:     "debug",
		LogBuffer:    1000,
		MaxSnapshots: 100,
		CullInterval: 5 * time.Second,
		FrameBudget:  16600 * time.Microsecond,
		FrameRate:    60,
		Frames:       600,
		ReportEvery:  120,
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"log-level":     "log_level",
	"log-buffer":    "log_buffer",
	"max-snapshots": "max_snapshots",
	"cull-interval": "cull_interval",
	"frame-budget":  "frame_budget",
	"frame-rate":    "frame_rate",
	"frames":        "frames",
	"report-every":  "report_every",
}

// BindFlags registers one flag per config key on fs.
func BindFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String("config", "", "path to a yaml, toml or json config file")
	fs.String("log-level", def.LogLevel, "minimum log level (debug, info, warn, error)")
	fs.Int("log-buffer", def.LogBuffer, "log entries kept in memory for reports")
	fs.Int("max-snapshots", def.MaxSnapshots, "snapshots retained per monitor after a cull")
	fs.Duration("cull-interval", def.CullInterval, "time between retention culls")
	fs.Duration("frame-budget", def.FrameBudget, "per-monitor time budget used by reports")
	fs.Int("frame-rate", def.FrameRate, "simulated frames per second")
	fs.Int("frames", def.Frames, "frames to simulate, 0 runs until interrupted")
	fs.Int("report-every", def.ReportEvery, "frames between report log lines")
}

// Load reads configuration from (in decreasing priority):
//  1. flags on fs that were set explicitly (fs may be nil)
//  2. environment variables (CORVID_LOG_LEVEL, CORVID_MAX_SNAPSHOTS, ...)
//  3. the file at path, if path is not empty
//  4. Default()
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_buffer", def.LogBuffer)
	v.SetDefault("max_snapshots", def.MaxSnapshots)
	v.SetDefault("cull_interval", def.CullInterval)
	v.SetDefault("frame_budget", def.FrameBudget)
	v.SetDefault("frame_rate", def.FrameRate)
	v.SetDefault("frames", def.Frames)
	v.SetDefault("report_every", def.ReportEvery)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the profiler host cannot run with.
func (c Config) Validate() error {
	var errs []error

	if _, err := logs.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.LogBuffer < 0 {
		errs = append(errs, errors.New("log_buffer must not be negative"))
	}
	if c.MaxSnapshots <= 0 {
		errs = append(errs, errors.New("max_snapshots must be positive"))
	}
	if c.CullInterval <= 0 {
		errs = append(errs, errors.New("cull_interval must be positive"))
	}
	if c.FrameBudget <= 0 {
		errs = append(errs, errors.New("frame_budget must be positive"))
	}
	if c.FrameRate <= 0 {
		errs = append(errs, errors.New("frame_rate must be positive"))
	}
	if c.Frames < 0 {
		errs = append(errs, errors.New("frames must not be negative"))
	}
	if c.ReportEvery <= 0 {
		errs = append(errs, errors.New("report_every must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// FrameInterval is the wall time of one simulated frame.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}
