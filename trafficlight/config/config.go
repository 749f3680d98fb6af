// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config loads the simulator configuration from an optional file and
// TRAFFICLIGHT_* environment variables on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
)

// EnvPrefix prefixes environment overrides, e.g. TRAFFICLIGHT_LIGHT_CYCLEMIN.
const EnvPrefix = "TRAFFICLIGHT"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// LightConfig holds the cycling loop settings.
type LightConfig struct {
	ID           string        `mapstructure:"id"`
	CycleMin     int           `mapstructure:"cycleMin"`
	CycleMax     int           `mapstructure:"cycleMax"`
	CycleUnit    time.Duration `mapstructure:"cycleUnit"`
	PollInterval time.Duration `mapstructure:"pollInterval"`
}

// SimulationConfig holds the vehicle simulation settings.
type SimulationConfig struct {
	Vehicles      int           `mapstructure:"vehicles"`
	ArrivalSpread time.Duration `mapstructure:"arrivalSpread"`
	Broadcast     bool          `mapstructure:"broadcast"`
}

// HistoryConfig selects where phase changes and crossings are persisted.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
	Buffer  int    `mapstructure:"buffer"`
}

// InfluxConfig locates the InfluxDB bucket phase changes are written to.
type InfluxConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Token   string `mapstructure:"token"`
	Org     string `mapstructure:"org"`
	Bucket  string `mapstructure:"bucket"`
}

// Config is the simulator configuration.
type Config struct {
	LogLevel   string           `mapstructure:"logLevel"`
	Listen     string           `mapstructure:"listen"`
	Metrics    bool             `mapstructure:"metrics"`
	Light      LightConfig      `mapstructure:"light"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	History    HistoryConfig    `mapstructure:"history"`
	Influx     InfluxConfig     `mapstructure:"influx"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("listen", "127.0.0.1:8080")
	v.SetDefault("metrics", true)

	v.SetDefault("light.id", "")
	v.SetDefault("light.cycleMin", core.DefaultCycleMin)
	v.SetDefault("light.cycleMax", core.DefaultCycleMax)
	v.SetDefault("light.cycleUnit", core.DefaultCycleUnit.String())
	v.SetDefault("light.pollInterval", core.DefaultPollInterval.String())

	v.SetDefault("simulation.vehicles", 3)
	v.SetDefault("simulation.arrivalSpread", "10s")
	v.SetDefault("simulation.broadcast", false)

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.dsn", "")
	v.SetDefault("history.buffer", 256)

	v.SetDefault("influx.enabled", false)
	v.SetDefault("influx.url", "http://localhost:8086")
	v.SetDefault("influx.token", "")
	v.SetDefault("influx.org", "trafficlight")
	v.SetDefault("influx.bucket", "trafficlight")
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	return cfg, nil
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch {
	case c.Light.CycleMin <= 0:
		return fmt.Errorf("%w: light.cycleMin must be positive, got %d", ErrInvalidConfig, c.Light.CycleMin)
	case c.Light.CycleMax < c.Light.CycleMin:
		return fmt.Errorf("%w: light.cycleMax %d is below light.cycleMin %d", ErrInvalidConfig, c.Light.CycleMax, c.Light.CycleMin)
	case c.Light.CycleUnit <= 0:
		return fmt.Errorf("%w: light.cycleUnit must be positive, got %s", ErrInvalidConfig, c.Light.CycleUnit)
	case c.Light.PollInterval <= 0:
		return fmt.Errorf("%w: light.pollInterval must be positive, got %s", ErrInvalidConfig, c.Light.PollInterval)
	case c.Simulation.Vehicles < 0:
		return fmt.Errorf("%w: simulation.vehicles must not be negative, got %d", ErrInvalidConfig, c.Simulation.Vehicles)
	case c.Simulation.ArrivalSpread < 0:
		return fmt.Errorf("%w: simulation.arrivalSpread must not be negative, got %s", ErrInvalidConfig, c.Simulation.ArrivalSpread)
	case c.History.Buffer < 0:
		return fmt.Errorf("%w: history.buffer must not be negative, got %d", ErrInvalidConfig, c.History.Buffer)
	case c.Influx.Enabled && (c.Influx.URL == "" || c.Influx.Bucket == ""):
		return fmt.Errorf("%w: influx.url and influx.bucket are required when influx is enabled", ErrInvalidConfig)
	}
	return nil
}

// LightOptions converts the light settings into core options.
func (c *Config) LightOptions() []core.Option {
	opts := []core.Option{
		core.WithCycleBounds(c.Light.CycleMin, c.Light.CycleMax),
		core.WithCycleUnit(c.Light.CycleUnit),
		core.WithPollInterval(c.Light.PollInterval),
	}
	if c.Light.ID != "" {
		opts = append(opts, core.WithID(c.Light.ID))
	}
	return opts
}
