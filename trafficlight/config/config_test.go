// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
)

func writeConfig(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.True(t, cfg.Metrics)
	assert.Equal(t, "", cfg.Light.ID)
	assert.Equal(t, 4, cfg.Light.CycleMin)
	assert.Equal(t, 6, cfg.Light.CycleMax)
	assert.Equal(t, time.Second, cfg.Light.CycleUnit)
	assert.Equal(t, time.Millisecond, cfg.Light.PollInterval)
	assert.Equal(t, 3, cfg.Simulation.Vehicles)
	assert.Equal(t, 10*time.Second, cfg.Simulation.ArrivalSpread)
	assert.False(t, cfg.Simulation.Broadcast)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 256, cfg.History.Buffer)
	assert.False(t, cfg.Influx.Enabled)
	assert.Equal(t, "trafficlight", cfg.Influx.Bucket)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAMLFile(t *testing.T) {
	path := writeConfig(t, "trafficlight.yaml", `
logLevel: debug
listen: 0.0.0.0:9000
light:
  id: MAIN-001
  cycleMin: 2
  cycleMax: 3
  cycleUnit: 500ms
  pollInterval: 5ms
simulation:
  vehicles: 10
  broadcast: true
history:
  enabled: true
  dsn: /var/lib/trafficlight/history.db
influx:
  enabled: true
  url: http://influx:8086
  token: secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
	assert.Equal(t, "MAIN-001", cfg.Light.ID)
	assert.Equal(t, 2, cfg.Light.CycleMin)
	assert.Equal(t, 3, cfg.Light.CycleMax)
	assert.Equal(t, 500*time.Millisecond, cfg.Light.CycleUnit)
	assert.Equal(t, 5*time.Millisecond, cfg.Light.PollInterval)
	assert.Equal(t, 10, cfg.Simulation.Vehicles)
	assert.True(t, cfg.Simulation.Broadcast)
	assert.Equal(t, 10*time.Second, cfg.Simulation.ArrivalSpread)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "/var/lib/trafficlight/history.db", cfg.History.DSN)
	assert.True(t, cfg.Influx.Enabled)
	assert.Equal(t, "http://influx:8086", cfg.Influx.URL)
	assert.Equal(t, "secret", cfg.Influx.Token)
	assert.Equal(t, "trafficlight", cfg.Influx.Org)
	assert.NoError(t, cfg.Validate())
}

func TestLoadJSONFile(t *testing.T) {
	path := writeConfig(t, "trafficlight.json", `{"light": {"cycleMax": 9}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Light.CycleMin)
	assert.Equal(t, 9, cfg.Light.CycleMax)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("TRAFFICLIGHT_LIGHT_CYCLEMIN", "5")
	t.Setenv("TRAFFICLIGHT_LOGLEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Light.CycleMin)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/trafficlight.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"ZeroCycleMin", func(c *Config) { c.Light.CycleMin = 0 }},
		{"CycleMaxBelowMin", func(c *Config) { c.Light.CycleMax = 1 }},
		{"ZeroCycleUnit", func(c *Config) { c.Light.CycleUnit = 0 }},
		{"ZeroPollInterval", func(c *Config) { c.Light.PollInterval = 0 }},
		{"NegativeVehicles", func(c *Config) { c.Simulation.Vehicles = -1 }},
		{"NegativeSpread", func(c *Config) { c.Simulation.ArrivalSpread = -time.Second }},
		{"NegativeHistoryBuffer", func(c *Config) { c.History.Buffer = -1 }},
		{"InfluxWithoutURL", func(c *Config) { c.Influx.Enabled, c.Influx.URL = true, "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLightOptions(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Light.ID = "configured"

	light, err := core.NewTrafficLight(cfg.LightOptions()...)
	require.NoError(t, err)
	assert.Equal(t, "configured", light.ID())
	assert.Equal(t, core.Red, light.CurrentPhase())
}
