// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/config"
)

type options struct {
	LogLevel     *string        `long:"log-level" description:"log level (trace, debug, info, warn, error)"`
	Config       string         `long:"config" description:"path to a YAML, JSON or TOML configuration file"`
	Listen       *string        `long:"listen" description:"host:port of the HTTP API, empty disables it"`
	CycleMin     *int           `long:"cycle-min" description:"shortest cycle, in cycle units"`
	CycleMax     *int           `long:"cycle-max" description:"longest cycle, in cycle units"`
	CycleUnit    *time.Duration `long:"cycle-unit" description:"length of one cycle unit"`
	PollInterval *time.Duration `long:"poll-interval" description:"how often the light checks the elapsed time"`
	Vehicles     *int           `long:"vehicles" description:"number of simulated vehicles"`
	Broadcast    bool           `long:"broadcast" description:"vehicles observe every phase change through subscriptions"`
	History      *string        `long:"history" optional:"yes" optional-value:"" description:"persist history; --history=DSN names a SQLite file or postgres URL, bare --history keeps it in memory"`
}

func main() {
	opts := getCLIArgs(os.Args)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("Traffic light simulator failed")
	}
}

func getCLIArgs(args []string) options {
	var opts options
	parser := flags.NewParser(&opts, flags.IgnoreUnknown)
	if _, err := parser.ParseArgs(args); err != nil {
		log.WithError(err).Fatal("Failed to parse command line arguments:", args)
	}

	return opts
}

// applyOverrides copies explicitly set flags over the loaded configuration.
func applyOverrides(cfg *config.Config, opts options) {
	if opts.LogLevel != nil {
		cfg.LogLevel = *opts.LogLevel
	}
	if opts.Listen != nil {
		cfg.Listen = *opts.Listen
	}
	if opts.CycleMin != nil {
		cfg.Light.CycleMin = *opts.CycleMin
	}
	if opts.CycleMax != nil {
		cfg.Light.CycleMax = *opts.CycleMax
	}
	if opts.CycleUnit != nil {
		cfg.Light.CycleUnit = *opts.CycleUnit
	}
	if opts.PollInterval != nil {
		cfg.Light.PollInterval = *opts.PollInterval
	}
	if opts.Vehicles != nil {
		cfg.Simulation.Vehicles = *opts.Vehicles
	}
	if opts.Broadcast {
		cfg.Simulation.Broadcast = true
	}
	if opts.History != nil {
		cfg.History.Enabled = true
		cfg.History.DSN = *opts.History
	}
}
