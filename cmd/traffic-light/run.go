// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/config"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/history"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/logging"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/rapi"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/rapi/handler"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/simulation"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/telemetry"
)

// run cycles the light until ctx is done, serving the HTTP API and driving
// the configured vehicles through the intersection meanwhile.
func run(ctx context.Context, cfg *config.Config, phaseOutput io.Writer) error {
	if err := logging.SetLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	opts := append(cfg.LightOptions(),
		core.WithObserver(core.NewLoggingObserver()),
		core.WithObserver(logging.NewPhaseLogger(phaseOutput)))
	light, err := core.NewTrafficLight(opts...)
	if err != nil {
		return err
	}
	defer light.Stop()

	if cfg.Metrics {
		metrics, err := telemetry.NewMetricsObserver(telemetry.Meter(), light)
		if err != nil {
			return fmt.Errorf("error creating metrics: %w", err)
		}
		defer metrics.Close()
		light.AddObserver(metrics)
	}

	if cfg.Influx.Enabled {
		influx := telemetry.NewInfluxObserver(telemetry.InfluxConfig{
			URL:    cfg.Influx.URL,
			Token:  cfg.Influx.Token,
			Org:    cfg.Influx.Org,
			Bucket: cfg.Influx.Bucket,
		})
		defer influx.Close()
		light.AddObserver(influx)
	}

	var store *history.Store
	var source handler.HistorySource
	if cfg.History.Enabled {
		store, err = history.Open(cfg.History.DSN)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.RecordRun(ctx, light.ID(), time.Now(), cfg.Light); err != nil {
			log.WithError(err).Warn("Failed to record simulator run")
		}

		recorder := history.NewRecorder(store, cfg.History.Buffer)
		defer recorder.Close()
		light.AddObserver(recorder)
		source = store
	}

	errg, ctx := errgroup.WithContext(ctx)

	if cfg.Listen != "" {
		host, port, err := parseListen(cfg.Listen)
		if err != nil {
			return err
		}

		server := rapi.NewServer(host, port, light, source)
		if err := server.Listen(); err != nil {
			return err
		}
		log.WithField("url", server.URL("/lights/"+light.ID())).Info("Serving traffic light API")

		errg.Go(func() error {
			return server.Serve(ctx)
		})
	}

	if err := light.Simulate(ctx); err != nil {
		return err
	}

	if cfg.Simulation.Vehicles > 0 {
		sim, err := simulation.New(light,
			simulation.WithVehicles(cfg.Simulation.Vehicles),
			simulation.WithArrivalSpread(cfg.Simulation.ArrivalSpread),
			simulation.WithBroadcast(cfg.Simulation.Broadcast))
		if err != nil {
			return err
		}

		errg.Go(func() error {
			crossings, err := sim.Run(ctx)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				return err
			}
			logCrossings(crossings)
			if store != nil {
				recordCrossings(ctx, store, light.ID(), crossings)
			}
			return nil
		})
	}

	errg.Go(func() error {
		<-ctx.Done()
		light.Stop()
		return ctx.Err()
	})

	return errg.Wait()
}

func parseListen(listen string) (string, int, error) {
	host, rawPort, err := net.SplitHostPort(listen)
	if err != nil {
		return "", 0, fmt.Errorf("invalid listen address %q: %w", listen, err)
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil || port < 0 || port > 65535 {
		return "", 0, fmt.Errorf("invalid listen port %q", rawPort)
	}

	return host, port, nil
}

func logCrossings(crossings []simulation.Crossing) {
	var total time.Duration
	for _, c := range crossings {
		total += c.Waited
	}

	fields := log.Fields{"vehicles": len(crossings)}
	if len(crossings) > 0 {
		fields["averageWait"] = (total / time.Duration(len(crossings))).Round(time.Millisecond).String()
	}
	log.WithFields(fields).Info("All vehicles crossed the intersection")
}

func recordCrossings(ctx context.Context, store *history.Store, lightID string, crossings []simulation.Crossing) {
	for _, c := range crossings {
		if err := store.RecordCrossing(ctx, lightID, c.VehicleID, c.Arrived, c.Crossed); err != nil {
			log.WithError(err).WithField("vehicle", c.VehicleID).Warn("Failed to record crossing")
			return
		}
	}
}
