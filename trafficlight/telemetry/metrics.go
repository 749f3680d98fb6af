// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package telemetry exports traffic light metrics through OpenTelemetry and
// writes phase changes to InfluxDB.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
)

const instrumentationName = "github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/telemetry"

// Meter returns the meter of the global OTel provider, a no-op unless an SDK is installed.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// MetricsObserver records phase changes and observes the state of a light.
type MetricsObserver struct {
	changes       metric.Int64Counter
	cycleDuration metric.Float64Histogram
	registration  metric.Registration
}

// NewMetricsObserver creates the instruments on m. The light's phase and
// pending channel length are observed on every collection.
func NewMetricsObserver(m metric.Meter, light core.LightService) (*MetricsObserver, error) {
	o := &MetricsObserver{}

	var err error
	o.changes, err = m.Int64Counter(
		"trafficlight.phase.changes",
		metric.WithDescription("Total phase changes published"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating phase changes counter: %w", err)
	}

	o.cycleDuration, err = m.Float64Histogram(
		"trafficlight.cycle.duration",
		metric.WithDescription("Time spent in a phase before it changed"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cycle duration histogram: %w", err)
	}

	phase, err := m.Int64ObservableGauge(
		"trafficlight.phase",
		metric.WithDescription("Current phase, 0 for RED and 1 for GREEN"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating phase gauge: %w", err)
	}

	pending, err := m.Int64ObservableGauge(
		"trafficlight.queue.pending",
		metric.WithDescription("Published phases not yet drained by a waiter"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pending gauge: %w", err)
	}

	o.registration, err = m.RegisterCallback(
		func(ctx context.Context, obs metric.Observer) error {
			stats := light.Stats()
			attrs := metric.WithAttributes(attribute.String("light", stats.ID))
			obs.ObserveInt64(phase, int64(stats.Phase), attrs)
			obs.ObserveInt64(pending, int64(stats.Pending), attrs)
			return nil
		},
		phase, pending,
	)
	if err != nil {
		return nil, fmt.Errorf("registering light callback: %w", err)
	}

	return o, nil
}

// OnPhaseChange implements core.PhaseObserver.
func (o *MetricsObserver) OnPhaseChange(change core.PhaseChange) {
	attrs := metric.WithAttributes(
		attribute.String("light", change.LightID),
		attribute.String("phase", change.To.String()),
	)
	o.changes.Add(context.Background(), 1, attrs)
	o.cycleDuration.Record(context.Background(), change.Elapsed.Seconds(), attrs)
}

// Close unregisters the light callback.
func (o *MetricsObserver) Close() error {
	return o.registration.Unregister()
}
