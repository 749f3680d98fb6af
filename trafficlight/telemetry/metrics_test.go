// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
)

func TestMetricsObserverWithNoopMeter(t *testing.T) {
	light, err := core.NewTrafficLight(core.WithID("metered"))
	require.NoError(t, err)

	observer, err := NewMetricsObserver(noop.NewMeterProvider().Meter("test"), light)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		observer.OnPhaseChange(core.PhaseChange{
			LightID: "metered",
			From:    core.Red,
			To:      core.Green,
			Elapsed: 5 * time.Second,
			Cycle:   1,
		})
	})
	assert.NoError(t, observer.Close())
}

func TestMetricsObserverWiredIntoLight(t *testing.T) {
	light, err := core.NewTrafficLight(core.WithCycleUnit(time.Millisecond))
	require.NoError(t, err)
	defer light.Stop()

	observer, err := NewMetricsObserver(Meter(), light)
	require.NoError(t, err)
	defer observer.Close()

	light.AddObserver(observer)
	require.NoError(t, light.Simulate(context.Background()))

	require.Eventually(t, func() bool { return light.Stats().Cycles >= 2 }, 2*time.Second, time.Millisecond)
}
