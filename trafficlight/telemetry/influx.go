// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	log "github.com/sirupsen/logrus"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
)

// PhaseChangeMeasurement is the InfluxDB measurement phase changes are written to.
const PhaseChangeMeasurement = "phase_change"

// InfluxConfig locates the InfluxDB bucket.
type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// InfluxObserver writes every phase change as a point. Writes are batched
// and never block the cycling loop.
type InfluxObserver struct {
	client influxdb2.Client
	writer influxdb2_api.WriteAPI
}

// NewInfluxObserver connects to the configured bucket.
func NewInfluxObserver(cfg InfluxConfig) *InfluxObserver {
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(100).
			SetFlushInterval(1000))

	o := &InfluxObserver{
		client: client,
		writer: client.WriteAPI(cfg.Org, cfg.Bucket),
	}

	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			log.WithError(writeErr).WithField("bucket", cfg.Bucket).Warn("Error sending phase change to InfluxDB")
		}
	}(o.writer.Errors())

	return o
}

// OnPhaseChange implements core.PhaseObserver.
func (o *InfluxObserver) OnPhaseChange(change core.PhaseChange) {
	point := influxdb2.NewPointWithMeasurement(PhaseChangeMeasurement).
		AddTag("light", change.LightID).
		AddTag("phase", change.To.String()).
		AddField("cycle", int64(change.Cycle)).
		AddField("elapsed_seconds", change.Elapsed.Seconds()).
		SetTime(change.At)
	o.writer.WritePoint(point)
}

// Close flushes pending points and releases the client.
func (o *InfluxObserver) Close() {
	o.writer.Flush()
	o.client.Close()
}
