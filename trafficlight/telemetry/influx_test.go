// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
)

type writeRecorder struct {
	mutex  sync.Mutex
	bodies []string
	query  string
}

func (w *writeRecorder) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/v2/write" {
		rw.WriteHeader(http.StatusNotFound)
		return
	}
	body, _ := io.ReadAll(r.Body)

	w.mutex.Lock()
	w.bodies = append(w.bodies, string(body))
	w.query = r.URL.RawQuery
	w.mutex.Unlock()

	rw.WriteHeader(http.StatusNoContent)
}

func (w *writeRecorder) lines() string {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return strings.Join(w.bodies, "")
}

func TestInfluxObserverWritesPoints(t *testing.T) {
	recorder := &writeRecorder{}
	server := httptest.NewServer(recorder)
	defer server.Close()

	observer := NewInfluxObserver(InfluxConfig{
		URL:    server.URL,
		Token:  "token",
		Org:    "city",
		Bucket: "intersections",
	})

	at := time.Unix(1700000000, 0)
	observer.OnPhaseChange(core.PhaseChange{
		LightID: "main",
		From:    core.Red,
		To:      core.Green,
		At:      at,
		Elapsed: 4 * time.Second,
		Cycle:   3,
	})
	observer.Close()

	lines := recorder.lines()
	assert.Contains(t, lines, "phase_change,light=main,phase=GREEN cycle=3i,elapsed_seconds=4 1700000000000000000")
	assert.Contains(t, recorder.query, "bucket=intersections")
	assert.Contains(t, recorder.query, "org=city")
}
