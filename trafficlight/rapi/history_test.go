// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/history"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/rapi/handler"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/rapi/rendering"
)

type mockHistorySource struct {
	mock.Mock
}

func (m *mockHistorySource) Phases(ctx context.Context, lightID string, limit int) ([]history.PhaseRecord, error) {
	args := m.Called(lightID, limit)
	records, _ := args.Get(0).([]history.PhaseRecord)
	return records, args.Error(1)
}

func (m *mockHistorySource) Crossings(ctx context.Context, lightID string, limit int) ([]history.CrossingRecord, error) {
	args := m.Called(lightID, limit)
	records, _ := args.Get(0).([]history.CrossingRecord)
	return records, args.Error(1)
}

func TestHistoryRoutesNeedSource(t *testing.T) {
	router := NewRouter(newTestLight(t), nil)
	response := makeTestRequest(t, router, httptest.NewRequest("GET", "/lights/"+testLightID+"/history/phases", nil))
	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestPhaseHistory(t *testing.T) {
	store, err := history.Open("")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	at := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordPhase(ctx, core.PhaseChange{LightID: testLightID, From: core.Red, To: core.Green, At: at, Elapsed: 4 * time.Second, Cycle: 1}))
	require.NoError(t, store.RecordPhase(ctx, core.PhaseChange{LightID: testLightID, From: core.Green, To: core.Red, At: at.Add(5 * time.Second), Elapsed: 5 * time.Second, Cycle: 2}))

	router := NewRouter(newTestLight(t), store)
	response := makeTestRequest(t, router, httptest.NewRequest("GET", "/lights/"+testLightID+"/history/phases?limit=1", nil))
	require.Equal(t, http.StatusOK, response.Code)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.EqualValues(t, 2, records[0]["cycle"])
	assert.Equal(t, "GREEN", records[0]["from"])
	assert.Equal(t, "RED", records[0]["to"])
	assert.EqualValues(t, 5000, records[0]["elapsedMs"])
}

func TestCrossingHistoryEmpty(t *testing.T) {
	source := &mockHistorySource{}
	source.On("Crossings", testLightID, handler.DefaultHistoryLimit).Return(nil, nil)

	router := NewRouter(newTestLight(t), source)
	response := makeTestRequest(t, router, httptest.NewRequest("GET", "/lights/"+testLightID+"/history/crossings", nil))
	require.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `[]`, response.Body.String())
	source.AssertExpectations(t)
}

func TestHistoryInvalidLimit(t *testing.T) {
	router := NewRouter(newTestLight(t), &mockHistorySource{})

	for _, limit := range []string{"abc", "0", "-3", "1001"} {
		response := makeTestRequest(t, router, httptest.NewRequest("GET", "/lights/"+testLightID+"/history/phases?limit="+limit, nil))
		assert.Equal(t, http.StatusBadRequest, response.Code)
		assertResponseErrorType(t, rendering.ErrorTypeInvalidRequest, response)
	}
}

func TestHistoryQueryFailure(t *testing.T) {
	source := &mockHistorySource{}
	source.On("Phases", testLightID, 10).Return(nil, errors.New("database is locked"))

	router := NewRouter(newTestLight(t), source)
	response := makeTestRequest(t, router, httptest.NewRequest("GET", "/lights/"+testLightID+"/history/phases?limit=10", nil))
	assert.Equal(t, http.StatusInternalServerError, response.Code)
	assertResponseErrorType(t, rendering.ErrorTypeInternalServerError, response)
	source.AssertExpectations(t)
}
