// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"time"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
)

// LightResponse describes the current state of a traffic light.
type LightResponse struct {
	ID          string     `json:"id"`
	Phase       core.Phase `json:"phase"`
	Cycles      uint64     `json:"cycles"`
	LastChange  *time.Time `json:"lastChange,omitempty"`
	Pending     int        `json:"pending"`
	Subscribers int        `json:"subscribers"`
}

// NewLightResponse converts a stats snapshot.
func NewLightResponse(stats core.Stats) *LightResponse {
	resp := &LightResponse{
		ID:          stats.ID,
		Phase:       stats.Phase,
		Cycles:      stats.Cycles,
		Pending:     stats.Pending,
		Subscribers: stats.Subscribers,
	}
	if !stats.LastChange.IsZero() {
		lastChange := stats.LastChange.UTC()
		resp.LastChange = &lastChange
	}
	return resp
}
