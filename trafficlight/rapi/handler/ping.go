// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
)

// PhaseHeader carries the light's phase on ping responses.
const PhaseHeader = "X-Light-Phase"

type pingHandler struct {
	light core.LightService
}

func (h *pingHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set(PhaseHeader, h.light.CurrentPhase().String())
	if _, err := writer.Write([]byte("pong")); err != nil {
		log.WithError(err).WithField("light", h.light.ID()).Warn("Failed to write ping response")
	}
}

// NewPingHandler answers liveness checks and reports the light's phase
// in a header.
func NewPingHandler(light core.LightService) http.Handler {
	return &pingHandler{light: light}
}
