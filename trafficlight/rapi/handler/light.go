// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/rapi/model"
)

type lightHandler struct {
	light core.LightService
}

func (h *lightHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	render.Status(request, http.StatusOK)
	render.JSON(writer, request, model.NewLightResponse(h.light.Stats()))
}

// NewLightHandler returns a new instance of http handler
// for serving /lights/{lightid}.
func NewLightHandler(light core.LightService) http.Handler {
	return &lightHandler{light: light}
}
