// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rapi

import (
	"net/http"

	"github.com/go-chi/chi"
	chimiddleware "github.com/go-chi/chi/middleware"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/rapi/handler"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/rapi/middleware"
)

// NewRouter returns a new instance of chi router exposing
// the state of a single traffic light. History routes are
// only registered when source is not nil.
func NewRouter(light core.LightService, source handler.HistorySource) http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.AccessLogMiddleware())

	router.Get("/ping", handler.NewPingHandler(light).ServeHTTP)

	router.Route("/lights/{"+middleware.LightIDParam+"}", func(r chi.Router) {
		r.Use(middleware.LightIDValidator(light))

		r.Get("/", handler.NewLightHandler(light).ServeHTTP)

		r.Get("/green",
			middleware.WaitTimeoutValidator(
				handler.NewWaitForGreenHandler(light)).ServeHTTP)

		if source != nil {
			r.Get("/history/phases", handler.NewPhaseHistoryHandler(source).ServeHTTP)
			r.Get("/history/crossings", handler.NewCrossingHistoryHandler(source).ServeHTTP)
		}
	})

	return router
}
