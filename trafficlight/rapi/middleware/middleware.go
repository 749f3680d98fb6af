// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	log "github.com/sirupsen/logrus"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/rapi/handler"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/rapi/rendering"
)

// LightIDParam is the URL parameter naming the light.
const LightIDParam = "lightid"

// TimeoutQueryParam bounds a wait, in time.ParseDuration format.
const TimeoutQueryParam = "timeout"

// LightIDValidator validates that {lightid} parameter
// is present in the URL and matches the served light.
func LightIDValidator(light core.LightService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lightID := chi.URLParam(r, LightIDParam)
			if lightID == "" || lightID != light.ID() {
				rendering.RenderLightNotFound(w, r, lightID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WaitTimeoutValidator parses the optional timeout query parameter into the request context.
func WaitTimeoutValidator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get(TimeoutQueryParam)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			rendering.RenderInvalidRequestWithMsg(w, r, "Invalid %s %q", TimeoutQueryParam, raw)
			return
		}

		r = r.WithContext(context.WithValue(r.Context(), handler.WaitTimeoutCtxKey, timeout))
		next.ServeHTTP(w, r)
	})
}

// AccessLogMiddleware writes api access log.
func AccessLogMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			log.Debug("API request - ", r.Method, " ", r.URL, ", Headers:", r.Header)
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
