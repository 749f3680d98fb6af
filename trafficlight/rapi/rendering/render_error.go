// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rendering

import (
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/rapi/model"
)

const (
	// ErrorTypeInternalServerError error type for internal server error
	ErrorTypeInternalServerError = "InternalServerError"
	// ErrorTypeLightNotFound error type for an unknown light id
	ErrorTypeLightNotFound = "LightNotFound"
	// ErrorTypeLightStopped error type for a light that no longer cycles
	ErrorTypeLightStopped = "LightStopped"
	// ErrorTypeWaitTimeout error type for a wait that ran out of time
	ErrorTypeWaitTimeout = "WaitTimeout"
	// ErrorTypeInvalidRequest error type for malformed request parameters
	ErrorTypeInvalidRequest = "InvalidRequest"
)

func renderError(w http.ResponseWriter, r *http.Request, status int, errorType string, format string, args ...interface{}) {
	if err := RenderJSON(status, w, r, &model.ErrorResponse{
		ErrorType:    errorType,
		ErrorMessage: fmt.Sprintf(format, args...),
	}); err != nil {
		log.WithError(err).Warn("Error while rendering response")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RenderInternalServerError method for rendering error response
func RenderInternalServerError(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusInternalServerError, ErrorTypeInternalServerError, "Internal Server Error")
}

// RenderLightNotFound renders unknown light error response
func RenderLightNotFound(w http.ResponseWriter, r *http.Request, lightID string) {
	renderError(w, r, http.StatusNotFound, ErrorTypeLightNotFound, "Unknown traffic light %s", lightID)
}

// RenderLightStopped renders stopped light error response
func RenderLightStopped(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusServiceUnavailable, ErrorTypeLightStopped, "Traffic light stopped cycling")
}

// RenderWaitTimeout renders wait timeout error response
func RenderWaitTimeout(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusGatewayTimeout, ErrorTypeWaitTimeout, "Timed out waiting for GREEN")
}

// RenderInvalidRequestWithMsg renders malformed request error response
func RenderInvalidRequestWithMsg(w http.ResponseWriter, r *http.Request, format string, args ...interface{}) {
	renderError(w, r, http.StatusBadRequest, ErrorTypeInvalidRequest, format, args...)
}
