// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/rapi/model"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/rapi/rendering"
)

// A CtxKey type is used as a key for storing values in the request context.
type CtxKey int

// WaitTimeoutCtxKey is the context key for fetching the requested wait timeout
const (
	WaitTimeoutCtxKey CtxKey = iota
)

// BroadcastQueryParam selects a dedicated subscription instead of competing
// with other waiters for published phases.
const BroadcastQueryParam = "broadcast"

type waitForGreenHandler struct {
	light core.LightService
}

func (h *waitForGreenHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	if timeout, ok := ctx.Value(WaitTimeoutCtxKey).(time.Duration); ok && timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var err error
	mode := model.WaitModeCompeting
	start := time.Now()
	if request.URL.Query().Get(BroadcastQueryParam) == "true" {
		mode = model.WaitModeBroadcast
		subscription := h.light.Subscribe()
		defer subscription.Close()
		err = subscription.WaitForGreen(ctx)
	} else {
		err = h.light.WaitForGreenWithContext(ctx)
	}

	switch {
	case err == nil:
		_ = rendering.RenderJSON(http.StatusOK, writer, request, &model.GreenResponse{
			Light:    h.light.ID(),
			Status:   core.Green,
			Mode:     mode,
			WaitedMs: time.Since(start).Milliseconds(),
		})
	case errors.Is(err, context.DeadlineExceeded):
		rendering.RenderWaitTimeout(writer, request)
	case errors.Is(err, core.ErrLightStopped), errors.Is(err, core.ErrSubscriptionClosed):
		rendering.RenderLightStopped(writer, request)
	case errors.Is(err, context.Canceled):
		log.WithField("light", h.light.ID()).Debug("Waiter went away before GREEN")
	default:
		log.WithError(err).Error("WaitForGreen failed")
		rendering.RenderInternalServerError(writer, request)
	}
}

// NewWaitForGreenHandler returns a new instance of http handler
// for serving /lights/{lightid}/green.
func NewWaitForGreenHandler(light core.LightService) http.Handler {
	return &waitForGreenHandler{light: light}
}
