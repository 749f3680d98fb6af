// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/history"
	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/rapi/rendering"
)

// LimitQueryParam bounds the number of returned records.
const LimitQueryParam = "limit"

// DefaultHistoryLimit is used when no limit is requested.
const DefaultHistoryLimit = 100

// HistorySource is the read side of the history store.
type HistorySource interface {
	Phases(ctx context.Context, lightID string, limit int) ([]history.PhaseRecord, error)
	Crossings(ctx context.Context, lightID string, limit int) ([]history.CrossingRecord, error)
}

type historyHandler struct {
	query func(ctx context.Context, lightID string, limit int) (interface{}, error)
}

func (h *historyHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	limit := DefaultHistoryLimit
	if raw := request.URL.Query().Get(LimitQueryParam); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > history.MaxLimit {
			rendering.RenderInvalidRequestWithMsg(writer, request, "Invalid %s %q, expected 1..%d", LimitQueryParam, raw, history.MaxLimit)
			return
		}
		limit = parsed
	}

	lightID := chi.URLParam(request, "lightid")
	records, err := h.query(request.Context(), lightID, limit)
	if err != nil {
		log.WithError(err).WithField("light", lightID).Error("History query failed")
		rendering.RenderInternalServerError(writer, request)
		return
	}

	render.Status(request, http.StatusOK)
	render.JSON(writer, request, records)
}

// NewPhaseHistoryHandler returns a new instance of http handler
// for serving /lights/{lightid}/history/phases.
func NewPhaseHistoryHandler(source HistorySource) http.Handler {
	return &historyHandler{
		query: func(ctx context.Context, lightID string, limit int) (interface{}, error) {
			records, err := source.Phases(ctx, lightID, limit)
			if records == nil {
				records = []history.PhaseRecord{}
			}
			return records, err
		},
	}
}

// NewCrossingHistoryHandler returns a new instance of http handler
// for serving /lights/{lightid}/history/crossings.
func NewCrossingHistoryHandler(source HistorySource) http.Handler {
	return &historyHandler{
		query: func(ctx context.Context, lightID string, limit int) (interface{}, error) {
			records, err := source.Crossings(ctx, lightID, limit)
			if records == nil {
				records = []history.CrossingRecord{}
			}
			return records, err
		},
	}
}
