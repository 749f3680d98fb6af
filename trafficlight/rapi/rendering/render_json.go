// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rendering

import (
	"bytes"
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// RenderJSON encodes v before touching w, so an encoding failure leaves the
// response unwritten and is returned to the caller. Light state changes
// with every cycle; responses are marked non-cacheable.
func RenderJSON(status int, w http.ResponseWriter, r *http.Request, v any) error {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(v); err != nil {
		log.WithError(err).WithField("path", r.URL.Path).Error("Failed to encode response")
		return err
	}

	header := w.Header()
	header.Set("Content-Type", "application/json")
	header.Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if _, err := body.WriteTo(w); err != nil {
		log.WithError(err).WithField("path", r.URL.Path).Warn("Client went away while writing response")
	}
	return nil
}
