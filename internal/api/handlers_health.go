// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/nearbite/internal/models"
)

// readinessTimeout bounds the store ping of a readiness probe.
const readinessTimeout = 2 * time.Second

// HealthLive handles liveness probe requests
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthResponse{
			Status:  "alive",
			Version: h.version,
			Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests
// Returns 200 OK only if the interaction store answers a ping
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	dbStatus := "connected"
	if h.store == nil || h.store.Ping(ctx) != nil {
		dbStatus = "unavailable"
	}

	statusCode := http.StatusOK
	status := "ready"
	if dbStatus != "connected" {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: models.HealthResponse{
			Status:   status,
			Version:  h.version,
			Database: dbStatus,
			Uptime:   time.Since(h.startTime).Round(time.Second).String(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
