// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/nearbite/internal/models"
)

// Embed handles POST /api/v1/embed. It turns {text} into {embedding} with
// the configured provider, so clients share the vector space of the store.
func (h *Handler) Embed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.EmbedRequest
	if apiErr := decodeBody(w, r, &req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	vec, err := h.embedder.Embed(r.Context(), req.Text)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, models.EmbedResponse{Embedding: vec}, start)
}
