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
	"github.com/tomtom215/nearbite/internal/store"
)

// RecordInteraction handles POST /api/v1/interactions
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RecordInteractionRequest
	if apiErr := decodeBody(w, r, &req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	in, err := h.interactions.Record(r.Context(), req.RestaurantName, req.RestaurantAddress,
		req.RestaurantCuisine, store.InteractionType(req.InteractionType))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, in, start)
}

// ListInteractions handles GET /api/v1/interactions?type
func (h *Handler) ListInteractions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := ListInteractionsRequest{Type: r.URL.Query().Get("type")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	var (
		rows []*store.Interaction
		err  error
	)
	if req.Type == "" {
		rows, err = h.interactions.List(r.Context())
	} else {
		rows, err = h.interactions.ListByType(r.Context(), store.InteractionType(req.Type))
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, rows, start)
}

// RecentInteractions handles GET /api/v1/interactions/recent?page&page_size
func (h *Handler) RecentInteractions(w http.ResponseWriter, r *http.Request) {
	h.respondPage(w, r, h.interactions.PagedRecent)
}

// FavoriteInteractions handles GET /api/v1/interactions/favorites?page&page_size
func (h *Handler) FavoriteInteractions(w http.ResponseWriter, r *http.Request) {
	h.respondPage(w, r, h.interactions.PagedFavorites)
}

func (h *Handler) respondPage(w http.ResponseWriter, r *http.Request,
	fetch func(ctx context.Context, page, pageSize int) (*store.Page, error)) {
	start := time.Now()

	req, apiErr := pageParams(r)
	if apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	page, err := fetch(r.Context(), req.Page, req.PageSize)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, page, start)
}

// ToggleFavorite handles POST /api/v1/interactions/favorites/toggle
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.ToggleFavoriteRequest
	if apiErr := decodeBody(w, r, &req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	favorited, err := h.interactions.ToggleFavorite(r.Context(), req.RestaurantName,
		req.RestaurantAddress, req.RestaurantCuisine)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, models.ToggleFavoriteResponse{Favorited: favorited}, start)
}

// InteractionStats handles GET /api/v1/interactions/stats
func (h *Handler) InteractionStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	stats, err := h.interactions.Stats(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, stats, start)
}
