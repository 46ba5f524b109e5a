// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/nearbite/internal/geo"
	"github.com/tomtom215/nearbite/internal/models"
	"github.com/tomtom215/nearbite/internal/places"
	"github.com/tomtom215/nearbite/internal/recommend"
	"github.com/tomtom215/nearbite/internal/store"
)

// Recommendations handles GET /api/v1/recommendations?lat&lon&radius&limit&category
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, apiErr := parseRecommendationsRequest(r)
	if apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	results := h.recommender.GetRecommendations(r.Context(),
		geo.Location{Lat: req.Lat, Lon: req.Lon},
		recommend.WithMaxDistance(req.Radius),
		recommend.WithLimit(req.Limit),
		recommend.WithCategory(places.Category(req.Category)),
	)
	if results == nil {
		results = []recommend.RecommendedPlace{}
	}
	respondSuccess(w, http.StatusOK, results, start)
}

func parseRecommendationsRequest(r *http.Request) (RecommendationsRequest, *models.APIError) {
	var req RecommendationsRequest

	lat, ok, apiErr := floatParam(r, "lat")
	if apiErr != nil {
		return req, apiErr
	}
	if !ok {
		return req, paramError("lat", "is required")
	}
	lon, ok, apiErr := floatParam(r, "lon")
	if apiErr != nil {
		return req, apiErr
	}
	if !ok {
		return req, paramError("lon", "is required")
	}
	req.Lat, req.Lon = lat, lon

	if req.Radius, apiErr = intParam(r, "radius"); apiErr != nil {
		return req, apiErr
	}
	if req.Limit, apiErr = intParam(r, "limit"); apiErr != nil {
		return req, apiErr
	}
	req.Category = strings.TrimSpace(r.URL.Query().Get("category"))

	return req, validateRequest(&req)
}

// SemanticRecommendations handles GET /api/v1/recommendations/semantic?q&threshold&count
func (h *Handler) SemanticRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := SemanticRequest{Query: r.URL.Query().Get("q")}
	threshold, ok, apiErr := floatParam(r, "threshold")
	if apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	if ok {
		req.Threshold = &threshold
	}
	if req.Count, apiErr = intParam(r, "count"); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	opts := []recommend.SemanticOption{recommend.WithCount(req.Count)}
	if req.Threshold != nil {
		opts = append(opts, recommend.WithThreshold(*req.Threshold))
	}
	matches := h.recommender.GetSemanticRecommendations(r.Context(), strings.TrimSpace(req.Query), opts...)
	if matches == nil {
		matches = []*store.SemanticMatch{}
	}
	respondSuccess(w, http.StatusOK, matches, start)
}
