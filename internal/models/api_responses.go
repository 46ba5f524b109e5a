// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - AUTHENTICATION_ERROR: Missing or invalid bearer token
//   - SERVICE_UNAVAILABLE: The interaction store cannot be reached
//   - EMBEDDING_ERROR: The embedding provider failed
//   - NOT_FOUND: Resource doesn't exist
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// RecordInteractionRequest is the body of POST /api/v1/interactions.
type RecordInteractionRequest struct {
	RestaurantName    string `json:"restaurant_name" validate:"omitempty,max=300"`
	RestaurantAddress string `json:"restaurant_address" validate:"omitempty,max=500"`
	RestaurantCuisine string `json:"restaurant_cuisine" validate:"omitempty,max=200"`
	InteractionType   string `json:"interaction_type" validate:"required,interaction"`
}

// ToggleFavoriteRequest is the body of POST /api/v1/interactions/favorites/toggle.
type ToggleFavoriteRequest struct {
	RestaurantName    string `json:"restaurant_name" validate:"omitempty,max=300"`
	RestaurantAddress string `json:"restaurant_address" validate:"omitempty,max=500"`
	RestaurantCuisine string `json:"restaurant_cuisine" validate:"omitempty,max=200"`
}

// ToggleFavoriteResponse reports the favorite state after a toggle.
type ToggleFavoriteResponse struct {
	Favorited bool `json:"favorited"`
}

// EmbedRequest is the body of the embed edge function.
type EmbedRequest struct {
	Text string `json:"text" validate:"required,notblank,max=8000"`
}

// EmbedResponse is returned by the embed edge function.
type EmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Database string `json:"database,omitempty"`
	Uptime   string `json:"uptime,omitempty"`
}
