// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/nearbite/internal/auth"
	"github.com/tomtom215/nearbite/internal/embedding"
	"github.com/tomtom215/nearbite/internal/store"
)

// Error codes of the response envelope.
const (
	codeValidation     = "VALIDATION_ERROR"
	codeAuthentication = "AUTHENTICATION_ERROR"
	codeNotFound       = "NOT_FOUND"
	codeUnavailable    = "SERVICE_UNAVAILABLE"
	codeEmbedding      = "EMBEDDING_ERROR"
	codeRateLimited    = "RATE_LIMIT_EXCEEDED"
	codeInternal       = "INTERNAL_ERROR"
)

// errorStatus maps a service error to its HTTP status, envelope code and
// client message.
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated):
		return http.StatusUnauthorized, codeAuthentication, "Authentication required"
	case errors.Is(err, store.ErrInvalidInteraction):
		return http.StatusBadRequest, codeValidation, err.Error()
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, codeNotFound, "Resource not found"
	case errors.Is(err, store.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, codeUnavailable, "Interaction store unavailable"
	case errors.Is(err, embedding.ErrEmbeddingUnavailable):
		return http.StatusBadGateway, codeEmbedding, "Embedding provider unavailable"
	default:
		return http.StatusInternalServerError, codeInternal, "Internal server error"
	}
}
