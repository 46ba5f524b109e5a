// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/nearbite/internal/logging"
	"github.com/tomtom215/nearbite/internal/models"
	"github.com/tomtom215/nearbite/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// respondJSON writes response with status. Responses carry per-user data
// and are never cached.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess writes a success envelope with the elapsed time since start.
func respondSuccess(w http.ResponseWriter, status int, data any, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondError writes an error envelope. err is logged, never sent.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.Err(err).Str("code", code).Int("status", status).Str("path", r.URL.Path).Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondServiceError maps err with errorStatus.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := errorStatus(err)
	respondError(w, r, status, code, message, err)
}

// respondValidationError writes a 400 VALIDATION_ERROR envelope.
func respondValidationError(w http.ResponseWriter, apiErr *models.APIError) {
	respondJSON(w, http.StatusBadRequest, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: apiErr,
	})
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a VALIDATION_ERROR payload.
func validateRequest(v any) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// paramError builds the payload for a query parameter that failed to parse.
func paramError(key, message string) *models.APIError {
	return &models.APIError{
		Code:    codeValidation,
		Message: fmt.Sprintf("%s %s", key, message),
		Details: map[string]any{"field": key},
	}
}

// intParam parses an optional integer query parameter. Absent means 0.
func intParam(r *http.Request, key string) (int, *models.APIError) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, paramError(key, "must be an integer")
	}
	return n, nil
}

// floatParam parses a float query parameter. The bool reports presence.
func floatParam(r *http.Request, key string) (float64, bool, *models.APIError) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, true, paramError(key, "must be a number")
	}
	return f, true, nil
}

// pageParams reads and validates page and page_size.
func pageParams(r *http.Request) (PageRequest, *models.APIError) {
	var req PageRequest
	var apiErr *models.APIError
	if req.Page, apiErr = intParam(r, "page"); apiErr != nil {
		return req, apiErr
	}
	if req.PageSize, apiErr = intParam(r, "page_size"); apiErr != nil {
		return req, apiErr
	}
	return req, validateRequest(&req)
}

// decodeBody decodes a bounded JSON body into dst and validates it.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) *models.APIError {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return &models.APIError{Code: codeValidation, Message: "request body too large"}
		case errors.Is(err, io.EOF):
			return &models.APIError{Code: codeValidation, Message: "request body is required"}
		default:
			return &models.APIError{Code: codeValidation, Message: "request body must be valid JSON"}
		}
	}
	return validateRequest(dst)
}
