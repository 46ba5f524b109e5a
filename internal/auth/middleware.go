// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/nearbite/internal/config"
	"github.com/tomtom215/nearbite/internal/logging"
	"github.com/tomtom215/nearbite/internal/models"
)

// Auth modes.
const (
	ModeJWT  = "jwt"
	ModeNone = "none"
)

// Middleware binds the request user.
type Middleware struct {
	mode      string
	verifier  *TokenVerifier
	devUserID string
}

// NewMiddleware builds the middleware for cfg.AuthMode.
func NewMiddleware(cfg *config.SecurityConfig) (*Middleware, error) {
	switch cfg.AuthMode {
	case ModeNone:
		if cfg.DevUserID == "" {
			return nil, fmt.Errorf("dev_user_id is required when auth_mode=none")
		}
		logging.Warn().Str("user_id", cfg.DevUserID).Msg("Authentication disabled, binding development user")
		return &Middleware{mode: ModeNone, devUserID: cfg.DevUserID}, nil
	case ModeJWT, "":
		verifier, err := NewTokenVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
		if err != nil {
			return nil, err
		}
		return &Middleware{mode: ModeJWT, verifier: verifier}, nil
	default:
		return nil, fmt.Errorf("invalid auth mode: %s", cfg.AuthMode)
	}
}

// Verifier returns the token verifier, nil in mode none.
func (m *Middleware) Verifier() *TokenVerifier {
	return m.verifier
}

// RequireUser rejects requests without a valid bearer token and binds the
// token subject as the request user.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.mode == ModeNone {
			next.ServeHTTP(w, r.WithContext(bind(r, m.devUserID)))
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			writeUnauthorized(w, "Authentication required")
			return
		}
		claims, err := m.verifier.Verify(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
			writeUnauthorized(w, "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(bind(r, claims.Subject)))
	})
}

func bind(r *http.Request, userID string) context.Context {
	ctx := WithUser(r.Context(), userID)
	return logging.ContextWithUserID(ctx, userID)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="nearbite"`)
	w.WriteHeader(http.StatusUnauthorized)
	resp := models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    &models.APIError{Code: "AUTHENTICATION_ERROR", Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode auth error response")
	}
}
