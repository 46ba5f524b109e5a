// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

// Package auth binds an authenticated user to a request context.
//
// Every data operation of the service runs on behalf of the bound user. The
// user is established once per request by Middleware.RequireUser, either from
// a verified bearer token or, in development mode, from a fixed user id.
package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrNotAuthenticated is returned when no user is bound to the context.
var ErrNotAuthenticated = errors.New("auth: not authenticated")

type contextKey string

const userContextKey contextKey = "user_id"

// WithUser returns a copy of ctx bound to userID.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}

// UserFromContext returns the bound user id or ErrNotAuthenticated.
func UserFromContext(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", ErrNotAuthenticated
	}
	userID, ok := ctx.Value(userContextKey).(string)
	if !ok || strings.TrimSpace(userID) == "" {
		return "", ErrNotAuthenticated
	}
	return userID, nil
}
