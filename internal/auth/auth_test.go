// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/nearbite/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestUserFromContext(t *testing.T) {
	t.Parallel()

	if _, err := UserFromContext(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("empty context err = %v, want ErrNotAuthenticated", err)
	}
	if _, err := UserFromContext(WithUser(context.Background(), "  ")); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("blank user err = %v, want ErrNotAuthenticated", err)
	}
	got, err := UserFromContext(WithUser(context.Background(), "user-1"))
	if err != nil || got != "user-1" {
		t.Errorf("UserFromContext() = %q, %v", got, err)
	}
}

func TestTokenVerifier(t *testing.T) {
	t.Parallel()

	v, err := NewTokenVerifier(testSecret, "", "authenticated")
	if err != nil {
		t.Fatalf("NewTokenVerifier() error = %v", err)
	}
	good, err := v.Sign("user-1", time.Hour)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	expired, _ := v.Sign("user-1", -time.Hour)

	other, _ := NewTokenVerifier("another-secret-another-secret-xx", "", "authenticated")
	wrongKey, _ := other.Sign("user-1", time.Hour)

	wrongAud, _ := NewTokenVerifier(testSecret, "", "anon")
	wrongAudience, _ := wrongAud.Sign("user-1", time.Hour)

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))

	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid", good, false},
		{"expired", expired, true},
		{"wrong key", wrongKey, true},
		{"wrong audience", wrongAudience, true},
		{"missing subject", noSubject, true},
		{"unexpected algorithm", hs512, true},
		{"garbage", "not.a.token", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			claims, err := v.Verify(tt.token)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidToken) {
					t.Errorf("Verify() err = %v, want ErrInvalidToken", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if claims.Subject != "user-1" {
				t.Errorf("subject = %q, want user-1", claims.Subject)
			}
		})
	}

	if _, err := NewTokenVerifier("", "", ""); err == nil {
		t.Error("NewTokenVerifier() with empty secret should fail")
	}
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := UserFromContext(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(userID))
	})
}

func TestRequireUser_JWT(t *testing.T) {
	t.Parallel()

	m, err := NewMiddleware(&config.SecurityConfig{AuthMode: ModeJWT, JWTSecret: testSecret})
	if err != nil {
		t.Fatalf("NewMiddleware() error = %v", err)
	}
	token, _ := m.Verifier().Sign("user-42", time.Hour)
	handler := m.RequireUser(echoUser())

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + token, http.StatusOK, "user-42"},
		{"lowercase scheme", "bearer " + token, http.StatusOK, "user-42"},
		{"missing header", "", http.StatusUnauthorized, "AUTHENTICATION_ERROR"},
		{"basic scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "AUTHENTICATION_ERROR"},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, "Invalid or expired token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/interactions", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
			if tt.wantStatus == http.StatusUnauthorized && rec.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestRequireUser_ModeNone(t *testing.T) {
	t.Parallel()

	m, err := NewMiddleware(&config.SecurityConfig{AuthMode: ModeNone, DevUserID: "dev-user"})
	if err != nil {
		t.Fatalf("NewMiddleware() error = %v", err)
	}
	rec := httptest.NewRecorder()
	m.RequireUser(echoUser()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "dev-user" {
		t.Errorf("mode none = %d %q, want 200 dev-user", rec.Code, rec.Body.String())
	}
}

func TestNewMiddleware_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.SecurityConfig
	}{
		{"jwt without secret", config.SecurityConfig{AuthMode: ModeJWT}},
		{"none without user", config.SecurityConfig{AuthMode: ModeNone}},
		{"unknown mode", config.SecurityConfig{AuthMode: "oidc"}},
	}
	for _, tt := range tests {
		if _, err := NewMiddleware(&tt.cfg); err == nil {
			t.Errorf("%s: NewMiddleware() expected error", tt.name)
		}
	}
}
