// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/nearbite/internal/middleware"
)

// Authenticator binds the caller's identity to the request context.
// *auth.Middleware implements it.
type Authenticator interface {
	RequireUser(next http.Handler) http.Handler
}

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	auth          Authenticator
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, auth Authenticator) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: chiMW, auth: auth}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, codeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// Health endpoints are unauthenticated
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Data endpoints require a bound user
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.auth.RequireUser)

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/", router.handler.Recommendations)
			r.Get("/semantic", router.handler.SemanticRecommendations)
		})

		r.Route("/interactions", func(r chi.Router) {
			r.Post("/", router.handler.RecordInteraction)
			r.Get("/", router.handler.ListInteractions)
			r.Get("/recent", router.handler.RecentInteractions)
			r.Get("/favorites", router.handler.FavoriteInteractions)
			r.Post("/favorites/toggle", router.handler.ToggleFavorite)
			r.Get("/stats", router.handler.InteractionStats)
		})

		r.Post("/embed", router.handler.Embed)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
