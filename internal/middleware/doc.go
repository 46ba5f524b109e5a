// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - Request ID: UUID-based request tracking wired into the logging context
  - Prometheus Metrics: HTTP request/response instrumentation

Both have the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Get("/recommendations", handler.Recommendations)
	})

Request IDs:

An incoming X-Request-ID header is reused when it is short and printable;
otherwise a new UUID is generated. The id is echoed in the response and
available to handlers through GetRequestID or logging.Ctx.

Metrics:

Requests are labelled by method, chi route pattern and status code. Paths
that match no route share the "unmatched" label.

See Also:

  - internal/auth: bearer token middleware
  - internal/api: HTTP handlers wrapped by middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
