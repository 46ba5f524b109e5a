// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

/*
Package api implements the HTTP surface of the recommendation service.

Routes are served by a chi router. Every response, including errors, uses
the models.APIResponse envelope encoded with goccy/go-json.

Endpoints:

	GET  /api/v1/health/live                  liveness
	GET  /api/v1/health/ready                 readiness (store ping)
	GET  /api/v1/recommendations              ranked nearby places
	GET  /api/v1/recommendations/semantic     free text search of the corpus
	POST /api/v1/interactions                 record an interaction
	GET  /api/v1/interactions                 list, optionally by ?type=
	GET  /api/v1/interactions/recent          paged recent clicks
	GET  /api/v1/interactions/favorites       paged favorites
	POST /api/v1/interactions/favorites/toggle
	GET  /api/v1/interactions/stats
	POST /api/v1/embed                        text to embedding vector
	GET  /metrics                             Prometheus

Everything under /api/v1 except health requires a bearer token; see
internal/auth.

Error Mapping:

Recommendation endpoints answer 200 with a possibly empty list once their
parameters validate. Other endpoints map service errors to status codes:

	auth.ErrNotAuthenticated          401 AUTHENTICATION_ERROR
	store.ErrInvalidInteraction       400 VALIDATION_ERROR
	store.ErrNotFound                 404 NOT_FOUND
	store.ErrStoreUnavailable         503 SERVICE_UNAVAILABLE
	embedding.ErrEmbeddingUnavailable 502 EMBEDDING_ERROR

Malformed query parameters and bodies return 400 VALIDATION_ERROR.
*/
package api
