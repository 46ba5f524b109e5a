// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

/*
Package main is the entry point for the Nearbite API server.

Nearbite ranks nearby restaurants for a user by the similarity between each
place and a taste profile built from the user's interaction history.

# Application Architecture

	RootSupervisor ("nearbite")
	├── DataSupervisor ("data-layer")
	│   └── Store health monitor
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, an optional YAML file and the environment
 2. Logging: zerolog, json or console
 3. Interaction store: DuckDB (embedded) or PostgreSQL with pgvector
 4. Places fetcher: Overpass client behind a circuit breaker
 5. Embedding pipeline: OpenAI or HTTP provider with breaker, rate limiter and cache
 6. Ranking: taste profile builder and ranker
 7. HTTP: chi router with CORS, rate limiting, JWT authentication and metrics
 8. Supervisor tree

# Configuration

Common environment variables:

	HTTP_PORT            listen port (default 8080)
	DB_DRIVER            duckdb or postgres
	DUCKDB_PATH          DuckDB file path
	DATABASE_URL         PostgreSQL connection string
	OVERPASS_URL         Overpass interpreter endpoint
	EMBEDDING_PROVIDER   openai or http
	OPENAI_API_KEY       key for the openai provider
	EMBED_FUNCTION_URL   endpoint for the http provider
	AUTH_MODE            jwt or none
	JWT_SECRET           HMAC secret for bearer tokens
	LOG_LEVEL            debug, info, warn or error

# Signal Handling

SIGINT and SIGTERM cancel the supervisor context. The HTTP server drains
in-flight requests within server.shutdown_timeout, then the store and the
embedding cache are closed.

# Example Usage

Local development without authentication:

	export AUTH_MODE=none
	export OPENAI_API_KEY=sk-...
	export DUCKDB_PATH=./nearbite.duckdb
	./nearbite
*/
package main
