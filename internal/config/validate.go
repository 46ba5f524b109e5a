// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// minJWTSecretLength matches the HS256 key size.
const minJWTSecretLength = 32

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateGeodata(); err != nil {
		return err
	}
	if err := c.validateEmbedding(); err != nil {
		return err
	}
	if err := c.validateDimensions(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "duckdb":
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DB_DRIVER=duckdb")
		}
		if c.Database.Threads < 0 {
			return fmt.Errorf("DUCKDB_THREADS must be >= 0")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
		if c.Database.EmbeddingDimensions < 1 {
			return fmt.Errorf("DB_EMBEDDING_DIMENSIONS must be positive when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be one of: duckdb, postgres (got %q)", c.Database.Driver)
	}
	return nil
}

func (c *Config) validateGeodata() error {
	if c.Geodata.Endpoint == "" {
		return fmt.Errorf("OVERPASS_URL is required")
	}
	if err := validateServiceURL(c.Geodata.Endpoint, "OVERPASS_URL"); err != nil {
		return err
	}
	if c.Geodata.Timeout <= 0 {
		return fmt.Errorf("OVERPASS_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateEmbedding() error {
	e := c.Embedding
	switch e.Provider {
	case "openai":
		if e.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when EMBEDDING_PROVIDER=openai")
		}
		if e.Model == "" {
			return fmt.Errorf("EMBEDDING_MODEL is required when EMBEDDING_PROVIDER=openai")
		}
		if e.BaseURL != "" {
			if err := validateServiceURL(e.BaseURL, "OPENAI_BASE_URL"); err != nil {
				return err
			}
		}
	case "http":
		if e.Endpoint == "" {
			return fmt.Errorf("EMBED_FUNCTION_URL is required when EMBEDDING_PROVIDER=http")
		}
		if err := validateServiceURL(e.Endpoint, "EMBED_FUNCTION_URL"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("EMBEDDING_PROVIDER must be one of: openai, http (got %q)", e.Provider)
	}

	if e.Dimensions < 0 {
		return fmt.Errorf("EMBEDDING_DIMENSIONS must be >= 0")
	}
	if e.RateLimitPerSecond < 0 {
		return fmt.Errorf("EMBEDDING_RATE_LIMIT must be >= 0")
	}
	if e.RateLimitPerSecond > 0 && e.RateLimitBurst < 1 {
		return fmt.Errorf("EMBEDDING_RATE_BURST must be >= 1 when EMBEDDING_RATE_LIMIT is set")
	}

	switch e.Cache.Backend {
	case "none", "":
	case "memory":
		if e.Cache.Capacity < 1 {
			return fmt.Errorf("EMBEDDING_CACHE_CAPACITY must be >= 1 for the memory cache")
		}
	case "badger":
		if e.Cache.Path == "" {
			return fmt.Errorf("EMBEDDING_CACHE_PATH is required when EMBEDDING_CACHE=badger")
		}
	default:
		return fmt.Errorf("EMBEDDING_CACHE must be one of: none, memory, badger (got %q)", e.Cache.Backend)
	}
	return nil
}

// validateDimensions rejects a requested embedding size that the pgvector
// column cannot store. DuckDB keeps FLOAT[] lists of any length, and a zero
// EMBEDDING_DIMENSIONS leaves the size to the model.
func (c *Config) validateDimensions() error {
	if c.Database.Driver != "postgres" {
		return nil
	}
	db, emb := c.Database.EmbeddingDimensions, c.Embedding.Dimensions
	if db > 0 && emb > 0 && db != emb {
		return fmt.Errorf("EMBEDDING_DIMENSIONS (%d) must equal DB_EMBEDDING_DIMENSIONS (%d) when DB_DRIVER=postgres", emb, db)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.DefaultMaxDistanceMeters < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_DISTANCE must be positive")
	}
	if r.MaxDistanceMeters < r.DefaultMaxDistanceMeters {
		return fmt.Errorf("RECOMMEND_MAX_DISTANCE must be >= RECOMMEND_DEFAULT_DISTANCE")
	}
	if r.DefaultLimit < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be positive")
	}
	if r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("RECOMMEND_MAX_LIMIT must be >= RECOMMEND_DEFAULT_LIMIT")
	}
	if r.TieEpsilon < 0 || r.TieEpsilon >= 1 {
		return fmt.Errorf("RECOMMEND_TIE_EPSILON must be in [0, 1)")
	}
	if r.MaxConcurrency < 1 {
		return fmt.Errorf("RECOMMEND_MAX_CONCURRENCY must be >= 1")
	}
	if r.MatchThreshold < -1 || r.MatchThreshold > 1 {
		return fmt.Errorf("RECOMMEND_MATCH_THRESHOLD must be in [-1, 1]")
	}
	if r.MatchCount < 1 {
		return fmt.Errorf("RECOMMEND_MATCH_COUNT must be positive")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be positive")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be >= API_DEFAULT_PAGE_SIZE")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	switch s.AuthMode {
	case "jwt":
		if len(s.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters when AUTH_MODE=jwt", minJWTSecretLength)
		}
	case "none":
		if c.Server.IsProduction() {
			return fmt.Errorf("AUTH_MODE=none is not allowed when ENVIRONMENT=production")
		}
		if strings.TrimSpace(s.DevUserID) == "" {
			return fmt.Errorf("DEV_USER_ID is required when AUTH_MODE=none")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be one of: jwt, none (got %q)", s.AuthMode)
	}

	if !s.RateLimitDisabled {
		if s.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQS must be positive")
		}
		if s.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}

	if c.Server.IsProduction() {
		for _, origin := range s.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain '*' when ENVIRONMENT=production")
			}
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateServiceURL accepts absolute http(s) URLs. Paths are allowed since
// both the Overpass interpreter and embedding functions live below the host.
func validateServiceURL(rawURL, fieldName string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	return nil
}
