// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

// Package config loads the service configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig()
//  2. Config File: optional YAML file (CONFIG_PATH, ./config.yaml, /etc/nearbite/config.yaml)
//  3. Environment Variables: explicit mapping table in envTransformFunc
//
// Later layers override earlier ones. The merged result is validated before
// it is returned.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Geodata   GeodataConfig   `koanf:"geodata"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Recommend RecommendConfig `koanf:"recommend"`
	Backfill  BackfillConfig  `koanf:"backfill"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// DatabaseConfig selects and tunes the interaction store driver.
type DatabaseConfig struct {
	Driver    string `koanf:"driver"` // "duckdb" (embedded) or "postgres"
	Path      string `koanf:"path"`   // DuckDB file path, ":memory:" for ephemeral
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()

	DSN          string `koanf:"dsn"` // PostgreSQL connection string
	MaxOpenConns int    `koanf:"max_open_conns"`

	// EmbeddingDimensions sizes the pgvector column created by migrations.
	EmbeddingDimensions int           `koanf:"embedding_dimensions"`
	HealthInterval      time.Duration `koanf:"health_interval"`
}

// GeodataConfig configures the Overpass nearby-places client.
type GeodataConfig struct {
	Endpoint       string        `koanf:"endpoint"`
	Timeout        time.Duration `koanf:"timeout"`
	UserAgent      string        `koanf:"user_agent"`
	CircuitBreaker bool          `koanf:"circuit_breaker"`
}

// EmbeddingConfig configures the text embedding provider.
type EmbeddingConfig struct {
	Provider string `koanf:"provider"` // "openai" or "http"

	// OpenAI-compatible provider
	APIKey     string `koanf:"api_key"`
	BaseURL    string `koanf:"base_url"`
	Model      string `koanf:"model"`
	Dimensions int    `koanf:"dimensions"` // 0 = model default

	// HTTP provider posting {text} and reading {embedding}
	Endpoint  string `koanf:"endpoint"`
	AuthToken string `koanf:"auth_token"`

	Timeout            time.Duration        `koanf:"timeout"`
	RateLimitPerSecond float64              `koanf:"rate_limit_per_second"` // 0 = unlimited
	RateLimitBurst     int                  `koanf:"rate_limit_burst"`
	CircuitBreaker     bool                 `koanf:"circuit_breaker"`
	Cache              EmbeddingCacheConfig `koanf:"cache"`
}

// EmbeddingCacheConfig configures caching of text to vector results.
type EmbeddingCacheConfig struct {
	Backend  string        `koanf:"backend"` // "none", "memory" or "badger"
	Capacity int           `koanf:"capacity"`
	TTL      time.Duration `koanf:"ttl"`
	Path     string        `koanf:"path"`
}

// RecommendConfig holds ranking defaults and limits.
type RecommendConfig struct {
	DefaultMaxDistanceMeters int           `koanf:"default_max_distance_meters"`
	MaxDistanceMeters        int           `koanf:"max_distance_meters"`
	DefaultLimit             int           `koanf:"default_limit"`
	MaxLimit                 int           `koanf:"max_limit"`
	TieEpsilon               float64       `koanf:"tie_epsilon"`
	MaxConcurrency           int           `koanf:"max_concurrency"`
	MatchThreshold           float64       `koanf:"match_threshold"`
	MatchCount               int           `koanf:"match_count"`
	Timeout                  time.Duration `koanf:"timeout"`
}

// BackfillConfig configures the embedding backfill command.
type BackfillConfig struct {
	BatchSize int `koanf:"batch_size"`
	MaxPasses int `koanf:"max_passes"`
}

// APIConfig holds API pagination settings
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds request authentication and rate limit settings.
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"` // "jwt" or "none"
	JWTSecret         string        `koanf:"jwt_secret"`
	JWTIssuer         string        `koanf:"jwt_issuer"`
	JWTAudience       string        `koanf:"jwt_audience"`
	DevUserID         string        `koanf:"dev_user_id"` // bound user when auth_mode=none
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// IsProduction reports whether the service runs with production checks.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// Load reads configuration from defaults, the optional config file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
