// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/nearbite/config.yaml",
	"/etc/nearbite/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Driver:              "duckdb",
			Path:                "/data/nearbite.duckdb",
			MaxMemory:           "512MB",
			Threads:             0,
			DSN:                 "",
			MaxOpenConns:        10,
			EmbeddingDimensions: 1536, // text-embedding-3-small
			HealthInterval:      30 * time.Second,
		},
		Geodata: GeodataConfig{
			Endpoint:       "https://overpass-api.de/api/interpreter",
			Timeout:        10 * time.Second,
			UserAgent:      "nearbite/1.0",
			CircuitBreaker: true,
		},
		Embedding: EmbeddingConfig{
			Provider:           "openai",
			Model:              "text-embedding-3-small",
			Timeout:            15 * time.Second,
			RateLimitPerSecond: 10,
			RateLimitBurst:     5,
			CircuitBreaker:     true,
			Cache: EmbeddingCacheConfig{
				Backend:  "memory",
				Capacity: 10000,
				TTL:      24 * time.Hour,
				Path:     "/data/embedding-cache",
			},
		},
		Recommend: RecommendConfig{
			DefaultMaxDistanceMeters: 2000,
			MaxDistanceMeters:        50000,
			DefaultLimit:             20,
			MaxLimit:                 100,
			TieEpsilon:               0.01,
			MaxConcurrency:           4,
			MatchThreshold:           0.78,
			MatchCount:               10,
			Timeout:                  30 * time.Second,
		},
		Backfill: BackfillConfig{
			BatchSize: 100,
			MaxPasses: 100,
		},
		API: APIConfig{
			DefaultPageSize: 5,
			MaxPageSize:     100,
		},
		Security: SecurityConfig{
			AuthMode:        "jwt",
			JWTAudience:     "authenticated",
			DevUserID:       "dev-user",
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults
//  2. Config File (if one exists)
//  3. Environment Variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// OPENAI_API_KEY -> embedding.api_key, DUCKDB_PATH -> database.path
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none is found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated env values into slices.
// Values that are already slices (from YAML) are left untouched.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":        "server.host",
	"http_port":        "server.port",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Interaction store
	"db_driver":               "database.driver",
	"duckdb_path":             "database.path",
	"duckdb_max_memory":       "database.max_memory",
	"duckdb_threads":          "database.threads",
	"database_url":            "database.dsn",
	"db_max_open_conns":       "database.max_open_conns",
	"db_embedding_dimensions": "database.embedding_dimensions",
	"db_health_interval":      "database.health_interval",

	// Geodata
	"overpass_url":             "geodata.endpoint",
	"overpass_timeout":         "geodata.timeout",
	"overpass_user_agent":      "geodata.user_agent",
	"overpass_circuit_breaker": "geodata.circuit_breaker",

	// Embedding provider
	"embedding_provider":        "embedding.provider",
	"openai_api_key":            "embedding.api_key",
	"openai_base_url":           "embedding.base_url",
	"embedding_model":           "embedding.model",
	"embedding_dimensions":      "embedding.dimensions",
	"embed_function_url":        "embedding.endpoint",
	"embed_function_token":      "embedding.auth_token",
	"embedding_timeout":         "embedding.timeout",
	"embedding_rate_limit":      "embedding.rate_limit_per_second",
	"embedding_rate_burst":      "embedding.rate_limit_burst",
	"embedding_circuit_breaker": "embedding.circuit_breaker",
	"embedding_cache":           "embedding.cache.backend",
	"embedding_cache_capacity":  "embedding.cache.capacity",
	"embedding_cache_ttl":       "embedding.cache.ttl",
	"embedding_cache_path":      "embedding.cache.path",

	// Recommendation ranking
	"recommend_default_distance": "recommend.default_max_distance_meters",
	"recommend_max_distance":     "recommend.max_distance_meters",
	"recommend_default_limit":    "recommend.default_limit",
	"recommend_max_limit":        "recommend.max_limit",
	"recommend_tie_epsilon":      "recommend.tie_epsilon",
	"recommend_max_concurrency":  "recommend.max_concurrency",
	"recommend_match_threshold":  "recommend.match_threshold",
	"recommend_match_count":      "recommend.match_count",
	"recommend_timeout":          "recommend.timeout",

	// Backfill
	"backfill_batch_size": "backfill.batch_size",
	"backfill_max_passes": "backfill.max_passes",

	// API
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	// Security
	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"jwt_issuer":          "security.jwt_issuer",
	"jwt_audience":        "security.jwt_audience",
	"dev_user_id":         "security.dev_user_id",
	"rate_limit_reqs":     "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"allowed_origins":     "security.cors_origins",
	"rate_limit_disabled": "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped so unrelated environment does
// not leak into the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
