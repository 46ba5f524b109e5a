// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Embedding.APIKey = "sk-test"
	cfg.Security.JWTSecret = testSecret
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Database.Driver = "sqlite" },
			wantErr: "DB_DRIVER",
		},
		{
			name:    "postgres without dsn",
			mutate:  func(c *Config) { c.Database.Driver = "postgres" },
			wantErr: "DATABASE_URL",
		},
		{
			name:    "openai without key",
			mutate:  func(c *Config) { c.Embedding.APIKey = "" },
			wantErr: "OPENAI_API_KEY",
		},
		{
			name: "http provider without endpoint",
			mutate: func(c *Config) {
				c.Embedding.Provider = "http"
			},
			wantErr: "EMBED_FUNCTION_URL",
		},
		{
			name: "http provider with bad scheme",
			mutate: func(c *Config) {
				c.Embedding.Provider = "http"
				c.Embedding.Endpoint = "ftp://example.com/embed"
			},
			wantErr: "scheme",
		},
		{
			name:    "unknown cache backend",
			mutate:  func(c *Config) { c.Embedding.Cache.Backend = "redis" },
			wantErr: "EMBEDDING_CACHE",
		},
		{
			name: "postgres with mismatched embedding dimensions",
			mutate: func(c *Config) {
				c.Database.Driver = "postgres"
				c.Database.DSN = "postgres://nearbite@localhost/nearbite"
				c.Database.EmbeddingDimensions = 1536
				c.Embedding.Dimensions = 512
			},
			wantErr: "DB_EMBEDDING_DIMENSIONS",
		},
		{
			name: "postgres with matching embedding dimensions",
			mutate: func(c *Config) {
				c.Database.Driver = "postgres"
				c.Database.DSN = "postgres://nearbite@localhost/nearbite"
				c.Database.EmbeddingDimensions = 512
				c.Embedding.Dimensions = 512
			},
		},
		{
			name: "postgres with model default dimensions",
			mutate: func(c *Config) {
				c.Database.Driver = "postgres"
				c.Database.DSN = "postgres://nearbite@localhost/nearbite"
				c.Embedding.Dimensions = 0
			},
		},
		{
			name: "duckdb ignores the column size",
			mutate: func(c *Config) {
				c.Database.EmbeddingDimensions = 1536
				c.Embedding.Dimensions = 512
			},
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Recommend.MaxConcurrency = 0 },
			wantErr: "RECOMMEND_MAX_CONCURRENCY",
		},
		{
			name:    "threshold out of range",
			mutate:  func(c *Config) { c.Recommend.MatchThreshold = 1.5 },
			wantErr: "RECOMMEND_MATCH_THRESHOLD",
		},
		{
			name:    "max page below default",
			mutate:  func(c *Config) { c.API.MaxPageSize = 2 },
			wantErr: "API_MAX_PAGE_SIZE",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "abc" },
			wantErr: "JWT_SECRET",
		},
		{
			name: "auth none in development",
			mutate: func(c *Config) {
				c.Security.AuthMode = "none"
				c.Security.JWTSecret = ""
			},
		},
		{
			name: "auth none in production",
			mutate: func(c *Config) {
				c.Security.AuthMode = "none"
				c.Server.Environment = "production"
			},
			wantErr: "AUTH_MODE=none",
		},
		{
			name: "wildcard cors in production",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
			},
			wantErr: "CORS_ORIGINS",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
