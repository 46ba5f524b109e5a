// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package recommend

import (
	"testing"
	"time"

	"github.com/tomtom215/nearbite/internal/config"
)

func TestDefaultConfig_Valid(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero default radius", func(c *Config) { c.DefaultMaxDistanceMeters = 0 }},
		{"max radius below default", func(c *Config) { c.MaxDistanceMeters = c.DefaultMaxDistanceMeters - 1 }},
		{"zero default limit", func(c *Config) { c.DefaultLimit = 0 }},
		{"max limit below default", func(c *Config) { c.MaxLimit = c.DefaultLimit - 1 }},
		{"negative epsilon", func(c *Config) { c.TieEpsilon = -0.1 }},
		{"zero concurrency", func(c *Config) { c.MaxConcurrency = 0 }},
		{"threshold above one", func(c *Config) { c.MatchThreshold = 1.5 }},
		{"zero match count", func(c *Config) { c.MatchCount = 0 }},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	cfg := FromConfig(&config.RecommendConfig{
		DefaultMaxDistanceMeters: 1500,
		MaxDistanceMeters:        10000,
		DefaultLimit:             5,
		MaxLimit:                 50,
		TieEpsilon:               0.05,
		MaxConcurrency:           2,
		MatchThreshold:           0.5,
		MatchCount:               3,
		Timeout:                  5 * time.Second,
	})
	if cfg.DefaultMaxDistanceMeters != 1500 || cfg.MaxLimit != 50 || cfg.MaxConcurrency != 2 {
		t.Errorf("FromConfig() = %+v", cfg)
	}
	if cfg.Timeout != 5*time.Second || cfg.MatchCount != 3 {
		t.Errorf("FromConfig() = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfig_Clone(t *testing.T) {
	t.Parallel()

	orig := DefaultConfig()
	clone := orig.Clone()
	clone.DefaultLimit = 99
	if orig.DefaultLimit == 99 {
		t.Error("Clone() shares state with the original")
	}
}
