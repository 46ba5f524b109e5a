// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/nearbite/internal/config"
)

// Config contains the ranking parameters.
type Config struct {
	// DefaultMaxDistanceMeters is the search radius when the caller gives none.
	DefaultMaxDistanceMeters int `json:"default_max_distance_meters"`

	// MaxDistanceMeters caps the radius a caller may request.
	MaxDistanceMeters int `json:"max_distance_meters"`

	// DefaultLimit is the number of results when the caller gives none.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps the number of results a caller may request.
	MaxLimit int `json:"max_limit"`

	// TieEpsilon is the score difference below which two places are ordered
	// by distance instead of score.
	TieEpsilon float64 `json:"tie_epsilon"`

	// MaxConcurrency bounds the in-flight embedding calls of one request.
	MaxConcurrency int `json:"max_concurrency"`

	// MatchThreshold is the default minimum similarity of a semantic match.
	MatchThreshold float64 `json:"match_threshold"`

	// MatchCount is the default number of semantic matches.
	MatchCount int `json:"match_count"`

	// Timeout bounds one recommendation call end to end. Zero disables it.
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultMaxDistanceMeters: 2000,
		MaxDistanceMeters:        50000,
		DefaultLimit:             20,
		MaxLimit:                 100,
		TieEpsilon:               0.01,
		MaxConcurrency:           4,
		MatchThreshold:           0.78,
		MatchCount:               10,
		Timeout:                  30 * time.Second,
	}
}

// FromConfig converts the service configuration section.
func FromConfig(cfg *config.RecommendConfig) *Config {
	return &Config{
		DefaultMaxDistanceMeters: cfg.DefaultMaxDistanceMeters,
		MaxDistanceMeters:        cfg.MaxDistanceMeters,
		DefaultLimit:             cfg.DefaultLimit,
		MaxLimit:                 cfg.MaxLimit,
		TieEpsilon:               cfg.TieEpsilon,
		MaxConcurrency:           cfg.MaxConcurrency,
		MatchThreshold:           cfg.MatchThreshold,
		MatchCount:               cfg.MatchCount,
		Timeout:                  cfg.Timeout,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.DefaultMaxDistanceMeters < 1 {
		return fmt.Errorf("default_max_distance_meters must be positive, got %d", c.DefaultMaxDistanceMeters)
	}
	if c.MaxDistanceMeters < c.DefaultMaxDistanceMeters {
		return fmt.Errorf("max_distance_meters must be >= default_max_distance_meters, got %d < %d",
			c.MaxDistanceMeters, c.DefaultMaxDistanceMeters)
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit must be >= default_limit, got %d < %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.TieEpsilon < 0 {
		return fmt.Errorf("tie_epsilon must be non-negative, got %f", c.TieEpsilon)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be positive, got %d", c.MaxConcurrency)
	}
	if c.MatchThreshold < -1 || c.MatchThreshold > 1 {
		return fmt.Errorf("match_threshold must be in [-1, 1], got %f", c.MatchThreshold)
	}
	if c.MatchCount < 1 {
		return fmt.Errorf("match_count must be positive, got %d", c.MatchCount)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %v", c.Timeout)
	}
	return nil
}

// Clone returns a copy of c.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
