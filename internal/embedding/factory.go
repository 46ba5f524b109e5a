// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package embedding

import (
	"fmt"

	"github.com/tomtom215/nearbite/internal/breaker"
	"github.com/tomtom215/nearbite/internal/cache"
	"github.com/tomtom215/nearbite/internal/config"
	"github.com/tomtom215/nearbite/internal/logging"
)

// Pipeline is the configured provider with its decorators applied.
type Pipeline struct {
	Embedder
	cache cache.VectorCache
}

// Close releases the cache backend, if any.
func (p *Pipeline) Close() error {
	if p.cache != nil {
		return p.cache.Close()
	}
	return nil
}

// New builds an embedder from configuration.
func New(cfg *config.EmbeddingConfig) (*Pipeline, error) {
	var (
		provider Embedder
		model    string
	)

	switch cfg.Provider {
	case "openai":
		oa := NewOpenAIEmbedder(OpenAIConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Timeout:    cfg.Timeout,
		})
		provider = oa
		model = fmt.Sprintf("%s:%d", oa.Model(), cfg.Dimensions)
	case "http":
		provider = NewHTTPEmbedder(HTTPConfig{
			Endpoint:  cfg.Endpoint,
			AuthToken: cfg.AuthToken,
			Timeout:   cfg.Timeout,
		})
		model = "http:" + cfg.Endpoint
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}

	e := provider
	if cfg.CircuitBreaker {
		e = NewCircuitBreakerEmbedder(e, breaker.DefaultConfig())
	}
	if cfg.RateLimitPerSecond > 0 {
		e = NewRateLimitedEmbedder(e, cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	}

	p := &Pipeline{}
	switch cfg.Cache.Backend {
	case "memory":
		p.cache = cache.NewMemoryVectorCache(cfg.Cache.Capacity, cfg.Cache.TTL)
	case "badger":
		bc, err := cache.OpenBadgerVectorCache(cfg.Cache.Path, cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		p.cache = bc
	case "none", "":
	default:
		return nil, fmt.Errorf("unsupported embedding cache backend: %s", cfg.Cache.Backend)
	}
	if p.cache != nil {
		e = NewCachedEmbedder(e, p.cache, model)
	}
	p.Embedder = e

	logging.Info().
		Str("provider", cfg.Provider).
		Str("cache", cfg.Cache.Backend).
		Float64("rate_limit_per_second", cfg.RateLimitPerSecond).
		Bool("circuit_breaker", cfg.CircuitBreaker).
		Msg("Embedding provider configured")

	return p, nil
}
