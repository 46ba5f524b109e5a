// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package embedding

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/tomtom215/nearbite/internal/breaker"
	"github.com/tomtom215/nearbite/internal/cache"
	"github.com/tomtom215/nearbite/internal/metrics"
)

// RateLimitedEmbedder waits for a token before each provider call.
type RateLimitedEmbedder struct {
	next    Embedder
	limiter *rate.Limiter
}

// NewRateLimitedEmbedder allows perSecond calls with the given burst.
func NewRateLimitedEmbedder(next Embedder, perSecond float64, burst int) *RateLimitedEmbedder {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedEmbedder{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Embed implements Embedder. A wait that is cancelled or would outlast the
// deadline is reported as unavailable.
func (r *RateLimitedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, unavailable(err)
	}
	vec, err := r.next.Embed(ctx, text)
	return vec, unavailable(err)
}

// CircuitBreakerEmbedder stops calling a failing provider until it recovers.
type CircuitBreakerEmbedder struct {
	next Embedder
	cb   *breaker.Breaker[[]float32]
}

// NewCircuitBreakerEmbedder wraps next with the "embedding-api" breaker.
func NewCircuitBreakerEmbedder(next Embedder, cfg breaker.Config) *CircuitBreakerEmbedder {
	return &CircuitBreakerEmbedder{
		next: next,
		cb:   breaker.New[[]float32]("embedding-api", cfg),
	}
}

// Embed implements Embedder. Caller cancellation does not count as a
// provider failure.
func (c *CircuitBreakerEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var callerErr error
	vec, err := c.cb.Execute(func() ([]float32, error) {
		vec, err := c.next.Embed(ctx, text)
		if err != nil && ctx.Err() != nil {
			callerErr = err
			return nil, nil
		}
		return vec, err
	})
	if callerErr != nil {
		return nil, unavailable(callerErr)
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return vec, nil
}

// CachedEmbedder serves repeated texts from a VectorCache.
type CachedEmbedder struct {
	next  Embedder
	cache cache.VectorCache
	model string
}

// NewCachedEmbedder caches results of next. model namespaces the keys so a
// model change never serves stale vectors.
func NewCachedEmbedder(next Embedder, vc cache.VectorCache, model string) *CachedEmbedder {
	return &CachedEmbedder{next: next, cache: vc, model: model}
}

// Embed implements Embedder. Failures are not cached.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cache.Key(c.model, text)
	if vec, ok := c.cache.Get(key); ok {
		metrics.RecordEmbeddingCache(c.cache.Backend(), true)
		return vec, nil
	}
	metrics.RecordEmbeddingCache(c.cache.Backend(), false)

	vec, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, unavailable(err)
	}
	c.cache.Set(key, vec)
	return vec, nil
}
