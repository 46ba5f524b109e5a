// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package places

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/nearbite/internal/breaker"
	"github.com/tomtom215/nearbite/internal/geo"
)

// CircuitBreakerFetcher stops calling a failing geodata source until it recovers.
type CircuitBreakerFetcher struct {
	next Fetcher
	cb   *breaker.Breaker[[]Place]
}

// NewCircuitBreakerFetcher wraps next with the "overpass-api" breaker.
func NewCircuitBreakerFetcher(next Fetcher, cfg breaker.Config) *CircuitBreakerFetcher {
	return &CircuitBreakerFetcher{
		next: next,
		cb:   breaker.New[[]Place]("overpass-api", cfg),
	}
}

// FetchNearby implements Fetcher. Cancellation by the caller does not count
// against the upstream.
func (f *CircuitBreakerFetcher) FetchNearby(ctx context.Context, loc geo.Location, radiusMeters int, category Category) ([]Place, error) {
	var callerErr error
	result, err := f.cb.Execute(func() ([]Place, error) {
		places, err := f.next.FetchNearby(ctx, loc, radiusMeters, category)
		if err != nil && ctx.Err() != nil {
			callerErr = err
			return nil, nil
		}
		return places, err
	})
	if callerErr != nil {
		return nil, asFetchFailed(callerErr)
	}
	if err != nil {
		return nil, asFetchFailed(err)
	}
	return result, nil
}

func asFetchFailed(err error) error {
	if errors.Is(err, ErrFetchFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrFetchFailed, err)
}
