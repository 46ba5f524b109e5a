// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nearbite/internal/logging"
	"github.com/tomtom215/nearbite/internal/metrics"
)

// Pinger is satisfied by both interaction store drivers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreHealthService pings the interaction store on an interval, exports the
// result as the store_healthy gauge and logs transitions.
//
// A failed ping is not a service failure: the store may recover on its own
// and restarting the monitor would not help it.
type StoreHealthService struct {
	store    Pinger
	driver   string
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewStoreHealthService creates the monitor. A non-positive interval means 30s.
func NewStoreHealthService(store Pinger, driver string, interval time.Duration) *StoreHealthService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	timeout := interval / 2
	if timeout > 5*time.Second {
		timeout = 5 * time.Second
	}
	return &StoreHealthService{
		store:    store,
		driver:   driver,
		interval: interval,
		timeout:  timeout,
		logger:   logging.WithComponent("store-health"),
	}
}

// Serve implements suture.Service. It checks once immediately, then on every
// tick until ctx ends.
func (s *StoreHealthService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	healthy := s.check(ctx, true)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			healthy = s.check(ctx, healthy)
		}
	}
}

// check pings once and returns the new health. prev is the previous result,
// used to log only on transitions.
func (s *StoreHealthService) check(ctx context.Context, prev bool) bool {
	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.store.Ping(pingCtx)
	if ctx.Err() != nil {
		return prev
	}
	healthy := err == nil
	metrics.RecordStoreHealth(s.driver, healthy)

	switch {
	case !healthy:
		s.logger.Warn().Err(err).Str("driver", s.driver).Msg("Interaction store health check failed")
	case !prev:
		s.logger.Info().Str("driver", s.driver).Msg("Interaction store recovered")
	}
	return healthy
}

func (s *StoreHealthService) String() string {
	return "store-health"
}
