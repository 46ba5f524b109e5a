// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

// Package storage opens the interaction store driver named by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/tomtom215/nearbite/internal/config"
	"github.com/tomtom215/nearbite/internal/database"
	"github.com/tomtom215/nearbite/internal/logging"
	"github.com/tomtom215/nearbite/internal/postgres"
	"github.com/tomtom215/nearbite/internal/store"
)

// Driver names accepted by Open.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// Open connects to the configured driver and applies its migrations.
// An empty driver name means DuckDB.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (store.Store, error) {
	switch cfg.Driver {
	case DriverDuckDB, "":
		db, err := database.New(cfg)
		if err != nil {
			return nil, err
		}
		logging.Info().Str("driver", DriverDuckDB).Str("path", cfg.Path).Msg("Interaction store opened")
		return db, nil
	case DriverPostgres:
		db, err := postgres.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logging.Info().Str("driver", DriverPostgres).Msg("Interaction store opened")
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
