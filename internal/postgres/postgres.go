// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

// Package postgres is the PostgreSQL driver for the interaction store. It
// requires the pgvector extension; embeddings are vector(n) columns and the
// semantic search runs in the match_documents SQL function.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/tomtom215/nearbite/internal/config"
	"github.com/tomtom215/nearbite/internal/logging"
	"github.com/tomtom215/nearbite/internal/metrics"
	"github.com/tomtom215/nearbite/internal/store"
)

const driverName = "postgres"

// DB implements store.Store on PostgreSQL.
type DB struct {
	db   *sql.DB
	dims int
}

var _ store.Store = (*DB)(nil)

// New connects to cfg.DSN and applies migrations.
func New(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	if cfg == nil || cfg.DSN == "" {
		return nil, errors.New("postgres: dsn is required")
	}
	if cfg.EmbeddingDimensions <= 0 {
		return nil, errors.New("postgres: embedding dimensions must be positive")
	}

	conn, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	conn.SetMaxOpenConns(maxOpen)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(2 * time.Hour)
	conn.SetConnMaxIdleTime(15 * time.Minute)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	d := &DB{db: conn, dims: cfg.EmbeddingDimensions}
	if err := d.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().Int("embedding_dimensions", d.dims).Msg("PostgreSQL interaction store ready")
	return d, nil
}

// Ping checks that the database answers.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return store.Unavailable("ping", err)
	}
	return nil
}

// Close closes the connection pool.
func (d *DB) Close() error {
	return d.db.Close()
}

// GetDB exposes the pool for tests and maintenance tasks.
func (d *DB) GetDB() *sql.DB {
	return d.db
}

func observe(op string, start time.Time, err error) error {
	metrics.RecordDBQuery(driverName, op, time.Since(start), err)
	return store.Unavailable(op, err)
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
