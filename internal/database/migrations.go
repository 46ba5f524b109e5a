// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/nearbite/internal/logging"
)

// Migration is a versioned schema change applied exactly once.
type Migration struct {
	Version int
	Name    string
	SQL     []string
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name VARCHAR NOT NULL,
	applied_at TIMESTAMP NOT NULL DEFAULT current_timestamp
)`

var migrations = []Migration{
	{
		Version: 1,
		Name:    "interactions",
		SQL: []string{
			`CREATE TABLE IF NOT EXISTS user_restaurant_interactions (
				id VARCHAR PRIMARY KEY,
				user_id VARCHAR NOT NULL,
				restaurant_name VARCHAR NOT NULL DEFAULT '',
				restaurant_address VARCHAR NOT NULL DEFAULT '',
				restaurant_cuisine VARCHAR NOT NULL DEFAULT '',
				interaction_type VARCHAR NOT NULL CHECK (interaction_type IN ('view', 'click', 'favorite')),
				interaction_date TIMESTAMP NOT NULL,
				embedding FLOAT[]
			)`,
			`CREATE INDEX IF NOT EXISTS idx_interactions_user_date
				ON user_restaurant_interactions (user_id, interaction_date)`,
		},
	},
	{
		Version: 2,
		Name:    "restaurant_documents",
		SQL: []string{
			`CREATE TABLE IF NOT EXISTS restaurant_documents (
				id VARCHAR PRIMARY KEY,
				restaurant_name VARCHAR NOT NULL,
				restaurant_address VARCHAR NOT NULL DEFAULT '',
				restaurant_cuisine VARCHAR NOT NULL DEFAULT '',
				embedding FLOAT[] NOT NULL
			)`,
		},
	},
}

// runMigrations applies pending migrations in version order.
func (db *DB) runMigrations(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := db.conn.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			closeQuietly(rows)
			return fmt.Errorf("scan schema_migrations: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return fmt.Errorf("iterate schema_migrations: %w", err)
	}
	closeQuietly(rows)

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		start := time.Now()
		if err := db.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		logging.Info().Int("version", m.Version).Str("name", m.Name).
			Dur("duration", time.Since(start)).Msg("Applied migration")
	}
	return nil
}

func (db *DB) applyMigration(ctx context.Context, m Migration) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, stmt := range m.SQL {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
