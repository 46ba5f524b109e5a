// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package postgres

import (
	"context"
	"fmt"
)

// schema is applied in order; every statement is idempotent.
func schema(dims int) []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS user_restaurant_interactions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			restaurant_name TEXT NOT NULL DEFAULT '',
			restaurant_address TEXT NOT NULL DEFAULT '',
			restaurant_cuisine TEXT NOT NULL DEFAULT '',
			interaction_type TEXT NOT NULL CHECK (interaction_type IN ('view', 'click', 'favorite')),
			interaction_date TIMESTAMPTZ NOT NULL DEFAULT now(),
			embedding vector(%d)
		)`, dims),
		`CREATE INDEX IF NOT EXISTS idx_interactions_user_date
			ON user_restaurant_interactions (user_id, interaction_date DESC)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS restaurant_documents (
			id TEXT PRIMARY KEY,
			restaurant_name TEXT NOT NULL,
			restaurant_address TEXT NOT NULL DEFAULT '',
			restaurant_cuisine TEXT NOT NULL DEFAULT '',
			embedding vector(%d) NOT NULL
		)`, dims),
		`CREATE OR REPLACE FUNCTION match_documents(
			query_embedding vector,
			match_threshold float,
			match_count int
		)
		RETURNS TABLE (
			id TEXT,
			restaurant_name TEXT,
			restaurant_address TEXT,
			restaurant_cuisine TEXT,
			similarity float
		)
		LANGUAGE sql STABLE
		AS $$
			SELECT d.id, d.restaurant_name, d.restaurant_address, d.restaurant_cuisine,
				1 - (d.embedding <=> query_embedding) AS similarity
			FROM restaurant_documents d
			WHERE 1 - (d.embedding <=> query_embedding) >= match_threshold
			ORDER BY d.embedding <=> query_embedding, d.id
			LIMIT match_count
		$$`,
	}
}

func (d *DB) migrate(ctx context.Context) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for i, stmt := range schema(d.dims) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}
