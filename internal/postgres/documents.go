// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/tomtom215/nearbite/internal/store"
)

// UpsertDocument inserts or updates a semantic corpus entry.
func (d *DB) UpsertDocument(ctx context.Context, doc *store.Document) error {
	if doc == nil || strings.TrimSpace(doc.RestaurantName) == "" {
		return fmt.Errorf("%w: document name is required", store.ErrInvalidInteraction)
	}
	if len(doc.Embedding) == 0 {
		return fmt.Errorf("%w: document embedding is required", store.ErrInvalidInteraction)
	}
	id := doc.ID
	if id == "" {
		id = uuid.NewString()
	}

	start := time.Now()
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO restaurant_documents (id, restaurant_name, restaurant_address, restaurant_cuisine, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			restaurant_name = EXCLUDED.restaurant_name,
			restaurant_address = EXCLUDED.restaurant_address,
			restaurant_cuisine = EXCLUDED.restaurant_cuisine,
			embedding = EXCLUDED.embedding`,
		id, doc.RestaurantName, doc.RestaurantAddress, doc.RestaurantCuisine, pgvector.NewVector(doc.Embedding))
	return observe("upsert_document", start, err)
}

// MatchDocuments calls the match_documents procedure: documents with cosine
// similarity above threshold, most similar first, at most count.
func (d *DB) MatchDocuments(ctx context.Context, query []float32, threshold float64, count int) ([]*store.SemanticMatch, error) {
	// The column is vector(dims); a query of another size matches nothing.
	if len(query) == 0 || count <= 0 || len(query) != d.dims {
		return []*store.SemanticMatch{}, nil
	}

	start := time.Now()
	matches, err := d.matchDocuments(ctx, query, threshold, count)
	if err := observe("match_documents", start, err); err != nil {
		return nil, err
	}
	return matches, nil
}

func (d *DB) matchDocuments(ctx context.Context, query []float32, threshold float64, count int) ([]*store.SemanticMatch, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, restaurant_name, restaurant_address, restaurant_cuisine, similarity
		FROM match_documents($1, $2, $3)`,
		pgvector.NewVector(query), threshold, count)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []*store.SemanticMatch{}
	for rows.Next() {
		var m store.SemanticMatch
		if err := rows.Scan(&m.ID, &m.RestaurantName, &m.RestaurantAddress, &m.RestaurantCuisine, &m.Similarity); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}
