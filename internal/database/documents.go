// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/nearbite/internal/store"
)

// UpsertDocument inserts or replaces a semantic corpus entry.
func (db *DB) UpsertDocument(ctx context.Context, doc *store.Document) error {
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
	_, err := db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO restaurant_documents
			(id, restaurant_name, restaurant_address, restaurant_cuisine, embedding)
		VALUES (?, ?, ?, ?, CAST(? AS FLOAT[]))`,
		id, doc.RestaurantName, doc.RestaurantAddress, doc.RestaurantCuisine, vectorParam(doc.Embedding))
	return observe("upsert_document", start, err)
}

// MatchDocuments returns documents whose cosine similarity to query exceeds
// threshold, most similar first. Documents of another dimensionality are
// skipped.
func (db *DB) MatchDocuments(ctx context.Context, query []float32, threshold float64, count int) ([]*store.SemanticMatch, error) {
	if len(query) == 0 || count <= 0 {
		return []*store.SemanticMatch{}, nil
	}

	start := time.Now()
	matches, err := db.matchDocuments(ctx, query, threshold, count)
	if err := observe("match_documents", start, err); err != nil {
		return nil, err
	}
	return matches, nil
}

func (db *DB) matchDocuments(ctx context.Context, query []float32, threshold float64, count int) ([]*store.SemanticMatch, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, restaurant_name, restaurant_address, restaurant_cuisine, similarity
		FROM (
			SELECT id, restaurant_name, restaurant_address, restaurant_cuisine,
				list_cosine_similarity(embedding, CAST(? AS FLOAT[])) AS similarity
			FROM restaurant_documents
			WHERE embedding IS NOT NULL AND len(embedding) = ?
		)
		WHERE similarity >= ?
		ORDER BY similarity DESC, id
		LIMIT ?`,
		vectorParam(query), len(query), threshold, count)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	matches := make([]*store.SemanticMatch, 0, count)
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
