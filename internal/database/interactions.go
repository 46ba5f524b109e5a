// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/nearbite/internal/store"
)

const interactionColumns = `id, user_id, restaurant_name, restaurant_address, restaurant_cuisine,
	interaction_type, interaction_date, embedding`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInteraction(row rowScanner) (*store.Interaction, error) {
	var (
		in   store.Interaction
		kind string
		vec  vectorScanner
	)
	if err := row.Scan(&in.ID, &in.UserID, &in.RestaurantName, &in.RestaurantAddress,
		&in.RestaurantCuisine, &kind, &in.InteractionDate, &vec); err != nil {
		return nil, err
	}
	in.InteractionType = store.InteractionType(kind)
	in.InteractionDate = in.InteractionDate.UTC()
	in.Embedding = vec.vec
	return &in, nil
}

// buildWhere renders the filter of find. Arguments are positional.
func buildWhere(find *store.FindInteraction) (string, []any) {
	if find == nil {
		return "", nil
	}
	var (
		clauses []string
		args    []any
	)
	if find.UserID != nil {
		clauses = append(clauses, "user_id = ?")
		args = append(args, *find.UserID)
	}
	if find.Type != nil {
		clauses = append(clauses, "interaction_type = ?")
		args = append(args, string(*find.Type))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// CreateInteraction inserts a validated row. Missing id or date are filled in.
func (db *DB) CreateInteraction(ctx context.Context, in *store.Interaction) (*store.Interaction, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: nil interaction", store.ErrInvalidInteraction)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	row := *in
	if row.ID == "" || row.InteractionDate.IsZero() {
		fresh, err := store.NewInteraction(row.UserID, row.RestaurantName, row.RestaurantAddress,
			row.RestaurantCuisine, row.InteractionType)
		if err != nil {
			return nil, err
		}
		if row.ID == "" {
			row.ID = fresh.ID
		}
		if row.InteractionDate.IsZero() {
			row.InteractionDate = fresh.InteractionDate
		}
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO user_restaurant_interactions (`+interactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, CAST(? AS FLOAT[]))`,
		row.ID, row.UserID, row.RestaurantName, row.RestaurantAddress, row.RestaurantCuisine,
		string(row.InteractionType), row.InteractionDate.UTC(), vectorParam(row.Embedding))
	if err := observe("create_interaction", start, err); err != nil {
		return nil, err
	}
	return &row, nil
}

// ListInteractions returns matching rows, newest first.
func (db *DB) ListInteractions(ctx context.Context, find *store.FindInteraction) ([]*store.Interaction, error) {
	where, args := buildWhere(find)
	query := "SELECT " + interactionColumns + " FROM user_restaurant_interactions" + where +
		" ORDER BY interaction_date DESC, id"
	if find != nil && find.Limit != nil && *find.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, *find.Limit)
	}

	start := time.Now()
	list, err := db.queryInteractions(ctx, query, args...)
	if err := observe("list_interactions", start, err); err != nil {
		return nil, err
	}
	return list, nil
}

// PageInteractions returns one 1-based page of matching rows.
func (db *DB) PageInteractions(ctx context.Context, find *store.FindInteraction, page, pageSize int) (*store.Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("%w: page size must be positive", store.ErrInvalidInteraction)
	}
	where, args := buildWhere(find)

	start := time.Now()
	var total int
	err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user_restaurant_interactions"+where, args...).Scan(&total)
	if err := observe("count_interactions", start, err); err != nil {
		return nil, err
	}

	start = time.Now()
	query := "SELECT " + interactionColumns + " FROM user_restaurant_interactions" + where +
		" ORDER BY interaction_date DESC, id LIMIT ? OFFSET ?"
	pageArgs := append(append([]any{}, args...), pageSize, store.Offset(page, pageSize))
	list, err := db.queryInteractions(ctx, query, pageArgs...)
	if err := observe("page_interactions", start, err); err != nil {
		return nil, err
	}
	return store.NewPage(list, total, page, pageSize), nil
}

// FindFavorite returns the user's favorite row for a restaurant, or
// store.ErrNotFound.
func (db *DB) FindFavorite(ctx context.Context, userID, name, address string) (*store.Interaction, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+interactionColumns+` FROM user_restaurant_interactions
		WHERE user_id = ? AND interaction_type = 'favorite'
			AND restaurant_name = ? AND restaurant_address = ?
		ORDER BY interaction_date DESC
		LIMIT 1`,
		userID, strings.TrimSpace(name), strings.TrimSpace(address))
	in, err := scanInteraction(row)
	if errors.Is(err, sql.ErrNoRows) {
		_ = observe("find_favorite", start, nil)
		return nil, store.ErrNotFound
	}
	if err := observe("find_favorite", start, err); err != nil {
		return nil, err
	}
	return in, nil
}

// DeleteInteraction removes a row by id.
func (db *DB) DeleteInteraction(ctx context.Context, id string) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx, "DELETE FROM user_restaurant_interactions WHERE id = ?", id)
	if err := observe("delete_interaction", start, err); err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return store.Unavailable("delete_interaction", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// InteractionStats counts a user's interactions by kind.
func (db *DB) InteractionStats(ctx context.Context, userID string) (*store.Stats, error) {
	start := time.Now()
	var s store.Stats
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE interaction_type = 'click'),
			COUNT(*) FILTER (WHERE interaction_type = 'view'),
			COUNT(*) FILTER (WHERE interaction_type = 'favorite'),
			(SELECT COUNT(*) FROM (
				SELECT DISTINCT restaurant_name, restaurant_address
				FROM user_restaurant_interactions WHERE user_id = ?
			))
		FROM user_restaurant_interactions
		WHERE user_id = ?`, userID, userID).
		Scan(&s.TotalClicks, &s.TotalViews, &s.TotalFavorites, &s.UniqueRestaurants)
	if err := observe("interaction_stats", start, err); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListMissingEmbeddings returns up to limit rows stored without an embedding
// that sort after the cursor, oldest first.
func (db *DB) ListMissingEmbeddings(ctx context.Context, after *store.EmbeddingCursor, limit int) ([]*store.Interaction, error) {
	query := `SELECT ` + interactionColumns + ` FROM user_restaurant_interactions
		WHERE embedding IS NULL`
	args := make([]any, 0, 4)
	if after != nil {
		query += ` AND (interaction_date > ? OR (interaction_date = ? AND id > ?))`
		args = append(args, after.Date, after.Date, after.ID)
	}
	query += ` ORDER BY interaction_date, id LIMIT ?`
	args = append(args, limit)

	start := time.Now()
	list, err := db.queryInteractions(ctx, query, args...)
	if err := observe("list_missing_embeddings", start, err); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateEmbedding sets the embedding of a row.
func (db *DB) UpdateEmbedding(ctx context.Context, id string, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("%w: empty embedding", store.ErrInvalidInteraction)
	}
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		"UPDATE user_restaurant_interactions SET embedding = CAST(? AS FLOAT[]) WHERE id = ?",
		vectorParam(vec), id)
	if err := observe("update_embedding", start, err); err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (db *DB) queryInteractions(ctx context.Context, query string, args ...any) ([]*store.Interaction, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	list := make([]*store.Interaction, 0)
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		list = append(list, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
