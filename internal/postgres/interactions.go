// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/tomtom215/nearbite/internal/store"
)

const interactionColumns = `id, user_id, restaurant_name, restaurant_address, restaurant_cuisine,
	interaction_type, interaction_date, embedding`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInteraction(row rowScanner) (*store.Interaction, error) {
	var (
		in     store.Interaction
		kind   string
		vector *pgvector.Vector
	)
	if err := row.Scan(&in.ID, &in.UserID, &in.RestaurantName, &in.RestaurantAddress,
		&in.RestaurantCuisine, &kind, &in.InteractionDate, &vector); err != nil {
		return nil, err
	}
	in.InteractionType = store.InteractionType(kind)
	in.InteractionDate = in.InteractionDate.UTC()
	if vector != nil {
		in.Embedding = vector.Slice()
	}
	return &in, nil
}

// nullableVector binds an empty embedding as NULL.
func nullableVector(vec []float32) any {
	if len(vec) == 0 {
		return nil
	}
	return pgvector.NewVector(vec)
}

func buildWhere(find *store.FindInteraction) ([]string, []any) {
	where, args := []string{"1 = 1"}, []any{}
	if find == nil {
		return where, args
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}
	if find.Type != nil {
		where, args = append(where, "interaction_type = "+placeholder(len(args)+1)), append(args, string(*find.Type))
	}
	return where, args
}

// CreateInteraction inserts a validated row.
func (d *DB) CreateInteraction(ctx context.Context, in *store.Interaction) (*store.Interaction, error) {
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
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO user_restaurant_interactions (`+interactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		row.ID, row.UserID, row.RestaurantName, row.RestaurantAddress, row.RestaurantCuisine,
		string(row.InteractionType), row.InteractionDate.UTC(), nullableVector(row.Embedding))
	if err := observe("create_interaction", start, err); err != nil {
		return nil, err
	}
	return &row, nil
}

// ListInteractions returns matching rows, newest first.
func (d *DB) ListInteractions(ctx context.Context, find *store.FindInteraction) ([]*store.Interaction, error) {
	where, args := buildWhere(find)
	query := `SELECT ` + interactionColumns + ` FROM user_restaurant_interactions
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY interaction_date DESC, id`
	if find != nil && find.Limit != nil && *find.Limit > 0 {
		query += " LIMIT " + placeholder(len(args)+1)
		args = append(args, *find.Limit)
	}

	start := time.Now()
	list, err := d.queryInteractions(ctx, query, args...)
	if err := observe("list_interactions", start, err); err != nil {
		return nil, err
	}
	return list, nil
}

// PageInteractions returns one 1-based page of matching rows.
func (d *DB) PageInteractions(ctx context.Context, find *store.FindInteraction, page, pageSize int) (*store.Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("%w: page size must be positive", store.ErrInvalidInteraction)
	}
	where, args := buildWhere(find)
	clause := strings.Join(where, " AND ")

	start := time.Now()
	var total int
	err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user_restaurant_interactions WHERE "+clause, args...).Scan(&total)
	if err := observe("count_interactions", start, err); err != nil {
		return nil, err
	}

	start = time.Now()
	query := `SELECT ` + interactionColumns + ` FROM user_restaurant_interactions
		WHERE ` + clause + `
		ORDER BY interaction_date DESC, id
		LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)
	pageArgs := append(append([]any{}, args...), pageSize, store.Offset(page, pageSize))
	list, err := d.queryInteractions(ctx, query, pageArgs...)
	if err := observe("page_interactions", start, err); err != nil {
		return nil, err
	}
	return store.NewPage(list, total, page, pageSize), nil
}

// FindFavorite returns the user's favorite row for a restaurant, or
// store.ErrNotFound.
func (d *DB) FindFavorite(ctx context.Context, userID, name, address string) (*store.Interaction, error) {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, `
		SELECT `+interactionColumns+` FROM user_restaurant_interactions
		WHERE user_id = $1 AND interaction_type = 'favorite'
			AND restaurant_name = $2 AND restaurant_address = $3
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
func (d *DB) DeleteInteraction(ctx context.Context, id string) error {
	start := time.Now()
	result, err := d.db.ExecContext(ctx, "DELETE FROM user_restaurant_interactions WHERE id = $1", id)
	if err := observe("delete_interaction", start, err); err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

// InteractionStats counts a user's interactions by kind.
func (d *DB) InteractionStats(ctx context.Context, userID string) (*store.Stats, error) {
	start := time.Now()
	var s store.Stats
	err := d.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE interaction_type = 'click'),
			COUNT(*) FILTER (WHERE interaction_type = 'view'),
			COUNT(*) FILTER (WHERE interaction_type = 'favorite'),
			COUNT(DISTINCT (restaurant_name, restaurant_address))
		FROM user_restaurant_interactions
		WHERE user_id = $1`, userID).
		Scan(&s.TotalClicks, &s.TotalViews, &s.TotalFavorites, &s.UniqueRestaurants)
	if err := observe("interaction_stats", start, err); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListMissingEmbeddings returns up to limit rows stored without an embedding
// that sort after the cursor, oldest first.
func (d *DB) ListMissingEmbeddings(ctx context.Context, after *store.EmbeddingCursor, limit int) ([]*store.Interaction, error) {
	query := `SELECT ` + interactionColumns + ` FROM user_restaurant_interactions
		WHERE embedding IS NULL`
	args := []any{limit}
	if after != nil {
		query += ` AND (interaction_date, id) > ($2, $3)`
		args = append(args, after.Date, after.ID)
	}
	query += ` ORDER BY interaction_date, id LIMIT $1`

	start := time.Now()
	list, err := d.queryInteractions(ctx, query, args...)
	if err := observe("list_missing_embeddings", start, err); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateEmbedding sets the embedding of a row.
func (d *DB) UpdateEmbedding(ctx context.Context, id string, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("%w: empty embedding", store.ErrInvalidInteraction)
	}
	start := time.Now()
	result, err := d.db.ExecContext(ctx,
		"UPDATE user_restaurant_interactions SET embedding = $1 WHERE id = $2",
		pgvector.NewVector(vec), id)
	if err := observe("update_embedding", start, err); err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (d *DB) queryInteractions(ctx context.Context, query string, args ...any) ([]*store.Interaction, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*store.Interaction{}
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
