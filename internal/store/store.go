// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

// Package store defines the interaction store contract shared by the DuckDB
// and PostgreSQL drivers.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrStoreUnavailable wraps every driver failure.
	ErrStoreUnavailable = errors.New("store: unavailable")
	// ErrInvalidInteraction is returned before any write for a malformed row.
	ErrInvalidInteraction = errors.New("store: invalid interaction")
	// ErrNotFound is returned when a row addressed by id does not exist.
	ErrNotFound = errors.New("store: not found")
)

// InteractionType is the kind of user action on a restaurant.
type InteractionType string

const (
	InteractionView     InteractionType = "view"
	InteractionClick    InteractionType = "click"
	InteractionFavorite InteractionType = "favorite"
)

// FavoriteWeight is the profile weight of a favorite; all other kinds weigh 1.
const FavoriteWeight = 10

// Valid reports whether t is a known interaction type.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionClick, InteractionFavorite:
		return true
	}
	return false
}

// Weight returns the taste profile weight of t.
func (t InteractionType) Weight() float64 {
	if t == InteractionFavorite {
		return FavoriteWeight
	}
	return 1
}

// Interaction is one row of user_restaurant_interactions. The embedding is
// never serialized.
type Interaction struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	RestaurantName    string          `json:"restaurant_name"`
	RestaurantAddress string          `json:"restaurant_address"`
	RestaurantCuisine string          `json:"restaurant_cuisine"`
	InteractionType   InteractionType `json:"interaction_type"`
	InteractionDate   time.Time       `json:"interaction_date"`
	Embedding         []float32       `json:"-"`
}

// EmbeddingCursor is the position of the last row a backfill pass read.
// Rows without an embedding are listed in (interaction_date, id) order and
// a nil cursor starts from the oldest.
type EmbeddingCursor struct {
	Date time.Time
	ID   string
}

// CursorAfter returns the cursor positioned on in.
func CursorAfter(in *Interaction) *EmbeddingCursor {
	return &EmbeddingCursor{Date: in.InteractionDate, ID: in.ID}
}

// NewInteraction builds a validated row with a fresh id and the current time.
func NewInteraction(userID, name, address, cuisine string, kind InteractionType) (*Interaction, error) {
	in := &Interaction{
		ID:                uuid.NewString(),
		UserID:            userID,
		RestaurantName:    strings.TrimSpace(name),
		RestaurantAddress: strings.TrimSpace(address),
		RestaurantCuisine: strings.TrimSpace(cuisine),
		InteractionType:   kind,
		InteractionDate:   time.Now().UTC(),
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

// Validate checks the write-time invariants of a row.
func (in *Interaction) Validate() error {
	if strings.TrimSpace(in.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInteraction)
	}
	if in.RestaurantName == "" && in.RestaurantAddress == "" {
		return fmt.Errorf("%w: restaurant name or address is required", ErrInvalidInteraction)
	}
	if !in.InteractionType.Valid() {
		return fmt.Errorf("%w: unknown interaction type %q", ErrInvalidInteraction, in.InteractionType)
	}
	return nil
}

// FindInteraction filters a listing. Nil fields are not applied. Results are
// ordered by interaction date, newest first.
type FindInteraction struct {
	UserID *string
	Type   *InteractionType
	Limit  *int
}

// Page is one page of a listing. Pages are 1-based.
type Page struct {
	Data        []*Interaction `json:"data"`
	TotalCount  int            `json:"total_count"`
	CurrentPage int            `json:"current_page"`
	TotalPages  int            `json:"total_pages"`
	HasNextPage bool           `json:"has_next_page"`
	HasPrevPage bool           `json:"has_prev_page"`
}

// NewPage fills the derived fields of a page.
func NewPage(data []*Interaction, total, page, pageSize int) *Page {
	if data == nil {
		data = []*Interaction{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return &Page{
		Data:        data,
		TotalCount:  total,
		CurrentPage: page,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// Offset returns the row offset of a 1-based page.
func Offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// Stats summarizes a user's interactions. UniqueRestaurants counts distinct
// (name, address) pairs.
type Stats struct {
	TotalClicks       int `json:"total_clicks"`
	TotalViews        int `json:"total_views"`
	TotalFavorites    int `json:"total_favorites"`
	UniqueRestaurants int `json:"unique_restaurants"`
}

// SemanticMatch is a document returned by vector search.
type SemanticMatch struct {
	ID                string  `json:"id"`
	RestaurantName    string  `json:"restaurant_name"`
	RestaurantAddress string  `json:"restaurant_address,omitempty"`
	RestaurantCuisine string  `json:"restaurant_cuisine,omitempty"`
	Similarity        float64 `json:"similarity"`
}

// Document is an entry of the semantic search corpus.
type Document struct {
	ID                string
	RestaurantName    string
	RestaurantAddress string
	RestaurantCuisine string
	Embedding         []float32
}

// InteractionReader is the read side used by the taste profile builder.
type InteractionReader interface {
	ListInteractions(ctx context.Context, find *FindInteraction) ([]*Interaction, error)
}

// DocumentMatcher runs the vector similarity search procedure.
type DocumentMatcher interface {
	MatchDocuments(ctx context.Context, query []float32, threshold float64, count int) ([]*SemanticMatch, error)
}

// Store is the full driver contract.
type Store interface {
	InteractionReader
	DocumentMatcher

	CreateInteraction(ctx context.Context, in *Interaction) (*Interaction, error)
	PageInteractions(ctx context.Context, find *FindInteraction, page, pageSize int) (*Page, error)
	FindFavorite(ctx context.Context, userID, name, address string) (*Interaction, error)
	DeleteInteraction(ctx context.Context, id string) error
	InteractionStats(ctx context.Context, userID string) (*Stats, error)

	ListMissingEmbeddings(ctx context.Context, after *EmbeddingCursor, limit int) ([]*Interaction, error)
	UpdateEmbedding(ctx context.Context, id string, vec []float32) error
	UpsertDocument(ctx context.Context, doc *Document) error

	Ping(ctx context.Context) error
	Close() error
}

// Unavailable wraps a driver error with ErrStoreUnavailable.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInteraction) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
