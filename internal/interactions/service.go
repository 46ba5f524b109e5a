// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

// Package interactions records and reads a user's restaurant interactions.
//
// Every write computes the embedding of the restaurant text so the taste
// profile can be built from stored vectors alone. When the embedder is
// unavailable the row is stored without a vector and picked up later by
// Backfill.
package interactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nearbite/internal/auth"
	"github.com/tomtom215/nearbite/internal/embedding"
	"github.com/tomtom215/nearbite/internal/logging"
	"github.com/tomtom215/nearbite/internal/store"
)

// DefaultRecentLimit is the number of recent clicks returned when the caller
// gives no limit.
const DefaultRecentLimit = 10

// Repository is the part of the store driver the service writes through.
type Repository interface {
	store.InteractionReader
	CreateInteraction(ctx context.Context, in *store.Interaction) (*store.Interaction, error)
	PageInteractions(ctx context.Context, find *store.FindInteraction, page, pageSize int) (*store.Page, error)
	FindFavorite(ctx context.Context, userID, name, address string) (*store.Interaction, error)
	DeleteInteraction(ctx context.Context, id string) error
	InteractionStats(ctx context.Context, userID string) (*store.Stats, error)
	ListMissingEmbeddings(ctx context.Context, after *store.EmbeddingCursor, limit int) ([]*store.Interaction, error)
	UpdateEmbedding(ctx context.Context, id string, vec []float32) error
}

// Config holds paging defaults.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultConfig returns the paging defaults of the profile screen.
func DefaultConfig() Config {
	return Config{DefaultPageSize: 5, MaxPageSize: 50}
}

// Service is safe for concurrent use.
type Service struct {
	repo     Repository
	embedder embedding.Embedder
	config   Config
	logger   zerolog.Logger
}

// NewService creates a Service. Non-positive page sizes fall back to
// DefaultConfig.
func NewService(repo Repository, embedder embedding.Embedder, cfg Config) *Service {
	def := DefaultConfig()
	if cfg.DefaultPageSize < 1 {
		cfg.DefaultPageSize = def.DefaultPageSize
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = max(def.MaxPageSize, cfg.DefaultPageSize)
	}
	return &Service{
		repo:     repo,
		embedder: embedder,
		config:   cfg,
		logger:   logging.WithComponent("interactions"),
	}
}

// Record stores an interaction of the bound user.
func (s *Service) Record(ctx context.Context, name, address, cuisine string, kind store.InteractionType) (*store.Interaction, error) {
	userID, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	in, err := store.NewInteraction(userID, name, address, cuisine, kind)
	if err != nil {
		return nil, err
	}
	in.Embedding = s.embed(ctx, in)

	created, err := s.repo.CreateInteraction(ctx, in)
	if err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Debug().Str("interaction_id", created.ID).Str("type", string(kind)).
		Bool("embedded", len(created.Embedding) > 0).Msg("Recorded interaction")
	return created, nil
}

// embed returns the vector of in, or nil when the embedder fails.
func (s *Service) embed(ctx context.Context, in *store.Interaction) []float32 {
	if s.embedder == nil {
		return nil
	}
	vec, err := s.embedder.Embed(ctx, embedding.PlaceText(in.RestaurantName, in.RestaurantCuisine))
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("restaurant", in.RestaurantName).
			Msg("Storing interaction without embedding")
		return nil
	}
	return vec
}

// ToggleFavorite removes the bound user's favorite for the restaurant, or
// adds one if none exists. It reports whether the restaurant is now a
// favorite.
func (s *Service) ToggleFavorite(ctx context.Context, name, address, cuisine string) (bool, error) {
	userID, err := auth.UserFromContext(ctx)
	if err != nil {
		return false, err
	}

	existing, err := s.repo.FindFavorite(ctx, userID, name, address)
	switch {
	case err == nil:
		if err := s.repo.DeleteInteraction(ctx, existing.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return false, err
		}
		return false, nil
	case errors.Is(err, store.ErrNotFound):
		if _, err := s.Record(ctx, name, address, cuisine, store.InteractionFavorite); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// List returns every interaction of the bound user, newest first.
func (s *Service) List(ctx context.Context) ([]*store.Interaction, error) {
	return s.list(ctx, nil, 0)
}

// ListByType returns the bound user's interactions of one kind.
func (s *Service) ListByType(ctx context.Context, kind store.InteractionType) ([]*store.Interaction, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown interaction type %q", store.ErrInvalidInteraction, kind)
	}
	return s.list(ctx, &kind, 0)
}

// Recent returns the bound user's latest clicks. A non-positive limit means
// DefaultRecentLimit.
func (s *Service) Recent(ctx context.Context, limit int) ([]*store.Interaction, error) {
	if limit < 1 {
		limit = DefaultRecentLimit
	}
	kind := store.InteractionClick
	return s.list(ctx, &kind, limit)
}

// Favorites returns the bound user's favorites.
func (s *Service) Favorites(ctx context.Context) ([]*store.Interaction, error) {
	kind := store.InteractionFavorite
	return s.list(ctx, &kind, 0)
}

// PagedRecent returns one page of the bound user's clicks.
func (s *Service) PagedRecent(ctx context.Context, page, pageSize int) (*store.Page, error) {
	return s.page(ctx, store.InteractionClick, page, pageSize)
}

// PagedFavorites returns one page of the bound user's favorites.
func (s *Service) PagedFavorites(ctx context.Context, page, pageSize int) (*store.Page, error) {
	return s.page(ctx, store.InteractionFavorite, page, pageSize)
}

// Stats summarizes the bound user's interactions.
func (s *Service) Stats(ctx context.Context) (*store.Stats, error) {
	userID, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.InteractionStats(ctx, userID)
}

func (s *Service) list(ctx context.Context, kind *store.InteractionType, limit int) ([]*store.Interaction, error) {
	userID, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	find := &store.FindInteraction{UserID: &userID, Type: kind}
	if limit > 0 {
		find.Limit = &limit
	}
	rows, err := s.repo.ListInteractions(ctx, find)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*store.Interaction{}
	}
	return rows, nil
}

func (s *Service) page(ctx context.Context, kind store.InteractionType, page, pageSize int) (*store.Page, error) {
	userID, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	page, pageSize = s.PageBounds(page, pageSize)
	return s.repo.PageInteractions(ctx, &store.FindInteraction{UserID: &userID, Type: &kind}, page, pageSize)
}

// PageBounds normalizes a requested page: pages start at 1 and the size is
// defaulted and capped by the service configuration.
func (s *Service) PageBounds(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.config.DefaultPageSize
	}
	return page, min(pageSize, s.config.MaxPageSize)
}
