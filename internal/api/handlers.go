// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package api

import (
	"context"
	"time"

	"github.com/tomtom215/nearbite/internal/embedding"
	"github.com/tomtom215/nearbite/internal/geo"
	"github.com/tomtom215/nearbite/internal/recommend"
	"github.com/tomtom215/nearbite/internal/store"
)

// Recommender is implemented by *recommend.Ranker.
type Recommender interface {
	GetRecommendations(ctx context.Context, loc geo.Location, opts ...recommend.Option) []recommend.RecommendedPlace
	GetSemanticRecommendations(ctx context.Context, query string, opts ...recommend.SemanticOption) []*store.SemanticMatch
}

// InteractionService is implemented by *interactions.Service.
type InteractionService interface {
	Record(ctx context.Context, name, address, cuisine string, kind store.InteractionType) (*store.Interaction, error)
	ToggleFavorite(ctx context.Context, name, address, cuisine string) (bool, error)
	List(ctx context.Context) ([]*store.Interaction, error)
	ListByType(ctx context.Context, kind store.InteractionType) ([]*store.Interaction, error)
	PagedRecent(ctx context.Context, page, pageSize int) (*store.Page, error)
	PagedFavorites(ctx context.Context, page, pageSize int) (*store.Page, error)
	Stats(ctx context.Context) (*store.Stats, error)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the services a Handler serves.
type Dependencies struct {
	Recommender  Recommender
	Interactions InteractionService
	Embedder     embedding.Embedder
	Store        Pinger
	Version      string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_health.go: liveness and readiness
//   - handlers_recommend.go: ranked and semantic recommendations
//   - handlers_interactions.go: interaction history
//   - handlers_embed.go: the embed function
type Handler struct {
	recommender  Recommender
	interactions InteractionService
	embedder     embedding.Embedder
	store        Pinger
	version      string
	startTime    time.Time
}

// NewHandler creates a Handler.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		recommender:  deps.Recommender,
		interactions: deps.Interactions,
		embedder:     deps.Embedder,
		store:        deps.Store,
		version:      deps.Version,
		startTime:    time.Now(),
	}
}
