// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

// Package profile derives a user's taste profile from their interaction
// history.
//
// The profile is the weighted mean of the embeddings stored with each
// interaction. Favorites count ten times as much as views and clicks.
// Profiles are computed on every call and never cached, so a new
// interaction is reflected immediately.
package profile

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/nearbite/internal/auth"
	"github.com/tomtom215/nearbite/internal/geo"
	"github.com/tomtom215/nearbite/internal/logging"
	"github.com/tomtom215/nearbite/internal/store"
)

// Builder computes taste profiles from an interaction reader.
type Builder struct {
	reader store.InteractionReader
	logger zerolog.Logger
}

// NewBuilder creates a Builder reading from reader.
func NewBuilder(reader store.InteractionReader) *Builder {
	return &Builder{
		reader: reader,
		logger: logging.WithComponent("profile"),
	}
}

// BuildProfile returns the taste profile of the user bound to ctx.
//
// Errors:
//   - auth.ErrNotAuthenticated: no user is bound
//   - store.ErrStoreUnavailable: the history could not be read
//   - geo.ErrDimensionMismatch: stored embeddings disagree in length
//
// A user with no embedded interactions has no profile: nil, nil.
func (b *Builder) BuildProfile(ctx context.Context) ([]float32, error) {
	userID, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return b.BuildProfileFor(ctx, userID)
}

// BuildProfileFor returns the taste profile of userID.
func (b *Builder) BuildProfileFor(ctx context.Context, userID string) ([]float32, error) {
	history, err := b.reader.ListInteractions(ctx, &store.FindInteraction{UserID: &userID})
	if err != nil {
		return nil, store.Unavailable("list_interactions", err)
	}

	vec, used, err := WeightedMean(history)
	if err != nil {
		b.logger.Warn().Err(err).Str("user_id", userID).Msg("Inconsistent embedding dimensions in history")
		return nil, err
	}
	b.logger.Debug().Str("user_id", userID).Int("interactions", len(history)).
		Int("embedded", used).Msg("Built taste profile")
	return vec, nil
}

// WeightedMean averages the embeddings of interactions, weighting each by
// its interaction type. Interactions without an embedding are skipped. The
// second result is the number of interactions used. Sums are accumulated in
// float64.
func WeightedMean(interactions []*store.Interaction) ([]float32, int, error) {
	var (
		sum    []float64
		total  float64
		used   int
		length int
	)
	for _, in := range interactions {
		if in == nil || len(in.Embedding) == 0 {
			continue
		}
		if sum == nil {
			length = len(in.Embedding)
			sum = make([]float64, length)
		} else if len(in.Embedding) != length {
			return nil, 0, fmt.Errorf("%w: interaction %s has %d dimensions, expected %d",
				geo.ErrDimensionMismatch, in.ID, len(in.Embedding), length)
		}

		w := in.InteractionType.Weight()
		for i, v := range in.Embedding {
			sum[i] += w * float64(v)
		}
		total += w
		used++
	}
	if used == 0 {
		return nil, 0, nil
	}

	out := make([]float32, length)
	for i, v := range sum {
		out[i] = float32(v / total)
	}
	return out, used, nil
}
