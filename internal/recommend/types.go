// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package recommend

import (
	"context"

	"github.com/tomtom215/nearbite/internal/places"
)

// RecommendedPlace is a nearby place with its ranking inputs. Both fields are
// always set: a place that could not be scored has similarity 0.
type RecommendedPlace struct {
	places.Place
	SimilarityScore float64 `json:"similarity_score"`
	DistanceKm      float64 `json:"distance_km"`
}

// ProfileSource yields the taste profile of the user bound to ctx. A nil
// vector with a nil error means the user has no profile.
type ProfileSource interface {
	BuildProfile(ctx context.Context) ([]float32, error)
}

// ProfileFunc adapts a function to ProfileSource.
type ProfileFunc func(ctx context.Context) ([]float32, error)

// BuildProfile implements ProfileSource.
func (f ProfileFunc) BuildProfile(ctx context.Context) ([]float32, error) {
	return f(ctx)
}

type options struct {
	maxDistanceMeters int
	limit             int
	category          places.Category
}

// Option adjusts one GetRecommendations call.
type Option func(*options)

// WithMaxDistance sets the search radius in meters. Non-positive values keep
// the default; values above the configured maximum are capped.
func WithMaxDistance(meters int) Option {
	return func(o *options) {
		if meters > 0 {
			o.maxDistanceMeters = meters
		}
	}
}

// WithLimit sets the maximum number of results.
func WithLimit(limit int) Option {
	return func(o *options) {
		if limit > 0 {
			o.limit = limit
		}
	}
}

// WithCategory restricts the search to one place category.
func WithCategory(c places.Category) Option {
	return func(o *options) {
		o.category = c
	}
}

type semanticOptions struct {
	threshold float64
	count     int
}

// SemanticOption adjusts one GetSemanticRecommendations call.
type SemanticOption func(*semanticOptions)

// WithThreshold sets the minimum similarity of a match.
func WithThreshold(threshold float64) SemanticOption {
	return func(o *semanticOptions) {
		o.threshold = threshold
	}
}

// WithCount sets the maximum number of matches.
func WithCount(count int) SemanticOption {
	return func(o *semanticOptions) {
		if count > 0 {
			o.count = count
		}
	}
}
