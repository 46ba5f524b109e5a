// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/nearbite/internal/auth"
	"github.com/tomtom215/nearbite/internal/embedding"
	"github.com/tomtom215/nearbite/internal/geo"
	"github.com/tomtom215/nearbite/internal/logging"
	"github.com/tomtom215/nearbite/internal/metrics"
	"github.com/tomtom215/nearbite/internal/places"
	"github.com/tomtom215/nearbite/internal/store"
)

// Ranker produces ranked nearby places and semantic matches. It is safe for
// concurrent use.
type Ranker struct {
	fetcher  places.Fetcher
	embedder embedding.Embedder
	profiles ProfileSource
	matcher  store.DocumentMatcher
	config   *Config
	logger   zerolog.Logger
}

// NewRanker creates a Ranker. matcher may be nil, in which case semantic
// search always returns no matches.
func NewRanker(fetcher places.Fetcher, embedder embedding.Embedder, profiles ProfileSource,
	matcher store.DocumentMatcher, cfg *Config) (*Ranker, error) {
	if fetcher == nil || embedder == nil || profiles == nil {
		return nil, errors.New("recommend: fetcher, embedder and profile source are required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Ranker{
		fetcher:  fetcher,
		embedder: embedder,
		profiles: profiles,
		matcher:  matcher,
		config:   cfg.Clone(),
		logger:   logging.WithComponent("recommend"),
	}, nil
}

// Config returns a copy of the ranker configuration.
func (r *Ranker) Config() *Config {
	return r.config.Clone()
}

// GetRecommendations returns places near loc ranked for the user bound to
// ctx. It never fails: any error that prevents ranking yields an empty list.
//
// Without a taste profile, places are ordered by distance and scored 0. With
// one, each place is embedded and scored by cosine similarity; a place whose
// embedding fails keeps score 0 and stays in the batch.
func (r *Ranker) GetRecommendations(ctx context.Context, loc geo.Location, opts ...Option) (result []RecommendedPlace) {
	start := time.Now()
	mode, outcome := "distance", "failed"
	log := r.logger.With().Str("request_id", logging.RequestIDFromContext(ctx)).Logger()

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("Recovered from panic while ranking places")
			result, outcome = []RecommendedPlace{}, "failed"
		}
		metrics.RecordRecommendation(mode, outcome, time.Since(start))
	}()

	o := options{
		maxDistanceMeters: r.config.DefaultMaxDistanceMeters,
		limit:             r.config.DefaultLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.maxDistanceMeters = min(o.maxDistanceMeters, r.config.MaxDistanceMeters)
	o.limit = min(o.limit, r.config.MaxLimit)

	if !loc.Valid() || !o.category.Valid() {
		log.Warn().Float64("lat", loc.Lat).Float64("lon", loc.Lon).Str("category", string(o.category)).
			Msg("Rejected recommendation request")
		return []RecommendedPlace{}
	}

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	profile, err := r.profiles.BuildProfile(ctx)
	if err != nil {
		if isFatalProfileError(err) {
			log.Warn().Err(err).Msg("Cannot build taste profile, returning no recommendations")
			return []RecommendedPlace{}
		}
		log.Warn().Err(err).Msg("Taste profile unavailable, ranking by distance")
		profile = nil
	}

	nearby, err := r.fetcher.FetchNearby(ctx, loc, o.maxDistanceMeters, o.category)
	if err != nil {
		log.Warn().Err(err).Msg("Nearby place fetch failed, returning no recommendations")
		return []RecommendedPlace{}
	}

	ranked := make([]RecommendedPlace, len(nearby))
	for i, p := range nearby {
		ranked[i] = RecommendedPlace{
			Place:      p,
			DistanceKm: geo.HaversineKm(loc.Lat, loc.Lon, p.Lat, p.Lon),
		}
	}

	if profile == nil {
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].DistanceKm < ranked[j].DistanceKm
		})
		result = truncate(ranked, o.limit)
		outcome = outcomeFor(result, 0)
		return result
	}

	mode = "personalized"
	failed := r.scorePlaces(ctx, profile, ranked)
	SortByScore(ranked, r.config.TieEpsilon)
	result = truncate(ranked, o.limit)
	outcome = outcomeFor(result, failed)
	log.Debug().Int("places", len(nearby)).Int("failed", failed).Int("returned", len(result)).
		Msg("Ranked places against taste profile")
	return result
}

// scorePlaces embeds every place with bounded concurrency and writes each
// score to the slot of its place. It returns the number of places left at
// the neutral score.
func (r *Ranker) scorePlaces(ctx context.Context, profile []float32, ranked []RecommendedPlace) int {
	failures := make([]bool, len(ranked))

	// Workers never return an error so one failure cannot cancel the others.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.MaxConcurrency)
	for i := range ranked {
		g.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					r.logger.Error().Interface("panic", rec).Str("place", ranked[i].Name).
						Msg("Recovered from panic while scoring place")
					ranked[i].SimilarityScore = 0
					failures[i] = true
				}
			}()

			score, err := r.scorePlace(gctx, profile, ranked[i].Place)
			if err != nil {
				r.logger.Debug().Err(err).Str("place", ranked[i].Name).Msg("Place scored with neutral default")
				failures[i] = true
				return nil
			}
			ranked[i].SimilarityScore = score
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, f := range failures {
		if f {
			failed++
		}
	}
	if failed > 0 {
		metrics.RecommendationItemFailures.Add(float64(failed))
	}
	return failed
}

func (r *Ranker) scorePlace(ctx context.Context, profile []float32, p places.Place) (float64, error) {
	vec, err := r.embedder.Embed(ctx, embedding.PlaceText(p.Name, p.Cuisine))
	if err != nil {
		return 0, err
	}
	score, err := geo.CosineSimilarity(profile, vec)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("non-finite similarity for %q", p.Name)
	}
	return score, nil
}

// SortByScore orders places by score, highest first. Scores closer than
// epsilon are ordered by distance, nearest first. The sort is stable, so
// places that compare equal keep their fetch order.
func SortByScore(ranked []RecommendedPlace, epsilon float64) {
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if math.Abs(a.SimilarityScore-b.SimilarityScore) < epsilon {
			return a.DistanceKm < b.DistanceKm
		}
		return a.SimilarityScore > b.SimilarityScore
	})
}

// GetSemanticRecommendations embeds query and returns the most similar
// documents of the semantic corpus. Any failure yields an empty list.
func (r *Ranker) GetSemanticRecommendations(ctx context.Context, query string, opts ...SemanticOption) (result []*store.SemanticMatch) {
	start := time.Now()
	outcome := "failed"
	log := r.logger.With().Str("request_id", logging.RequestIDFromContext(ctx)).Logger()

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("Recovered from panic in semantic search")
			result, outcome = []*store.SemanticMatch{}, "failed"
		}
		metrics.RecordRecommendation("semantic", outcome, time.Since(start))
	}()

	o := semanticOptions{threshold: r.config.MatchThreshold, count: r.config.MatchCount}
	for _, opt := range opts {
		opt(&o)
	}
	if r.matcher == nil {
		return []*store.SemanticMatch{}
	}

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		log.Warn().Err(err).Msg("Query embedding failed, returning no matches")
		return []*store.SemanticMatch{}
	}
	matches, err := r.matcher.MatchDocuments(ctx, vec, o.threshold, o.count)
	if err != nil {
		log.Warn().Err(err).Msg("Semantic search failed, returning no matches")
		return []*store.SemanticMatch{}
	}
	if matches == nil {
		matches = []*store.SemanticMatch{}
	}
	if len(matches) > o.count {
		matches = matches[:o.count]
	}
	outcome = "success"
	if len(matches) == 0 {
		outcome = "empty"
	}
	return matches
}

// isFatalProfileError reports whether a profile error must end the call
// instead of degrading to distance ranking.
func isFatalProfileError(err error) bool {
	return errors.Is(err, store.ErrStoreUnavailable) ||
		errors.Is(err, geo.ErrDimensionMismatch) ||
		errors.Is(err, auth.ErrNotAuthenticated)
}

func truncate(ranked []RecommendedPlace, limit int) []RecommendedPlace {
	if len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}

func outcomeFor(result []RecommendedPlace, failed int) string {
	switch {
	case len(result) == 0:
		return "empty"
	case failed > 0:
		return "degraded"
	default:
		return "success"
	}
}
