// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

/*
Package recommend ranks nearby places against a user's taste profile.

# Ranking

GetRecommendations fetches places around a location and scores each one by
the cosine similarity between its embedding and the caller's profile:

	ranker, err := recommend.NewRanker(fetcher, embedder, builder, store, recommend.DefaultConfig())
	if err != nil {
		return err
	}
	results := ranker.GetRecommendations(ctx, geo.Location{Lat: 40.7128, Lon: -74.0060},
		recommend.WithLimit(10),
		recommend.WithCategory(places.CategoryRestaurant),
	)

Places are embedded concurrently, bounded by Config.MaxConcurrency. A place
whose embedding fails is kept with score 0. Results are ordered by score;
places whose scores differ by less than Config.TieEpsilon are ordered by
distance.

A user without a profile gets the nearest places first, all scored 0.

# Failure Handling

Neither entry point returns an error. A failed profile read, geodata fetch
or query embedding yields an empty list, logged and counted in the
recommendation metrics.

# Semantic Search

GetSemanticRecommendations embeds free text and returns the closest
documents of the semantic corpus above a similarity threshold.
*/
package recommend
