// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package interactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/nearbite/internal/embedding"
	"github.com/tomtom215/nearbite/internal/metrics"
	"github.com/tomtom215/nearbite/internal/store"
)

// DefaultBackfillBatch is the batch size used when none is given.
const DefaultBackfillBatch = 100

// BackfillResult counts the rows of one backfill pass.
type BackfillResult struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// Backfill embeds up to batchSize interactions stored without a vector,
// oldest first. A row that fails to embed or update is counted and skipped.
// The error is non-nil only when the batch could not be read or ctx ended.
func (s *Service) Backfill(ctx context.Context, batchSize int) (BackfillResult, error) {
	res, _, err := s.backfillBatch(ctx, nil, batchSize)
	return res, err
}

// backfillBatch runs one pass over the rows after the cursor and returns the
// cursor of the last row it read, or after when the batch was empty.
func (s *Service) backfillBatch(ctx context.Context, after *store.EmbeddingCursor, batchSize int) (BackfillResult, *store.EmbeddingCursor, error) {
	var res BackfillResult
	if s.embedder == nil {
		return res, after, fmt.Errorf("%w: no embedder configured", embedding.ErrEmbeddingUnavailable)
	}
	if batchSize < 1 {
		batchSize = DefaultBackfillBatch
	}

	rows, err := s.repo.ListMissingEmbeddings(ctx, after, batchSize)
	if err != nil {
		return res, after, err
	}
	res.Scanned = len(rows)
	next := after
	if len(rows) > 0 {
		next = store.CursorAfter(rows[len(rows)-1])
	}

	defer func() {
		metrics.RecordBackfill(res.Updated, res.Failed)
	}()

	for _, in := range rows {
		if err := ctx.Err(); err != nil {
			return res, next, err
		}

		vec, err := s.embedder.Embed(ctx, embedding.PlaceText(in.RestaurantName, in.RestaurantCuisine))
		if err != nil {
			s.logger.Warn().Err(err).Str("interaction_id", in.ID).Msg("Backfill embedding failed")
			res.Failed++
			continue
		}
		if err := s.repo.UpdateEmbedding(ctx, in.ID, vec); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				s.logger.Warn().Err(err).Str("interaction_id", in.ID).Msg("Backfill update failed")
			}
			res.Failed++
			continue
		}
		res.Updated++
	}

	s.logger.Info().Int("scanned", res.Scanned).Int("updated", res.Updated).Int("failed", res.Failed).
		Msg("Backfill pass complete")
	return res, next, nil
}

// BackfillAll walks every row missing an embedding once, batchSize rows per
// pass. Each pass resumes after the last row the previous one read, so rows
// that keep failing do not hide the rows behind them. It stops on a short
// batch or after maxPasses passes (maxPasses < 1 means no limit), and returns
// the sum of all passes and the number of passes run.
func (s *Service) BackfillAll(ctx context.Context, batchSize, maxPasses int) (BackfillResult, int, error) {
	if batchSize < 1 {
		batchSize = DefaultBackfillBatch
	}
	var (
		total  BackfillResult
		cursor *store.EmbeddingCursor
	)
	passes := 0
	for maxPasses < 1 || passes < maxPasses {
		res, next, err := s.backfillBatch(ctx, cursor, batchSize)
		passes++
		total.Scanned += res.Scanned
		total.Updated += res.Updated
		total.Failed += res.Failed
		if err != nil {
			return total, passes, err
		}
		if res.Scanned < batchSize {
			break
		}
		cursor = next
	}
	return total, passes, nil
}
