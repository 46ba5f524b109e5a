// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package recommend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/nearbite/internal/embedding"
	"github.com/tomtom215/nearbite/internal/logging"
	"github.com/tomtom215/nearbite/internal/store"
)

// DocumentIndexer writes entries of the semantic search corpus.
type DocumentIndexer interface {
	UpsertDocument(ctx context.Context, doc *store.Document) error
}

// CorpusEntry is one restaurant of a corpus file.
type CorpusEntry struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Cuisine string `json:"cuisine,omitempty"`
}

// IndexResult counts the entries of one indexing run.
type IndexResult struct {
	Indexed int `json:"indexed"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// ReadCorpus decodes a JSON array of corpus entries.
func ReadCorpus(r io.Reader) ([]CorpusEntry, error) {
	var entries []CorpusEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	return entries, nil
}

// IndexCorpus embeds each entry with the place text used for ranking and
// upserts it into the corpus. Entries without a name are skipped. An entry
// that fails to embed or store is counted and the run continues; the error is
// non-nil only when ctx ends or the store is unavailable.
func IndexCorpus(ctx context.Context, idx DocumentIndexer, embedder embedding.Embedder, entries []CorpusEntry) (IndexResult, error) {
	var res IndexResult
	if idx == nil || embedder == nil {
		return res, errors.New("recommend: indexer and embedder are required")
	}
	logger := logging.WithComponent("recommend")

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if strings.TrimSpace(e.Name) == "" {
			res.Skipped++
			continue
		}

		vec, err := embedder.Embed(ctx, embedding.PlaceText(e.Name, e.Cuisine))
		if err != nil {
			res.Failed++
			logger.Warn().Err(err).Str("restaurant", e.Name).Msg("Failed to embed corpus entry")
			continue
		}

		err = idx.UpsertDocument(ctx, &store.Document{
			ID:                e.ID,
			RestaurantName:    e.Name,
			RestaurantAddress: e.Address,
			RestaurantCuisine: e.Cuisine,
			Embedding:         vec,
		})
		if errors.Is(err, store.ErrStoreUnavailable) {
			return res, err
		}
		if err != nil {
			res.Failed++
			logger.Warn().Err(err).Str("restaurant", e.Name).Msg("Failed to store corpus entry")
			continue
		}
		res.Indexed++
	}
	return res, nil
}
