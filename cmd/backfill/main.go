// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

// Command backfill embeds interactions that were stored without a vector and
// optionally indexes a restaurant corpus for semantic search.
//
// It reads the same configuration as the server:
//
//	DB_DRIVER=postgres DATABASE_URL=... OPENAI_API_KEY=... backfill --batch-size 200
//	backfill --corpus restaurants.json
//
// The exit status is non-zero when the store or the embedding provider could
// not be used at all.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/nearbite/internal/config"
	"github.com/tomtom215/nearbite/internal/embedding"
	"github.com/tomtom215/nearbite/internal/interactions"
	"github.com/tomtom215/nearbite/internal/logging"
	"github.com/tomtom215/nearbite/internal/recommend"
	"github.com/tomtom215/nearbite/internal/storage"
)

type options struct {
	batchSize  int
	maxPasses  int
	corpusPath string
	skipRows   bool
}

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "backfill",
		Short:         "Embed interactions stored without a vector",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logging.Init(logging.Config{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Caller: cfg.Logging.Caller,
			})
			applyDefaults(opts, cmd, cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := run(ctx, cfg, opts); err != nil {
				logging.Error().Err(err).Msg("Backfill failed")
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 0, "rows per pass (default backfill.batch_size)")
	cmd.Flags().IntVar(&opts.maxPasses, "max-passes", 0, "maximum passes, 0 for no limit (default backfill.max_passes)")
	cmd.Flags().StringVar(&opts.corpusPath, "corpus", "", "JSON array of {name, address, cuisine} to index for semantic search")
	cmd.Flags().BoolVar(&opts.skipRows, "skip-interactions", false, "only index the corpus")
	return cmd
}

// applyDefaults fills flags the caller did not set from configuration.
func applyDefaults(opts *options, cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("batch-size") {
		opts.batchSize = cfg.Backfill.BatchSize
	}
	if !cmd.Flags().Changed("max-passes") {
		opts.maxPasses = cfg.Backfill.MaxPasses
	}
}

func run(ctx context.Context, cfg *config.Config, opts *options) error {
	db, err := storage.Open(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("open interaction store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing interaction store")
		}
	}()

	embedder, err := embedding.New(&cfg.Embedding)
	if err != nil {
		return fmt.Errorf("configure embedding provider: %w", err)
	}
	defer func() {
		if err := embedder.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing embedding cache")
		}
	}()

	if !opts.skipRows {
		svc := interactions.NewService(db, embedder, interactions.Config{
			DefaultPageSize: cfg.API.DefaultPageSize,
			MaxPageSize:     cfg.API.MaxPageSize,
		})
		res, passes, err := svc.BackfillAll(ctx, opts.batchSize, opts.maxPasses)
		logging.Info().
			Int("passes", passes).
			Int("scanned", res.Scanned).
			Int("updated", res.Updated).
			Int("failed", res.Failed).
			Msg("Interaction backfill finished")
		if err != nil {
			return fmt.Errorf("backfill interactions: %w", err)
		}
	}

	if opts.corpusPath != "" {
		if err := indexCorpus(ctx, db, embedder, opts.corpusPath); err != nil {
			return err
		}
	}
	return nil
}

func indexCorpus(ctx context.Context, idx recommend.DocumentIndexer, embedder embedding.Embedder, path string) error {
	f, err := os.Open(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return fmt.Errorf("open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := recommend.ReadCorpus(f)
	if err != nil {
		return err
	}
	res, err := recommend.IndexCorpus(ctx, idx, embedder, entries)
	logging.Info().
		Str("path", path).
		Int("indexed", res.Indexed).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("Corpus indexing finished")
	if err != nil {
		return fmt.Errorf("index corpus: %w", err)
	}
	return nil
}
