// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

// Package testinfra provides container infrastructure for integration tests.
//
// It uses testcontainers-go to start a PostgreSQL server with the pgvector
// extension, so the PostgreSQL store driver is exercised against the same
// database engine it runs on in production:
//
//	func TestStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg.Container)
//
//	    db, err := postgres.New(ctx, &config.DatabaseConfig{DSN: pg.DSN, EmbeddingDimensions: 3})
//	    // ...
//	}
//
// # CI Considerations
//
// These tests require Docker and network access and are compiled only with
// the integration build tag. They are skipped when Docker is unavailable.
// The first run downloads the container image.
package testinfra
