// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package storage

import (
	"context"
	"testing"

	"github.com/tomtom215/nearbite/internal/config"
	"github.com/tomtom215/nearbite/internal/database"
)

func TestOpen_DuckDB(t *testing.T) {
	for _, driver := range []string{"", DriverDuckDB} {
		s, err := Open(context.Background(), &config.DatabaseConfig{
			Driver:    driver,
			Path:      ":memory:",
			MaxMemory: "256MB",
			Threads:   2,
		})
		if err != nil {
			t.Fatalf("Open(%q) error = %v", driver, err)
		}
		if _, ok := s.(*database.DB); !ok {
			t.Errorf("Open(%q) returned %T, want *database.DB", driver, s)
		}
		if err := s.Ping(context.Background()); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
		if err := s.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), &config.DatabaseConfig{Driver: "sqlite"}); err == nil {
		t.Error("Open() should reject an unknown driver")
	}
}
