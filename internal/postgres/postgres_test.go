// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/tomtom215/nearbite/internal/config"
	"github.com/tomtom215/nearbite/internal/store"
)

func TestBuildWhere(t *testing.T) {
	t.Parallel()

	user := "u1"
	kind := store.InteractionFavorite

	tests := []struct {
		name     string
		find     *store.FindInteraction
		wantSQL  string
		wantArgs int
	}{
		{"nil", nil, "1 = 1", 0},
		{"user", &store.FindInteraction{UserID: &user}, "1 = 1 AND user_id = $1", 1},
		{"user and type", &store.FindInteraction{UserID: &user, Type: &kind}, "1 = 1 AND user_id = $1 AND interaction_type = $2", 2},
		{"type only", &store.FindInteraction{Type: &kind}, "1 = 1 AND interaction_type = $1", 1},
	}
	for _, tt := range tests {
		where, args := buildWhere(tt.find)
		if got := strings.Join(where, " AND "); got != tt.wantSQL {
			t.Errorf("%s: where = %q, want %q", tt.name, got, tt.wantSQL)
		}
		if len(args) != tt.wantArgs {
			t.Errorf("%s: args = %v, want %d", tt.name, args, tt.wantArgs)
		}
	}
}

func TestSchemaUsesConfiguredDimensions(t *testing.T) {
	t.Parallel()

	stmts := strings.Join(schema(768), "\n")
	if strings.Count(stmts, "vector(768)") != 2 {
		t.Errorf("schema should size both embedding columns to 768:\n%s", stmts)
	}
	if !strings.Contains(stmts, "1 - (d.embedding <=> query_embedding)") {
		t.Error("match_documents must return cosine similarity")
	}
}

func TestNew_RequiresDSN(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), &config.DatabaseConfig{EmbeddingDimensions: 3}); err == nil {
		t.Error("New() without dsn should fail")
	}
	if _, err := New(context.Background(), &config.DatabaseConfig{DSN: "postgres://localhost/x"}); err == nil {
		t.Error("New() without dimensions should fail")
	}
}

func TestNullableVector(t *testing.T) {
	t.Parallel()

	if nullableVector(nil) != nil {
		t.Error("nullableVector(nil) should bind NULL")
	}
	if nullableVector([]float32{1}) == nil {
		t.Error("nullableVector should bind a vector")
	}
}
