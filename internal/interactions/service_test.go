// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package interactions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/nearbite/internal/auth"
	"github.com/tomtom215/nearbite/internal/embedding"
	"github.com/tomtom215/nearbite/internal/store"
)

// memRepo is an in-memory Repository with the ordering of the real drivers.
type memRepo struct {
	mu        sync.Mutex
	rows      []*store.Interaction
	failWrite error
	failRead  error
	seq       int
}

func (m *memRepo) CreateInteraction(_ context.Context, in *store.Interaction) (*store.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite != nil {
		return nil, m.failWrite
	}
	m.seq++
	cp := *in
	cp.InteractionDate = time.Date(2026, 1, 1, 0, 0, m.seq, 0, time.UTC)
	m.rows = append(m.rows, &cp)
	return &cp, nil
}

func (m *memRepo) ListInteractions(_ context.Context, find *store.FindInteraction) ([]*store.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead != nil {
		return nil, m.failRead
	}
	var out []*store.Interaction
	for _, r := range m.rows {
		if find.UserID != nil && r.UserID != *find.UserID {
			continue
		}
		if find.Type != nil && r.InteractionType != *find.Type {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].InteractionDate.After(out[j].InteractionDate) })
	if find.Limit != nil && len(out) > *find.Limit {
		out = out[:*find.Limit]
	}
	return out, nil
}

func (m *memRepo) PageInteractions(ctx context.Context, find *store.FindInteraction, page, pageSize int) (*store.Page, error) {
	all, err := m.ListInteractions(ctx, &store.FindInteraction{UserID: find.UserID, Type: find.Type})
	if err != nil {
		return nil, err
	}
	start := min(store.Offset(page, pageSize), len(all))
	end := min(start+pageSize, len(all))
	return store.NewPage(all[start:end], len(all), page, pageSize), nil
}

func (m *memRepo) FindFavorite(_ context.Context, userID, name, address string) (*store.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead != nil {
		return nil, m.failRead
	}
	for _, r := range m.rows {
		if r.UserID == userID && r.RestaurantName == name && r.RestaurantAddress == address &&
			r.InteractionType == store.InteractionFavorite {
			return r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memRepo) DeleteInteraction(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memRepo) InteractionStats(_ context.Context, userID string) (*store.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := &store.Stats{}
	seen := map[[2]string]bool{}
	for _, r := range m.rows {
		if r.UserID != userID {
			continue
		}
		switch r.InteractionType {
		case store.InteractionClick:
			st.TotalClicks++
		case store.InteractionView:
			st.TotalViews++
		case store.InteractionFavorite:
			st.TotalFavorites++
		}
		seen[[2]string{r.RestaurantName, r.RestaurantAddress}] = true
	}
	st.UniqueRestaurants = len(seen)
	return st, nil
}

func (m *memRepo) ListMissingEmbeddings(_ context.Context, after *store.EmbeddingCursor, limit int) ([]*store.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead != nil {
		return nil, m.failRead
	}
	var out []*store.Interaction
	for _, r := range m.rows {
		if len(r.Embedding) != 0 || len(out) >= limit {
			continue
		}
		if after != nil && !r.InteractionDate.After(after.Date) &&
			!(r.InteractionDate.Equal(after.Date) && r.ID > after.ID) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memRepo) UpdateEmbedding(_ context.Context, id string, vec []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			r.Embedding = vec
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

var errProviderDown = fmt.Errorf("%w: 503", embedding.ErrEmbeddingUnavailable)

func okEmbedder() embedding.Embedder {
	return embedding.EmbedderFunc(func(_ context.Context, text string) ([]float32, error) {
		return []float32{float32(len(text)), 1}, nil
	})
}

func downEmbedder() embedding.Embedder {
	return embedding.EmbedderFunc(func(context.Context, string) ([]float32, error) {
		return nil, errProviderDown
	})
}

func userCtx(id string) context.Context {
	return auth.WithUser(context.Background(), id)
}

func TestRecord(t *testing.T) {
	t.Parallel()

	t.Run("embeds at write time", func(t *testing.T) {
		t.Parallel()
		repo := &memRepo{}
		svc := NewService(repo, okEmbedder(), DefaultConfig())

		in, err := svc.Record(userCtx("u1"), "Test Restaurant", "1 Main St", "italian", store.InteractionClick)
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if in.UserID != "u1" || in.ID == "" {
			t.Errorf("Record() = %+v", in)
		}
		want := float32(len(embedding.PlaceText("Test Restaurant", "italian")))
		if len(in.Embedding) != 2 || in.Embedding[0] != want {
			t.Errorf("Embedding = %v, want [%v 1]", in.Embedding, want)
		}
	})

	t.Run("embedder failure still writes", func(t *testing.T) {
		t.Parallel()
		repo := &memRepo{}
		svc := NewService(repo, downEmbedder(), DefaultConfig())

		in, err := svc.Record(userCtx("u1"), "Cafe", "", "", store.InteractionView)
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if in.Embedding != nil {
			t.Errorf("Embedding = %v, want nil", in.Embedding)
		}
		if repo.count() != 1 {
			t.Errorf("stored %d rows, want 1", repo.count())
		}
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name    string
			ctx     context.Context
			rName   string
			kind    store.InteractionType
			repo    *memRepo
			wantErr error
		}{
			{"no user", context.Background(), "X", store.InteractionClick, &memRepo{}, auth.ErrNotAuthenticated},
			{"no name or address", userCtx("u"), "  ", store.InteractionClick, &memRepo{}, store.ErrInvalidInteraction},
			{"bad kind", userCtx("u"), "X", "like", &memRepo{}, store.ErrInvalidInteraction},
			{
				"store down", userCtx("u"), "X", store.InteractionClick,
				&memRepo{failWrite: store.Unavailable("create_interaction", errors.New("disk full"))},
				store.ErrStoreUnavailable,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				svc := NewService(tt.repo, okEmbedder(), DefaultConfig())
				if _, err := svc.Record(tt.ctx, tt.rName, "", "", tt.kind); !errors.Is(err, tt.wantErr) {
					t.Errorf("Record() err = %v, want %v", err, tt.wantErr)
				}
			})
		}
	})
}

func TestToggleFavorite(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	svc := NewService(repo, okEmbedder(), DefaultConfig())
	ctx := userCtx("u1")

	on, err := svc.ToggleFavorite(ctx, "Luigi's", "5 Elm St", "italian")
	if err != nil || !on {
		t.Fatalf("first toggle = %v, %v; want true, nil", on, err)
	}
	favs, _ := svc.Favorites(ctx)
	if len(favs) != 1 || favs[0].InteractionType != store.InteractionFavorite {
		t.Fatalf("Favorites() = %+v", favs)
	}

	off, err := svc.ToggleFavorite(ctx, "Luigi's", "5 Elm St", "italian")
	if err != nil || off {
		t.Fatalf("second toggle = %v, %v; want false, nil", off, err)
	}
	if favs, _ := svc.Favorites(ctx); len(favs) != 0 {
		t.Errorf("Favorites() after untoggle = %+v", favs)
	}

	// another user's favorite is independent
	if on, _ := svc.ToggleFavorite(userCtx("u2"), "Luigi's", "5 Elm St", ""); !on {
		t.Error("toggle for second user = false, want true")
	}

	if _, err := svc.ToggleFavorite(context.Background(), "x", "", ""); !errors.Is(err, auth.ErrNotAuthenticated) {
		t.Errorf("unauthenticated toggle err = %v", err)
	}
}

func TestReadHelpers(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	svc := NewService(repo, okEmbedder(), DefaultConfig())
	ctx := userCtx("u1")

	for i := range 12 {
		if _, err := svc.Record(ctx, fmt.Sprintf("click-%02d", i), "", "", store.InteractionClick); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.Record(ctx, "viewed", "", "", store.InteractionView); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Record(userCtx("other"), "theirs", "", "", store.InteractionClick); err != nil {
		t.Fatal(err)
	}

	all, err := svc.List(ctx)
	if err != nil || len(all) != 13 {
		t.Fatalf("List() = %d rows, %v; want 13", len(all), err)
	}

	recent, _ := svc.Recent(ctx, 0)
	if len(recent) != DefaultRecentLimit {
		t.Errorf("Recent(0) = %d rows, want %d", len(recent), DefaultRecentLimit)
	}
	if recent[0].RestaurantName != "click-11" {
		t.Errorf("Recent()[0] = %s, want newest click", recent[0].RestaurantName)
	}

	views, _ := svc.ListByType(ctx, store.InteractionView)
	if len(views) != 1 {
		t.Errorf("ListByType(view) = %d rows, want 1", len(views))
	}
	if _, err := svc.ListByType(ctx, "poke"); !errors.Is(err, store.ErrInvalidInteraction) {
		t.Errorf("ListByType(poke) err = %v", err)
	}

	favs, err := svc.Favorites(ctx)
	if err != nil || favs == nil || len(favs) != 0 {
		t.Errorf("Favorites() = %v, %v; want empty list", favs, err)
	}

	page, err := svc.PagedRecent(ctx, 3, 0)
	if err != nil {
		t.Fatalf("PagedRecent() error = %v", err)
	}
	if page.TotalCount != 12 || page.TotalPages != 3 || len(page.Data) != 2 || page.HasNextPage || !page.HasPrevPage {
		t.Errorf("PagedRecent(3) = %+v", page)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalClicks != 12 || stats.TotalViews != 1 || stats.UniqueRestaurants != 13 {
		t.Errorf("Stats() = %+v", stats)
	}

	if _, err := svc.List(context.Background()); !errors.Is(err, auth.ErrNotAuthenticated) {
		t.Errorf("List() without user err = %v", err)
	}
}

func TestPageBounds(t *testing.T) {
	t.Parallel()

	svc := NewService(&memRepo{}, nil, Config{DefaultPageSize: 5, MaxPageSize: 20})
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{1, 5, 1, 5},
		{0, 0, 1, 5},
		{-2, -1, 1, 5},
		{4, 100, 4, 20},
	}
	for _, tt := range tests {
		p, s := svc.PageBounds(tt.page, tt.size)
		if p != tt.wantPage || s != tt.wantSize {
			t.Errorf("PageBounds(%d, %d) = %d, %d; want %d, %d", tt.page, tt.size, p, s, tt.wantPage, tt.wantSize)
		}
	}

	def := NewService(&memRepo{}, nil, Config{})
	if _, s := def.PageBounds(1, 0); s != DefaultConfig().DefaultPageSize {
		t.Errorf("zero config page size = %d", s)
	}
}

func TestBackfill(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	writer := NewService(repo, downEmbedder(), DefaultConfig())
	ctx := userCtx("u1")
	for i := range 5 {
		if _, err := writer.Record(ctx, fmt.Sprintf("r%d", i), "", "", store.InteractionClick); err != nil {
			t.Fatal(err)
		}
	}

	failing := NewService(repo, downEmbedder(), DefaultConfig())
	res, err := failing.Backfill(context.Background(), 10)
	if err != nil {
		t.Fatalf("Backfill() error = %v", err)
	}
	if res.Scanned != 5 || res.Updated != 0 || res.Failed != 5 {
		t.Errorf("failing Backfill() = %+v", res)
	}

	svc := NewService(repo, okEmbedder(), DefaultConfig())
	res, err = svc.Backfill(context.Background(), 3)
	if err != nil {
		t.Fatalf("Backfill() error = %v", err)
	}
	if res != (BackfillResult{Scanned: 3, Updated: 3}) {
		t.Errorf("first pass = %+v", res)
	}
	res, _ = svc.Backfill(context.Background(), 3)
	if res != (BackfillResult{Scanned: 2, Updated: 2}) {
		t.Errorf("second pass = %+v", res)
	}
	res, _ = svc.Backfill(context.Background(), 3)
	if res.Scanned != 0 {
		t.Errorf("third pass = %+v, want nothing left", res)
	}
}

func TestBackfill_Errors(t *testing.T) {
	t.Parallel()

	readErr := store.Unavailable("list_missing_embeddings", errors.New("locked"))
	svc := NewService(&memRepo{failRead: readErr}, okEmbedder(), DefaultConfig())
	if _, err := svc.Backfill(context.Background(), 10); !errors.Is(err, store.ErrStoreUnavailable) {
		t.Errorf("Backfill() err = %v, want ErrStoreUnavailable", err)
	}

	noEmbedder := NewService(&memRepo{}, nil, DefaultConfig())
	if _, err := noEmbedder.Backfill(context.Background(), 10); !errors.Is(err, embedding.ErrEmbeddingUnavailable) {
		t.Errorf("Backfill() without embedder err = %v", err)
	}
}

func TestBackfillAll(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T, repo *memRepo, n int) {
		t.Helper()
		writer := NewService(repo, downEmbedder(), DefaultConfig())
		for i := range n {
			if _, err := writer.Record(userCtx("u1"), fmt.Sprintf("r%d", i), "", "", store.InteractionView); err != nil {
				t.Fatal(err)
			}
		}
	}

	tests := []struct {
		name       string
		rows       int
		embedderOK bool
		maxPasses  int
		wantPasses int
		want       BackfillResult
	}{
		{name: "drains all rows", rows: 7, embedderOK: true, maxPasses: 0, wantPasses: 4,
			want: BackfillResult{Scanned: 7, Updated: 7}},
		{name: "stops at max passes", rows: 7, embedderOK: true, maxPasses: 2, wantPasses: 2,
			want: BackfillResult{Scanned: 4, Updated: 4}},
		{name: "failing rows are visited once", rows: 3, embedderOK: false, maxPasses: 0, wantPasses: 2,
			want: BackfillResult{Scanned: 3, Failed: 3}},
		{name: "nothing to do", rows: 0, embedderOK: true, maxPasses: 5, wantPasses: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := &memRepo{}
			seed(t, repo, tt.rows)

			emb := downEmbedder()
			if tt.embedderOK {
				emb = okEmbedder()
			}
			svc := NewService(repo, emb, DefaultConfig())

			got, passes, err := svc.BackfillAll(context.Background(), 2, tt.maxPasses)
			if err != nil {
				t.Fatalf("BackfillAll() error = %v", err)
			}
			if passes != tt.wantPasses {
				t.Errorf("passes = %d, want %d", passes, tt.wantPasses)
			}
			if got != tt.want {
				t.Errorf("result = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// Rows that keep failing at the head of the queue must not stop the rows
// behind them from being embedded.
func TestBackfillAll_FailingRowsAhead(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	writer := NewService(repo, downEmbedder(), DefaultConfig())
	for _, name := range []string{"bad0", "bad1", "good2", "good3", "good4"} {
		if _, err := writer.Record(userCtx("u1"), name, "", "", store.InteractionClick); err != nil {
			t.Fatal(err)
		}
	}

	selective := embedding.EmbedderFunc(func(_ context.Context, text string) ([]float32, error) {
		if strings.HasPrefix(text, "bad") {
			return nil, errProviderDown
		}
		return []float32{1, 0}, nil
	})
	svc := NewService(repo, selective, DefaultConfig())

	got, passes, err := svc.BackfillAll(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("BackfillAll() error = %v", err)
	}
	if want := (BackfillResult{Scanned: 5, Updated: 3, Failed: 2}); got != want {
		t.Errorf("result = %+v, want %+v", got, want)
	}
	if passes != 3 {
		t.Errorf("passes = %d, want 3", passes)
	}

	left, err := repo.ListMissingEmbeddings(context.Background(), nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 2 || left[0].RestaurantName != "bad0" || left[1].RestaurantName != "bad1" {
		t.Errorf("still missing = %d rows, want only bad0 and bad1", len(left))
	}
}
