// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/nearbite/internal/geo"
)

const sampleResponse = `{
  "version": 0.6,
  "elements": [
    {"type": "node", "id": 101, "lat": 40.7130, "lon": -74.0062,
     "tags": {"amenity": "restaurant", "name": "Joe's Pizza", "cuisine": "pizza",
              "addr:housenumber": "7", "addr:street": "Carmine Street", "addr:city": "New York",
              "website": "https://joespizza.example"}},
    {"type": "node", "id": 102, "lat": 40.7140, "lon": -74.0070,
     "tags": {"amenity": "cafe"}},
    {"type": "node", "id": 103, "lat": 40.7150, "lon": -74.0080,
     "tags": {"amenity": "bar", "name": "Corner", "addr:street": "Bleecker Street"}},
    {"type": "way", "id": 104,
     "tags": {"amenity": "restaurant", "name": "No Coordinates"}}
  ]
}`

var nyc = geo.Location{Lat: 40.7128, Lon: -74.0060}

func TestBuildQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		category Category
		want     string
	}{
		{
			name:     "all categories",
			category: CategoryAll,
			want:     `[out:json];(node["amenity"~"restaurant|cafe|fast_food|bar|pub"](around:2000,40.7128,-74.006););out;`,
		},
		{
			name:     "single category",
			category: CategoryCafe,
			want:     `[out:json];(node["amenity"="cafe"](around:2000,40.7128,-74.006););out;`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := BuildQuery(nyc, 2000, tt.category); got != tt.want {
				t.Errorf("BuildQuery() = %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestOverpassClient_FetchNearby(t *testing.T) {
	t.Parallel()

	var gotQuery, gotMethod, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotUA = r.Header.Get("User-Agent")
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		gotQuery = r.PostForm.Get("data")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	client := NewOverpassClient(OverpassConfig{Endpoint: server.URL, UserAgent: "nearbite-test"})
	places, err := client.FetchNearby(context.Background(), nyc, 1500, CategoryAll)
	if err != nil {
		t.Fatalf("FetchNearby() error = %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotUA != "nearbite-test" {
		t.Errorf("User-Agent = %q, want nearbite-test", gotUA)
	}
	if !strings.Contains(gotQuery, "around:1500,40.7128,-74.006") {
		t.Errorf("query = %q, want radius and coordinates", gotQuery)
	}

	if len(places) != 3 {
		t.Fatalf("len(places) = %d, want 3 (element without coordinates dropped)", len(places))
	}

	joe := places[0]
	if joe.ID != "101" || joe.Name != "Joe's Pizza" || joe.Cuisine != "pizza" {
		t.Errorf("first place = %+v", joe)
	}
	if joe.Address != "7 Carmine Street" {
		t.Errorf("Address = %q, want '7 Carmine Street'", joe.Address)
	}
	if joe.Town != "New York" || joe.Website != "https://joespizza.example" {
		t.Errorf("Town/Website = %q/%q", joe.Town, joe.Website)
	}

	if places[1].Name != "Unnamed" {
		t.Errorf("nameless place Name = %q, want Unnamed", places[1].Name)
	}
	if places[1].Address != "" {
		t.Errorf("Address = %q, want empty without street", places[1].Address)
	}
	if places[2].Address != "Bleecker Street" {
		t.Errorf("Address = %q, want trimmed street only", places[2].Address)
	}
}

func TestOverpassClient_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "too busy", http.StatusTooManyRequests)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"elements": [`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewOverpassClient(OverpassConfig{Endpoint: server.URL})
			places, err := client.FetchNearby(context.Background(), nyc, 2000, CategoryAll)
			if !errors.Is(err, ErrFetchFailed) {
				t.Fatalf("err = %v, want ErrFetchFailed", err)
			}
			if places != nil {
				t.Errorf("places = %v, want nil", places)
			}
		})
	}
}

func TestOverpassClient_Timeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewOverpassClient(OverpassConfig{Endpoint: server.URL, Timeout: 50 * time.Millisecond})
	_, err := client.FetchNearby(context.Background(), nyc, 2000, CategoryAll)
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("err = %v, want ErrFetchFailed", err)
	}
}

func TestOverpassClient_UnreachableAndBadCategory(t *testing.T) {
	t.Parallel()

	client := NewOverpassClient(OverpassConfig{Endpoint: "http://127.0.0.1:1", Timeout: time.Second})
	if _, err := client.FetchNearby(context.Background(), nyc, 2000, CategoryAll); !errors.Is(err, ErrFetchFailed) {
		t.Errorf("unreachable: err = %v, want ErrFetchFailed", err)
	}
	if _, err := client.FetchNearby(context.Background(), nyc, 2000, Category("nightclub")); !errors.Is(err, ErrFetchFailed) {
		t.Errorf("bad category: err = %v, want ErrFetchFailed", err)
	}
}

func TestCategory_Valid(t *testing.T) {
	t.Parallel()

	for _, c := range append([]Category{CategoryAll}, AllCategories...) {
		if !c.Valid() {
			t.Errorf("%q.Valid() = false", c)
		}
	}
	if Category("hotel").Valid() {
		t.Error(`"hotel".Valid() = true`)
	}
}

func TestConvertElements_Duplicates(t *testing.T) {
	t.Parallel()

	lat, lon := 40.7, -74.0
	el := func(kind string, id int64, name string) overpassElement {
		return overpassElement{Type: kind, ID: id, Lat: &lat, Lon: &lon, Tags: map[string]string{"name": name}}
	}

	tests := []struct {
		name      string
		elements  []overpassElement
		wantNames []string
	}{
		{
			name:      "repeated node keeps the first",
			elements:  []overpassElement{el("node", 1, "First"), el("node", 2, "Other"), el("node", 1, "Again")},
			wantNames: []string{"First", "Other"},
		},
		{
			name:      "same id on different element types",
			elements:  []overpassElement{el("node", 7, "Node"), el("way", 7, "Way")},
			wantNames: []string{"Node", "Way"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, dropped := convertElements(tt.elements)
			if dropped != 0 {
				t.Errorf("dropped = %d, want 0", dropped)
			}
			if len(got) != len(tt.wantNames) {
				t.Fatalf("convertElements() = %d places, want %d", len(got), len(tt.wantNames))
			}
			for i, p := range got {
				if p.Name != tt.wantNames[i] {
					t.Errorf("place %d = %q, want %q", i, p.Name, tt.wantNames[i])
				}
			}
		})
	}
}
