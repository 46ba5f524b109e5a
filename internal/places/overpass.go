// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package places

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/nearbite/internal/geo"
	"github.com/tomtom215/nearbite/internal/logging"
	"github.com/tomtom215/nearbite/internal/metrics"
)

// DefaultEndpoint is the public Overpass interpreter.
const DefaultEndpoint = "https://overpass-api.de/api/interpreter"

// maxErrorBodySize limits how much of an error response is read for diagnostics.
const maxErrorBodySize = 4 * 1024

// OverpassConfig configures the Overpass client.
type OverpassConfig struct {
	Endpoint  string
	Timeout   time.Duration
	UserAgent string
}

// OverpassClient queries an Overpass interpreter for food amenities.
type OverpassClient struct {
	endpoint  string
	userAgent string
	timeout   time.Duration
	client    *http.Client
}

// NewOverpassClient creates a client. Zero values fall back to the public
// endpoint and a 10 second timeout.
func NewOverpassClient(cfg OverpassConfig) *OverpassClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &OverpassClient{
		endpoint:  cfg.Endpoint,
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Lat  *float64          `json:"lat"`
	Lon  *float64          `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// FetchNearby implements Fetcher.
func (c *OverpassClient) FetchNearby(ctx context.Context, loc geo.Location, radiusMeters int, category Category) ([]Place, error) {
	places, dropped, err := c.fetch(ctx, loc, radiusMeters, category)
	metrics.RecordGeodataFetch(len(places), dropped, err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Float64("lat", loc.Lat).Float64("lon", loc.Lon).Int("radius_m", radiusMeters).
			Msg("Overpass fetch failed")
		return nil, err
	}
	return places, nil
}

func (c *OverpassClient) fetch(ctx context.Context, loc geo.Location, radiusMeters int, category Category) ([]Place, int, error) {
	if !category.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown category %q", ErrFetchFailed, category)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	form := url.Values{}
	form.Set("data", BuildQuery(loc, radiusMeters, category))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: create request: %w", ErrFetchFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, 0, fmt.Errorf("%w: status %d: %s", ErrFetchFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, 0, fmt.Errorf("%w: decode response: %w", ErrFetchFailed, err)
	}

	places, dropped := convertElements(decoded.Elements)
	return places, dropped, nil
}

// BuildQuery renders the Overpass QL for a radius search around loc.
func BuildQuery(loc geo.Location, radiusMeters int, category Category) string {
	var selector string
	if category == CategoryAll {
		names := make([]string, len(AllCategories))
		for i, c := range AllCategories {
			names[i] = string(c)
		}
		selector = fmt.Sprintf(`["amenity"~"%s"]`, strings.Join(names, "|"))
	} else {
		selector = fmt.Sprintf(`["amenity"="%s"]`, category)
	}

	return fmt.Sprintf("[out:json];(node%s(around:%d,%s,%s););out;",
		selector,
		radiusMeters,
		strconv.FormatFloat(loc.Lat, 'f', -1, 64),
		strconv.FormatFloat(loc.Lon, 'f', -1, 64),
	)
}

type elementKey struct {
	kind string
	id   int64
}

// convertElements maps raw elements to places in response order. Elements
// without coordinates are dropped and counted; a repeated element keeps its
// first occurrence.
func convertElements(elements []overpassElement) ([]Place, int) {
	places := make([]Place, 0, len(elements))
	seen := make(map[elementKey]struct{}, len(elements))
	dropped := 0

	for _, el := range elements {
		if el.Lat == nil || el.Lon == nil {
			dropped++
			continue
		}
		key := elementKey{kind: el.Type, id: el.ID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		name := el.Tags["name"]
		if name == "" {
			name = "Unnamed"
		}

		var address string
		if street := el.Tags["addr:street"]; street != "" {
			address = strings.TrimSpace(el.Tags["addr:housenumber"] + " " + street)
		}

		places = append(places, Place{
			ID:       strconv.FormatInt(el.ID, 10),
			Name:     name,
			Lat:      *el.Lat,
			Lon:      *el.Lon,
			Cuisine:  el.Tags["cuisine"],
			Address:  address,
			Town:     el.Tags["addr:city"],
			Website:  el.Tags["website"],
			Category: el.Tags["amenity"],
		})
	}

	return places, dropped
}
