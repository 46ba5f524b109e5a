// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

// Package places fetches nearby food places from an OpenStreetMap Overpass endpoint.
package places

import (
	"context"
	"errors"

	"github.com/tomtom215/nearbite/internal/geo"
)

// ErrFetchFailed is wrapped by every error a Fetcher returns.
var ErrFetchFailed = errors.New("places: fetch failed")

// Category is an OSM amenity value.
type Category string

const (
	CategoryAll        Category = ""
	CategoryRestaurant Category = "restaurant"
	CategoryCafe       Category = "cafe"
	CategoryFastFood   Category = "fast_food"
	CategoryBar        Category = "bar"
	CategoryPub        Category = "pub"
)

// AllCategories lists the amenities queried when no category is given.
var AllCategories = []Category{
	CategoryRestaurant,
	CategoryCafe,
	CategoryFastFood,
	CategoryBar,
	CategoryPub,
}

// Valid reports whether c is empty or a known amenity.
func (c Category) Valid() bool {
	if c == CategoryAll {
		return true
	}
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Place is a nearby point of interest as returned by the geodata source.
type Place struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Cuisine  string  `json:"cuisine,omitempty"`
	Address  string  `json:"address,omitempty"`
	Town     string  `json:"town,omitempty"`
	Website  string  `json:"website,omitempty"`
	Category string  `json:"category,omitempty"`
}

// Location returns the coordinates of the place.
func (p Place) Location() geo.Location {
	return geo.Location{Lat: p.Lat, Lon: p.Lon}
}

// Fetcher returns places within radiusMeters of loc.
type Fetcher interface {
	FetchNearby(ctx context.Context, loc geo.Location, radiusMeters int, category Category) ([]Place, error)
}
