// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package api

// RecommendationsRequest holds the validated query of GET /recommendations.
// Zero Radius and Limit mean the ranker defaults; values above the configured
// maximums are capped by the ranker.
type RecommendationsRequest struct {
	Lat      float64 `json:"lat" validate:"latitude"`
	Lon      float64 `json:"lon" validate:"longitude"`
	Radius   int     `json:"radius" validate:"omitempty,min=1"`
	Limit    int     `json:"limit" validate:"omitempty,min=1"`
	Category string  `json:"category" validate:"omitempty,placecategory"`
}

// SemanticRequest holds the validated query of GET /recommendations/semantic.
type SemanticRequest struct {
	Query     string   `json:"q" validate:"required,notblank,max=1000"`
	Threshold *float64 `json:"threshold" validate:"omitempty,gte=-1,lte=1"`
	Count     int      `json:"count" validate:"omitempty,min=1,max=100"`
}

// ListInteractionsRequest holds the validated query of GET /interactions.
type ListInteractionsRequest struct {
	Type string `json:"type" validate:"omitempty,interaction"`
}

// PageRequest holds paging parameters. Zero values mean the defaults.
type PageRequest struct {
	Page     int `json:"page" validate:"omitempty,min=1"`
	PageSize int `json:"page_size" validate:"omitempty,min=1"`
}
