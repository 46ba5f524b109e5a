// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

// Package embedding turns text into vectors through a remote provider.
//
// Providers (OpenAI and the {text}->{embedding} edge function shape) are
// composed with optional decorators:
//
//	cache -> rate limiter -> circuit breaker -> provider
//
// Every failure, including cancellation and rejection by a decorator, wraps
// ErrEmbeddingUnavailable. There are no retries.
package embedding

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmbeddingUnavailable is wrapped by every error an Embedder returns.
var ErrEmbeddingUnavailable = errors.New("embedding: unavailable")

// Embedder converts text to a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbedderFunc adapts a function to Embedder.
type EmbedderFunc func(ctx context.Context, text string) ([]float32, error)

// Embed calls f.
func (f EmbedderFunc) Embed(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}

// PlaceText is the text embedded for a place and for a recorded interaction.
func PlaceText(name, cuisine string) string {
	if cuisine == "" {
		return name
	}
	return name + " serving " + cuisine + " food"
}

// unavailable wraps err with ErrEmbeddingUnavailable unless it already is.
func unavailable(err error) error {
	if err == nil || errors.Is(err, ErrEmbeddingUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
}

var errEmptyVector = errors.New("provider returned an empty embedding")
