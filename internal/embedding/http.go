// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package embedding

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/nearbite/internal/metrics"
)

const maxErrorBodySize = 4 * 1024

// Request is the edge function request body.
type Request struct {
	Text string `json:"text"`
}

// Response is the edge function response body.
type Response struct {
	Embedding []float32 `json:"embedding,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// HTTPConfig configures HTTPEmbedder.
type HTTPConfig struct {
	Endpoint  string
	AuthToken string // sent as a bearer token when set
	Timeout   time.Duration
}

// HTTPEmbedder posts {"text": ...} and reads {"embedding": [...]}.
type HTTPEmbedder struct {
	endpoint  string
	authToken string
	timeout   time.Duration
	client    *http.Client
}

// NewHTTPEmbedder creates an embedder for an edge function endpoint.
func NewHTTPEmbedder(cfg HTTPConfig) *HTTPEmbedder {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &HTTPEmbedder{
		endpoint:  cfg.Endpoint,
		authToken: cfg.AuthToken,
		timeout:   cfg.Timeout,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Embed implements Embedder.
func (e *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vec, err := e.embed(ctx, text)
	metrics.RecordEmbedding("http", time.Since(start), err)
	return vec, err
}

func (e *HTTPEmbedder) embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	body, err := json.Marshal(Request{Text: text})
	if err != nil {
		return nil, unavailable(fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, unavailable(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if e.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+e.authToken)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, unavailable(fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, unavailable(fmt.Errorf("decode response: %w", err))
	}
	if len(decoded.Embedding) == 0 {
		return nil, unavailable(errEmptyVector)
	}
	return decoded.Embedding, nil
}
