// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

// Package cache stores text embedding vectors keyed by their source text.
//
// Two backends are provided: an in-memory LRU with TTL and a BadgerDB store
// that survives restarts. Only deterministic text to vector results belong
// here; per-user taste profiles are never cached.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// VectorCache is the contract shared by the memory and badger backends.
type VectorCache interface {
	Get(key string) ([]float32, bool)
	Set(key string, vec []float32)
	Backend() string
	Close() error
}

// Key derives a fixed-size cache key from the embedding model and input text.
func Key(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// MemoryVectorCache is a VectorCache backed by LRUCache.
type MemoryVectorCache struct {
	lru *LRUCache[[]float32]
}

// NewMemoryVectorCache creates an in-memory vector cache.
func NewMemoryVectorCache(capacity int, ttl time.Duration) *MemoryVectorCache {
	return &MemoryVectorCache{lru: NewLRUCache[[]float32](capacity, ttl)}
}

// Get returns a copy of the cached vector.
func (m *MemoryVectorCache) Get(key string) ([]float32, bool) {
	vec, ok := m.lru.Get(key)
	if !ok {
		return nil, false
	}
	return append([]float32(nil), vec...), true
}

// Set stores a copy of vec.
func (m *MemoryVectorCache) Set(key string, vec []float32) {
	m.lru.Add(key, append([]float32(nil), vec...))
}

// Backend returns "memory".
func (m *MemoryVectorCache) Backend() string { return "memory" }

// Close is a no-op.
func (m *MemoryVectorCache) Close() error { return nil }

// Len returns the number of cached vectors.
func (m *MemoryVectorCache) Len() int { return m.lru.Len() }
