// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/nearbite/internal/logging"
)

const badgerKeyPrefix = "emb:"

// BadgerVectorCache persists vectors in BadgerDB with a TTL per entry.
// Read and write failures are logged and treated as misses.
type BadgerVectorCache struct {
	db    *badger.DB
	ttl   time.Duration
	owned bool
}

// OpenBadgerVectorCache opens (or creates) a BadgerDB at path.
func OpenBadgerVectorCache(path string, ttl time.Duration) (*BadgerVectorCache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for embedding cache: %w", err)
	}
	c := NewBadgerVectorCacheFromDB(db, ttl)
	c.owned = true
	return c, nil
}

// NewBadgerVectorCacheFromDB uses an already open database. Close does not
// close a database it did not open.
func NewBadgerVectorCacheFromDB(db *badger.DB, ttl time.Duration) *BadgerVectorCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &BadgerVectorCache{db: db, ttl: ttl}
}

// Get returns the cached vector for key.
func (b *BadgerVectorCache) Get(key string) ([]float32, bool) {
	var vec []float32
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &vec)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Warn().Err(err).Msg("embedding cache read failed")
		}
		return nil, false
	}
	return vec, len(vec) > 0
}

// Set stores vec under key with the configured TTL.
func (b *BadgerVectorCache) Set(key string, vec []float32) {
	data, err := json.Marshal(vec)
	if err != nil {
		logging.Warn().Err(err).Msg("embedding cache encode failed")
		return
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(badgerKeyPrefix+key), data).WithTTL(b.ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		logging.Warn().Err(err).Msg("embedding cache write failed")
	}
}

// Backend returns "badger".
func (b *BadgerVectorCache) Backend() string { return "badger" }

// Close closes the database if this cache opened it.
func (b *BadgerVectorCache) Close() error {
	if b.owned {
		return b.db.Close()
	}
	return nil
}
