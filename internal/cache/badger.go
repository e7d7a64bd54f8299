// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package cache

import (
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/metrics"
)

// Badger is the persistent backend. Entries carry a Badger TTL so the
// store self-prunes; a warm cache survives restarts, which matters
// because the first recalculation pass after boot can take minutes.
type Badger struct {
	db    *badger.DB
	ttl   time.Duration
	stats counters
}

// NewBadger opens (or creates) the Badger store at path.
func NewBadger(path string, ttl time.Duration) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	// Cached API responses are small; the default 1GB value log would
	// waste the volume.
	opts.ValueLogFileSize = 16 << 20

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache at %s: %w", path, err)
	}
	logging.Debug().Str("path", path).Dur("ttl", ttl).Msg("Badger cache opened")
	return &Badger{db: db, ttl: ttl}, nil
}

// Get returns the cached value. Badger expires entries itself, so a
// lapsed TTL surfaces as a plain miss.
func (b *Badger) Get(namespace, key string) ([]byte, bool) {
	full := []byte(namespacedKey(namespace, key))

	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(full)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Warn().Err(err).Str("namespace", namespace).Msg("Badger cache read failed")
		}
		b.stats.miss()
		metrics.CacheMisses.WithLabelValues(TypeBadger).Inc()
		return nil, false
	}

	b.stats.hit()
	metrics.CacheHits.WithLabelValues(TypeBadger).Inc()
	return value, true
}

// Set stores value with the default TTL. Write failures are logged and
// swallowed; a cache that cannot write only costs recomputation.
func (b *Badger) Set(namespace, key string, value []byte) {
	full := []byte(namespacedKey(namespace, key))
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(full, value).WithTTL(b.ttl))
	})
	if err != nil {
		logging.Warn().Err(err).Str("namespace", namespace).Msg("Badger cache write failed")
	}
}

// ClearNamespace drops every entry under the namespace.
func (b *Badger) ClearNamespace(namespace string) {
	if err := b.db.DropPrefix([]byte(namespacePrefix(namespace))); err != nil {
		logging.Warn().Err(err).Str("namespace", namespace).Msg("Badger namespace drop failed")
		return
	}
	metrics.CacheEvictions.WithLabelValues(TypeBadger).Inc()
}

// Clear drops everything.
func (b *Badger) Clear() {
	if err := b.db.DropAll(); err != nil {
		logging.Warn().Err(err).Msg("Badger cache clear failed")
		return
	}
	metrics.CacheEvictions.WithLabelValues(TypeBadger).Inc()
	metrics.CacheSize.WithLabelValues(TypeBadger).Set(0)
}

// Stats returns the in-process counters plus a live key count.
func (b *Badger) Stats() Stats {
	s := b.stats.snapshot()
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			s.TotalKeys++
		}
		return nil
	})
	if err != nil {
		logging.Warn().Err(err).Msg("Badger cache key count failed")
	}
	return s
}

// Close flushes and closes the store.
func (b *Badger) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger cache: %w", err)
	}
	return nil
}
