// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package cache

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/velorank/internal/config"
)

// Backend names selectable through CACHE_TYPE.
const (
	TypeMemory = "memory"
	TypeBadger = "badger"
	TypeNone   = "none"
)

// Store is a namespaced byte cache. Keys live under a namespace so a
// whole class of entries can be dropped at once without touching the
// rest; the API keeps its responses under the "api" namespace and the
// engine clears it after every run that changed derived rows.
type Store interface {
	Get(namespace, key string) ([]byte, bool)
	Set(namespace, key string, value []byte)
	ClearNamespace(namespace string)
	Clear()
	Stats() Stats
	Close() error
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	TotalKeys int64
}

// HitRate returns the hit percentage, 0 when nothing was asked yet.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits) / float64(total) * 100.0
}

// New builds the Store selected by cfg.Type. The empty type maps to
// the in-process memory backend.
func New(cfg config.CacheConfig) (Store, error) {
	switch cfg.Type {
	case "", TypeMemory:
		return NewMemory(cfg.TTL), nil
	case TypeBadger:
		return NewBadger(cfg.Path, cfg.TTL)
	case TypeNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}

// namespaceSep joins namespace and key. NUL never appears in either, so
// prefix scans cannot cross namespaces.
const namespaceSep = "\x00"

func namespacedKey(namespace, key string) string {
	return namespace + namespaceSep + key
}

func namespacePrefix(namespace string) string {
	return namespace + namespaceSep
}

func inNamespace(full, namespace string) bool {
	return strings.HasPrefix(full, namespacePrefix(namespace))
}

// GenerateKey derives a compact cache key from a method name and its
// parameters. Identical parameters always produce the same key; the
// JSON round trip keeps ordering stable for structs.
func GenerateKey(method string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}

// counters aggregates hit/miss/eviction tallies shared by the backends.
type counters struct {
	mu        sync.Mutex
	hits      int64
	misses    int64
	evictions int64
}

func (c *counters) hit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

func (c *counters) miss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}

func (c *counters) evict(n int64) {
	c.mu.Lock()
	c.evictions += n
	c.mu.Unlock()
}

func (c *counters) snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Evictions: c.evictions}
}

// None is the disabled backend: every lookup misses and writes vanish.
type None struct{}

func (None) Get(string, string) ([]byte, bool) { return nil, false }
func (None) Set(string, string, []byte)        {}
func (None) ClearNamespace(string)             {}
func (None) Clear()                            {}
func (None) Stats() Stats                      { return Stats{} }
func (None) Close() error                      { return nil }

// cleanupInterval is how often the memory backend sweeps expired
// entries that were never read again.
const cleanupInterval = 5 * time.Minute
