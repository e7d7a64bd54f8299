// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package cache

import (
	"sync"
	"time"

	"github.com/tomtom215/velorank/internal/metrics"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is the in-process TTL map backend. Expired entries are
// dropped lazily on read and swept periodically by a background
// goroutine that Close stops.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	stats   counters
	stop    chan struct{}
	once    sync.Once
}

// NewMemory returns a running Memory cache with the given entry TTL.
func NewMemory(ttl time.Duration) *Memory {
	m := &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// Get returns the cached value, dropping it when expired.
func (m *Memory) Get(namespace, key string) ([]byte, bool) {
	full := namespacedKey(namespace, key)

	m.mu.RLock()
	entry, exists := m.entries[full]
	m.mu.RUnlock()

	if !exists {
		m.stats.miss()
		metrics.CacheMisses.WithLabelValues(TypeMemory).Inc()
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, full)
		m.mu.Unlock()
		m.stats.miss()
		m.stats.evict(1)
		metrics.CacheMisses.WithLabelValues(TypeMemory).Inc()
		metrics.CacheEvictions.WithLabelValues(TypeMemory).Inc()
		return nil, false
	}

	m.stats.hit()
	metrics.CacheHits.WithLabelValues(TypeMemory).Inc()
	return entry.data, true
}

// Set stores value under the namespace with the default TTL.
func (m *Memory) Set(namespace, key string, value []byte) {
	m.mu.Lock()
	m.entries[namespacedKey(namespace, key)] = memoryEntry{
		data:      value,
		expiresAt: time.Now().Add(m.ttl),
	}
	size := len(m.entries)
	m.mu.Unlock()

	metrics.CacheSize.WithLabelValues(TypeMemory).Set(float64(size))
}

// ClearNamespace drops every entry under the namespace.
func (m *Memory) ClearNamespace(namespace string) {
	m.mu.Lock()
	var evictions int64
	for key := range m.entries {
		if inNamespace(key, namespace) {
			delete(m.entries, key)
			evictions++
		}
	}
	size := len(m.entries)
	m.mu.Unlock()

	m.stats.evict(evictions)
	metrics.CacheEvictions.WithLabelValues(TypeMemory).Add(float64(evictions))
	metrics.CacheSize.WithLabelValues(TypeMemory).Set(float64(size))
}

// Clear drops everything.
func (m *Memory) Clear() {
	m.mu.Lock()
	evictions := int64(len(m.entries))
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()

	m.stats.evict(evictions)
	metrics.CacheEvictions.WithLabelValues(TypeMemory).Add(float64(evictions))
	metrics.CacheSize.WithLabelValues(TypeMemory).Set(0)
}

// Stats returns a snapshot of the counters.
func (m *Memory) Stats() Stats {
	s := m.stats.snapshot()
	m.mu.RLock()
	s.TotalKeys = int64(len(m.entries))
	m.mu.RUnlock()
	return s
}

// Close stops the cleanup goroutine. The map stays readable.
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

// cleanup removes entries whose TTL lapsed without another read.
func (m *Memory) cleanup() {
	now := time.Now()

	m.mu.Lock()
	var evictions int64
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
			evictions++
		}
	}
	size := len(m.entries)
	m.mu.Unlock()

	m.stats.evict(evictions)
	metrics.CacheEvictions.WithLabelValues(TypeMemory).Add(float64(evictions))
	metrics.CacheSize.WithLabelValues(TypeMemory).Set(float64(size))
}
