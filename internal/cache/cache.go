// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// Package cache provides a thread-safe in-memory TTL cache for per-film
// signal aggregates.
//
// The cache sits between the ranking builder and the signal store: rebuilds
// triggered by filter changes or search keystrokes reuse recent aggregates,
// while any mutation for a film drops that film's entry so the next build
// reads fresh counters.
package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/undervaluedfilms/filmrank/internal/metrics"
	"github.com/undervaluedfilms/filmrank/internal/models"
)

type entry struct {
	agg       models.SignalAggregate
	expiresAt time.Time
}

// AggregateCache caches signal aggregates keyed by film ID with a fixed TTL.
type AggregateCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration

	stats Stats
}

// Stats tracks cache performance counters.
type Stats struct {
	mu          sync.RWMutex
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// New creates an aggregate cache with the given TTL and starts the
// background cleanup goroutine, which sweeps expired entries every 5
// minutes for the life of the process.
func New(ttl time.Duration) *AggregateCache {
	c := &AggregateCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		stats: Stats{
			LastCleanup: time.Now(),
		},
	}

	go c.cleanupLoop()

	return c
}

// Get returns the cached aggregate for a film. An expired entry is removed
// and reported as a miss.
func (c *AggregateCache) Get(filmID string) (models.SignalAggregate, bool) {
	c.mu.RLock()
	e, exists := c.entries[filmID]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return models.SignalAggregate{}, false
	}

	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, filmID)
		c.mu.Unlock()
		c.recordMiss()
		c.recordEviction()
		return models.SignalAggregate{}, false
	}

	c.recordHit()
	return e.agg, true
}

// Set stores a film's aggregate with the default TTL.
func (c *AggregateCache) Set(filmID string, agg models.SignalAggregate) {
	c.SetWithTTL(filmID, agg, c.ttl)
}

// SetWithTTL stores a film's aggregate with a custom TTL.
func (c *AggregateCache) SetWithTTL(filmID string, agg models.SignalAggregate, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[filmID] = entry{
		agg:       agg,
		expiresAt: time.Now().Add(ttl),
	}

	c.stats.mu.Lock()
	c.stats.TotalKeys = int64(len(c.entries))
	c.stats.mu.Unlock()
}

// Invalidate drops the cached aggregate for one film. Safe to call for a
// film that is not cached.
func (c *AggregateCache) Invalidate(filmID string) {
	c.mu.Lock()
	delete(c.entries, filmID)
	c.mu.Unlock()

	c.recordEviction()
}

// Clear removes every entry, typically after a catalog-wide change such as
// a film submission or rejection.
func (c *AggregateCache) Clear() {
	c.mu.Lock()
	evictions := int64(len(c.entries))
	c.entries = make(map[string]entry)
	c.mu.Unlock()

	c.stats.mu.Lock()
	c.stats.Evictions += evictions
	c.stats.TotalKeys = 0
	c.stats.mu.Unlock()
}

// GetStats returns a snapshot of the cache counters.
func (c *AggregateCache) GetStats() Stats {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()

	return Stats{
		Hits:        c.stats.Hits,
		Misses:      c.stats.Misses,
		Evictions:   c.stats.Evictions,
		TotalKeys:   c.stats.TotalKeys,
		LastCleanup: c.stats.LastCleanup,
	}
}

// HitRate returns the hit rate as a percentage.
func (c *AggregateCache) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

func (c *AggregateCache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *AggregateCache) cleanup() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	evictions := int64(0)
	for filmID, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, filmID)
			evictions++
		}
	}

	c.stats.mu.Lock()
	c.stats.Evictions += evictions
	c.stats.TotalKeys = int64(len(c.entries))
	c.stats.LastCleanup = now
	c.stats.mu.Unlock()
}

func (c *AggregateCache) recordHit() {
	metrics.CacheHits.Inc()
	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()
}

func (c *AggregateCache) recordMiss() {
	metrics.CacheMisses.Inc()
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
}

func (c *AggregateCache) recordEviction() {
	c.stats.mu.Lock()
	c.stats.Evictions++
	c.stats.mu.Unlock()
}

// GenerateKey builds a compact cache key from a method name and parameters,
// used by the API layer for response-level keys.
func GenerateKey(method string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
