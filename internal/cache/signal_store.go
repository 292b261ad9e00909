// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package cache

import (
	"context"

	"github.com/undervaluedfilms/filmrank/internal/models"
	"github.com/undervaluedfilms/filmrank/internal/stores"
)

// SignalStore wraps a stores.SignalStore with aggregate caching. Only
// GetAggregate is cached: the per-viewer membership lists and existence
// checks change with every mutation of that viewer and are cheap point
// queries, so they always hit the backing store.
type SignalStore struct {
	backing stores.SignalStore
	cache   *AggregateCache
}

var _ stores.SignalStore = (*SignalStore)(nil)

// NewSignalStore wraps backing with the given aggregate cache.
func NewSignalStore(backing stores.SignalStore, cache *AggregateCache) *SignalStore {
	return &SignalStore{backing: backing, cache: cache}
}

// GetAggregate serves from cache when possible, otherwise reads through and
// populates the cache. Errors are never cached.
func (s *SignalStore) GetAggregate(ctx context.Context, filmID string) (models.SignalAggregate, error) {
	if agg, ok := s.cache.Get(filmID); ok {
		return agg, nil
	}

	agg, err := s.backing.GetAggregate(ctx, filmID)
	if err != nil {
		return models.SignalAggregate{}, err
	}

	s.cache.Set(filmID, agg)
	return agg, nil
}

func (s *SignalStore) ListNotRated(ctx context.Context, userID string) ([]models.Film, error) {
	return s.backing.ListNotRated(ctx, userID)
}

func (s *SignalStore) ListNotMentioned(ctx context.Context, userID string) ([]models.Film, error) {
	return s.backing.ListNotMentioned(ctx, userID)
}

func (s *SignalStore) ListNotHeardBefore(ctx context.Context, userID string) ([]models.Film, error) {
	return s.backing.ListNotHeardBefore(ctx, userID)
}

func (s *SignalStore) HasMentioned(ctx context.Context, userID, filmID string) (bool, error) {
	return s.backing.HasMentioned(ctx, userID, filmID)
}

func (s *SignalStore) HasRated(ctx context.Context, userID, filmID string) (bool, int, error) {
	return s.backing.HasRated(ctx, userID, filmID)
}
