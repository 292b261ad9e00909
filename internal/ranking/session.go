// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package ranking

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/undervaluedfilms/filmrank/internal/metrics"
	"github.com/undervaluedfilms/filmrank/internal/models"
	"github.com/undervaluedfilms/filmrank/internal/stores"
)

// Session owns the ranked catalog state for one viewer session.
//
// Refresh generations: every refresh request takes the next value of a
// monotonically increasing counter. A refresh that completes after a newer
// one has been requested is discarded with ErrStaleGeneration instead of
// being applied out of order - rapid filter toggling must never regress the
// displayed ranking to an older snapshot.
//
// Sessions carry no cross-session shared mutable state; each viewer session
// gets its own Session (the display surface may also share one session-less
// instance for the anonymous catalog page).
type Session struct {
	catalog stores.CatalogStore
	builder *Builder

	requested atomic.Uint64 // latest generation handed out

	mu      sync.RWMutex
	ranked  []models.RankedFilm
	applied uint64 // generation of the ranked snapshot
	loaded  bool
}

// NewSession creates a Session over the catalog store and builder.
func NewSession(catalog stores.CatalogStore, builder *Builder) *Session {
	return &Session{
		catalog: catalog,
		builder: builder,
	}
}

// Refresh rebuilds the ranked catalog and applies the result if it is still
// the latest requested generation. A superseded result is discarded and
// ErrStaleGeneration is returned; the caller should simply use the newer
// snapshot once it lands.
func (s *Session) Refresh(ctx context.Context) ([]models.RankedFilm, uint64, error) {
	gen := s.requested.Add(1)

	films, err := s.catalog.ListFilms(ctx)
	if err != nil {
		return nil, gen, err
	}

	ranked, err := s.builder.Build(ctx, films)
	if err != nil {
		return nil, gen, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.requested.Load() {
		// A newer refresh was requested while this one was in flight.
		metrics.RankingBuildsTotal.WithLabelValues("stale").Inc()
		return nil, gen, ErrStaleGeneration
	}

	s.ranked = ranked
	s.applied = gen
	s.loaded = true
	metrics.RankingGeneration.Set(float64(gen))

	return ranked, gen, nil
}

// Current returns the applied ranked snapshot and its generation.
// Returns ErrNotLoaded before the first successful refresh, which is how
// callers distinguish "no data yet" from a genuinely empty catalog.
func (s *Session) Current() ([]models.RankedFilm, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, 0, ErrNotLoaded
	}
	return s.ranked, s.applied, nil
}

// Generation returns the latest requested refresh generation.
func (s *Session) Generation() uint64 {
	return s.requested.Load()
}

// Invalidate marks the current snapshot as superseded without building a
// replacement. The next Refresh call produces the authoritative ranking;
// in-flight builds from older generations will be discarded.
func (s *Session) Invalidate() {
	s.requested.Add(1)
}
