// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package ranking

import (
	"context"
	"errors"
	"testing"

	"github.com/undervaluedfilms/filmrank/internal/models"
)

func newTestSession(films []models.Film, signals *fakeSignalStore) (*Session, *fakeCatalog) {
	catalog := &fakeCatalog{films: films}
	return NewSession(catalog, NewBuilder(signals, DefaultBuilderConfig())), catalog
}

func TestSessionCurrentBeforeRefresh(t *testing.T) {
	s, _ := newTestSession(nil, &fakeSignalStore{})

	if _, _, err := s.Current(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Current before any refresh returned %v, want ErrNotLoaded", err)
	}
}

func TestSessionRefreshAppliesSnapshot(t *testing.T) {
	signals := &fakeSignalStore{
		aggregates: map[string]models.SignalAggregate{
			"a": {NotHeardCount: 1, HeardNotRated: 9},
			"b": {NotHeardCount: 9, HeardNotRated: 1},
		},
	}
	s, _ := newTestSession(testFilms("a", "b"), signals)

	ranked, gen, err := s.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if gen != 1 {
		t.Errorf("first refresh generation = %d, want 1", gen)
	}
	if want := []string{"b", "a"}; !equalIDs(rankedIDs(ranked), want) {
		t.Errorf("ranked order = %v, want %v", rankedIDs(ranked), want)
	}

	current, curGen, err := s.Current()
	if err != nil {
		t.Fatalf("Current failed after refresh: %v", err)
	}
	if curGen != gen {
		t.Errorf("Current generation = %d, want %d", curGen, gen)
	}
	if !equalIDs(rankedIDs(current), rankedIDs(ranked)) {
		t.Errorf("Current snapshot differs from Refresh result")
	}
}

func TestSessionDiscardsStaleGeneration(t *testing.T) {
	signals := &fakeSignalStore{
		aggregates: map[string]models.SignalAggregate{
			"a": {NotHeardCount: 2},
		},
	}
	s, catalog := newTestSession(testFilms("a"), signals)

	if _, _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("initial refresh failed: %v", err)
	}
	_, baseGen, err := s.Current()
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}

	// A newer refresh is requested while this one is mid-build: the
	// completed result must be discarded, not applied over the newer one.
	superseded := false
	catalog.onList = func() {
		if !superseded {
			superseded = true
			s.Invalidate()
		}
	}

	if _, _, err := s.Refresh(context.Background()); !errors.Is(err, ErrStaleGeneration) {
		t.Fatalf("superseded refresh returned %v, want ErrStaleGeneration", err)
	}

	// The applied snapshot is still the last successful one.
	_, curGen, err := s.Current()
	if err != nil {
		t.Fatalf("Current failed after stale refresh: %v", err)
	}
	if curGen != baseGen {
		t.Errorf("applied generation = %d, want unchanged %d", curGen, baseGen)
	}
}

func TestSessionRefreshAfterInvalidate(t *testing.T) {
	signals := &fakeSignalStore{
		aggregates: map[string]models.SignalAggregate{
			"a": {NotHeardCount: 2},
		},
	}
	s, _ := newTestSession(testFilms("a"), signals)

	if _, _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("initial refresh failed: %v", err)
	}

	s.Invalidate()

	ranked, gen, err := s.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh after invalidate failed: %v", err)
	}
	if gen != 3 {
		t.Errorf("generation after refresh, invalidate, refresh = %d, want 3", gen)
	}
	if len(ranked) != 1 {
		t.Errorf("ranked length = %d, want 1", len(ranked))
	}
}

func TestSessionRefreshCatalogError(t *testing.T) {
	listErr := errors.New("catalog unavailable")
	catalog := &fakeCatalog{err: listErr}
	s := NewSession(catalog, NewBuilder(&fakeSignalStore{}, DefaultBuilderConfig()))

	if _, _, err := s.Refresh(context.Background()); !errors.Is(err, listErr) {
		t.Errorf("Refresh returned %v, want the catalog error", err)
	}

	// A failed refresh leaves the session unloaded.
	if _, _, err := s.Current(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Current after failed refresh returned %v, want ErrNotLoaded", err)
	}
}
