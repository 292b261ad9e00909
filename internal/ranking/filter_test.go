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

func rankedFixture(ids ...string) []models.RankedFilm {
	films := testFilms(ids...)
	ranked := make([]models.RankedFilm, len(films))
	for i, f := range films {
		ranked[i] = models.RankedFilm{Film: f, Score: float64(100 - i)}
	}
	return ranked
}

func TestApplyFilterAllIsIdentity(t *testing.T) {
	e := NewEngine(&fakeSignalStore{})
	ranked := rankedFixture("a", "b", "c")

	got, err := e.ApplyFilter(context.Background(), ranked, models.FilterAll, "")
	if err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}
	if !equalIDs(rankedIDs(got), rankedIDs(ranked)) {
		t.Errorf("FilterAll changed the sequence: %v", rankedIDs(got))
	}
}

func TestApplyFilterRequiresViewer(t *testing.T) {
	e := NewEngine(&fakeSignalStore{})
	ranked := rankedFixture("a")

	for _, filter := range []models.ViewFilter{
		models.FilterNotRated,
		models.FilterNotMentioned,
		models.FilterNotHeardBefore,
	} {
		if _, err := e.ApplyFilter(context.Background(), ranked, filter, ""); !errors.Is(err, ErrViewerRequired) {
			t.Errorf("filter %s without viewer returned %v, want ErrViewerRequired", filter, err)
		}
	}
}

func TestApplyFilterPreservesOrder(t *testing.T) {
	// Membership comes back in arbitrary store order; the filtered result
	// must still follow the ranked order, never the membership order.
	signals := &fakeSignalStore{
		notRated: map[string][]models.Film{
			"user-1": {{ID: "d"}, {ID: "b"}},
		},
	}
	e := NewEngine(signals)
	ranked := rankedFixture("a", "b", "c", "d")

	got, err := e.ApplyFilter(context.Background(), ranked, models.FilterNotRated, "user-1")
	if err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}

	want := []string{"b", "d"}
	if !equalIDs(rankedIDs(got), want) {
		t.Errorf("filtered order = %v, want %v", rankedIDs(got), want)
	}
	for i, rf := range got {
		if rf.Score == 0 {
			t.Errorf("filtered film %d lost its score", i)
		}
	}
}

func TestApplyFilterKinds(t *testing.T) {
	signals := &fakeSignalStore{
		notRated:     map[string][]models.Film{"u": {{ID: "a"}}},
		notMentioned: map[string][]models.Film{"u": {{ID: "b"}}},
		notHeard:     map[string][]models.Film{"u": {{ID: "c"}}},
	}
	e := NewEngine(signals)
	ranked := rankedFixture("a", "b", "c")

	tests := []struct {
		filter models.ViewFilter
		want   []string
	}{
		{models.FilterNotRated, []string{"a"}},
		{models.FilterNotMentioned, []string{"b"}},
		{models.FilterNotHeardBefore, []string{"c"}},
	}

	for _, tt := range tests {
		got, err := e.ApplyFilter(context.Background(), ranked, tt.filter, "u")
		if err != nil {
			t.Fatalf("ApplyFilter(%s) failed: %v", tt.filter, err)
		}
		if !equalIDs(rankedIDs(got), tt.want) {
			t.Errorf("ApplyFilter(%s) = %v, want %v", tt.filter, rankedIDs(got), tt.want)
		}
	}
}

func TestApplyFilterEmptyMembership(t *testing.T) {
	signals := &fakeSignalStore{
		notRated: map[string][]models.Film{},
	}
	e := NewEngine(signals)

	got, err := e.ApplyFilter(context.Background(), rankedFixture("a", "b"), models.FilterNotRated, "u")
	if err != nil {
		t.Fatalf("ApplyFilter failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("empty membership produced %d films", len(got))
	}
}

func TestApplyFilterStoreError(t *testing.T) {
	listErr := errors.New("membership query failed")
	e := NewEngine(&fakeSignalStore{listErr: listErr})

	if _, err := e.ApplyFilter(context.Background(), rankedFixture("a"), models.FilterNotRated, "u"); !errors.Is(err, listErr) {
		t.Errorf("ApplyFilter returned %v, want the store error", err)
	}
}
