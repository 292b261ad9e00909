// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package ranking

import (
	"testing"

	"github.com/undervaluedfilms/filmrank/internal/models"
)

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"the room", "The Room"},
		{"THE ROOM", "The Room"},
		{"  the   room  ", "The Room"},
		{"primer", "Primer"},
		{"", ""},
		{"   ", ""},
		{"2001: a space odyssey", "2001: A Space Odyssey"},
	}

	for _, tt := range tests {
		if got := NormalizeQuery(tt.in); got != tt.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func searchFixture() []models.RankedFilm {
	titles := []string{"The Room", "The Fall", "Primer", "Room The"}
	ranked := make([]models.RankedFilm, len(titles))
	for i, title := range titles {
		ranked[i] = models.RankedFilm{
			Film:  models.Film{ID: title, Title: title},
			Score: float64(100 - i),
		}
	}
	return ranked
}

func TestSearchPrefixMatch(t *testing.T) {
	res := Search(searchFixture(), "the room")

	if res.Query != "The Room" {
		t.Errorf("normalized query = %q, want %q", res.Query, "The Room")
	}
	if res.NoMatch {
		t.Error("NoMatch set despite a matching title")
	}
	// Prefix only: "Room The" contains the words but does not start with
	// the query, so it stays out.
	if want := []string{"The Room"}; !equalIDs(rankedIDs(res.Films), want) {
		t.Errorf("search results = %v, want %v", rankedIDs(res.Films), want)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	res := Search(searchFixture(), "tHe")

	want := []string{"The Room", "The Fall"}
	if !equalIDs(rankedIDs(res.Films), want) {
		t.Errorf("search results = %v, want %v in ranked order", rankedIDs(res.Films), want)
	}
}

func TestSearchEmptyQueryIsIdentity(t *testing.T) {
	ranked := searchFixture()

	for _, q := range []string{"", "   "} {
		res := Search(ranked, q)
		if res.NoMatch {
			t.Errorf("Search(%q) set NoMatch on the identity result", q)
		}
		if !equalIDs(rankedIDs(res.Films), rankedIDs(ranked)) {
			t.Errorf("Search(%q) changed the sequence: %v", q, rankedIDs(res.Films))
		}
	}
}

func TestSearchNoMatch(t *testing.T) {
	res := Search(searchFixture(), "zardoz")

	if !res.NoMatch {
		t.Error("NoMatch not set for a query matching nothing")
	}
	if len(res.Films) != 0 {
		t.Errorf("no-match search returned %d films", len(res.Films))
	}
	if res.Query != "Zardoz" {
		t.Errorf("normalized query = %q, want %q", res.Query, "Zardoz")
	}
}

func TestSearchNeverReorders(t *testing.T) {
	ranked := searchFixture()
	res := Search(ranked, "t")

	prev := -1.0
	for i, rf := range res.Films {
		if prev >= 0 && rf.Score > prev {
			t.Errorf("result %d out of ranked order", i)
		}
		prev = rf.Score
	}
}
