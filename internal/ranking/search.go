// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package ranking

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/undervaluedfilms/filmrank/internal/models"
)

// SearchResult is the outcome of a title search over a ranked sequence.
//
// NoMatch is set only when a non-empty query matched nothing, which lets
// callers distinguish "zero results because nothing matched" from "zero
// results because the data has not arrived yet".
type SearchResult struct {
	Films []models.RankedFilm
	// Query is the normalized form of the input query; the display surface
	// echoes it back into the search field ("the room" shows as "The Room").
	Query   string
	NoMatch bool
}

// NormalizeQuery lowercases the query, splits it on whitespace, title-cases
// each token, and rejoins with single spaces. The match itself is
// case-insensitive; the normalized form exists to round-trip into the UI.
func NormalizeQuery(query string) string {
	words := strings.Fields(strings.ToLower(query))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Search keeps the films whose title starts with the query, compared
// case-insensitively. An empty query returns the input unchanged. Order is
// preserved; search never re-sorts.
func Search(ranked []models.RankedFilm, query string) SearchResult {
	normalized := NormalizeQuery(query)
	if normalized == "" {
		return SearchResult{Films: ranked}
	}

	prefix := strings.ToLower(normalized)
	matched := make([]models.RankedFilm, 0, len(ranked))
	for _, rf := range ranked {
		if strings.HasPrefix(strings.ToLower(rf.Film.Title), prefix) {
			matched = append(matched, rf)
		}
	}

	return SearchResult{
		Films:   matched,
		Query:   normalized,
		NoMatch: len(matched) == 0,
	}
}
