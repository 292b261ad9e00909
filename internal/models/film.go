// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// Package models defines the core data types shared across Filmrank packages:
// catalog entries, per-film community signals, ranked results, and the
// standardized API response envelope.
package models

import "time"

// Film is a single catalog entry. Identity and display fields are owned by
// the catalog store; the ranking core treats them as read-only input.
//
// UserRating is a transient, request-scoped annotation populated during a
// rating-check flow for the authenticated viewer. It is never persisted on
// the film itself.
type Film struct {
	ID          string `json:"film_id"`
	Title       string `json:"title"`
	ReleaseYear int    `json:"release_year"`
	Description string `json:"description"`
	WatchLink   string `json:"watch_link,omitempty"`
	SubmittedBy string `json:"submitted_by,omitempty"`

	UserRating int `json:"user_rating,omitempty"`
}

// SignalAggregate holds the four community-signal counters for one film,
// recomputed from durable mention/rating state. The core never mutates these
// directly; it only requests recomputation after submitting a mutation.
//
// Invariant: RatingSum is the sum of RatingCount ratings each in [1,10].
type SignalAggregate struct {
	FilmID        string `json:"film_id"`
	NotHeardCount int    `json:"not_heard_before_count"`
	HeardNotRated int    `json:"heard_not_rated_count"`
	RatingCount   int    `json:"rating_count"`
	RatingSum     int    `json:"rating_sum_total"`
}

// RankedFilm pairs a film with its computed undervalued-ness score.
// Ranked slices are produced wholesale per refresh cycle and are immutable
// once built; a new refresh replaces the previous slice entirely.
type RankedFilm struct {
	Film  Film    `json:"film"`
	Score float64 `json:"score"`
}

// ViewFilter restricts the displayed catalog subset to films missing a
// specific personal interaction for the authenticated viewer. The filters
// are mutually exclusive; exactly one is active at a time.
type ViewFilter string

// View filter values. FilterAll is the only filter available to anonymous
// viewers; the remaining filters require a viewer identity.
const (
	FilterAll            ViewFilter = "all"
	FilterNotRated       ViewFilter = "notRated"
	FilterNotMentioned   ViewFilter = "notMentioned"
	FilterNotHeardBefore ViewFilter = "notHeardBefore"
)

// Valid reports whether f is a known view filter value.
func (f ViewFilter) Valid() bool {
	switch f {
	case FilterAll, FilterNotRated, FilterNotMentioned, FilterNotHeardBefore:
		return true
	default:
		return false
	}
}

// RequiresViewer reports whether the filter needs an authenticated viewer.
func (f ViewFilter) RequiresViewer() bool {
	return f != FilterAll
}

// MentionRecord is a user's one-time answer to "had you heard of this film
// before?". Write-once per (user, film); answers are never editable.
type MentionRecord struct {
	UserID         string    `json:"user_id"`
	FilmID         string    `json:"film_id"`
	HadHeardBefore bool      `json:"had_heard_before"`
	CreatedAt      time.Time `json:"created_at"`
}

// RatingRecord is a user's 1-10 rating for a film. One per (user, film);
// unlike mentions, ratings may be overwritten.
type RatingRecord struct {
	UserID    string    `json:"user_id"`
	FilmID    string    `json:"film_id"`
	Rating    int       `json:"rating"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WatchClick records an attributed click-through on a film's watch link.
type WatchClick struct {
	UserID    string    `json:"user_id"`
	FilmID    string    `json:"film_id"`
	ClickedAt time.Time `json:"clicked_at"`
}
