// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// Package stores defines the narrow interfaces the ranking core uses to reach
// the catalog, the per-film community signals, and the mutation sink.
//
// The core never talks to persistence directly; it calls these interfaces so
// the backing implementation (DuckDB in production, in-memory fakes in tests)
// stays swappable. All methods take a context and are safe for concurrent use.
package stores

import (
	"context"

	"github.com/undervaluedfilms/filmrank/internal/models"
)

// CatalogStore provides read and submission access to the film catalog.
type CatalogStore interface {
	// ListFilms returns every film in the catalog in insertion order.
	// The returned order is the tie-break order for equal ranking scores.
	ListFilms(ctx context.Context) ([]models.Film, error)

	// GetFilm looks a film up by title and release year.
	// Returns ErrFilmNotFound when no such film exists.
	GetFilm(ctx context.Context, title string, year int) (models.Film, error)

	// CheckFilm reports whether a film with this title and year is listed.
	CheckFilm(ctx context.Context, title string, year int) (bool, error)

	// AddFilm adds a new submission to the catalog.
	// Returns ErrFilmExists when (title, year) is already listed.
	AddFilm(ctx context.Context, film models.Film) (models.Film, error)

	// RejectFilm removes a submission by title and year.
	// Returns ErrFilmNotFound when no such film exists.
	RejectFilm(ctx context.Context, title string, year int) error
}

// SignalStore provides aggregate and per-viewer signal reads.
type SignalStore interface {
	// GetAggregate returns the four signal counters for one film,
	// recomputed from durable mention and rating state.
	GetAggregate(ctx context.Context, filmID string) (models.SignalAggregate, error)

	// ListNotRated returns the films the user has not rated.
	ListNotRated(ctx context.Context, userID string) ([]models.Film, error)

	// ListNotMentioned returns the films the user has not answered the
	// mention question for.
	ListNotMentioned(ctx context.Context, userID string) ([]models.Film, error)

	// ListNotHeardBefore returns the films the user answered "had not
	// heard of before".
	ListNotHeardBefore(ctx context.Context, userID string) ([]models.Film, error)

	// HasMentioned reports whether a mention record exists for the pair.
	// An absent record is (false, nil), not an error.
	HasMentioned(ctx context.Context, userID, filmID string) (bool, error)

	// HasRated reports whether a rating record exists for the pair, and
	// its previous value when it does.
	HasRated(ctx context.Context, userID, filmID string) (bool, int, error)
}

// MutationSink accepts new awareness answers and new or updated ratings.
// The one-record-per-user-per-film invariant is enforced atomically here
// (a uniqueness constraint in the backing store), never by caller pre-checks.
type MutationSink interface {
	// RecordMention stores a write-once mention answer.
	// Returns ErrAlreadyAnswered if one exists for (userID, filmID);
	// the stored answer is never overwritten.
	RecordMention(ctx context.Context, userID, filmID string, hadHeardBefore bool) error

	// RecordRating stores or overwrites the user's rating for a film.
	// The rating must already be validated to [1,10] by the caller.
	RecordRating(ctx context.Context, userID, filmID string, rating int) error

	// RecordWatchClick logs an attributed watch-link click-through.
	RecordWatchClick(ctx context.Context, userID, filmID string) error
}
