// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// signals.go - SignalStore implementation.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/undervaluedfilms/filmrank/internal/models"
)

// GetAggregate recomputes one film's signal counters from the mentions and
// ratings tables. A user who answered "had heard of it" and then rated the
// film counts under the rating bucket, not the heard-not-rated bucket.
func (db *DB) GetAggregate(ctx context.Context, filmID string) (models.SignalAggregate, error) {
	agg := models.SignalAggregate{FilmID: filmID}

	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM mentions m
			 WHERE m.film_id = ? AND NOT m.had_heard_before),
			(SELECT COUNT(*) FROM mentions m
			 WHERE m.film_id = ? AND m.had_heard_before
			   AND NOT EXISTS (
				SELECT 1 FROM ratings r
				WHERE r.film_id = m.film_id AND r.user_id = m.user_id)),
			(SELECT COUNT(*) FROM ratings r WHERE r.film_id = ?),
			(SELECT COALESCE(SUM(r.rating), 0) FROM ratings r WHERE r.film_id = ?)`,
		filmID, filmID, filmID, filmID,
	).Scan(&agg.NotHeardCount, &agg.HeardNotRated, &agg.RatingCount, &agg.RatingSum)
	if err != nil {
		return models.SignalAggregate{}, fmt.Errorf("failed to aggregate signals for film %s: %w", filmID, err)
	}

	return agg, nil
}

// ListNotRated returns the films the user has not rated, in catalog order.
func (db *DB) ListNotRated(ctx context.Context, userID string) ([]models.Film, error) {
	return db.queryFilms(ctx, `
		SELECT `+filmColumns+` FROM films f
		WHERE NOT EXISTS (
			SELECT 1 FROM ratings r WHERE r.film_id = f.id AND r.user_id = ?)
		ORDER BY f.seq`, userID)
}

// ListNotMentioned returns the films the user has not answered the mention
// question for, in catalog order.
func (db *DB) ListNotMentioned(ctx context.Context, userID string) ([]models.Film, error) {
	return db.queryFilms(ctx, `
		SELECT `+filmColumns+` FROM films f
		WHERE NOT EXISTS (
			SELECT 1 FROM mentions m WHERE m.film_id = f.id AND m.user_id = ?)
		ORDER BY f.seq`, userID)
}

// ListNotHeardBefore returns the films the user answered "had not heard of
// before", in catalog order.
func (db *DB) ListNotHeardBefore(ctx context.Context, userID string) ([]models.Film, error) {
	return db.queryFilms(ctx, `
		SELECT `+filmColumns+` FROM films f
		JOIN mentions m ON m.film_id = f.id
		WHERE m.user_id = ? AND NOT m.had_heard_before
		ORDER BY f.seq`, userID)
}

// HasMentioned reports whether a mention record exists for the pair.
func (db *DB) HasMentioned(ctx context.Context, userID, filmID string) (bool, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM mentions WHERE user_id = ? AND film_id = ?)`,
		userID, filmID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check mention existence: %w", err)
	}
	return exists, nil
}

// HasRated reports whether a rating exists for the pair, and its value.
func (db *DB) HasRated(ctx context.Context, userID, filmID string) (bool, int, error) {
	var rating int
	err := db.conn.QueryRowContext(ctx,
		`SELECT rating FROM ratings WHERE user_id = ? AND film_id = ?`,
		userID, filmID,
	).Scan(&rating)
	if errors.Is(err, sql.ErrNoRows) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to check rating existence: %w", err)
	}
	return true, rating, nil
}

func (db *DB) queryFilms(ctx context.Context, query string, args ...interface{}) ([]models.Film, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query films: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var films []models.Film
	for rows.Next() {
		var f models.Film
		if err := rows.Scan(&f.ID, &f.Title, &f.ReleaseYear, &f.Description, &f.WatchLink, &f.SubmittedBy); err != nil {
			return nil, fmt.Errorf("failed to scan film row: %w", err)
		}
		films = append(films, f)
	}
	return films, rows.Err()
}
