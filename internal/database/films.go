// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// films.go - CatalogStore implementation.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/undervaluedfilms/filmrank/internal/models"
	"github.com/undervaluedfilms/filmrank/internal/stores"
)

const filmColumns = `id, title, release_year, description, watch_link, submitted_by`

// ListFilms returns the full catalog in submission order.
func (db *DB) ListFilms(ctx context.Context) ([]models.Film, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+filmColumns+` FROM films ORDER BY seq`)
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

// GetFilm looks a film up by title and release year.
func (db *DB) GetFilm(ctx context.Context, title string, year int) (models.Film, error) {
	var f models.Film
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+filmColumns+` FROM films WHERE title = ? AND release_year = ?`,
		title, year,
	).Scan(&f.ID, &f.Title, &f.ReleaseYear, &f.Description, &f.WatchLink, &f.SubmittedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Film{}, stores.ErrFilmNotFound
	}
	if err != nil {
		return models.Film{}, fmt.Errorf("failed to query film: %w", err)
	}
	return f, nil
}

// GetFilmByID looks a film up by its ID.
func (db *DB) GetFilmByID(ctx context.Context, filmID string) (models.Film, error) {
	var f models.Film
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+filmColumns+` FROM films WHERE id = ?`, filmID,
	).Scan(&f.ID, &f.Title, &f.ReleaseYear, &f.Description, &f.WatchLink, &f.SubmittedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Film{}, stores.ErrFilmNotFound
	}
	if err != nil {
		return models.Film{}, fmt.Errorf("failed to query film: %w", err)
	}
	return f, nil
}

// CheckFilm reports whether a film with this title and year is listed.
func (db *DB) CheckFilm(ctx context.Context, title string, year int) (bool, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM films WHERE title = ? AND release_year = ?)`,
		title, year,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check film existence: %w", err)
	}
	return exists, nil
}

// AddFilm inserts a new catalog submission. The film ID is assigned here.
func (db *DB) AddFilm(ctx context.Context, film models.Film) (models.Film, error) {
	if film.ID == "" {
		film.ID = uuid.New().String()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO films (id, title, release_year, description, watch_link, submitted_by)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		film.ID, film.Title, film.ReleaseYear, film.Description, film.WatchLink, film.SubmittedBy)
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.Film{}, stores.ErrFilmExists
		}
		return models.Film{}, fmt.Errorf("failed to insert film: %w", err)
	}

	return film, nil
}

// RejectFilm removes a submission and its accumulated signals.
func (db *DB) RejectFilm(ctx context.Context, title string, year int) error {
	film, err := db.GetFilm(ctx, title, year)
	if err != nil {
		return err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, query := range []string{
		`DELETE FROM mentions WHERE film_id = ?`,
		`DELETE FROM ratings WHERE film_id = ?`,
		`DELETE FROM watch_clicks WHERE film_id = ?`,
		`DELETE FROM films WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, query, film.ID); err != nil {
			return fmt.Errorf("failed to delete film records: %w", err)
		}
	}

	return tx.Commit()
}
