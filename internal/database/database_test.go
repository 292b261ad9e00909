// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/undervaluedfilms/filmrank/internal/config"
	"github.com/undervaluedfilms/filmrank/internal/models"
	"github.com/undervaluedfilms/filmrank/internal/stores"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Path:      filepath.Join(t.TempDir(), "test.duckdb"),
		MaxMemory: "256MB",
		Threads:   2,
	}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})

	return db
}

func addTestFilm(t *testing.T, db *DB, title string, year int) models.Film {
	t.Helper()

	film, err := db.AddFilm(context.Background(), models.Film{
		Title:       title,
		ReleaseYear: year,
		Description: "test film",
	})
	if err != nil {
		t.Fatalf("adding film %q: %v", title, err)
	}
	return film
}

func TestAddAndListFilms(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	addTestFilm(t, db, "Primer", 2004)
	addTestFilm(t, db, "Coherence", 2013)
	addTestFilm(t, db, "The Fall", 2006)

	films, err := db.ListFilms(ctx)
	if err != nil {
		t.Fatalf("ListFilms failed: %v", err)
	}

	// Insertion order, not alphabetical.
	want := []string{"Primer", "Coherence", "The Fall"}
	if len(films) != len(want) {
		t.Fatalf("ListFilms returned %d films, want %d", len(films), len(want))
	}
	for i, title := range want {
		if films[i].Title != title {
			t.Errorf("films[%d].Title = %q, want %q", i, films[i].Title, title)
		}
		if films[i].ID == "" {
			t.Errorf("films[%d] has no ID", i)
		}
	}
}

func TestAddFilmDuplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	addTestFilm(t, db, "Primer", 2004)

	_, err := db.AddFilm(ctx, models.Film{Title: "Primer", ReleaseYear: 2004})
	if !errors.Is(err, stores.ErrFilmExists) {
		t.Errorf("duplicate AddFilm returned %v, want ErrFilmExists", err)
	}

	// Same title, different year is a different film.
	if _, err := db.AddFilm(ctx, models.Film{Title: "Primer", ReleaseYear: 2024}); err != nil {
		t.Errorf("same title different year rejected: %v", err)
	}
}

func TestGetAndCheckFilm(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	added := addTestFilm(t, db, "The Fall", 2006)

	got, err := db.GetFilm(ctx, "The Fall", 2006)
	if err != nil {
		t.Fatalf("GetFilm failed: %v", err)
	}
	if got.ID != added.ID {
		t.Errorf("GetFilm ID = %q, want %q", got.ID, added.ID)
	}

	if _, err := db.GetFilm(ctx, "Missing", 1999); !errors.Is(err, stores.ErrFilmNotFound) {
		t.Errorf("GetFilm for absent film returned %v, want ErrFilmNotFound", err)
	}

	exists, err := db.CheckFilm(ctx, "The Fall", 2006)
	if err != nil || !exists {
		t.Errorf("CheckFilm = %v, %v, want true, nil", exists, err)
	}
	exists, err = db.CheckFilm(ctx, "Missing", 1999)
	if err != nil || exists {
		t.Errorf("CheckFilm for absent film = %v, %v, want false, nil", exists, err)
	}
}

func TestRejectFilmRemovesSignals(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	film := addTestFilm(t, db, "Primer", 2004)
	if err := db.RecordMention(ctx, "u1", film.ID, false); err != nil {
		t.Fatalf("RecordMention failed: %v", err)
	}
	if err := db.RecordRating(ctx, "u2", film.ID, 8); err != nil {
		t.Fatalf("RecordRating failed: %v", err)
	}

	if err := db.RejectFilm(ctx, "Primer", 2004); err != nil {
		t.Fatalf("RejectFilm failed: %v", err)
	}

	if _, err := db.GetFilm(ctx, "Primer", 2004); !errors.Is(err, stores.ErrFilmNotFound) {
		t.Errorf("rejected film still listed: %v", err)
	}
	if answered, _ := db.HasMentioned(ctx, "u1", film.ID); answered {
		t.Error("mention survived film rejection")
	}
	if rated, _, _ := db.HasRated(ctx, "u2", film.ID); rated {
		t.Error("rating survived film rejection")
	}

	if err := db.RejectFilm(ctx, "Primer", 2004); !errors.Is(err, stores.ErrFilmNotFound) {
		t.Errorf("second RejectFilm returned %v, want ErrFilmNotFound", err)
	}
}

func TestGetAggregate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	film := addTestFilm(t, db, "Coherence", 2013)

	// Two users had not heard of it, one had heard but never rated, and
	// two rated it. A user who both mentioned and rated counts only under
	// ratings.
	mustMention := func(user string, hadHeard bool) {
		t.Helper()
		if err := db.RecordMention(ctx, user, film.ID, hadHeard); err != nil {
			t.Fatalf("RecordMention(%s) failed: %v", user, err)
		}
	}
	mustRate := func(user string, rating int) {
		t.Helper()
		if err := db.RecordRating(ctx, user, film.ID, rating); err != nil {
			t.Fatalf("RecordRating(%s) failed: %v", user, err)
		}
	}

	mustMention("u1", false)
	mustMention("u2", false)
	mustMention("u3", true)
	mustMention("u4", true)
	mustRate("u4", 7)
	mustRate("u5", 9)

	agg, err := db.GetAggregate(ctx, film.ID)
	if err != nil {
		t.Fatalf("GetAggregate failed: %v", err)
	}

	want := models.SignalAggregate{
		FilmID:        film.ID,
		NotHeardCount: 2,
		HeardNotRated: 1,
		RatingCount:   2,
		RatingSum:     16,
	}
	if agg != want {
		t.Errorf("GetAggregate = %+v, want %+v", agg, want)
	}
}

func TestGetAggregateEmptyFilm(t *testing.T) {
	db := newTestDB(t)
	film := addTestFilm(t, db, "Primer", 2004)

	agg, err := db.GetAggregate(context.Background(), film.ID)
	if err != nil {
		t.Fatalf("GetAggregate failed: %v", err)
	}
	if agg.NotHeardCount != 0 || agg.HeardNotRated != 0 || agg.RatingCount != 0 || agg.RatingSum != 0 {
		t.Errorf("aggregate for untouched film = %+v, want all zeros", agg)
	}
}

func TestRecordMentionWriteOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	film := addTestFilm(t, db, "Primer", 2004)

	if err := db.RecordMention(ctx, "u1", film.ID, true); err != nil {
		t.Fatalf("first mention failed: %v", err)
	}
	if err := db.RecordMention(ctx, "u1", film.ID, false); !errors.Is(err, stores.ErrAlreadyAnswered) {
		t.Fatalf("second mention returned %v, want ErrAlreadyAnswered", err)
	}

	// The original answer is untouched.
	agg, err := db.GetAggregate(ctx, film.ID)
	if err != nil {
		t.Fatalf("GetAggregate failed: %v", err)
	}
	if agg.NotHeardCount != 0 || agg.HeardNotRated != 1 {
		t.Errorf("aggregate after rejected overwrite = %+v, want heard-not-rated 1", agg)
	}
}

func TestRecordRatingUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	film := addTestFilm(t, db, "Primer", 2004)

	if err := db.RecordRating(ctx, "u1", film.ID, 6); err != nil {
		t.Fatalf("RecordRating failed: %v", err)
	}
	if err := db.RecordRating(ctx, "u1", film.ID, 9); err != nil {
		t.Fatalf("rating update failed: %v", err)
	}

	rated, value, err := db.HasRated(ctx, "u1", film.ID)
	if err != nil {
		t.Fatalf("HasRated failed: %v", err)
	}
	if !rated || value != 9 {
		t.Errorf("HasRated = %v, %d, want true, 9", rated, value)
	}

	agg, err := db.GetAggregate(ctx, film.ID)
	if err != nil {
		t.Fatalf("GetAggregate failed: %v", err)
	}
	if agg.RatingCount != 1 || agg.RatingSum != 9 {
		t.Errorf("aggregate after update = %+v, want one rating summing 9", agg)
	}
}

func TestMembershipLists(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := addTestFilm(t, db, "Primer", 2004)
	b := addTestFilm(t, db, "The Fall", 2006)
	c := addTestFilm(t, db, "Coherence", 2013)

	if err := db.RecordMention(ctx, "u1", a.ID, false); err != nil {
		t.Fatalf("RecordMention failed: %v", err)
	}
	if err := db.RecordMention(ctx, "u1", b.ID, true); err != nil {
		t.Fatalf("RecordMention failed: %v", err)
	}
	if err := db.RecordRating(ctx, "u1", b.ID, 7); err != nil {
		t.Fatalf("RecordRating failed: %v", err)
	}

	assertIDs := func(name string, films []models.Film, want ...string) {
		t.Helper()
		if len(films) != len(want) {
			t.Fatalf("%s returned %d films, want %d", name, len(films), len(want))
		}
		for i, id := range want {
			if films[i].ID != id {
				t.Errorf("%s[%d].ID = %q, want %q", name, i, films[i].ID, id)
			}
		}
	}

	notRated, err := db.ListNotRated(ctx, "u1")
	if err != nil {
		t.Fatalf("ListNotRated failed: %v", err)
	}
	assertIDs("ListNotRated", notRated, a.ID, c.ID)

	notMentioned, err := db.ListNotMentioned(ctx, "u1")
	if err != nil {
		t.Fatalf("ListNotMentioned failed: %v", err)
	}
	assertIDs("ListNotMentioned", notMentioned, c.ID)

	notHeard, err := db.ListNotHeardBefore(ctx, "u1")
	if err != nil {
		t.Fatalf("ListNotHeardBefore failed: %v", err)
	}
	assertIDs("ListNotHeardBefore", notHeard, a.ID)

	// A user with no history: everything unrated and unmentioned.
	all, err := db.ListNotRated(ctx, "u2")
	if err != nil {
		t.Fatalf("ListNotRated(u2) failed: %v", err)
	}
	assertIDs("ListNotRated(u2)", all, a.ID, b.ID, c.ID)
}

func TestWatchClicks(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	film := addTestFilm(t, db, "Primer", 2004)

	for i := 0; i < 3; i++ {
		if err := db.RecordWatchClick(ctx, "u1", film.ID); err != nil {
			t.Fatalf("RecordWatchClick failed: %v", err)
		}
	}

	var count int
	if err := db.Conn().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM watch_clicks WHERE user_id = ? AND film_id = ?`,
		"u1", film.ID).Scan(&count); err != nil {
		t.Fatalf("counting watch clicks: %v", err)
	}
	if count != 3 {
		t.Errorf("watch clicks = %d, want 3", count)
	}
}

func TestSeedMockDataIdempotent(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Path:         filepath.Join(t.TempDir(), "seeded.duckdb"),
		MaxMemory:    "256MB",
		Threads:      2,
		SeedMockData: true,
	}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("opening seeded database: %v", err)
	}
	defer func() { _ = db.Close() }()

	films, err := db.ListFilms(context.Background())
	if err != nil {
		t.Fatalf("ListFilms failed: %v", err)
	}
	if len(films) == 0 {
		t.Fatal("seeding produced an empty catalog")
	}

	// Re-running the seed against a populated catalog adds nothing.
	if err := db.seedMockData(); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	again, err := db.ListFilms(context.Background())
	if err != nil {
		t.Fatalf("ListFilms failed: %v", err)
	}
	if len(again) != len(films) {
		t.Errorf("second seed grew the catalog from %d to %d films", len(films), len(again))
	}
}
