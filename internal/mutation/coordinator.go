// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// Package mutation coordinates community signal writes with the ranked
// catalog lifecycle.
//
// Every successful write invalidates the cached aggregates for the touched
// film and triggers a full ranking rebuild; the ranked view is never patched
// optimistically. A failed write changes nothing and triggers nothing.
package mutation

import (
	"context"
	"errors"
	"time"

	"github.com/undervaluedfilms/filmrank/internal/logging"
	"github.com/undervaluedfilms/filmrank/internal/metrics"
	"github.com/undervaluedfilms/filmrank/internal/models"
	"github.com/undervaluedfilms/filmrank/internal/ranking"
	"github.com/undervaluedfilms/filmrank/internal/stores"
)

// Refresher rebuilds the ranked catalog after a mutation lands.
type Refresher interface {
	Refresh(ctx context.Context) ([]models.RankedFilm, uint64, error)
}

// Broadcaster is notified when a rebuild triggered by a mutation applies.
type Broadcaster interface {
	RankingRefreshed(generation uint64)
}

// AggregateCache drops cached aggregates for a film whose signals changed.
type AggregateCache interface {
	Invalidate(filmID string)
}

// Config holds coordinator tuning.
type Config struct {
	// RefreshTimeout bounds the post-mutation ranking rebuild.
	// Default: 10s
	RefreshTimeout time.Duration

	// AsyncRefresh detaches the rebuild from the mutation request so the
	// write acknowledges as soon as it is durable. The rebuilt ranking
	// reaches clients through the broadcaster. Default: true in the server,
	// false in tests.
	AsyncRefresh bool
}

// Coordinator validates, persists, and propagates community signal writes.
type Coordinator struct {
	sink      stores.MutationSink
	signals   stores.SignalStore
	cache     AggregateCache
	refresher Refresher
	broadcast Broadcaster
	cfg       Config
}

// NewCoordinator wires a coordinator. cache and broadcast may be nil when
// the deployment runs without them.
func NewCoordinator(sink stores.MutationSink, signals stores.SignalStore, cache AggregateCache, refresher Refresher, broadcast Broadcaster, cfg Config) *Coordinator {
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = 10 * time.Second
	}
	return &Coordinator{
		sink:      sink,
		signals:   signals,
		cache:     cache,
		refresher: refresher,
		broadcast: broadcast,
		cfg:       cfg,
	}
}

// RecordMention stores a write-once answer to the awareness question.
//
// The answer is immutable: a second submission for the same (user, film)
// pair fails with ErrAlreadyAnswered and leaves the stored answer intact.
// The sink enforces this atomically; the pre-check here only exists to
// short-circuit the common double-click without a write attempt.
func (c *Coordinator) RecordMention(ctx context.Context, userID, filmID string, hadHeardBefore bool) error {
	answered, err := c.signals.HasMentioned(ctx, userID, filmID)
	if err != nil {
		metrics.MutationsTotal.WithLabelValues("mention", "error").Inc()
		return err
	}
	if answered {
		metrics.MutationsTotal.WithLabelValues("mention", "duplicate").Inc()
		return stores.ErrAlreadyAnswered
	}

	if err := c.sink.RecordMention(ctx, userID, filmID, hadHeardBefore); err != nil {
		if errors.Is(err, stores.ErrAlreadyAnswered) {
			metrics.MutationsTotal.WithLabelValues("mention", "duplicate").Inc()
			return err
		}
		metrics.MutationsTotal.WithLabelValues("mention", "error").Inc()
		return err
	}

	metrics.MutationsTotal.WithLabelValues("mention", "success").Inc()
	logging.Ctx(ctx).Info().
		Str("film_id", filmID).
		Bool("had_heard_before", hadHeardBefore).
		Msg("mention recorded")

	c.propagate(ctx, filmID)
	return nil
}

// RecordRating stores or replaces the user's rating for a film.
//
// The rating is validated against [1, MaxRating] before the sink sees it;
// an out-of-range value never reaches persistence. Unlike mentions, ratings
// are editable, so a repeat submission overwrites the previous value.
func (c *Coordinator) RecordRating(ctx context.Context, userID, filmID string, rating int) error {
	if rating < 1 || rating > ranking.MaxRating {
		metrics.MutationsTotal.WithLabelValues("rating", "invalid").Inc()
		return &InvalidRatingError{Rating: rating}
	}

	if err := c.sink.RecordRating(ctx, userID, filmID, rating); err != nil {
		metrics.MutationsTotal.WithLabelValues("rating", "error").Inc()
		return err
	}

	metrics.MutationsTotal.WithLabelValues("rating", "success").Inc()
	logging.Ctx(ctx).Info().
		Str("film_id", filmID).
		Int("rating", rating).
		Msg("rating recorded")

	c.propagate(ctx, filmID)
	return nil
}

// RecordWatchClick logs an attributed watch-link click-through. Clicks do
// not feed the score, so no rebuild is triggered.
func (c *Coordinator) RecordWatchClick(ctx context.Context, userID, filmID string) error {
	if err := c.sink.RecordWatchClick(ctx, userID, filmID); err != nil {
		metrics.MutationsTotal.WithLabelValues("watch_click", "error").Inc()
		return err
	}
	metrics.MutationsTotal.WithLabelValues("watch_click", "success").Inc()
	return nil
}

// propagate invalidates caches and kicks off the ranking rebuild after a
// durable write.
func (c *Coordinator) propagate(ctx context.Context, filmID string) {
	if c.cache != nil {
		c.cache.Invalidate(filmID)
	}
	if c.refresher == nil {
		return
	}

	if c.cfg.AsyncRefresh {
		go c.refresh(context.WithoutCancel(ctx))
		return
	}
	c.refresh(ctx)
}

func (c *Coordinator) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, c.cfg.RefreshTimeout)
	defer cancel()

	_, gen, err := c.refresher.Refresh(refreshCtx)
	if err != nil {
		if errors.Is(err, ranking.ErrStaleGeneration) {
			// A newer rebuild owns the result; nothing to do.
			return
		}
		logging.Ctx(ctx).Error().Err(err).Msg("post-mutation ranking rebuild failed")
		return
	}

	if c.broadcast != nil {
		c.broadcast.RankingRefreshed(gen)
	}
}
