// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package ranking

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/undervaluedfilms/filmrank/internal/logging"
	"github.com/undervaluedfilms/filmrank/internal/metrics"
	"github.com/undervaluedfilms/filmrank/internal/models"
	"github.com/undervaluedfilms/filmrank/internal/stores"
)

// BuilderConfig holds tuning knobs for ranked catalog builds.
type BuilderConfig struct {
	// Concurrency bounds the number of in-flight aggregate fetches.
	// Default: runtime.NumCPU()
	Concurrency int

	// FetchTimeout is the per-film aggregate fetch timeout. Expiry is a
	// retryable failure surfaced to the caller. Default: 5s
	FetchTimeout time.Duration
}

// DefaultBuilderConfig returns production-ready build defaults.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		Concurrency:  runtime.NumCPU(),
		FetchTimeout: 5 * time.Second,
	}
}

// Builder produces a ranked catalog from the film list and the signal store.
//
// Per-film aggregate fetches fan out concurrently with no shared mutable
// state between them, fan in completely before sorting, and are guarded by
// a circuit breaker so a struggling signal store fails fast instead of
// stacking up timed-out fetches.
type Builder struct {
	signals stores.SignalStore
	breaker *gobreaker.CircuitBreaker[models.SignalAggregate]
	cfg     BuilderConfig
}

// NewBuilder creates a Builder over the given signal store.
func NewBuilder(signals stores.SignalStore, cfg BuilderConfig) *Builder {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 5 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[models.SignalAggregate](gobreaker.Settings{
		Name:        "signal-store",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		// Open when failure rate >= 60% with at least 10 requests.
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("signal store circuit breaker opening")
				return true
			}
			return false
		},
	})

	return &Builder{
		signals: signals,
		breaker: cb,
		cfg:     cfg,
	}
}

// Build computes the ranked catalog for the given films.
//
// Each film's aggregate is fetched concurrently and scored; the result is
// sorted descending by score with a stable tie-break, so films with equal
// scores keep their relative catalog order and repeated builds over
// unchanged aggregates produce identical sequences.
//
// If any single fetch fails, the whole build fails with a *SignalFetchError
// wrapping the first failure - a film with an errored signal source is never
// silently given a fallback score.
func (b *Builder) Build(ctx context.Context, films []models.Film) ([]models.RankedFilm, error) {
	start := time.Now()

	ranked := make([]models.RankedFilm, len(films))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	sem := make(chan struct{}, b.cfg.Concurrency)

	for i, film := range films {
		wg.Add(1)
		go func(i int, film models.Film) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			agg, err := b.fetchAggregate(ctx, film.ID)
			if err != nil {
				metrics.AggregateFetchErrors.Inc()
				mu.Lock()
				if firstErr == nil {
					firstErr = &SignalFetchError{FilmID: film.ID, Err: err}
				}
				mu.Unlock()
				return
			}

			ranked[i] = models.RankedFilm{Film: film, Score: Score(agg)}
		}(i, film)
	}

	// Fan-in: a partial result must never be presented as the ranking.
	wg.Wait()

	if firstErr != nil {
		metrics.RecordRankingBuild("error", time.Since(start))
		return nil, firstErr
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	metrics.RecordRankingBuild("success", time.Since(start))
	logging.Ctx(ctx).Debug().
		Int("films", len(ranked)).
		Dur("elapsed", time.Since(start)).
		Msg("ranking build completed")

	return ranked, nil
}

// fetchAggregate fetches one film's aggregate through the circuit breaker
// with the per-fetch timeout applied.
func (b *Builder) fetchAggregate(ctx context.Context, filmID string) (models.SignalAggregate, error) {
	fetchStart := time.Now()

	agg, err := b.breaker.Execute(func() (models.SignalAggregate, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, b.cfg.FetchTimeout)
		defer cancel()
		return b.signals.GetAggregate(fetchCtx, filmID)
	})
	if err != nil {
		return models.SignalAggregate{}, err
	}

	metrics.AggregateFetchDuration.Observe(time.Since(fetchStart).Seconds())
	return agg, nil
}
