// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package services

import (
	"context"
	"errors"
	"time"

	"github.com/undervaluedfilms/filmrank/internal/logging"
	"github.com/undervaluedfilms/filmrank/internal/models"
	"github.com/undervaluedfilms/filmrank/internal/ranking"
)

// RankingSession matches *ranking.Session's refresh entry point.
type RankingSession interface {
	Refresh(ctx context.Context) ([]models.RankedFilm, uint64, error)
}

// RefreshBroadcaster notifies clients that a new ranking generation is
// live. Matches *websocket.Hub.
type RefreshBroadcaster interface {
	RankingRefreshed(generation uint64)
}

// RankingRefresherService builds the initial ranking at startup and
// rebuilds it on a fixed interval as a safety net for drift; mutations
// trigger their own rebuilds through the coordinator.
//
// Refresh failures are logged and retried on the next tick rather than
// crashing the service; the session keeps serving the previous snapshot.
type RankingRefresherService struct {
	session   RankingSession
	broadcast RefreshBroadcaster
	interval  time.Duration
	name      string
}

// NewRankingRefresherService creates the refresher. broadcast may be nil.
// A non-positive interval defaults to 15 minutes.
func NewRankingRefresherService(session RankingSession, broadcast RefreshBroadcaster, interval time.Duration) *RankingRefresherService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &RankingRefresherService{
		session:   session,
		broadcast: broadcast,
		interval:  interval,
		name:      "ranking-refresher",
	}
}

// Serve implements suture.Service. Returns ctx.Err() on normal shutdown.
func (s *RankingRefresherService) Serve(ctx context.Context) error {
	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *RankingRefresherService) refresh(ctx context.Context) {
	_, generation, err := s.session.Refresh(ctx)
	if err != nil {
		// Losing the race to a mutation-triggered rebuild is fine; the
		// newer generation is already live.
		if !errors.Is(err, ranking.ErrStaleGeneration) {
			logging.Error().Err(err).Msg("periodic ranking refresh failed")
		}
		return
	}

	logging.Debug().Uint64("generation", generation).Msg("periodic ranking refresh complete")
	if s.broadcast != nil {
		s.broadcast.RankingRefreshed(generation)
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *RankingRefresherService) String() string {
	return s.name
}
