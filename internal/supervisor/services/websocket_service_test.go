// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package services

import (
	"context"
	"errors"
	"testing"
)

type fakeHub struct {
	ran bool
	err error
}

func (f *fakeHub) RunWithContext(ctx context.Context) error {
	f.ran = true
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestWebSocketHubServiceDelegates(t *testing.T) {
	hub := &fakeHub{}
	svc := NewWebSocketHubService(hub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := svc.Serve(ctx)

	if !hub.ran {
		t.Error("RunWithContext was not called")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Serve returned %v, want context.Canceled", err)
	}
}

func TestWebSocketHubServicePropagatesErrors(t *testing.T) {
	hub := &fakeHub{err: errors.New("hub crashed")}
	svc := NewWebSocketHubService(hub)

	if err := svc.Serve(context.Background()); !errors.Is(err, hub.err) {
		t.Errorf("Serve returned %v, want hub error", err)
	}
}

func TestWebSocketHubServiceName(t *testing.T) {
	if name := NewWebSocketHubService(&fakeHub{}).String(); name != "websocket-hub" {
		t.Errorf("String() = %q", name)
	}
}
