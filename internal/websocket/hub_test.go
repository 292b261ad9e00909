// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

package websocket

import (
	"context"
	"testing"
	"time"
)

// newHubClient builds a client without a live connection; hub registration
// and broadcast only touch the send channel.
func newHubClient(h *Hub) *Client {
	return NewClient(h, nil)
}

func startHub(t *testing.T, h *Hub) context.CancelFunc {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.RunWithContext(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("hub did not stop after cancel")
		}
	})
	return cancel
}

func waitForMessage(t *testing.T, c *Client) Message {
	t.Helper()

	select {
	case msg := <-c.send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestHubBroadcastsRankingRefreshed(t *testing.T) {
	h := NewHub(0) // unlimited
	startHub(t, h)

	client := newHubClient(h)
	h.Register <- client

	h.RankingRefreshed(7)

	msg := waitForMessage(t, client)
	if msg.Type != MessageTypeRankingRefreshed {
		t.Fatalf("message type = %q, want %q", msg.Type, MessageTypeRankingRefreshed)
	}
	data, ok := msg.Data.(RankingRefreshedData)
	if !ok {
		t.Fatalf("message data is %T, want RankingRefreshedData", msg.Data)
	}
	if data.Generation != 7 {
		t.Errorf("generation = %d, want 7", data.Generation)
	}
}

func TestHubRateLimitCoalesces(t *testing.T) {
	// One broadcast per 100 seconds with burst 1: the first call passes,
	// the rest are suppressed.
	h := NewHub(0.01)
	startHub(t, h)

	client := newHubClient(h)
	h.Register <- client

	for gen := uint64(1); gen <= 5; gen++ {
		h.RankingRefreshed(gen)
	}

	msg := waitForMessage(t, client)
	if msg.Type != MessageTypeRankingRefreshed {
		t.Fatalf("message type = %q, want %q", msg.Type, MessageTypeRankingRefreshed)
	}

	// No second message should arrive.
	select {
	case extra := <-client.send:
		t.Errorf("rate-limited hub sent a second message: %+v", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestHubPendingGenerationSurvivesSuppression(t *testing.T) {
	h := NewHub(0.01)
	h.limiter.Allow() // exhaust the burst so the next calls are suppressed

	h.RankingRefreshed(3)
	h.RankingRefreshed(9)
	h.RankingRefreshed(5)

	h.pendingMu.Lock()
	pending := h.pendingGen
	h.pendingMu.Unlock()

	if pending != 9 {
		t.Errorf("pending generation = %d, want newest 9", pending)
	}
}

func TestHubCatalogUpdated(t *testing.T) {
	h := NewHub(0)
	startHub(t, h)

	client := newHubClient(h)
	h.Register <- client

	h.CatalogUpdated("film-1", "added")

	msg := waitForMessage(t, client)
	if msg.Type != MessageTypeCatalogUpdated {
		t.Fatalf("message type = %q, want %q", msg.Type, MessageTypeCatalogUpdated)
	}
	data := msg.Data.(CatalogUpdatedData)
	if data.FilmID != "film-1" || data.Change != "added" {
		t.Errorf("data = %+v, want film-1/added", data)
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	h := NewHub(0)
	startHub(t, h)

	client := newHubClient(h)
	h.Register <- client
	h.Unregister <- client

	select {
	case _, open := <-client.send:
		if open {
			t.Error("send channel delivered a message instead of closing")
		}
	case <-time.After(2 * time.Second):
		t.Error("send channel not closed after unregister")
	}

	if count := h.GetClientCount(); count != 0 {
		t.Errorf("client count = %d, want 0", count)
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	h := NewHub(0)
	cancel := startHub(t, h)

	client := newHubClient(h)
	h.Register <- client

	cancel()

	select {
	case _, open := <-client.send:
		if open {
			t.Error("send channel delivered a message instead of closing")
		}
	case <-time.After(2 * time.Second):
		t.Error("send channel not closed on shutdown")
	}
}
