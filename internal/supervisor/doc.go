// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

/*
Package supervisor provides process supervision for Filmrank using suture v4.

The supervisor tree organizes the long-running services into three layers
for failure isolation:

	RootSupervisor ("filmrank")
	├── DataSupervisor ("data-layer")
	│   └── RankingRefresherService (initial build + periodic rebuilds)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocketHubService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

This hierarchy ensures that a crash in the ranking refresher does not drop
WebSocket connections, and that neither affects the HTTP server's ability
to keep serving the last built snapshot.

Crashed services restart automatically with exponential backoff; suture
lifecycle events are logged through the zerolog-backed slog handler in
internal/logging.
*/
package supervisor
