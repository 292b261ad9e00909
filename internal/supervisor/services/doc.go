// Filmrank - Community Catalog Ranking for Undervalued Films
// Copyright 2026 Undervalued Films
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/undervaluedfilms/filmrank

// Package services wraps Filmrank's long-running components as suture
// services. Each wrapper adapts a component's run loop to the
// suture.Service contract and declares only the narrow interface it
// needs, keeping the supervisor free of dependencies on the concrete
// packages.
package services
