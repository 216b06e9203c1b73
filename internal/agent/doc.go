// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package agent is the HTTP client for the Nanami backend.
//
// It covers the full surface the TUI needs:
//   - POST /chat              streaming send (see Session)
//   - GET  /todos             todo snapshot fetch
//   - POST /todos             todo creation
//   - PATCH /todos/{id}       todo status/content patch
//   - DELETE /todos/{id}      todo deletion
//   - POST /todos/reorder     explicit ordering
//   - GET  /todos/stream      SSE push feed of todo snapshots
//   - POST /generate_title    conversation title generation
//   - POST /extract_preferences
//   - POST /api/clear_all_cache
//
// The todo feed is a capability interface (TodoFeed) with two
// implementations: the SSE push feed and a polling loop. Callers select one
// by mode; a failed push feed closes silently and the caller falls back to
// explicit fetches.
package agent
