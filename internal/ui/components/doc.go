// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for nanami-tui.
//
// Components are plain render helpers: each holds a *styles.Theme and a
// width, exposes setters, and returns a string from View(). They carry
// no update logic of their own; the chat model drives them.
//
// The pieces:
//
//   - Message rendering (user/assistant turns, glamour markdown,
//     streaming cursor, interrupted and error markers)
//   - Tool notices and tool results (chroma-highlighted JSON payloads)
//   - Todo panel (live task list with status glyphs)
//   - Conversation sidebar
//   - Status bar, error banner, thinking spinner
package components
