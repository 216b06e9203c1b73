// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for nanami-tui.
//
// A Theme is built from a named Palette ("dark" or "light") and exposes
// pre-configured lipgloss styles for every UI surface: header, message
// list, input area, status bar, conversation sidebar, todo panel, and
// the error banner. The active theme is a persisted user preference and
// can be switched at runtime; components hold a *Theme and re-render
// with whatever styles it carries.
//
// Color profile detection (truecolor vs 256) comes from termenv; the
// palettes are plain hex colors that lipgloss downsamples as needed.
package styles
