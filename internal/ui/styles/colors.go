// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for nanami-tui.
// Themes are explicit (dark or light) because the choice is a persisted
// user preference, not a terminal capability.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PALETTE
// =============================================================================

// Palette holds the color set for one theme.
type Palette struct {
	// Accents
	Accent       lipgloss.Color // primary accent, assistant label, selections
	AccentSoft   lipgloss.Color // accent on backgrounds
	Brand        lipgloss.Color // user label, key hints
	Success      lipgloss.Color // tool success, completed todos
	Warning      lipgloss.Color // in-progress todos, caution
	Danger       lipgloss.Color // errors, interrupted markers

	// Surfaces
	Surface    lipgloss.Color // main background
	SurfaceDim lipgloss.Color // status bar, sidebar background
	Overlay    lipgloss.Color // borders, separators

	// Text
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextInverse   lipgloss.Color

	// ChromaStyle names the chroma syntax style for code blocks.
	ChromaStyle string
	// GlamourStyle names the glamour rendering style for markdown.
	GlamourStyle string
}

// DarkPalette is the default theme (Catppuccin Mocha derived).
var DarkPalette = Palette{
	Accent:     lipgloss.Color("#A78BFA"),
	AccentSoft: lipgloss.Color("#4C1D95"),
	Brand:      lipgloss.Color("#22D3EE"),
	Success:    lipgloss.Color("#34D399"),
	Warning:    lipgloss.Color("#FBBF24"),
	Danger:     lipgloss.Color("#FB7185"),

	Surface:    lipgloss.Color("#1E1E2E"),
	SurfaceDim: lipgloss.Color("#181825"),
	Overlay:    lipgloss.Color("#313244"),

	TextPrimary:   lipgloss.Color("#CDD6F4"),
	TextSecondary: lipgloss.Color("#A6ADC8"),
	TextMuted:     lipgloss.Color("#6C7086"),
	TextInverse:   lipgloss.Color("#1E1E2E"),

	ChromaStyle:  "catppuccin-mocha",
	GlamourStyle: "dark",
}

// LightPalette mirrors DarkPalette for light terminals (Catppuccin Latte).
var LightPalette = Palette{
	Accent:     lipgloss.Color("#7C3AED"),
	AccentSoft: lipgloss.Color("#DDD6FE"),
	Brand:      lipgloss.Color("#0891B2"),
	Success:    lipgloss.Color("#059669"),
	Warning:    lipgloss.Color("#D97706"),
	Danger:     lipgloss.Color("#E11D48"),

	Surface:    lipgloss.Color("#FFFFFF"),
	SurfaceDim: lipgloss.Color("#F5F5F5"),
	Overlay:    lipgloss.Color("#E5E5E5"),

	TextPrimary:   lipgloss.Color("#1F2937"),
	TextSecondary: lipgloss.Color("#6B7280"),
	TextMuted:     lipgloss.Color("#9CA3AF"),
	TextInverse:   lipgloss.Color("#FFFFFF"),

	ChromaStyle:  "catppuccin-latte",
	GlamourStyle: "light",
}

// PaletteFor returns the palette for a theme name. Unknown names fall
// back to dark.
func PaletteFor(name string) Palette {
	if name == "light" {
		return LightPalette
	}
	return DarkPalette
}

// =============================================================================
// STATUS GLYPHS
// =============================================================================

// StatusIndicatorSet contains shape indicators for status states.
// ACCESSIBILITY: ASCII shapes give colorblind users a cue beyond color.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
}

// StatusIndicators provides the shape indicators used alongside colors.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
}
