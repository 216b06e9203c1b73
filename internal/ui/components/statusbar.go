// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/nanami-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Shortcut is one key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom status line: current activity on the
// left, key hints on the right.
type StatusBar struct {
	state     string
	shortcuts []Shortcut

	theme *styles.Theme
	width int
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme}
}

// SetWidth sets the bar width.
func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

// SetTheme swaps the active theme.
func (sb *StatusBar) SetTheme(theme *styles.Theme) {
	sb.theme = theme
}

// SetState sets the left-hand activity label ("idle", "streaming", ...).
func (sb *StatusBar) SetState(state string) {
	sb.state = state
}

// SetShortcuts replaces the key hints.
func (sb *StatusBar) SetShortcuts(shortcuts []Shortcut) {
	sb.shortcuts = shortcuts
}

// View renders the bar.
func (sb *StatusBar) View() string {
	left := sb.theme.StatusState.Render(sb.state)

	hints := make([]string, 0, len(sb.shortcuts))
	for _, s := range sb.shortcuts {
		hints = append(hints,
			sb.theme.ShortcutKey.Render(s.Key)+" "+sb.theme.ShortcutDesc.Render(s.Desc))
	}
	right := strings.Join(hints, "  ")

	gap := sb.width - runewidth.StringWidth(stripForWidth(left)) -
		runewidth.StringWidth(stripForWidth(right)) - 2
	if gap < 1 {
		gap = 1
	}

	return sb.theme.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}

// stripForWidth removes ANSI escape sequences so width math counts
// visible cells only.
func stripForWidth(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
