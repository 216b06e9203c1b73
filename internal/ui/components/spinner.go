// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nanami-tui/internal/ui/styles"
)

// =============================================================================
// THINKING SPINNER
// =============================================================================

// ThinkingSpinner shows activity between sending a request and the
// first streamed fragment.
type ThinkingSpinner struct {
	spinner spinner.Model
	theme   *styles.Theme
	active  bool
}

// NewThinkingSpinner creates a spinner in the theme's accent color.
func NewThinkingSpinner(theme *styles.Theme) *ThinkingSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Spinner
	return &ThinkingSpinner{spinner: s, theme: theme}
}

// Start activates the spinner and returns its tick command.
func (ts *ThinkingSpinner) Start() tea.Cmd {
	ts.active = true
	return ts.spinner.Tick
}

// Stop deactivates the spinner.
func (ts *ThinkingSpinner) Stop() {
	ts.active = false
}

// Active reports whether the spinner is running.
func (ts *ThinkingSpinner) Active() bool {
	return ts.active
}

// Update advances the animation. It must be forwarded spinner.TickMsg
// values from the program loop.
func (ts *ThinkingSpinner) Update(msg tea.Msg) tea.Cmd {
	if !ts.active {
		return nil
	}
	var cmd tea.Cmd
	ts.spinner, cmd = ts.spinner.Update(msg)
	return cmd
}

// View renders the spinner line, or an empty string when inactive.
func (ts *ThinkingSpinner) View() string {
	if !ts.active {
		return ""
	}
	return ts.spinner.View() + " " + ts.theme.ThinkingText.Render("thinking")
}
