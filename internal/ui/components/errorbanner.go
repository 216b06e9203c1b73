// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nanami-tui/internal/ui/styles"
)

// =============================================================================
// ERROR BANNER COMPONENT
// =============================================================================

// ErrorBanner renders a dismissible error strip above the input area.
type ErrorBanner struct {
	message string
	theme   *styles.Theme
	width   int
}

// NewErrorBanner creates an empty (hidden) banner.
func NewErrorBanner(theme *styles.Theme) *ErrorBanner {
	return &ErrorBanner{theme: theme}
}

// SetWidth sets the banner width.
func (eb *ErrorBanner) SetWidth(width int) {
	eb.width = width
}

// SetTheme swaps the active theme.
func (eb *ErrorBanner) SetTheme(theme *styles.Theme) {
	eb.theme = theme
}

// Show displays a message.
func (eb *ErrorBanner) Show(message string) {
	eb.message = message
}

// Dismiss hides the banner.
func (eb *ErrorBanner) Dismiss() {
	eb.message = ""
}

// Visible reports whether the banner has something to show.
func (eb *ErrorBanner) Visible() bool {
	return eb.message != ""
}

// View renders the banner, or an empty string when hidden.
func (eb *ErrorBanner) View() string {
	if eb.message == "" {
		return ""
	}

	title := eb.theme.ErrorTitle.Render(styles.StatusIndicators.Error + " Error")
	body := eb.theme.ErrorMessage.Render(WrapText(eb.message, eb.contentWidth()))
	hint := lipgloss.NewStyle().
		Foreground(eb.theme.Palette.TextMuted).
		Italic(true).
		Render("esc to dismiss")

	content := lipgloss.JoinVertical(lipgloss.Left, title, body, hint)
	return eb.theme.ErrorBanner.Width(eb.contentWidth() + 2).Render(content)
}

func (eb *ErrorBanner) contentWidth() int {
	w := eb.width - 4
	if w < 20 {
		w = 20
	}
	return w
}
