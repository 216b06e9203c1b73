// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/nanami-tui/internal/ui/styles"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MarkdownRenderer renders assistant markdown for terminal display.
// A renderer is rebuilt whenever the theme or wrap width changes; glamour
// renderers are cheap to construct relative to render cost.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	style    string
}

// NewMarkdownRenderer creates a renderer for the given theme and width.
func NewMarkdownRenderer(theme *styles.Theme, width int) *MarkdownRenderer {
	if width < 20 {
		width = 20
	}
	m := &MarkdownRenderer{width: width, style: theme.Palette.GlamourStyle}
	m.rebuild()
	return m
}

// SetWidth updates the wrap width, rebuilding the renderer if needed.
func (m *MarkdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	if width == m.width {
		return
	}
	m.width = width
	m.rebuild()
}

// SetTheme switches the rendering style for a new theme.
func (m *MarkdownRenderer) SetTheme(theme *styles.Theme) {
	if theme.Palette.GlamourStyle == m.style {
		return
	}
	m.style = theme.Palette.GlamourStyle
	m.rebuild()
}

func (m *MarkdownRenderer) rebuild() {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(m.width),
	)
	if err != nil {
		// Renderer unavailable. Render falls back to plain text.
		m.renderer = nil
		return
	}
	m.renderer = renderer
}

// Render renders markdown content for terminal display. The original
// content is returned unchanged if rendering fails, so a malformed
// response never blanks the chat.
func (m *MarkdownRenderer) Render(content string) string {
	if m.renderer == nil {
		return content
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
