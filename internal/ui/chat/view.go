// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nanami-tui/internal/agent"
	"github.com/jeranaias/nanami-tui/internal/ui/components"
	"github.com/jeranaias/nanami-tui/internal/ui/styles"
)

// chromeHeight is the rows taken by header, input, status bar, and
// their separators.
const chromeHeight = 5

// =============================================================================
// LAYOUT
// =============================================================================

// resize recomputes every component's dimensions for the new terminal
// size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	chatWidth := width
	layout := m.theme.GetLayoutMode()
	if layout != styles.LayoutNarrow {
		chatWidth -= sidebarWidth
	}
	if layout == styles.LayoutWide {
		chatWidth -= todoPanelWidth
	}
	if chatWidth < 20 {
		chatWidth = 20
	}

	bodyHeight := height - chromeHeight
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	m.viewport.Width = chatWidth
	m.viewport.Height = bodyHeight
	m.input.Width = width - 6
	m.markdown.SetWidth(chatWidth - 2)
	m.messageList.SetWidth(chatWidth - 2)
	m.tools.SetWidth(chatWidth - 2)
	m.sidebar.SetSize(sidebarWidth, bodyHeight)
	m.todoPanel.SetSize(todoPanelWidth, bodyHeight)
	m.statusBar.SetWidth(width)
	m.errorBanner.SetWidth(width)

	m.refreshTranscript()
}

// refreshTranscript rebuilds the viewport content from the active
// conversation and pins the view to the bottom.
func (m *Model) refreshTranscript() {
	m.messageList.SetMessages(m.store.Messages())

	content := m.messageList.View()
	if len(m.activity) > 0 {
		content += "\n" + strings.Join(m.activity, "\n")
	}

	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the full application frame.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")

	if m.spinner.Active() {
		b.WriteString(m.spinner.View())
	}
	b.WriteString("\n")

	if m.errorBanner.Visible() {
		b.WriteString(m.errorBanner.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

func (m Model) renderHeader() string {
	title := "New conversation"
	if active := m.store.Active(); active != nil && active.Title != "" {
		title = active.Title
	}
	brand := m.theme.HeaderBrand.Render("nanami")
	return m.theme.Header.Width(m.width).Render(brand + "  " + m.theme.HeaderTitle.Render(title))
}

func (m Model) renderBody() string {
	layout := m.theme.GetLayoutMode()

	panes := make([]string, 0, 3)
	if layout != styles.LayoutNarrow {
		panes = append(panes, m.sidebar.View())
	}
	panes = append(panes, m.viewport.View())
	if layout == styles.LayoutWide {
		panes = append(panes, m.todoPanel.View())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

func (m Model) renderInput() string {
	var b strings.Builder

	if len(m.attachments) > 0 {
		chips := make([]string, 0, len(m.attachments))
		for _, att := range m.attachments {
			chips = append(chips, m.theme.AttachmentChip.Render(att.Name))
		}
		b.WriteString(strings.Join(chips, ""))
		b.WriteString("\n")
	}

	if m.streaming() {
		b.WriteString(m.theme.InputPlaceholder.Render("Waiting for Nanami... press Esc to stop"))
	} else {
		b.WriteString(m.input.View())
	}

	return m.theme.InputContainer.Width(m.width - 2).Render(b.String())
}

func (m Model) renderStatusBar() string {
	state := "idle"
	if m.session != nil {
		switch m.session.State() {
		case agent.StateRequesting:
			state = "connecting"
		case agent.StateStreaming:
			state = "streaming"
		}
	}
	if m.statusNote != "" {
		state = state + "  " + m.statusNote
	}

	m.statusBar.SetState(state)
	m.statusBar.SetShortcuts(m.shortcuts())
	return m.statusBar.View()
}

func (m Model) shortcuts() []components.Shortcut {
	if m.streaming() {
		return []components.Shortcut{
			{Key: "Esc", Desc: "stop"},
			{Key: "C-c", Desc: "quit"},
		}
	}
	switch m.focus {
	case focusSidebar:
		return []components.Shortcut{
			{Key: "j/k", Desc: "move"},
			{Key: "Enter", Desc: "open"},
			{Key: "C-x", Desc: "delete"},
			{Key: "Tab", Desc: "next pane"},
		}
	case focusTodos:
		return []components.Shortcut{
			{Key: "j/k", Desc: "move"},
			{Key: "Space", Desc: "toggle"},
			{Key: "Tab", Desc: "next pane"},
		}
	default:
		return []components.Shortcut{
			{Key: "Enter", Desc: "send"},
			{Key: "Tab", Desc: "next pane"},
			{Key: "C-n", Desc: "new"},
			{Key: "C-c", Desc: "quit"},
		}
	}
}
