// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/nanami-tui/internal/model"
	"github.com/jeranaias/nanami-tui/internal/ui/styles"
)

// =============================================================================
// CONVERSATION SIDEBAR
// =============================================================================

// Sidebar renders the conversation list.
type Sidebar struct {
	conversations []*model.Conversation
	activeID      string
	selected      int
	focused       bool

	theme  *styles.Theme
	width  int
	height int
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{theme: theme}
}

// SetSize sets the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// SetTheme swaps the active theme.
func (s *Sidebar) SetTheme(theme *styles.Theme) {
	s.theme = theme
}

// SetConversations replaces the listed conversations. The cursor tracks
// the active conversation when the list changes under it.
func (s *Sidebar) SetConversations(conversations []*model.Conversation, activeID string) {
	s.conversations = conversations
	s.activeID = activeID
	if s.selected >= len(conversations) {
		s.selected = len(conversations) - 1
	}
	if s.selected < 0 {
		for i, c := range conversations {
			if c.ID == activeID {
				s.selected = i
				break
			}
		}
	}
}

// SetFocused marks whether the sidebar has keyboard focus.
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
	if focused && s.selected < 0 && len(s.conversations) > 0 {
		s.selected = 0
	}
}

// Focused reports whether the sidebar has keyboard focus.
func (s *Sidebar) Focused() bool {
	return s.focused
}

// MoveSelection moves the cursor by delta, clamped to the list.
func (s *Sidebar) MoveSelection(delta int) {
	if len(s.conversations) == 0 {
		s.selected = -1
		return
	}
	s.selected += delta
	if s.selected < 0 {
		s.selected = 0
	}
	if s.selected >= len(s.conversations) {
		s.selected = len(s.conversations) - 1
	}
}

// Selected returns the conversation under the cursor, or nil.
func (s *Sidebar) Selected() *model.Conversation {
	if s.selected < 0 || s.selected >= len(s.conversations) {
		return nil
	}
	return s.conversations[s.selected]
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	var b strings.Builder

	b.WriteString(s.theme.SidebarTitle.Render("Conversations"))
	b.WriteString("\n")

	if len(s.conversations) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(s.theme.Palette.TextMuted).
			Italic(true).
			Padding(1, 0)
		b.WriteString(empty.Render("Nothing yet"))
		return s.theme.Sidebar.Render(b.String())
	}

	for i, conv := range s.conversations {
		b.WriteString("\n")
		b.WriteString(s.renderItem(conv, i == s.selected))
	}

	return s.theme.Sidebar.Render(b.String())
}

func (s *Sidebar) renderItem(conv *model.Conversation, selected bool) string {
	title := conv.Title
	if title == "" {
		title = "New conversation"
	}
	title = runewidth.Truncate(title, s.itemWidth(), "...")

	switch {
	case selected && s.focused:
		return s.theme.SidebarItemSelected.Render(title)
	case conv.ID == s.activeID:
		return s.theme.SidebarItemActive.Render(title)
	default:
		return s.theme.SidebarItem.Render(title)
	}
}

func (s *Sidebar) itemWidth() int {
	w := s.width - 4
	if w < 8 {
		w = 8
	}
	return w
}
