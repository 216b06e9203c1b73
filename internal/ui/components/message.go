// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nanami-tui/internal/model"
	"github.com/jeranaias/nanami-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE VIEW
// =============================================================================

// MessageView renders a single conversation turn.
type MessageView struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool

	theme    *styles.Theme
	markdown *MarkdownRenderer
}

// NewMessageView creates a message view. markdown may be shared across
// messages; it is only consulted for finalized assistant turns.
func NewMessageView(msg *model.Message, theme *styles.Theme, markdown *MarkdownRenderer) *MessageView {
	return &MessageView{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
		markdown:      markdown,
	}
}

// SetWidth sets the render width.
func (v *MessageView) SetWidth(width int) {
	v.Width = width
}

// View renders the message.
func (v *MessageView) View() string {
	switch v.Message.Role {
	case model.RoleUser:
		return v.renderUser()
	case model.RoleAssistant:
		return v.renderAssistant()
	default:
		return v.theme.AssistantBody.Render(v.Message.Content)
	}
}

func (v *MessageView) renderUser() string {
	header := v.theme.UserLabel.Render(v.Message.Role.DisplayName())
	if ts := v.renderTimestamp(); ts != "" {
		header += " " + ts
	}

	content := v.Message.Content
	if content == "" {
		content = "..."
	}
	body := v.theme.UserBody.Render(WrapText(content, v.contentWidth()))

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (v *MessageView) renderAssistant() string {
	header := v.theme.AssistantLabel.Render(v.Message.Role.DisplayName())
	if ts := v.renderTimestamp(); ts != "" {
		header += " " + ts
	}

	var body string
	if v.Message.IsStreaming {
		// PERFORMANCE: raw text while streaming; markdown rendering of a
		// half-finished response flickers and costs a full re-parse per
		// fragment. Glamour runs once, on the finalized turn.
		body = WrapText(v.Message.Content, v.contentWidth()) + v.streamingCursor()
	} else if strings.TrimSpace(v.Message.Content) != "" {
		body = strings.TrimRight(v.markdown.Render(v.Message.Content), "\n")
	}

	parts := []string{header}
	if body != "" {
		parts = append(parts, body)
	}
	if v.Message.Error != "" {
		marker := styles.StatusIndicators.Error + " " + v.Message.Error
		parts = append(parts, v.theme.MessageError.Render(WrapText(marker, v.contentWidth())))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v *MessageView) contentWidth() int {
	w := v.Width - 2
	if w < 20 {
		w = 20
	}
	return w
}

func (v *MessageView) streamingCursor() string {
	return v.theme.Spinner.Render("▌")
}

// renderTimestamp renders a dimmed timestamp, date-qualified when the
// message is from a previous day.
func (v *MessageView) renderTimestamp() string {
	ts := v.Message.Timestamp
	if ts.IsZero() {
		return ""
	}

	now := time.Now()
	var formatted string
	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		formatted = ts.Format("3:04 PM")
	} else {
		formatted = ts.Format("Jan 2, 3:04 PM")
	}
	return v.theme.Timestamp.Render(formatted)
}

// =============================================================================
// MESSAGE LIST
// =============================================================================

// MessageList renders a conversation's messages in order.
type MessageList struct {
	Messages []*model.Message
	Width    int

	theme    *styles.Theme
	markdown *MarkdownRenderer
}

// NewMessageList creates an empty message list.
func NewMessageList(theme *styles.Theme, markdown *MarkdownRenderer) *MessageList {
	return &MessageList{
		Width:    80,
		theme:    theme,
		markdown: markdown,
	}
}

// SetMessages sets the messages to display.
func (ml *MessageList) SetMessages(messages []*model.Message) {
	ml.Messages = messages
}

// SetWidth sets the list width.
func (ml *MessageList) SetWidth(width int) {
	ml.Width = width
}

// SetTheme swaps the active theme.
func (ml *MessageList) SetTheme(theme *styles.Theme) {
	ml.theme = theme
}

// View renders all messages separated by blank lines.
func (ml *MessageList) View() string {
	if len(ml.Messages) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(ml.theme.Palette.TextMuted).
			Italic(true).
			Width(ml.Width).
			Align(lipgloss.Center).
			Padding(2, 0)
		return empty.Render("No messages yet. Say hello to Nanami.")
	}

	views := make([]string, 0, len(ml.Messages))
	for _, msg := range ml.Messages {
		mv := NewMessageView(msg, ml.theme, ml.markdown)
		mv.SetWidth(ml.Width)
		views = append(views, mv.View())
	}
	return strings.Join(views, "\n\n")
}
