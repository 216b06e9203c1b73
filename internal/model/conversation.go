// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/nanami-tui/internal/util"
)

// HistoryWindow is the number of prior messages sent to the backend with
// each request (~10 turns). Bounds request size for long conversations.
const HistoryWindow = 20

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete chat conversation with history and metadata.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []*Message `json:"messages"`

	// TitleGenerated records that a backend title generation has been
	// attempted, so it fires at most once per conversation.
	TitleGenerated bool `json:"title_generated,omitempty"`
}

// NewConversation creates a new empty conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message and refreshes UpdatedAt.
// When the conversation is empty and the message is from the user, a
// provisional title is derived from it.
func (c *Conversation) AddMessage(msg *Message) {
	if len(c.Messages) == 0 && msg.Role == RoleUser && c.Title == "" {
		c.Title = util.TruncateRunes(util.CollapseWhitespace(msg.Content), 30)
	}
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// GetMessageByID returns a message by its ID, or nil.
func (c *Conversation) GetMessageByID(id string) *Message {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// UpdateMessageContent replaces a message's content and clears its streaming
// flag. Returns false if the ID is unknown.
func (c *Conversation) UpdateMessageContent(id, content string) bool {
	msg := c.GetMessageByID(id)
	if msg == nil {
		return false
	}
	msg.Content = content
	msg.IsStreaming = false
	c.UpdatedAt = time.Now()
	return true
}

// TruncateAfter removes the message with the given ID and everything after
// it. Returns false if the ID is unknown. Used for "regenerate from here".
func (c *Conversation) TruncateAfter(id string) bool {
	for i, msg := range c.Messages {
		if msg.ID == id {
			c.Messages = c.Messages[:i]
			c.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// RemoveMessage removes a single message by ID.
func (c *Conversation) RemoveMessage(id string) bool {
	for i, msg := range c.Messages {
		if msg.ID == id {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			c.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// History returns the wire-form history window: the last HistoryWindow
// messages, oldest first.
func (c *Conversation) History() []HistoryEntry {
	start := 0
	if len(c.Messages) > HistoryWindow {
		start = len(c.Messages) - HistoryWindow
	}
	entries := make([]HistoryEntry, 0, len(c.Messages)-start)
	for _, msg := range c.Messages[start:] {
		entries = append(entries, msg.ToHistoryEntry())
	}
	return entries
}

// CanGenerateTitle reports whether a backend title generation should be
// attempted: at most once, and only while the conversation is young enough
// that the provisional title is still worth replacing.
func (c *Conversation) CanGenerateTitle() bool {
	return !c.TitleGenerated && len(c.Messages) <= 2
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Preview returns a one-line preview from the first user message.
func (c *Conversation) Preview() string {
	for _, msg := range c.Messages {
		if msg.Role == RoleUser && msg.Content != "" {
			return util.TruncateRunes(util.CollapseWhitespace(msg.Content), 80)
		}
	}
	return ""
}
