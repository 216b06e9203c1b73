// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Nanami"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// IsStreaming is true while an assistant response is still arriving.
	// Persisted state always captures the post-completion snapshot, so the
	// flag is cleared before a conversation is written to disk.
	IsStreaming bool `json:"-"`

	// Error holds an inline annotation when the stream producing this
	// message failed; it is rendered with the message, not thrown away.
	Error string `json:"error,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an empty assistant message in streaming state.
func NewAssistantMessage() *Message {
	return &Message{
		ID:          uuid.NewString(),
		Role:        RoleAssistant,
		Timestamp:   time.Now(),
		IsStreaming: true,
	}
}

// Append adds streamed content to the message.
func (m *Message) Append(content string) {
	m.Content += content
}

// Finalize clears the streaming flag. Content accumulated so far is kept.
func (m *Message) Finalize() {
	m.IsStreaming = false
}

// HistoryEntry is the wire shape of one prior message in the bounded history
// window sent with each chat request.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToHistoryEntry converts the message to its wire form.
func (m *Message) ToHistoryEntry() HistoryEntry {
	return HistoryEntry{Role: string(m.Role), Content: m.Content}
}
