// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/nanami-tui/internal/model"
	"github.com/jeranaias/nanami-tui/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrConversationNotFound is returned when a conversation ID is unknown.
var ErrConversationNotFound = errors.New("conversation not found")

// ErrNoActiveConversation is returned by message operations when nothing is
// active.
var ErrNoActiveConversation = errors.New("no active conversation")

// =============================================================================
// PERSISTED STATE
// =============================================================================

// state is the single persisted blob: the whole conversation set, the
// active pointer, and the theme preference.
type state struct {
	Conversations []*model.Conversation `json:"conversations"`
	ActiveID      string                `json:"active_id,omitempty"`
	Theme         string                `json:"theme,omitempty"`
}

// =============================================================================
// STORE
// =============================================================================

// Store owns the conversation set and persists it write-through. It is
// mutated only from the main control flow; it is not safe for concurrent
// writers and does not need to be.
type Store struct {
	path string

	conversations []*model.Conversation
	activeID      string
	theme         string
}

// DefaultPath returns ~/.nanami/state.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".nanami", "state.json"), nil
}

// Open loads the store from path, starting empty if the file does not exist.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}

	s.conversations = st.Conversations
	s.theme = st.Theme

	// The active pointer must refer to a conversation that still exists.
	if st.ActiveID != "" && s.find(st.ActiveID) != nil {
		s.activeID = st.ActiveID
	}

	// Persisted state captures post-completion snapshots only; anything
	// marked streaming would be a stale flag from a crash mid-write.
	for _, conv := range s.conversations {
		for _, msg := range conv.Messages {
			msg.IsStreaming = false
		}
	}

	return s, nil
}

// persist rewrites the whole blob synchronously. Called by every mutating
// method after the in-memory change.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(state{
		Conversations: s.conversations,
		ActiveID:      s.activeID,
		Theme:         s.theme,
	}, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.path, data, 0644)
}

func (s *Store) find(id string) *model.Conversation {
	for _, conv := range s.conversations {
		if conv.ID == id {
			return conv
		}
	}
	return nil
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Active returns the active conversation, or nil.
func (s *Store) Active() *model.Conversation {
	if s.activeID == "" {
		return nil
	}
	return s.find(s.activeID)
}

// ActiveID returns the active conversation's ID, or "".
func (s *Store) ActiveID() string {
	return s.activeID
}

// Conversations returns the conversation list, most recent first.
func (s *Store) Conversations() []*model.Conversation {
	return s.conversations
}

// Theme returns the persisted theme preference ("" means default).
func (s *Store) Theme() string {
	return s.theme
}

// Messages returns the active conversation's message list, or nil.
func (s *Store) Messages() []*model.Message {
	active := s.Active()
	if active == nil {
		return nil
	}
	return active.Messages
}

// =============================================================================
// CONVERSATION OPERATIONS
// =============================================================================

// NewConversation inserts a new empty conversation at the front of the list
// and makes it active. The caller clears its task view; tasks are fetched
// from the server, never stored with the conversation.
func (s *Store) NewConversation() (*model.Conversation, error) {
	conv := model.NewConversation()
	s.conversations = append([]*model.Conversation{conv}, s.conversations...)
	s.activeID = conv.ID
	return conv, s.persist()
}

// Switch makes the conversation with the given ID active. Unknown IDs are a
// no-op returning ErrConversationNotFound; the current state is untouched.
func (s *Store) Switch(id string) error {
	if s.find(id) == nil {
		return ErrConversationNotFound
	}
	s.activeID = id
	return s.persist()
}

// Delete removes a conversation. If it was active, the most recent remaining
// conversation becomes active, or the active state clears if none remain.
func (s *Store) Delete(id string) error {
	idx := -1
	for i, conv := range s.conversations {
		if conv.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrConversationNotFound
	}

	s.conversations = append(s.conversations[:idx], s.conversations[idx+1:]...)
	if s.activeID == id {
		if len(s.conversations) > 0 {
			s.activeID = s.conversations[0].ID
		} else {
			s.activeID = ""
		}
	}
	return s.persist()
}

// ClearAll irreversibly empties the conversation set and active pointer.
// The theme preference survives.
func (s *Store) ClearAll() error {
	s.conversations = nil
	s.activeID = ""
	return s.persist()
}

// SetTheme records the theme preference.
func (s *Store) SetTheme(theme string) error {
	s.theme = theme
	return s.persist()
}

// SetTitle sets a conversation's title (used by backend title generation).
// Marks the attempt so it fires at most once.
func (s *Store) SetTitle(id, title string) error {
	conv := s.find(id)
	if conv == nil {
		return ErrConversationNotFound
	}
	if title != "" {
		conv.Title = title
	}
	conv.TitleGenerated = true
	conv.UpdatedAt = time.Now()
	return s.persist()
}

// =============================================================================
// MESSAGE OPERATIONS
// =============================================================================

// AppendMessage appends to the active conversation. Auto-titling fires
// inside the conversation when the first message is the user's.
func (s *Store) AppendMessage(msg *model.Message) error {
	active := s.Active()
	if active == nil {
		return ErrNoActiveConversation
	}
	active.AddMessage(msg)
	return s.persist()
}

// UpdateMessageContent replaces a message's content and clears its streaming
// flag. Serves both streaming accumulation checkpoints and user edits.
func (s *Store) UpdateMessageContent(id, content string) error {
	active := s.Active()
	if active == nil {
		return ErrNoActiveConversation
	}
	if !active.UpdateMessageContent(id, content) {
		return ErrConversationNotFound
	}
	return s.persist()
}

// SetMessageError attaches an inline annotation to a message in the active
// conversation and clears its streaming flag. Used when a stream fails or is
// interrupted so the partial turn is persisted with its caveat.
func (s *Store) SetMessageError(id, annotation string) error {
	active := s.Active()
	if active == nil {
		return ErrNoActiveConversation
	}
	msg := active.GetMessageByID(id)
	if msg == nil {
		return ErrConversationNotFound
	}
	msg.Error = annotation
	msg.IsStreaming = false
	active.UpdatedAt = time.Now()
	return s.persist()
}

// TruncateAfter removes message id and everything after it in the active
// conversation ("regenerate from here").
func (s *Store) TruncateAfter(id string) error {
	active := s.Active()
	if active == nil {
		return ErrNoActiveConversation
	}
	if !active.TruncateAfter(id) {
		return ErrConversationNotFound
	}
	return s.persist()
}

// DeleteMessage removes a single message from the active conversation.
func (s *Store) DeleteMessage(id string) error {
	active := s.Active()
	if active == nil {
		return ErrNoActiveConversation
	}
	if !active.RemoveMessage(id) {
		return ErrConversationNotFound
	}
	return s.persist()
}
