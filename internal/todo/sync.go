// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package todo

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/jeranaias/nanami-tui/internal/agent"
	"github.com/jeranaias/nanami-tui/internal/model"
)

// =============================================================================
// SYNCHRONIZER
// =============================================================================

// Synchronizer holds the todo list of the active conversation. State methods
// are thread-safe: apply methods run on the UI loop while feed and toggle
// round-trips complete on command goroutines.
type Synchronizer struct {
	client *agent.Client
	mode   agent.FeedMode

	mu             sync.Mutex
	conversationID string
	todos          []model.Todo
	revision       uint64
	feed           agent.TodoFeed
}

// NewSynchronizer creates a synchronizer with no active conversation.
func NewSynchronizer(client *agent.Client, mode agent.FeedMode) *Synchronizer {
	return &Synchronizer{client: client, mode: mode}
}

// Todos returns a copy of the current list, ordered by explicit sort order.
func (s *Synchronizer) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos := make([]model.Todo, len(s.todos))
	copy(todos, s.todos)
	sort.SliceStable(todos, func(i, j int) bool {
		return todos[i].Order < todos[j].Order
	})
	return todos
}

// Revision increments every time a snapshot replaces the list. It exists so
// consumers can observe that a replacement happened. It is purely local;
// the wire protocol has no ordering token to compare against.
func (s *Synchronizer) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// ConversationID returns the conversation the list belongs to.
func (s *Synchronizer) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// Feed returns the currently open feed, or nil.
func (s *Synchronizer) Feed() agent.TodoFeed {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feed
}

// Close tears down the feed and clears local state.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	feed := s.feed
	s.feed = nil
	s.conversationID = ""
	s.todos = nil
	s.mu.Unlock()

	if feed != nil {
		feed.Close()
	}
}

// =============================================================================
// CONVERSATION SWITCH
// =============================================================================

// SwitchConversation points the synchronizer at a new conversation: the
// prior feed is torn down first, a fresh snapshot is fetched synchronously,
// and only then a new feed is opened. The returned list is the fresh
// snapshot. On fetch failure the list is left empty and no feed is opened.
func (s *Synchronizer) SwitchConversation(ctx context.Context, conversationID string) ([]model.Todo, error) {
	s.mu.Lock()
	oldFeed := s.feed
	s.feed = nil
	s.conversationID = conversationID
	s.todos = nil
	s.mu.Unlock()

	if oldFeed != nil {
		oldFeed.Close()
	}
	if conversationID == "" {
		return nil, nil
	}

	todos, err := s.client.ListTodos(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	feed := s.client.OpenTodoFeed(conversationID, s.mode)

	s.mu.Lock()
	// A concurrent switch may have retargeted the synchronizer while the
	// fetch was in flight; its result must not leak into the new target.
	if s.conversationID != conversationID {
		s.mu.Unlock()
		feed.Close()
		return nil, nil
	}
	s.todos = todos
	s.revision++
	s.feed = feed
	s.mu.Unlock()

	return todos, nil
}

// =============================================================================
// RECONCILIATION
// =============================================================================

// ApplySnapshot unconditionally replaces the list (last-write-wins). Used
// for feed deliveries.
func (s *Synchronizer) ApplySnapshot(todos []model.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = todos
	s.revision++
}

// ApplyToolResult reconciles an inline tool-result payload from the chat
// stream. Shape decides: {"todos": [...]} replaces the list, {"todo": {...}}
// merges one item by ID. Returns true when the list changed. Unrecognized
// payloads are ignored.
func (s *Synchronizer) ApplyToolResult(payload map[string]any) bool {
	if payload == nil {
		return false
	}

	if raw, ok := payload["todos"]; ok {
		var todos []model.Todo
		if !reencode(raw, &todos) {
			return false
		}
		s.ApplySnapshot(todos)
		return true
	}

	if raw, ok := payload["todo"]; ok {
		var item model.Todo
		if !reencode(raw, &item) || item.ID == "" {
			return false
		}
		s.merge(item)
		return true
	}

	return false
}

// merge replaces the item with the same ID, or appends it.
func (s *Synchronizer) merge(item model.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.todos {
		if s.todos[i].ID == item.ID {
			s.todos[i] = item
			return
		}
	}
	s.todos = append(s.todos, item)
}

// reencode converts a decoded-JSON subtree into a typed value.
func reencode(raw, out any) bool {
	data, err := json.Marshal(raw)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// =============================================================================
// STATUS TOGGLE
// =============================================================================

// Toggle flips a todo's status through the backend. The request goes first;
// the local item is replaced only with the server's confirmed copy. On
// failure the list is untouched, so the UI never shows a status the server
// did not confirm.
func (s *Synchronizer) Toggle(ctx context.Context, item model.Todo) (*model.Todo, error) {
	s.mu.Lock()
	conversationID := s.conversationID
	s.mu.Unlock()

	next := item.Status.Next()
	updated, err := s.client.UpdateTodo(ctx, conversationID, item.ID, agent.TodoPatch{Status: &next})
	if err != nil {
		return nil, err
	}

	s.merge(*updated)
	return updated, nil
}
