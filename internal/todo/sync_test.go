// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package todo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nanami-tui/internal/agent"
	"github.com/jeranaias/nanami-tui/internal/model"
	"github.com/jeranaias/nanami-tui/internal/protocol"
)

func newOfflineSync() *Synchronizer {
	return NewSynchronizer(agent.NewClient(""), agent.FeedPoll)
}

func TestApplyToolResultSnapshotReplaces(t *testing.T) {
	s := newOfflineSync()
	s.ApplySnapshot([]model.Todo{{ID: "old", Title: "stale"}})

	changed := s.ApplyToolResult(map[string]any{
		"todos": []any{
			map[string]any{"id": "a", "title": "one", "status": "pending", "order": float64(0)},
			map[string]any{"id": "b", "title": "two", "status": "completed", "order": float64(1)},
		},
	})

	require.True(t, changed)
	todos := s.Todos()
	require.Len(t, todos, 2)
	assert.Equal(t, "a", todos[0].ID)
	assert.Equal(t, model.TodoCompleted, todos[1].Status)
}

func TestApplyToolResultDeltaMergesByID(t *testing.T) {
	s := newOfflineSync()
	s.ApplySnapshot([]model.Todo{
		{ID: "a", Title: "task a", Status: model.TodoPending},
		{ID: "b", Title: "task b", Status: model.TodoPending},
	})

	// Delta for an existing item replaces it, no duplicate entry.
	changed := s.ApplyToolResult(map[string]any{
		"todo": map[string]any{"id": "a", "title": "task a", "status": "completed"},
	})
	require.True(t, changed)

	todos := s.Todos()
	require.Len(t, todos, 2)
	var found *model.Todo
	for i := range todos {
		if todos[i].ID == "a" {
			require.Nil(t, found, "duplicate entry for id a")
			found = &todos[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, model.TodoCompleted, found.Status)
}

func TestApplyToolResultDeltaAppendsUnknownID(t *testing.T) {
	s := newOfflineSync()
	s.ApplySnapshot([]model.Todo{{ID: "a", Status: model.TodoPending}})

	changed := s.ApplyToolResult(map[string]any{
		"todo": map[string]any{"id": "c", "title": "new", "status": "pending"},
	})
	require.True(t, changed)
	assert.Len(t, s.Todos(), 2)
}

func TestApplyToolResultIgnoresUnrelatedPayloads(t *testing.T) {
	s := newOfflineSync()
	assert.False(t, s.ApplyToolResult(nil))
	assert.False(t, s.ApplyToolResult(map[string]any{"result": "file written"}))
	assert.False(t, s.ApplyToolResult(map[string]any{"todo": map[string]any{"title": "no id"}}))
	assert.Empty(t, s.Todos())
}

func TestApplyToolResultFromClassifiedEvent(t *testing.T) {
	// End to end from a wire line: the classifier output feeds straight in.
	ev, ok := protocol.Classify(`[✓ create_todo]: {"todo": {"id": "t1", "title": "wire", "status": "pending"}}`)
	require.True(t, ok)
	require.Equal(t, protocol.EventToolResult, ev.Kind)

	s := newOfflineSync()
	require.True(t, s.ApplyToolResult(ev.Payload))
	todos := s.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, "t1", todos[0].ID)
}

func TestSnapshotBumpsRevision(t *testing.T) {
	s := newOfflineSync()
	before := s.Revision()
	s.ApplySnapshot(nil)
	s.ApplySnapshot([]model.Todo{{ID: "a"}})
	assert.Equal(t, before+2, s.Revision())
}

func TestTodosSortedByOrder(t *testing.T) {
	s := newOfflineSync()
	s.ApplySnapshot([]model.Todo{
		{ID: "z", Order: 2},
		{ID: "a", Order: 0},
		{ID: "m", Order: 1},
	})
	todos := s.Todos()
	assert.Equal(t, []string{"a", "m", "z"}, []string{todos[0].ID, todos[1].ID, todos[2].ID})
}

func TestSwitchConversationFetchesFreshList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/todos":
			sid := r.URL.Query().Get("session_id")
			json.NewEncoder(w).Encode([]model.Todo{{ID: sid + "-todo", Status: model.TodoPending}})
		default:
			// Poll feed requests also land on /todos; nothing else expected.
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	s := NewSynchronizer(agent.NewClient(server.URL), agent.FeedPoll)
	defer s.Close()

	// Leftover state from a previous conversation must not survive.
	s.ApplySnapshot([]model.Todo{{ID: "leftover"}})

	todos, err := s.SwitchConversation(context.Background(), "conv-2")
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "conv-2-todo", todos[0].ID)
	assert.Equal(t, "conv-2", s.ConversationID())
	require.NotNil(t, s.Feed())

	local := s.Todos()
	require.Len(t, local, 1)
	assert.Equal(t, "conv-2-todo", local[0].ID)
}

func TestSwitchConversationEmptyIDClears(t *testing.T) {
	s := newOfflineSync()
	s.ApplySnapshot([]model.Todo{{ID: "x"}})

	todos, err := s.SwitchConversation(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, todos)
	assert.Empty(t, s.Todos())
	assert.Nil(t, s.Feed())
}

func TestToggleConfirmedReplacesInPlace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			http.NotFound(w, r)
			return
		}
		var patch map[string]string
		json.NewDecoder(r.Body).Decode(&patch)
		json.NewEncoder(w).Encode(model.Todo{ID: "a", Title: "task", Status: model.TodoStatus(patch["status"])})
	}))
	defer server.Close()

	s := NewSynchronizer(agent.NewClient(server.URL), agent.FeedPoll)
	item := model.Todo{ID: "a", Title: "task", Status: model.TodoPending}
	s.ApplySnapshot([]model.Todo{item})

	updated, err := s.Toggle(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, model.TodoCompleted, updated.Status)

	todos := s.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, model.TodoCompleted, todos[0].Status)
}

func TestToggleFailureLeavesListUnchanged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewSynchronizer(agent.NewClient(server.URL), agent.FeedPoll)
	item := model.Todo{ID: "a", Status: model.TodoPending}
	s.ApplySnapshot([]model.Todo{item})

	_, err := s.Toggle(context.Background(), item)
	require.Error(t, err)

	todos := s.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, model.TodoPending, todos[0].Status, "no optimistic local flip")
}
