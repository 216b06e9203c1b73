// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jeranaias/nanami-tui/internal/model"
)

func TestListTodos(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/todos" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("session_id"); got != "conv-1" {
			t.Errorf("session_id = %q", got)
		}
		json.NewEncoder(w).Encode([]model.Todo{
			{ID: "a", Title: "first", Status: model.TodoPending, Order: 0},
			{ID: "b", Title: "second", Status: model.TodoCompleted, Order: 1},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	todos, err := client.ListTodos(context.Background(), "conv-1")
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(todos) != 2 || todos[0].ID != "a" || todos[1].Status != model.TodoCompleted {
		t.Errorf("todos = %+v", todos)
	}
}

func TestUpdateTodoSendsPatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %q", r.Method)
		}
		if r.URL.Path != "/todos/t1" {
			t.Errorf("path = %q", r.URL.Path)
		}

		var patch map[string]any
		json.NewDecoder(r.Body).Decode(&patch)
		if patch["status"] != "completed" {
			t.Errorf("patch = %+v", patch)
		}
		if _, present := patch["title"]; present {
			t.Error("nil title field must be omitted")
		}

		json.NewEncoder(w).Encode(model.Todo{ID: "t1", Title: "x", Status: model.TodoCompleted})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	status := model.TodoCompleted
	updated, err := client.UpdateTodo(context.Background(), "conv-1", "t1", TodoPatch{Status: &status})
	if err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}
	if updated.Status != model.TodoCompleted {
		t.Errorf("updated = %+v", updated)
	}
}

func TestUpdateTodoNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	status := model.TodoCompleted
	_, err := client.UpdateTodo(context.Background(), "conv-1", "ghost", TodoPatch{Status: &status})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusNotFound {
		t.Fatalf("err = %v, want 404 StatusError", err)
	}
}

func TestCreateTodo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/todos" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var payload map[string]string
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["title"] != "write report" {
			t.Errorf("payload = %+v", payload)
		}
		if _, present := payload["description"]; present {
			t.Error("empty description must be omitted")
		}
		json.NewEncoder(w).Encode(model.Todo{ID: "new", Title: "write report", Status: model.TodoPending})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	created, err := client.CreateTodo(context.Background(), "conv-1", "write report", "")
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	if created.ID != "new" || created.Status != model.TodoPending {
		t.Errorf("created = %+v", created)
	}
}

func TestDeleteTodo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/todos/t1" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.DeleteTodo(context.Background(), "conv-1", "t1"); err != nil {
		t.Fatalf("DeleteTodo: %v", err)
	}
}

func TestReorderTodos(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string][]string
		json.NewDecoder(r.Body).Decode(&payload)
		if len(payload["order"]) != 2 || payload["order"][0] != "b" {
			t.Errorf("payload = %+v", payload)
		}
		json.NewEncoder(w).Encode([]model.Todo{
			{ID: "b", Order: 0}, {ID: "a", Order: 1},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	todos, err := client.ReorderTodos(context.Background(), "conv-1", []string{"b", "a"})
	if err != nil {
		t.Fatalf("ReorderTodos: %v", err)
	}
	if todos[0].ID != "b" {
		t.Errorf("todos = %+v", todos)
	}
}

func TestGenerateTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "title": "Fan curve tuning"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	title, err := client.GenerateTitle(context.Background(), []model.HistoryEntry{
		{Role: "user", Content: "help me tune my fan curve"},
	})
	if err != nil {
		t.Fatalf("GenerateTitle: %v", err)
	}
	if title != "Fan curve tuning" {
		t.Errorf("title = %q", title)
	}
}

func TestGenerateTitleBackendFallback(t *testing.T) {
	// The backend answers 200 success=false but still ships a fallback title.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "title": "help me tune..."})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	title, err := client.GenerateTitle(context.Background(), []model.HistoryEntry{{Role: "user", Content: "x"}})
	if err != nil {
		t.Fatalf("GenerateTitle: %v", err)
	}
	if title != "help me tune..." {
		t.Errorf("title = %q", title)
	}
}

func TestExtractPreferences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string][]model.HistoryEntry
		json.NewDecoder(r.Body).Decode(&req)
		if len(req["messages"]) != 2 {
			t.Errorf("messages = %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "preferences": "prefers metric units"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	summary, err := client.ExtractPreferences(context.Background(), []model.HistoryEntry{
		{Role: "user", Content: "use celsius please"},
		{Role: "assistant", Content: "noted"},
	})
	if err != nil {
		t.Fatalf("ExtractPreferences: %v", err)
	}
	if summary != "prefers metric units" {
		t.Errorf("summary = %q", summary)
	}
}

func TestClearAllCache(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/clear_all_cache" {
			t.Errorf("path = %q", r.URL.Path)
		}
		called = true
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.ClearAllCache(context.Background()); err != nil {
		t.Fatalf("ClearAllCache: %v", err)
	}
	if !called {
		t.Error("endpoint never hit")
	}
}

func TestPushFeedDeliversSnapshots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/todos/stream" {
			t.Errorf("path = %q", r.URL.Path)
		}
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")

		fmt.Fprint(w, "event: todos\n")
		fmt.Fprint(w, `data: {"todos": [{"id": "a", "title": "one", "status": "pending"}]}`+"\n\n")
		flusher.Flush()

		fmt.Fprint(w, ": keepalive\n\n")
		flusher.Flush()

		fmt.Fprint(w, "event: todos\n")
		fmt.Fprint(w, `data: {"todos": [{"id": "a", "status": "completed"}, {"id": "b", "status": "pending"}]}`+"\n\n")
		flusher.Flush()
	}))
	defer server.Close()

	client := NewClient(server.URL)
	feed := client.OpenTodoFeed("conv-1", FeedPush)
	defer feed.Close()

	first := receiveSnapshot(t, feed)
	if len(first) != 1 || first[0].ID != "a" {
		t.Errorf("first snapshot = %+v", first)
	}

	second := receiveSnapshot(t, feed)
	if len(second) != 2 || second[0].Status != model.TodoCompleted {
		t.Errorf("second snapshot = %+v", second)
	}
}

func TestPushFeedClosesSilentlyOnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no stream for you", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	feed := client.OpenTodoFeed("conv-1", FeedPush)
	defer feed.Close()

	select {
	case _, open := <-feed.Snapshots():
		if open {
			t.Error("expected closed channel, got snapshot")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("feed channel never closed")
	}
}

func TestPollFeedFetchesSnapshots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.Todo{{ID: "p", Status: model.TodoPending}})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	feed := client.openPollFeed("conv-1", 10*time.Millisecond)
	defer feed.Close()

	snapshot := receiveSnapshot(t, feed)
	if len(snapshot) != 1 || snapshot[0].ID != "p" {
		t.Errorf("snapshot = %+v", snapshot)
	}
}

func receiveSnapshot(t *testing.T, feed TodoFeed) []model.Todo {
	t.Helper()
	select {
	case snapshot, open := <-feed.Snapshots():
		if !open {
			t.Fatal("feed closed unexpectedly")
		}
		return snapshot
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}
