// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/nanami-tui/internal/model"
	"github.com/jeranaias/nanami-tui/internal/protocol"
)

// collectEvents drains a session's event channel.
func collectEvents(s *Session) []protocol.Event {
	var events []protocol.Event
	for ev := range s.Events() {
		events = append(events, ev)
	}
	return events
}

func TestSendStreamsEventsInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		// Chunk boundaries deliberately cut through lines and markers.
		chunks := []string{
			"Hello, I will ",
			"look into that.\n[🔧 create_todo]\n[✓ create_todo]: {\"todo\":",
			"{\"id\":\"t1\",\"status\":\"pending\"}}\n",
			"[meta] {'task_type': 'agent'}\nDone.",
		}
		for _, chunk := range chunks {
			fmt.Fprint(w, chunk)
			flusher.Flush()
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	session := client.Send(context.Background(), SendRequest{Input: "do something"})

	events := collectEvents(session)

	if session.State() != StateCompleted {
		t.Fatalf("state = %v, want completed (err: %v)", session.State(), session.Err())
	}
	if session.Err() != nil {
		t.Fatalf("unexpected error: %v", session.Err())
	}

	wantKinds := []protocol.EventKind{
		protocol.EventText,
		protocol.EventToolNotice,
		protocol.EventToolResult,
		protocol.EventMeta,
		protocol.EventText,
	}
	if len(events) != len(wantKinds) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(wantKinds), events)
	}
	for i, kind := range wantKinds {
		if events[i].Kind != kind {
			t.Errorf("event %d kind = %v, want %v", i, events[i].Kind, kind)
		}
	}

	if events[0].Content != "Hello, I will look into that." {
		t.Errorf("text event = %q", events[0].Content)
	}
	if events[2].ToolName != "create_todo" {
		t.Errorf("tool name = %q", events[2].ToolName)
	}
	// The partial trailing line must be flushed on end-of-body.
	if events[4].Content != "Done." {
		t.Errorf("final text = %q", events[4].Content)
	}
}

func TestSendCarriesRequestFields(t *testing.T) {
	var gotInput, gotMessages, gotSessionID string
	var gotFile []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		gotInput = r.FormValue("input")
		gotMessages = r.FormValue("messages")
		gotSessionID = r.FormValue("session_id")

		if file, _, err := r.FormFile("files"); err == nil {
			buf := make([]byte, 16)
			n, _ := file.Read(buf)
			gotFile = buf[:n]
			file.Close()
		}
		fmt.Fprint(w, "ok\n")
	}))
	defer server.Close()

	client := NewClient(server.URL)
	session := client.Send(context.Background(), SendRequest{
		Input:          "hello",
		ConversationID: "conv-42",
		History: []model.HistoryEntry{
			{Role: "user", Content: "earlier"},
			{Role: "assistant", Content: "reply"},
		},
		Attachments: []Attachment{{Name: "notes.txt", Data: []byte("attached")}},
	})
	collectEvents(session)

	if gotInput != "hello" {
		t.Errorf("input = %q", gotInput)
	}
	if gotSessionID != "conv-42" {
		t.Errorf("session_id = %q", gotSessionID)
	}
	if !strings.Contains(gotMessages, `"earlier"`) || !strings.Contains(gotMessages, `"assistant"`) {
		t.Errorf("messages = %q", gotMessages)
	}
	if string(gotFile) != "attached" {
		t.Errorf("file = %q", gotFile)
	}
}

func TestSendNon2xxFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	session := client.Send(context.Background(), SendRequest{Input: "x"})
	events := collectEvents(session)

	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
	if session.State() != StateFailed {
		t.Fatalf("state = %v, want failed", session.State())
	}

	var statusErr *StatusError
	if !errors.As(session.Err(), &statusErr) {
		t.Fatalf("err = %v, want StatusError", session.Err())
	}
	if statusErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d", statusErr.Status)
	}
}

func TestSendAbortPreservesDeliveredContent(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "partial answer\n")
		flusher.Flush()
		<-release // hold the connection open until the test ends
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(server.URL)
	session := client.Send(ctx, SendRequest{Input: "x"})

	// Cancel as soon as the first text event arrived.
	var events []protocol.Event
	select {
	case ev := <-session.Events():
		events = append(events, ev)
		cancel()
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for first event")
	}
	events = append(events, collectEvents(session)...)

	if session.State() != StateAborted {
		t.Fatalf("state = %v, want aborted", session.State())
	}
	if !errors.Is(session.Err(), ErrAborted) {
		t.Errorf("err = %v, want ErrAborted", session.Err())
	}
	if len(events) == 0 || events[0].Content != "partial answer" {
		t.Errorf("accumulated events lost: %+v", events)
	}
	cancel()
}

func TestSendNotConfigured(t *testing.T) {
	client := NewClient("")
	session := client.Send(context.Background(), SendRequest{Input: "x"})
	collectEvents(session)

	if session.State() != StateFailed {
		t.Fatalf("state = %v, want failed", session.State())
	}
	if !errors.Is(session.Err(), ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", session.Err())
	}
}

func TestSessionStateString(t *testing.T) {
	states := map[SessionState]string{
		StateIdle:       "idle",
		StateRequesting: "requesting",
		StateStreaming:  "streaming",
		StateCompleted:  "completed",
		StateAborted:    "aborted",
		StateFailed:     "failed",
	}
	for state, want := range states {
		if state.String() != want {
			t.Errorf("%d.String() = %q, want %q", state, state.String(), want)
		}
	}
	if StateStreaming.Terminal() {
		t.Error("streaming must not be terminal")
	}
	if !StateAborted.Terminal() {
		t.Error("aborted must be terminal")
	}
}
