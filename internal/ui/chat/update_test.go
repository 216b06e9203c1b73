// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nanami-tui/internal/agent"
	"github.com/jeranaias/nanami-tui/internal/config"
	"github.com/jeranaias/nanami-tui/internal/model"
	"github.com/jeranaias/nanami-tui/internal/protocol"
	"github.com/jeranaias/nanami-tui/internal/store"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	client := agent.NewClient("http://127.0.0.1:1")
	m := New(st, client, config.Default(), nil)
	m.resize(120, 40)
	return &m
}

// seedStreamingTurn appends a user turn and an assistant placeholder,
// mirroring what startSend does before the stream opens.
func seedStreamingTurn(t *testing.T, m *Model) *model.Message {
	t.Helper()
	if _, err := m.store.NewConversation(); err != nil {
		t.Fatalf("NewConversation: %v", err)
	}
	if err := m.store.AppendMessage(model.NewUserMessage("hi")); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	assistant := model.NewAssistantMessage()
	if err := m.store.AppendMessage(assistant); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	m.streamingMsgID = assistant.ID
	return assistant
}

func TestApplyEventAccumulatesTextLines(t *testing.T) {
	m := newTestModel(t)
	assistant := seedStreamingTurn(t, m)

	m.applyEvent(protocol.Event{Kind: protocol.EventText, Content: "first line"})
	m.applyEvent(protocol.Event{Kind: protocol.EventText, Content: "second line"})

	got := m.store.Active().GetMessageByID(assistant.ID).Content
	want := "first line\nsecond line"
	if got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestApplyEventToolResultUpdatesTodos(t *testing.T) {
	m := newTestModel(t)
	seedStreamingTurn(t, m)

	m.applyEvent(protocol.Event{
		Kind:     protocol.EventToolResult,
		ToolName: "create_todo",
		Payload: map[string]any{
			"todo": map[string]any{"id": "t1", "title": "Ship it", "status": "pending"},
		},
	})

	todos := m.tasks.Todos()
	if len(todos) != 1 || todos[0].ID != "t1" {
		t.Fatalf("todos = %+v, want the created item", todos)
	}
	if len(m.activity) != 1 {
		t.Errorf("activity lines = %d, want 1", len(m.activity))
	}
}

func TestApplyEventToolNoticeOnlyAddsActivity(t *testing.T) {
	m := newTestModel(t)
	assistant := seedStreamingTurn(t, m)

	m.applyEvent(protocol.Event{Kind: protocol.EventToolNotice, Content: "[🔧 working...]"})

	if got := m.store.Active().GetMessageByID(assistant.ID).Content; got != "" {
		t.Errorf("notice must not touch message content, got %q", got)
	}
	if len(m.activity) != 1 {
		t.Errorf("activity lines = %d, want 1", len(m.activity))
	}
}

func TestCycleFocusRotation(t *testing.T) {
	m := newTestModel(t)

	if m.focus != focusInput {
		t.Fatalf("initial focus = %d, want input", m.focus)
	}
	m.cycleFocus()
	if m.focus != focusSidebar || !m.sidebar.Focused() {
		t.Error("first cycle should focus sidebar")
	}
	m.cycleFocus()
	if m.focus != focusTodos || !m.todoPanel.Focused() {
		t.Error("second cycle should focus todo panel")
	}
	m.cycleFocus()
	if m.focus != focusInput {
		t.Error("third cycle should return to input")
	}
	if m.sidebar.Focused() || m.todoPanel.Focused() {
		t.Error("panels must lose focus when input regains it")
	}
}

func TestUnknownSlashCommandShowsBanner(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.handleSlashCommand("/bogus")
	um := updated.(Model)
	if !um.errorBanner.Visible() {
		t.Error("unknown command should surface on the error banner")
	}
}

func TestStaleSessionEventsIgnored(t *testing.T) {
	m := newTestModel(t)
	assistant := seedStreamingTurn(t, m)

	stale := agent.NewClient("http://127.0.0.1:1").Send(canceledContext(), agent.SendRequest{Input: "x"})
	updated, cmd := m.handleStreamEvent(streamEventMsg{
		session: stale,
		event:   protocol.Event{Kind: protocol.EventText, Content: "ghost"},
		ok:      true,
	})
	um := updated.(Model)

	if got := um.store.Active().GetMessageByID(assistant.ID).Content; got != "" {
		t.Errorf("stale event mutated transcript: %q", got)
	}
	if cmd != nil {
		t.Error("stale event must not re-arm the wait command")
	}
}

func TestCancelManagerIsIdempotent(t *testing.T) {
	cm := newCancelManager()
	cm.cancel() // nothing stored

	called := 0
	cm.set(func() { called++ })
	cm.cancel()
	cm.cancel()
	if called != 1 {
		t.Errorf("cancel func invoked %d times, want 1", called)
	}
}

func TestCancelManagerSetReplacesAndCancels(t *testing.T) {
	cm := newCancelManager()
	firstCanceled := false
	cm.set(func() { firstCanceled = true })
	cm.set(func() {})
	if !firstCanceled {
		t.Error("replacing a cancel func must cancel the old context")
	}
}

func TestStreamingDisablesSubmit(t *testing.T) {
	m := newTestModel(t)
	seedStreamingTurn(t, m)
	m.session = agent.NewClient("http://127.0.0.1:1").Send(canceledContext(), agent.SendRequest{Input: "x"})
	m.input.SetValue("another message")

	updated, _ := m.handleInputKey(tea.KeyMsg{Type: tea.KeyEnter})
	um := updated.(Model)

	if got := um.input.Value(); got != "another message" {
		t.Errorf("input should be untouched while streaming, got %q", got)
	}
}

func canceledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}
