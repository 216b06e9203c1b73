// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"testing"
)

func TestConversationAutoTitle(t *testing.T) {
	conv := NewConversation()
	conv.AddMessage(NewUserMessage("How do I tune the fan curve?\nIt spins too fast."))

	if conv.Title != "How do I tune the fan curve..." {
		t.Errorf("Title = %q", conv.Title)
	}

	// A second user message must not change the title
	conv.AddMessage(NewUserMessage("Another question entirely"))
	if conv.Title != "How do I tune the fan curve..." {
		t.Errorf("Title changed on second message: %q", conv.Title)
	}
}

func TestConversationAutoTitleOnlyForUser(t *testing.T) {
	conv := NewConversation()
	msg := NewAssistantMessage()
	conv.AddMessage(msg)
	if conv.Title != "" {
		t.Errorf("assistant message should not set title, got %q", conv.Title)
	}
}

func TestTruncateAfter(t *testing.T) {
	for n := 1; n <= 5; n++ {
		for k := 1; k <= n; k++ {
			conv := NewConversation()
			ids := make([]string, n)
			for i := 0; i < n; i++ {
				msg := NewUserMessage(fmt.Sprintf("msg %d", i))
				ids[i] = msg.ID
				conv.AddMessage(msg)
			}

			if !conv.TruncateAfter(ids[k-1]) {
				t.Fatalf("TruncateAfter(%d of %d) returned false", k, n)
			}
			if conv.MessageCount() != k-1 {
				t.Errorf("n=%d k=%d: count = %d, want %d", n, k, conv.MessageCount(), k-1)
			}
		}
	}
}

func TestTruncateAfterUnknownID(t *testing.T) {
	conv := NewConversation()
	conv.AddMessage(NewUserMessage("hello"))
	if conv.TruncateAfter("no-such-id") {
		t.Error("TruncateAfter with unknown ID should return false")
	}
	if conv.MessageCount() != 1 {
		t.Errorf("count = %d, want 1", conv.MessageCount())
	}
}

func TestUpdateMessageContentClearsStreaming(t *testing.T) {
	conv := NewConversation()
	msg := NewAssistantMessage()
	conv.AddMessage(msg)

	if !conv.UpdateMessageContent(msg.ID, "final content") {
		t.Fatal("UpdateMessageContent returned false")
	}
	if msg.Content != "final content" {
		t.Errorf("Content = %q", msg.Content)
	}
	if msg.IsStreaming {
		t.Error("IsStreaming should be cleared")
	}
}

func TestHistoryWindowBounded(t *testing.T) {
	conv := NewConversation()
	for i := 0; i < HistoryWindow+7; i++ {
		conv.AddMessage(NewUserMessage(fmt.Sprintf("msg %d", i)))
	}

	hist := conv.History()
	if len(hist) != HistoryWindow {
		t.Fatalf("history length = %d, want %d", len(hist), HistoryWindow)
	}
	if hist[len(hist)-1].Content != fmt.Sprintf("msg %d", HistoryWindow+6) {
		t.Errorf("last entry = %q", hist[len(hist)-1].Content)
	}
}

func TestCanGenerateTitle(t *testing.T) {
	conv := NewConversation()
	conv.AddMessage(NewUserMessage("hi"))
	if !conv.CanGenerateTitle() {
		t.Error("expected CanGenerateTitle true with 1 message")
	}

	conv.TitleGenerated = true
	if conv.CanGenerateTitle() {
		t.Error("expected CanGenerateTitle false after attempt")
	}

	conv2 := NewConversation()
	for i := 0; i < 3; i++ {
		conv2.AddMessage(NewUserMessage("m"))
	}
	if conv2.CanGenerateTitle() {
		t.Error("expected CanGenerateTitle false with >2 messages")
	}
}

func TestTodoStatusToggle(t *testing.T) {
	if TodoPending.Next() != TodoCompleted {
		t.Error("pending should toggle to completed")
	}
	if TodoInProgress.Next() != TodoCompleted {
		t.Error("in_progress should toggle to completed")
	}
	if TodoCompleted.Next() != TodoPending {
		t.Error("completed should toggle to pending")
	}
}
