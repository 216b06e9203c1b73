// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file holds the tea.Cmd constructors. Every backend round-trip
// lives here; Update never blocks.
package chat

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nanami-tui/internal/agent"
	"github.com/jeranaias/nanami-tui/internal/config"
	"github.com/jeranaias/nanami-tui/internal/model"
	"github.com/jeranaias/nanami-tui/internal/todo"
)

// requestTimeout bounds the short, non-streaming backend calls.
const requestTimeout = 15 * time.Second

// =============================================================================
// STREAM COMMANDS
// =============================================================================

// sendCmd opens the chat exchange. The cancel function lands in the
// manager before the command returns, so Esc can abort immediately.
func sendCmd(client *agent.Client, cancelMgr *cancelManager, req agent.SendRequest) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	cancelMgr.set(cancel)
	return func() tea.Msg {
		session := client.Send(ctx, req)
		return streamStartedMsg{session: session}
	}
}

// waitEventCmd blocks on the session's event channel for exactly one
// event. Re-issued after every delivery, which preserves event order
// through the Update loop.
func waitEventCmd(session *agent.Session) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-session.Events()
		return streamEventMsg{session: session, event: ev, ok: ok}
	}
}

// =============================================================================
// TODO COMMANDS
// =============================================================================

// waitFeedCmd blocks for one snapshot from the todo feed.
func waitFeedCmd(feed agent.TodoFeed) tea.Cmd {
	if feed == nil {
		return nil
	}
	return func() tea.Msg {
		todos, ok := <-feed.Snapshots()
		return feedSnapshotMsg{feed: feed, todos: todos, ok: ok}
	}
}

// switchConversationCmd retargets the synchronizer and fetches the new
// conversation's todos.
func switchConversationCmd(tasks *todo.Synchronizer, conversationID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		todos, err := tasks.SwitchConversation(ctx, conversationID)
		return conversationSwitchedMsg{
			conversationID: conversationID,
			todos:          todos,
			err:            err,
		}
	}
}

// toggleTodoCmd cycles a todo's status through the backend.
func toggleTodoCmd(tasks *todo.Synchronizer, item model.Todo) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		updated, err := tasks.Toggle(ctx, item)
		return todoToggledMsg{todo: updated, err: err}
	}
}

// =============================================================================
// BACKEND ROUND-TRIP COMMANDS
// =============================================================================

// generateTitleCmd asks the backend to title the conversation from its
// opening exchange.
func generateTitleCmd(client *agent.Client, conversationID string, history []model.HistoryEntry) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		title, err := client.GenerateTitle(ctx, history)
		return titleGeneratedMsg{conversationID: conversationID, title: title, err: err}
	}
}

// extractPreferencesCmd asks the backend to mine durable user
// preferences from the conversation.
func extractPreferencesCmd(client *agent.Client, history []model.HistoryEntry) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		summary, err := client.ExtractPreferences(ctx, history)
		return preferencesExtractedMsg{summary: summary, err: err}
	}
}

// clearCacheCmd flushes the backend's caches.
func clearCacheCmd(client *agent.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return cacheClearedMsg{err: client.ClearAllCache(ctx)}
	}
}

// =============================================================================
// AMBIENT COMMANDS
// =============================================================================

// waitConfigCmd blocks for one hot-reloaded configuration.
func waitConfigCmd(watcher *config.Watcher) tea.Cmd {
	return func() tea.Msg {
		cfg, ok := <-watcher.Updates()
		if !ok {
			return nil
		}
		return configReloadedMsg{cfg: cfg}
	}
}

// loadAttachmentCmd reads a file to stage with the next send.
func loadAttachmentCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return attachmentLoadedMsg{err: err}
		}
		return attachmentLoadedMsg{attachment: agent.Attachment{
			Name: filepath.Base(path),
			Data: data,
		}}
	}
}
