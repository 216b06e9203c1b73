// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea message types for the chat view.
// Messages fall into four groups: stream lifecycle, todo feed, backend
// round-trips (title, preferences, cache), and ambient (config reload,
// attachments).
package chat

import (
	"github.com/jeranaias/nanami-tui/internal/agent"
	"github.com/jeranaias/nanami-tui/internal/config"
	"github.com/jeranaias/nanami-tui/internal/model"
	"github.com/jeranaias/nanami-tui/internal/protocol"
)

// =============================================================================
// STREAM MESSAGES
// =============================================================================

// streamStartedMsg reports that a send produced a live session.
type streamStartedMsg struct {
	session *agent.Session
}

// streamEventMsg delivers one classified event from the session. ok is
// false when the event channel closed, meaning the session reached a
// terminal state.
type streamEventMsg struct {
	session *agent.Session
	event   protocol.Event
	ok      bool
}

// =============================================================================
// TODO FEED MESSAGES
// =============================================================================

// feedSnapshotMsg delivers one snapshot from the todo feed. ok is false
// when the feed closed.
type feedSnapshotMsg struct {
	feed  agent.TodoFeed
	todos []model.Todo
	ok    bool
}

// conversationSwitchedMsg reports the result of retargeting the todo
// synchronizer at another conversation.
type conversationSwitchedMsg struct {
	conversationID string
	todos          []model.Todo
	err            error
}

// todoToggledMsg reports the outcome of a status toggle round-trip.
type todoToggledMsg struct {
	todo *model.Todo
	err  error
}

// =============================================================================
// BACKEND ROUND-TRIP MESSAGES
// =============================================================================

// titleGeneratedMsg delivers a backend-generated conversation title.
type titleGeneratedMsg struct {
	conversationID string
	title          string
	err            error
}

// preferencesExtractedMsg reports the result of a preference extraction
// request.
type preferencesExtractedMsg struct {
	summary string
	err     error
}

// cacheClearedMsg reports the result of a backend cache flush.
type cacheClearedMsg struct {
	err error
}

// =============================================================================
// AMBIENT MESSAGES
// =============================================================================

// configReloadedMsg delivers a hot-reloaded configuration.
type configReloadedMsg struct {
	cfg config.Config
}

// attachmentLoadedMsg delivers a file staged for the next send.
type attachmentLoadedMsg struct {
	attachment agent.Attachment
	err        error
}

// statusNoteMsg shows a transient note in the status bar.
type statusNoteMsg struct {
	note string
}
