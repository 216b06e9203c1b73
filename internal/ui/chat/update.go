// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nanami-tui/internal/agent"
	"github.com/jeranaias/nanami-tui/internal/model"
	"github.com/jeranaias/nanami-tui/internal/protocol"
	"github.com/jeranaias/nanami-tui/internal/ui/styles"
)

// interruptedNote is the annotation attached to a turn the user aborted.
const interruptedNote = "interrupted"

// Update is the Bubble Tea update loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case streamStartedMsg:
		m.session = msg.session
		return m, waitEventCmd(msg.session)

	case streamEventMsg:
		return m.handleStreamEvent(msg)

	case feedSnapshotMsg:
		return m.handleFeedSnapshot(msg)

	case conversationSwitchedMsg:
		if msg.err != nil {
			m.errorBanner.Show("Could not load tasks: " + msg.err.Error())
		}
		m.todoPanel.SetTodos(m.tasks.Todos())
		return m, waitFeedCmd(m.tasks.Feed())

	case todoToggledMsg:
		if msg.err != nil {
			m.errorBanner.Show("Todo update failed: " + msg.err.Error())
		}
		m.todoPanel.SetTodos(m.tasks.Todos())
		return m, nil

	case titleGeneratedMsg:
		// A failed round still marks the conversation so the request is
		// made at most once.
		if msg.err == nil {
			m.store.SetTitle(msg.conversationID, msg.title)
		} else {
			m.store.SetTitle(msg.conversationID, "")
		}
		m.sidebar.SetConversations(m.store.Conversations(), m.store.ActiveID())
		return m, nil

	case preferencesExtractedMsg:
		if msg.err != nil {
			m.errorBanner.Show("Preference extraction failed: " + msg.err.Error())
			return m, nil
		}
		m.statusNote = "preferences saved"
		return m, nil

	case cacheClearedMsg:
		if msg.err != nil {
			m.errorBanner.Show("Cache clear failed: " + msg.err.Error())
			return m, nil
		}
		m.statusNote = "backend caches cleared"
		return m, nil

	case attachmentLoadedMsg:
		if msg.err != nil {
			m.errorBanner.Show("Attachment failed: " + msg.err.Error())
			return m, nil
		}
		m.attachments = append(m.attachments, msg.attachment)
		return m, nil

	case configReloadedMsg:
		m.cfg = msg.cfg
		// The persisted theme preference wins; the config theme applies
		// only when the store carries none.
		if m.store.Theme() == "" && msg.cfg.UI.Theme != m.theme.Name {
			m.applyTheme(msg.cfg.UI.Theme)
		}
		return m, waitConfigCmd(m.watcher)

	case statusNoteMsg:
		m.statusNote = msg.note
		return m, nil
	}

	// Spinner ticks and other component messages.
	var cmds []tea.Cmd
	if cmd := m.spinner.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Cancel):
		if m.streaming() {
			m.cancelMgr.cancel()
			return m, nil
		}
		if m.errorBanner.Visible() {
			m.errorBanner.Dismiss()
			return m, nil
		}

	case key.Matches(msg, m.keyMap.NextPane):
		m.cycleFocus()
		return m, nil

	case key.Matches(msg, m.keyMap.NewConv):
		return m.newConversation()

	case key.Matches(msg, m.keyMap.Theme):
		next := "light"
		if m.theme.Name == "light" {
			next = "dark"
		}
		m.store.SetTheme(next)
		m.applyTheme(next)
		return m, nil
	}

	switch m.focus {
	case focusSidebar:
		return m.handleSidebarKey(msg)
	case focusTodos:
		return m.handleTodoKey(msg)
	default:
		return m.handleInputKey(msg)
	}
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		if m.streaming() {
			return m, nil
		}
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Reset()
		if strings.HasPrefix(text, "/") {
			return m.handleSlashCommand(text)
		}
		return m.startSend(text)

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.sidebar.MoveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.sidebar.MoveSelection(1)
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		selected := m.sidebar.Selected()
		if selected == nil || selected.ID == m.store.ActiveID() {
			return m, nil
		}
		if m.streaming() {
			m.errorBanner.Show("Finish or stop the current response first")
			return m, nil
		}
		if err := m.store.Switch(selected.ID); err != nil {
			m.errorBanner.Show(err.Error())
			return m, nil
		}
		m.sidebar.SetConversations(m.store.Conversations(), m.store.ActiveID())
		m.refreshTranscript()
		return m, switchConversationCmd(m.tasks, selected.ID)

	case key.Matches(msg, m.keyMap.Delete):
		selected := m.sidebar.Selected()
		if selected == nil {
			return m, nil
		}
		if err := m.store.Delete(selected.ID); err != nil {
			m.errorBanner.Show(err.Error())
			return m, nil
		}
		m.sidebar.SetConversations(m.store.Conversations(), m.store.ActiveID())
		m.refreshTranscript()
		if id := m.store.ActiveID(); id != "" && id != m.tasks.ConversationID() {
			return m, switchConversationCmd(m.tasks, id)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleTodoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.todoPanel.MoveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.todoPanel.MoveSelection(1)
		return m, nil

	case key.Matches(msg, m.keyMap.Toggle), key.Matches(msg, m.keyMap.Submit):
		selected := m.todoPanel.Selected()
		if selected == nil {
			return m, nil
		}
		return m, toggleTodoCmd(m.tasks, *selected)
	}
	return m, nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand dispatches local commands typed into the input
// line. Unknown commands surface on the banner instead of being sent to
// the backend.
func (m Model) handleSlashCommand(text string) (tea.Model, tea.Cmd) {
	cmd, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/attach":
		if arg == "" {
			m.errorBanner.Show("Usage: /attach <path>")
			return m, nil
		}
		return m, loadAttachmentCmd(arg)

	case "/detach":
		m.attachments = nil
		return m, nil

	case "/prefs":
		active := m.store.Active()
		if active == nil || active.IsEmpty() {
			m.errorBanner.Show("Nothing to extract preferences from")
			return m, nil
		}
		return m, extractPreferencesCmd(m.client, active.History())

	case "/clearcache":
		return m, clearCacheCmd(m.client)

	case "/wipe":
		if err := m.store.ClearAll(); err != nil {
			m.errorBanner.Show(err.Error())
			return m, nil
		}
		m.sidebar.SetConversations(m.store.Conversations(), m.store.ActiveID())
		m.refreshTranscript()
		return m, nil

	case "/quit":
		m.shutdown()
		return m, tea.Quit

	default:
		m.errorBanner.Show("Unknown command: " + cmd)
		return m, nil
	}
}

// =============================================================================
// SEND / STREAM LIFECYCLE
// =============================================================================

// startSend appends the user turn and an assistant placeholder, then
// opens the exchange. The history window is captured before the new
// turn so the backend sees prior context plus the input, not the input
// twice.
func (m Model) startSend(text string) (tea.Model, tea.Cmd) {
	active := m.store.Active()
	if active == nil {
		conv, err := m.store.NewConversation()
		if err != nil {
			m.errorBanner.Show(err.Error())
			return m, nil
		}
		active = conv
		m.sidebar.SetConversations(m.store.Conversations(), m.store.ActiveID())
	}

	history := active.History()

	if err := m.store.AppendMessage(model.NewUserMessage(text)); err != nil {
		m.errorBanner.Show(err.Error())
		return m, nil
	}
	assistant := model.NewAssistantMessage()
	if err := m.store.AppendMessage(assistant); err != nil {
		m.errorBanner.Show(err.Error())
		return m, nil
	}

	m.streamingMsgID = assistant.ID
	m.activity = nil
	m.errorBanner.Dismiss()
	m.sidebar.SetConversations(m.store.Conversations(), m.store.ActiveID())
	m.refreshTranscript()

	req := agent.SendRequest{
		Input:          text,
		Attachments:    m.attachments,
		History:        history,
		ConversationID: active.ID,
	}
	m.attachments = nil

	return m, tea.Batch(
		sendCmd(m.client, m.cancelMgr, req),
		m.spinner.Start(),
	)
}

func (m Model) handleStreamEvent(msg streamEventMsg) (tea.Model, tea.Cmd) {
	// A stale session's events are ignored; only the active exchange
	// mutates the transcript.
	if msg.session != m.session {
		return m, nil
	}

	if !msg.ok {
		return m.finishStream(msg.session)
	}

	m.applyEvent(msg.event)
	m.refreshTranscript()
	return m, waitEventCmd(msg.session)
}

// applyEvent folds one classified event into the transcript and panels.
func (m *Model) applyEvent(ev protocol.Event) {
	m.spinner.Stop()

	switch ev.Kind {
	case protocol.EventText:
		if msg := m.streamingMessage(); msg != nil {
			if msg.Content != "" {
				msg.Append("\n")
			}
			msg.Append(ev.Content)
		}

	case protocol.EventToolNotice:
		m.activity = append(m.activity, m.tools.RenderNotice(ev))

	case protocol.EventToolResult:
		if m.tasks.ApplyToolResult(ev.Payload) {
			m.todoPanel.SetTodos(m.tasks.Todos())
		}
		m.activity = append(m.activity, m.tools.RenderResult(ev))

	case protocol.EventMeta:
		// Meta may carry a todo snapshot alongside bookkeeping fields.
		if m.tasks.ApplyToolResult(ev.Payload) {
			m.todoPanel.SetTodos(m.tasks.Todos())
		}
	}
}

// finishStream persists the assembled turn and reports how the session
// ended.
func (m Model) finishStream(session *agent.Session) (tea.Model, tea.Cmd) {
	m.session = nil
	m.spinner.Stop()
	m.cancelMgr.cancel()

	msgID := m.streamingMsgID
	m.streamingMsgID = ""

	content := ""
	if active := m.store.Active(); active != nil {
		if msg := active.GetMessageByID(msgID); msg != nil {
			content = msg.Content
		}
	}

	var cmds []tea.Cmd
	switch session.State() {
	case agent.StateCompleted:
		m.store.UpdateMessageContent(msgID, content)
		if active := m.store.Active(); active != nil && active.CanGenerateTitle() {
			cmds = append(cmds, generateTitleCmd(m.client, active.ID, active.History()))
		}

	case agent.StateAborted:
		m.store.UpdateMessageContent(msgID, content)
		m.store.SetMessageError(msgID, interruptedNote)

	case agent.StateFailed:
		err := session.Err()
		annotation := "response failed"
		var streamErr *agent.StreamError
		if errors.As(err, &streamErr) {
			annotation = "stream interrupted: " + streamErr.Err.Error()
		} else if err != nil {
			annotation = err.Error()
		}
		m.store.UpdateMessageContent(msgID, content)
		m.store.SetMessageError(msgID, annotation)
		m.errorBanner.Show(annotation)
	}

	m.refreshTranscript()
	return m, tea.Batch(cmds...)
}

func (m Model) handleFeedSnapshot(msg feedSnapshotMsg) (tea.Model, tea.Cmd) {
	// Snapshots from a torn-down feed are dropped.
	if msg.feed != m.tasks.Feed() {
		return m, nil
	}
	if !msg.ok {
		// Feed closed. Tool results keep the panel current; the feed
		// reopens on the next conversation switch.
		return m, nil
	}
	m.tasks.ApplySnapshot(msg.todos)
	m.todoPanel.SetTodos(m.tasks.Todos())
	return m, waitFeedCmd(msg.feed)
}

// =============================================================================
// STATE HELPERS
// =============================================================================

// streamingMessage returns the in-memory assistant message being
// assembled, or nil.
func (m *Model) streamingMessage() *model.Message {
	if m.streamingMsgID == "" {
		return nil
	}
	active := m.store.Active()
	if active == nil {
		return nil
	}
	return active.GetMessageByID(m.streamingMsgID)
}

func (m *Model) newConversation() (tea.Model, tea.Cmd) {
	if m.streaming() {
		m.errorBanner.Show("Finish or stop the current response first")
		return *m, nil
	}
	conv, err := m.store.NewConversation()
	if err != nil {
		m.errorBanner.Show(err.Error())
		return *m, nil
	}
	m.sidebar.SetConversations(m.store.Conversations(), m.store.ActiveID())
	m.refreshTranscript()
	return *m, switchConversationCmd(m.tasks, conv.ID)
}

func (m *Model) cycleFocus() {
	m.sidebar.SetFocused(false)
	m.todoPanel.SetFocused(false)
	m.input.Blur()

	switch m.focus {
	case focusInput:
		m.focus = focusSidebar
		m.sidebar.SetFocused(true)
	case focusSidebar:
		m.focus = focusTodos
		m.todoPanel.SetFocused(true)
	default:
		m.focus = focusInput
		m.input.Focus()
	}
}

// applyTheme rebuilds the theme and pushes it to every component.
func (m *Model) applyTheme(name string) {
	m.theme = styles.NewTheme(name)
	m.theme.SetSize(m.width, m.height)
	m.markdown.SetTheme(m.theme)
	m.messageList.SetTheme(m.theme)
	m.tools.SetTheme(m.theme)
	m.sidebar.SetTheme(m.theme)
	m.todoPanel.SetTheme(m.theme)
	m.statusBar.SetTheme(m.theme)
	m.errorBanner.SetTheme(m.theme)
	m.refreshTranscript()
}

// shutdown releases the stream and feed before the program exits.
func (m *Model) shutdown() {
	m.cancelMgr.cancel()
	m.tasks.Close()
	if m.watcher != nil {
		m.watcher.Close()
	}
}
