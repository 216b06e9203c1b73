// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nanami-tui/internal/agent"
	"github.com/jeranaias/nanami-tui/internal/config"
	"github.com/jeranaias/nanami-tui/internal/store"
	"github.com/jeranaias/nanami-tui/internal/todo"
	"github.com/jeranaias/nanami-tui/internal/ui/components"
	"github.com/jeranaias/nanami-tui/internal/ui/styles"
)

// =============================================================================
// FOCUS
// =============================================================================

// focusArea is which pane receives keyboard input.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
	focusTodos
)

// =============================================================================
// LAYOUT CONSTANTS
// =============================================================================

const (
	sidebarWidth   = 26
	todoPanelWidth = 32
	inputCharLimit = 4096
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the whole application view.
type Model struct {
	// Wiring
	store  *store.Store
	client *agent.Client
	tasks  *todo.Synchronizer
	cfg    config.Config

	// Config hot reload, nil when not watching.
	watcher *config.Watcher

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Focus
	focus focusArea

	// Active stream, nil when idle.
	session        *agent.Session
	streamingMsgID string
	cancelMgr      *cancelManager

	// Rendered tool notice/result lines for the in-flight exchange.
	activity []string

	// Files staged for the next send.
	attachments []agent.Attachment

	// Transient status bar note.
	statusNote string

	// UI components
	viewport    viewport.Model
	input       textinput.Model
	spinner     *components.ThinkingSpinner
	markdown    *components.MarkdownRenderer
	messageList *components.MessageList
	tools       *components.ToolActivity
	sidebar     *components.Sidebar
	todoPanel   *components.TodoPanel
	statusBar   *components.StatusBar
	errorBanner *components.ErrorBanner

	keyMap KeyMap
}

// New creates the chat model. The store decides the theme; cfg supplies
// the fallback and the todo feed mode.
func New(st *store.Store, client *agent.Client, cfg config.Config, watcher *config.Watcher) Model {
	themeName := st.Theme()
	if themeName == "" {
		themeName = cfg.UI.Theme
	}
	theme := styles.NewTheme(themeName)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Message Nanami..."
	ti.CharLimit = inputCharLimit
	ti.Focus()

	vp := viewport.New(80, 24)

	markdown := components.NewMarkdownRenderer(theme, 80)

	m := Model{
		store:       st,
		client:      client,
		tasks:       todo.NewSynchronizer(client, agent.FeedMode(cfg.Todos.FeedMode)),
		cfg:         cfg,
		watcher:     watcher,
		theme:       theme,
		cancelMgr:   newCancelManager(),
		viewport:    vp,
		input:       ti,
		spinner:     components.NewThinkingSpinner(theme),
		markdown:    markdown,
		messageList: components.NewMessageList(theme, markdown),
		tools:       components.NewToolActivity(theme),
		sidebar:     components.NewSidebar(theme),
		todoPanel:   components.NewTodoPanel(theme),
		statusBar:   components.NewStatusBar(theme),
		errorBanner: components.NewErrorBanner(theme),
		keyMap:      DefaultKeyMap(),
	}

	m.sidebar.SetConversations(st.Conversations(), st.ActiveID())
	m.refreshTranscript()
	return m
}

// Init starts the todo feed for the active conversation and the config
// watch loop.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if id := m.store.ActiveID(); id != "" {
		cmds = append(cmds, switchConversationCmd(m.tasks, id))
	}
	if m.watcher != nil {
		cmds = append(cmds, waitConfigCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

// streaming reports whether an exchange is in flight.
func (m *Model) streaming() bool {
	return m.session != nil
}
