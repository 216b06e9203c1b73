// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nanami-tui/internal/model"
	"github.com/jeranaias/nanami-tui/internal/ui/styles"
)

// =============================================================================
// TODO PANEL COMPONENT
// =============================================================================

// TodoPanel renders the live task list for the active conversation.
type TodoPanel struct {
	todos    []model.Todo
	selected int
	focused  bool

	theme  *styles.Theme
	width  int
	height int
}

// NewTodoPanel creates an empty todo panel.
func NewTodoPanel(theme *styles.Theme) *TodoPanel {
	return &TodoPanel{theme: theme, selected: -1}
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// SetSize sets the panel dimensions.
func (tp *TodoPanel) SetSize(width, height int) {
	tp.width = width
	tp.height = height
}

// SetTheme swaps the active theme.
func (tp *TodoPanel) SetTheme(theme *styles.Theme) {
	tp.theme = theme
}

// SetTodos replaces the displayed items, clamping the selection so it
// never points past the end after a snapshot shrinks the list.
func (tp *TodoPanel) SetTodos(todos []model.Todo) {
	tp.todos = todos
	if tp.selected >= len(todos) {
		tp.selected = len(todos) - 1
	}
	if tp.selected < 0 && len(todos) > 0 && tp.focused {
		tp.selected = 0
	}
}

// SetFocused marks whether the panel has keyboard focus.
func (tp *TodoPanel) SetFocused(focused bool) {
	tp.focused = focused
	if focused && tp.selected < 0 && len(tp.todos) > 0 {
		tp.selected = 0
	}
	if !focused {
		tp.selected = -1
	}
}

// Focused reports whether the panel has keyboard focus.
func (tp *TodoPanel) Focused() bool {
	return tp.focused
}

// MoveSelection moves the cursor by delta, clamped to the list.
func (tp *TodoPanel) MoveSelection(delta int) {
	if len(tp.todos) == 0 {
		tp.selected = -1
		return
	}
	tp.selected += delta
	if tp.selected < 0 {
		tp.selected = 0
	}
	if tp.selected >= len(tp.todos) {
		tp.selected = len(tp.todos) - 1
	}
}

// Selected returns the item under the cursor, or nil.
func (tp *TodoPanel) Selected() *model.Todo {
	if tp.selected < 0 || tp.selected >= len(tp.todos) {
		return nil
	}
	return &tp.todos[tp.selected]
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the panel.
func (tp *TodoPanel) View() string {
	var b strings.Builder

	b.WriteString(tp.renderHeader())
	b.WriteString("\n")

	if len(tp.todos) == 0 {
		b.WriteString(tp.renderEmpty())
		return tp.theme.TodoPanel.Render(b.String())
	}

	for i, todo := range tp.todos {
		b.WriteString("\n")
		b.WriteString(tp.renderTodo(&todo, i == tp.selected))
	}

	b.WriteString("\n\n")
	b.WriteString(tp.renderFooter())

	return tp.theme.TodoPanel.Render(b.String())
}

func (tp *TodoPanel) renderHeader() string {
	return tp.theme.TodoTitle.Render("Tasks")
}

func (tp *TodoPanel) renderEmpty() string {
	empty := lipgloss.NewStyle().
		Foreground(tp.theme.Palette.TextMuted).
		Italic(true).
		Padding(1, 0)
	return empty.Render("No tasks yet")
}

// renderTodo renders a single item row with its status glyph.
func (tp *TodoPanel) renderTodo(todo *model.Todo, selected bool) string {
	style := tp.styleFor(todo.Status)

	title := todo.Title
	maxTitle := tp.contentWidth() - 4
	if maxTitle > 0 && len([]rune(title)) > maxTitle {
		title = string([]rune(title)[:maxTitle-3]) + "..."
	}

	row := todo.Status.Glyph() + " " + style.Render(title)
	if selected {
		row = tp.theme.TodoSelected.Render(row)
	}

	if selected && todo.Description != "" {
		desc := tp.theme.TodoDescription.Render(
			WrapText(todo.Description, tp.contentWidth()-4))
		row += "\n" + desc
	}
	return row
}

func (tp *TodoPanel) styleFor(status model.TodoStatus) lipgloss.Style {
	switch status {
	case model.TodoCompleted:
		return tp.theme.TodoCompleted
	case model.TodoInProgress:
		return tp.theme.TodoInProgress
	default:
		return tp.theme.TodoPending
	}
}

// renderFooter summarizes completion progress.
func (tp *TodoPanel) renderFooter() string {
	done := 0
	for _, todo := range tp.todos {
		if todo.IsDone() {
			done++
		}
	}
	summary := fmt.Sprintf("%d/%d done", done, len(tp.todos))
	return tp.theme.SidebarMeta.Render(summary)
}

func (tp *TodoPanel) contentWidth() int {
	w := tp.width - 2
	if w < 12 {
		w = 12
	}
	return w
}
