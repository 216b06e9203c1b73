// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// TODO STATUS
// =============================================================================

// TodoStatus is the lifecycle state of a todo item.
type TodoStatus string

const (
	TodoPending    TodoStatus = "pending"
	TodoInProgress TodoStatus = "in_progress"
	TodoCompleted  TodoStatus = "completed"
)

// Glyph returns the checkbox glyph for the status.
func (s TodoStatus) Glyph() string {
	switch s {
	case TodoCompleted:
		return "[x]"
	case TodoInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}

// Next returns the status a toggle moves to: anything not completed becomes
// completed, completed reopens as pending.
func (s TodoStatus) Next() TodoStatus {
	if s == TodoCompleted {
		return TodoPending
	}
	return TodoCompleted
}

// =============================================================================
// TODO TYPE
// =============================================================================

// Todo is one task item as served by the backend. CreatedAt/UpdatedAt are
// unix-seconds floats on the wire.
type Todo struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TodoStatus `json:"status"`
	Priority    string     `json:"priority,omitempty"`
	Order       int        `json:"order"`
	CreatedAt   float64    `json:"created_at,omitempty"`
	UpdatedAt   float64    `json:"updated_at,omitempty"`
}

// IsDone returns true when the todo is completed.
func (t *Todo) IsDone() bool {
	return t.Status == TodoCompleted
}
