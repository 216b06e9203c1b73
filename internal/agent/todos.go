// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jeranaias/nanami-tui/internal/model"
)

// =============================================================================
// TODO ENDPOINTS
// =============================================================================

// Todos are scoped per conversation on the server: every call carries the
// conversation ID as the session_id query parameter.

// ListTodos fetches the ordered todo snapshot for a conversation.
func (c *Client) ListTodos(ctx context.Context, conversationID string) ([]model.Todo, error) {
	var todos []model.Todo
	err := c.doJSON(ctx, http.MethodGet, c.todoURL("/todos", conversationID), nil, &todos)
	if err != nil {
		return nil, err
	}
	return todos, nil
}

// TodoPatch is a partial update for one todo. Nil fields are left unchanged.
type TodoPatch struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Status      *model.TodoStatus `json:"status,omitempty"`
}

// UpdateTodo patches one todo and returns the server's updated copy. The
// caller replaces its local item only with this confirmed copy, never
// optimistically.
func (c *Client) UpdateTodo(ctx context.Context, conversationID, todoID string, patch TodoPatch) (*model.Todo, error) {
	var updated model.Todo
	path := "/todos/" + url.PathEscape(todoID)
	if err := c.doJSON(ctx, http.MethodPatch, c.todoURL(path, conversationID), patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CreateTodo creates a todo in the conversation's list.
func (c *Client) CreateTodo(ctx context.Context, conversationID, title, description string) (*model.Todo, error) {
	payload := map[string]string{"title": title}
	if description != "" {
		payload["description"] = description
	}
	var created model.Todo
	if err := c.doJSON(ctx, http.MethodPost, c.todoURL("/todos", conversationID), payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteTodo removes a todo by ID.
func (c *Client) DeleteTodo(ctx context.Context, conversationID, todoID string) error {
	path := "/todos/" + url.PathEscape(todoID)
	return c.doJSON(ctx, http.MethodDelete, c.todoURL(path, conversationID), nil, nil)
}

// ReorderTodos applies an explicit ordering and returns the reordered list.
func (c *Client) ReorderTodos(ctx context.Context, conversationID string, ids []string) ([]model.Todo, error) {
	payload := map[string][]string{"order": ids}
	var todos []model.Todo
	if err := c.doJSON(ctx, http.MethodPost, c.todoURL("/todos/reorder", conversationID), payload, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// ClearAllCache wipes all backend state: conversations, todos, uploads.
// Paired with the store's ClearAll so client and server forget together.
func (c *Client) ClearAllCache(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, c.url("/api/clear_all_cache"), nil, nil)
}

// todoURL builds a todo endpoint URL with the session_id query parameter.
func (c *Client) todoURL(path, conversationID string) string {
	u := c.url(path)
	if conversationID != "" {
		u += "?session_id=" + url.QueryEscape(conversationID)
	}
	return u
}

// =============================================================================
// JSON ROUND-TRIP HELPER
// =============================================================================

// doJSON performs one bounded JSON request. A nil body sends no payload; a
// nil out discards the response body.
func (c *Client) doJSON(ctx context.Context, method, rawURL string, body, out any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return statusError(resp.StatusCode, respBody)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
