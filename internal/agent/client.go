// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the Nanami backend.
type Client struct {
	baseURL string

	// httpClient serves bounded REST round-trips.
	httpClient *http.Client

	// streamClient serves the chat stream and the SSE feed; no client
	// timeout, lifetime is governed by the caller's context.
	streamClient *http.Client
}

// NewClient creates a client for the given base URL (e.g. "http://127.0.0.1:7878").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		streamClient: &http.Client{},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IsConfigured returns true when a base URL is set.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// url joins a path onto the base URL.
func (c *Client) url(path string) string {
	return c.baseURL + path
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotConfigured is returned when no backend base URL is set.
var ErrNotConfigured = errors.New("backend not configured: base URL is empty")

// ErrAborted is the distinguished terminal condition of a caller-cancelled
// stream. It is not a failure; content accumulated before the abort is kept.
var ErrAborted = errors.New("stream aborted")

// StatusError reports a non-2xx backend response.
type StatusError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// StreamError wraps a mid-stream transport failure, preserving content
// received before the error so the caller can keep the partial message.
type StreamError struct {
	Partial string
	Err     error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.Partial != "" {
		return fmt.Sprintf("stream error (partial content received: %d chars): %v", len(e.Partial), e.Err)
	}
	return fmt.Sprintf("stream error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error {
	return e.Err
}

// statusError drains a response body into a StatusError.
func statusError(status int, body []byte) error {
	text := strings.TrimSpace(string(body))
	const maxBody = 512
	if len(text) > maxBody {
		text = text[:maxBody]
	}
	return &StatusError{Status: status, Body: text}
}
