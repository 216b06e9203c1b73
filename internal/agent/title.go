// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"context"
	"errors"
	"net/http"

	"github.com/jeranaias/nanami-tui/internal/model"
)

// =============================================================================
// TITLE GENERATION
// =============================================================================

type titleResponse struct {
	Success bool   `json:"success"`
	Title   string `json:"title"`
	Error   string `json:"error,omitempty"`
}

// GenerateTitle asks the backend's compact model for a conversation title.
// The backend itself falls back to a truncated first message on model
// failure, so a 200 with success=false can still carry a usable title.
func (c *Client) GenerateTitle(ctx context.Context, history []model.HistoryEntry) (string, error) {
	if len(history) == 0 {
		return "", errors.New("no messages to title")
	}

	var resp titleResponse
	if err := c.doJSON(ctx, http.MethodPost, c.url("/generate_title"), history, &resp); err != nil {
		return "", err
	}
	if resp.Title == "" {
		if resp.Error != "" {
			return "", errors.New(resp.Error)
		}
		return "", errors.New("backend returned empty title")
	}
	return resp.Title, nil
}

// =============================================================================
// PREFERENCE EXTRACTION
// =============================================================================

type preferencesRequest struct {
	Messages []model.HistoryEntry `json:"messages"`
}

type preferencesResponse struct {
	Success     bool   `json:"success"`
	Preferences string `json:"preferences"`
	Error       string `json:"error,omitempty"`
}

// ExtractPreferences asks the backend to distill user preferences from the
// conversation into its long-term memory. Returns the extracted summary.
// The backend rejects histories shorter than two messages.
func (c *Client) ExtractPreferences(ctx context.Context, history []model.HistoryEntry) (string, error) {
	var resp preferencesResponse
	err := c.doJSON(ctx, http.MethodPost, c.url("/extract_preferences"), preferencesRequest{Messages: history}, &resp)
	if err != nil {
		return "", err
	}
	if !resp.Success {
		if resp.Error != "" {
			return "", errors.New(resp.Error)
		}
		return "", errors.New("preference extraction failed")
	}
	return resp.Preferences, nil
}
