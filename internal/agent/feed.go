// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/nanami-tui/internal/model"
)

// =============================================================================
// TODO FEED CAPABILITY
// =============================================================================

// TodoFeed delivers todo-list snapshots for one conversation until closed.
// Each delivered snapshot is a complete replacement view (last-write-wins on
// the consumer side). A feed that fails closes its channel silently; the
// consumer falls back to explicit ListTodos fetches; the feed does not retry
// itself.
type TodoFeed interface {
	// Snapshots returns the snapshot channel. Closed on feed teardown or
	// failure.
	Snapshots() <-chan []model.Todo
	// Close tears the feed down. Safe to call more than once.
	Close()
}

// FeedMode selects the feed implementation.
type FeedMode string

const (
	// FeedPush subscribes to the backend's SSE stream.
	FeedPush FeedMode = "push"
	// FeedPoll fetches snapshots on a fixed cadence.
	FeedPoll FeedMode = "poll"
)

// DefaultPollInterval is the cadence of the polling feed.
const DefaultPollInterval = 2 * time.Second

// OpenTodoFeed opens a feed for the conversation using the given mode.
// Unrecognized modes fall back to polling.
func (c *Client) OpenTodoFeed(conversationID string, mode FeedMode) TodoFeed {
	switch mode {
	case FeedPush:
		return c.openPushFeed(conversationID)
	default:
		return c.openPollFeed(conversationID, DefaultPollInterval)
	}
}

// =============================================================================
// PUSH FEED (SSE)
// =============================================================================

// snapshotEnvelope is the SSE data payload: {"todos": [...]}.
type snapshotEnvelope struct {
	Todos []model.Todo `json:"todos"`
}

type pushFeed struct {
	snapshots chan []model.Todo
	cancel    context.CancelFunc
}

func (c *Client) openPushFeed(conversationID string) TodoFeed {
	ctx, cancel := context.WithCancel(context.Background())
	feed := &pushFeed{
		snapshots: make(chan []model.Todo, 4),
		cancel:    cancel,
	}

	go func() {
		defer close(feed.snapshots)

		streamURL := c.url("/todos/stream")
		if conversationID != "" {
			streamURL += "?session_id=" + url.QueryEscape(conversationID)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
		if err != nil {
			return
		}
		req.Header.Set("Accept", "text/event-stream")
		req.Header.Set("Cache-Control", "no-cache")

		resp, err := c.streamClient.Do(req)
		if err != nil {
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return
		}

		reader := newSSEReader(resp.Body)
		for {
			eventType, data, err := reader.readEvent()
			if err != nil {
				// Subscription errors close the feed silently; the
				// consumer falls back to explicit fetches.
				return
			}
			if eventType != "todos" {
				continue
			}

			var envelope snapshotEnvelope
			if err := json.Unmarshal(data, &envelope); err != nil {
				continue
			}

			select {
			case feed.snapshots <- envelope.Todos:
			case <-ctx.Done():
				return
			}
		}
	}()

	return feed
}

func (f *pushFeed) Snapshots() <-chan []model.Todo {
	return f.snapshots
}

func (f *pushFeed) Close() {
	f.cancel()
}

// =============================================================================
// POLL FEED
// =============================================================================

type pollFeed struct {
	snapshots chan []model.Todo
	cancel    context.CancelFunc
}

func (c *Client) openPollFeed(conversationID string, interval time.Duration) TodoFeed {
	ctx, cancel := context.WithCancel(context.Background())
	feed := &pollFeed{
		snapshots: make(chan []model.Todo, 4),
		cancel:    cancel,
	}

	// The limiter paces requests even if a fetch returns instantly, so a
	// fast backend never gets hammered.
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	go func() {
		defer close(feed.snapshots)

		for {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			todos, err := c.ListTodos(ctx, conversationID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				// Transient fetch failure: keep polling.
				continue
			}

			select {
			case feed.snapshots <- todos:
			case <-ctx.Done():
				return
			}
		}
	}()

	return feed
}

func (f *pollFeed) Snapshots() <-chan []model.Todo {
	return f.snapshots
}

func (f *pollFeed) Close() {
	f.cancel()
}
