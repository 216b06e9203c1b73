// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"sync"

	"github.com/jeranaias/nanami-tui/internal/model"
	"github.com/jeranaias/nanami-tui/internal/protocol"
)

// =============================================================================
// SESSION STATE
// =============================================================================

// SessionState is the lifecycle state of one send exchange.
//
//	Idle → Requesting → Streaming → {Completed | Aborted | Failed}
type SessionState int

const (
	StateIdle SessionState = iota
	StateRequesting
	StateStreaming
	StateCompleted
	StateAborted
	StateFailed
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal returns true for Completed, Aborted, and Failed.
func (s SessionState) Terminal() bool {
	return s == StateCompleted || s == StateAborted || s == StateFailed
}

// =============================================================================
// SEND REQUEST
// =============================================================================

// Attachment is one file sent alongside the input text.
type Attachment struct {
	Name string
	Data []byte
}

// SendRequest carries everything for one chat exchange.
type SendRequest struct {
	// Input is the user's free-text message.
	Input string
	// Attachments are optional binary uploads.
	Attachments []Attachment
	// History is the bounded window of prior messages for server-side
	// context (the caller passes Conversation.History()).
	History []model.HistoryEntry
	// ConversationID scopes server-side todos and memory to this
	// conversation window.
	ConversationID string
}

// =============================================================================
// SESSION
// =============================================================================

// Session is one outstanding send exchange. Events are delivered strictly in
// arrival order on Events(); the channel closes exactly once, after the
// session reached a terminal state. At most one session should be active per
// conversation; callers enforce this by blocking input while streaming.
type Session struct {
	events chan protocol.Event

	mu    sync.Mutex
	state SessionState
	err   error
}

// Events returns the classified event stream. The channel is closed when the
// session completes, aborts, or fails; check State and Err afterwards.
func (s *Session) Events() <-chan protocol.Event {
	return s.events
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the terminal error: nil after Completed, ErrAborted after
// Aborted, transport or status error after Failed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Aborted returns true when the session ended by caller cancellation.
func (s *Session) Aborted() bool {
	return s.State() == StateAborted
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) finish(state SessionState, err error) {
	s.mu.Lock()
	if !s.state.Terminal() {
		s.state = state
		s.err = err
	}
	s.mu.Unlock()
	close(s.events)
}

// =============================================================================
// SEND
// =============================================================================

// streamReadBuffer is the chunk size for reading the response body. Chunk
// boundaries are meaningless to the protocol; the tokenizer reassembles
// logical lines regardless of how the transport slices them.
const streamReadBuffer = 4096

// Send issues one chat exchange and returns its Session immediately. The
// request body carries the input text, any attachments, the JSON-encoded
// history window, and the conversation ID. Cancelling ctx aborts the
// transfer, drives the session to Aborted, and closes the event channel;
// events already delivered stay valid.
func (c *Client) Send(ctx context.Context, req SendRequest) *Session {
	session := &Session{
		events: make(chan protocol.Event, 64),
		state:  StateIdle,
	}

	go c.run(ctx, req, session)
	return session
}

func (c *Client) run(ctx context.Context, req SendRequest, session *Session) {
	if !c.IsConfigured() {
		session.finish(StateFailed, ErrNotConfigured)
		return
	}

	session.setState(StateRequesting)

	body, contentType, err := encodeSendRequest(req)
	if err != nil {
		session.finish(StateFailed, err)
		return
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/chat"), body)
	if err != nil {
		session.finish(StateFailed, err)
		return
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "text/plain")

	resp, err := c.streamClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			session.finish(StateAborted, ErrAborted)
			return
		}
		session.finish(StateFailed, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		session.finish(StateFailed, statusError(resp.StatusCode, respBody))
		return
	}

	session.setState(StateStreaming)
	c.pump(ctx, resp.Body, session)
}

// pump drives the tokenizer/classifier over the response body and emits
// events until end-of-body, cancellation, or a read failure.
func (c *Client) pump(ctx context.Context, body io.Reader, session *Session) {
	tokenizer := protocol.NewLineTokenizer()
	buf := make([]byte, streamReadBuffer)
	var accumulated bytes.Buffer

	emit := func(line string) bool {
		event, ok := protocol.Classify(line)
		if !ok {
			return true
		}
		if event.Kind == protocol.EventText {
			accumulated.WriteString(event.Content)
		}
		select {
		case session.events <- event:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			session.finish(StateAborted, ErrAborted)
			return
		default:
		}

		n, err := body.Read(buf)
		if n > 0 {
			for _, line := range tokenizer.Feed(string(buf[:n])) {
				if !emit(line) {
					session.finish(StateAborted, ErrAborted)
					return
				}
			}
		}

		if err == io.EOF {
			if tail, ok := tokenizer.Flush(); ok {
				if !emit(tail) {
					session.finish(StateAborted, ErrAborted)
					return
				}
			}
			session.finish(StateCompleted, nil)
			return
		}
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				session.finish(StateAborted, ErrAborted)
				return
			}
			session.finish(StateFailed, &StreamError{
				Partial: accumulated.String(),
				Err:     err,
			})
			return
		}
	}
}

// =============================================================================
// REQUEST ENCODING
// =============================================================================

// encodeSendRequest builds the multipart form body for POST /chat.
func encodeSendRequest(req SendRequest) (io.Reader, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("input", req.Input); err != nil {
		return nil, "", err
	}

	if len(req.History) > 0 {
		history, err := json.Marshal(req.History)
		if err != nil {
			return nil, "", err
		}
		if err := writer.WriteField("messages", string(history)); err != nil {
			return nil, "", err
		}
	}

	if req.ConversationID != "" {
		if err := writer.WriteField("session_id", req.ConversationID); err != nil {
			return nil, "", err
		}
	}

	for _, att := range req.Attachments {
		part, err := writer.CreateFormFile("files", att.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(att.Data); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &body, writer.FormDataContentType(), nil
}
