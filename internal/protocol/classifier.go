// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import (
	"encoding/json"
	"strings"
)

// =============================================================================
// EVENT TYPES
// =============================================================================

// EventKind identifies the kind of a classified stream event.
type EventKind int

const (
	// EventText is literal assistant text, delivered verbatim.
	EventText EventKind = iota
	// EventToolNotice announces a tool invocation. Informational only; the
	// raw line is carried unparsed. Tool-result lines whose payload fails to
	// parse also degrade to this kind.
	EventToolNotice
	// EventToolResult is a completed tool call with a decoded JSON payload.
	EventToolResult
	// EventMeta carries stream metadata. Payload is nil when the relaxed
	// parse failed; Content still holds the raw payload text.
	EventMeta
)

// String returns the event kind name for display and tests.
func (k EventKind) String() string {
	switch k {
	case EventText:
		return "text"
	case EventToolNotice:
		return "tool_notice"
	case EventToolResult:
		return "tool_result"
	case EventMeta:
		return "meta"
	default:
		return "unknown"
	}
}

// Event is one classified unit of the chat stream.
type Event struct {
	Kind EventKind

	// Content holds the verbatim line for EventText and EventToolNotice,
	// and the raw payload text for EventMeta.
	Content string

	// ToolName is set for EventToolResult.
	ToolName string

	// Payload is the decoded structured payload for EventToolResult and,
	// when parseable, EventMeta.
	Payload map[string]any
}

// =============================================================================
// PROTOCOL MARKERS
// =============================================================================

const (
	metaMarker       = "[meta]"
	toolNoticeMarker = "[🔧"
	toolResultOpen   = "[✓ "
	toolResultClose  = "]:"
)

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classify maps one logical line to exactly one event. It is a pure function
// of the line content and never fails: malformed structured payloads degrade
// to lower-fidelity kinds. The second return is false only for blank lines,
// which produce no event to avoid phantom content.
//
// Predicate order matters and is fixed: meta, tool notice, tool result, text.
func Classify(line string) (Event, bool) {
	trimmed := strings.TrimSpace(line)

	if idx := strings.Index(trimmed, metaMarker); idx >= 0 {
		raw := strings.TrimSpace(trimmed[idx+len(metaMarker):])
		payload, _ := parseRelaxed(raw)
		return Event{Kind: EventMeta, Content: raw, Payload: payload}, true
	}

	if strings.Contains(trimmed, toolNoticeMarker) {
		return Event{Kind: EventToolNotice, Content: line}, true
	}

	if name, payload, ok := matchToolResult(trimmed); ok {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
			// Bad payload: keep the line, drop the structure.
			return Event{Kind: EventToolNotice, Content: line}, true
		}
		return Event{Kind: EventToolResult, ToolName: name, Payload: decoded}, true
	}

	if trimmed == "" {
		return Event{}, false
	}
	return Event{Kind: EventText, Content: line}, true
}

// matchToolResult matches `[✓ <name>]: <payload>` and returns the tool name
// and the raw payload text.
func matchToolResult(line string) (name, payload string, ok bool) {
	if !strings.HasPrefix(line, toolResultOpen) {
		return "", "", false
	}
	rest := line[len(toolResultOpen):]
	end := strings.Index(rest, toolResultClose)
	if end < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(rest[:end])
	if name == "" {
		return "", "", false
	}
	payload = strings.TrimSpace(rest[end+len(toolResultClose):])
	return name, payload, true
}
