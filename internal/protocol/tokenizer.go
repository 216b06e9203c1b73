// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import "strings"

// =============================================================================
// LINE TOKENIZER
// =============================================================================

// LineTokenizer splits an arbitrarily fragmented text stream into logical
// lines. A trailing partial line is buffered across Feed calls and only
// surfaces once its terminator arrives or Flush is called at end-of-stream.
//
// The tokenizer is single-use and not safe for concurrent use; the stream
// session feeds it strictly sequentially.
type LineTokenizer struct {
	partial strings.Builder
}

// NewLineTokenizer creates an empty tokenizer.
func NewLineTokenizer() *LineTokenizer {
	return &LineTokenizer{}
}

// Feed consumes one fragment and returns the logical lines completed by it,
// in order. An empty fragment yields no lines. A fragment that ends mid-line
// yields nothing for the tail until a later fragment completes it.
func (t *LineTokenizer) Feed(fragment string) []string {
	if fragment == "" {
		return nil
	}

	t.partial.WriteString(fragment)
	buffered := t.partial.String()

	var lines []string
	for {
		i := strings.IndexByte(buffered, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, strings.TrimSuffix(buffered[:i], "\r"))
		buffered = buffered[i+1:]
	}

	t.partial.Reset()
	t.partial.WriteString(buffered)
	return lines
}

// Flush returns the trailing partial line, if any, and resets the tokenizer.
// Call once when the transport signals end-of-body.
func (t *LineTokenizer) Flush() (string, bool) {
	if t.partial.Len() == 0 {
		return "", false
	}
	line := strings.TrimSuffix(t.partial.String(), "\r")
	t.partial.Reset()
	if line == "" {
		return "", false
	}
	return line, true
}
