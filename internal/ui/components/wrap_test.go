// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestWrapTextRespectsWidth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
	}{
		{"short line untouched", "hello world", 40},
		{"long line wraps", "the quick brown fox jumps over the lazy dog", 10},
		{"preserves existing newlines", "one\ntwo\nthree", 40},
		{"wide characters", "日本語のテキストを折り返す必要があります", 10},
		{"word longer than width", "supercalifragilisticexpialidocious", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := WrapText(tt.input, tt.width)
			for _, line := range strings.Split(out, "\n") {
				if w := runewidth.StringWidth(line); w > tt.width {
					t.Errorf("line %q is %d cells wide, limit %d", line, w, tt.width)
				}
			}
		})
	}
}

func TestWrapTextLosesNoWords(t *testing.T) {
	input := "alpha beta gamma delta epsilon zeta"
	out := WrapText(input, 12)
	for _, word := range strings.Fields(input) {
		if !strings.Contains(out, word) {
			t.Errorf("word %q missing from wrapped output", word)
		}
	}
}

func TestWrapTextZeroWidthIsIdentity(t *testing.T) {
	input := "anything at all"
	if got := WrapText(input, 0); got != input {
		t.Errorf("got %q, want input unchanged", got)
	}
}

func TestMaxLineWidth(t *testing.T) {
	if got := MaxLineWidth("ab\nabcd\nabc"); got != 4 {
		t.Errorf("MaxLineWidth = %d, want 4", got)
	}
	// Wide characters count as two cells.
	if got := MaxLineWidth("日本"); got != 4 {
		t.Errorf("MaxLineWidth(wide) = %d, want 4", got)
	}
}
