// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// TEXT WRAPPING UTILITIES
// =============================================================================

// WrapText wraps content to fit within width, using go-runewidth so
// wide characters and emojis count by display cells, not runes.
// UNICODE: len() would undercount CJK and emoji widths here.
func WrapText(content string, width int) string {
	if width <= 0 {
		return content
	}

	var wrapped strings.Builder
	for i, line := range strings.Split(content, "\n") {
		if i > 0 {
			wrapped.WriteByte('\n')
		}
		if runewidth.StringWidth(line) <= width {
			wrapped.WriteString(line)
			continue
		}
		wrapped.WriteString(wrapLine(line, width))
	}
	return wrapped.String()
}

// wrapLine wraps a single line at word boundaries where possible,
// breaking words harder than the width mid-word.
func wrapLine(line string, width int) string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return line
	}

	var out strings.Builder
	var cur string
	curWidth := 0

	flush := func() {
		if cur == "" {
			return
		}
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(cur)
		cur = ""
		curWidth = 0
	}

	for _, word := range words {
		w := runewidth.StringWidth(word)
		if w > width {
			// Word longer than the line. Hard-break it.
			flush()
			for _, piece := range hardBreak(word, width) {
				cur = piece
				curWidth = runewidth.StringWidth(piece)
				if curWidth == width {
					flush()
				}
			}
			continue
		}
		sep := 0
		if cur != "" {
			sep = 1
		}
		if curWidth+sep+w > width {
			flush()
		}
		if cur != "" {
			cur += " "
			curWidth++
		}
		cur += word
		curWidth += w
	}
	flush()
	return out.String()
}

// hardBreak splits a single word into pieces no wider than width cells.
func hardBreak(word string, width int) []string {
	var pieces []string
	var cur strings.Builder
	curWidth := 0

	for _, r := range word {
		rw := runewidth.RuneWidth(r)
		if curWidth+rw > width && cur.Len() > 0 {
			pieces = append(pieces, cur.String())
			cur.Reset()
			curWidth = 0
		}
		cur.WriteRune(r)
		curWidth += rw
	}
	if cur.Len() > 0 {
		pieces = append(pieces, cur.String())
	}
	return pieces
}

// MaxLineWidth returns the display width of the widest line.
func MaxLineWidth(text string) int {
	maxWidth := 0
	for _, line := range strings.Split(text, "\n") {
		if w := runewidth.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}
