// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"encoding/json"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/jeranaias/nanami-tui/internal/protocol"
	"github.com/jeranaias/nanami-tui/internal/ui/styles"
)

// =============================================================================
// TOOL ACTIVITY RENDERING
// =============================================================================

// maxPayloadLines caps how much of a tool result payload is shown inline.
const maxPayloadLines = 12

// ToolActivity renders tool notices and tool results inside the chat
// transcript.
type ToolActivity struct {
	theme *styles.Theme
	width int
}

// NewToolActivity creates a tool activity renderer.
func NewToolActivity(theme *styles.Theme) *ToolActivity {
	return &ToolActivity{theme: theme, width: 80}
}

// SetWidth sets the render width.
func (ta *ToolActivity) SetWidth(width int) {
	ta.width = width
}

// SetTheme swaps the active theme.
func (ta *ToolActivity) SetTheme(theme *styles.Theme) {
	ta.theme = theme
}

// RenderNotice renders an in-flight tool notice line.
func (ta *ToolActivity) RenderNotice(ev protocol.Event) string {
	return ta.theme.ToolNotice.Render(WrapText(ev.Content, ta.contentWidth()))
}

// RenderResult renders a completed tool result with its payload
// highlighted as JSON.
func (ta *ToolActivity) RenderResult(ev protocol.Event) string {
	header := styles.StatusIndicators.Success + " " + ev.ToolName

	body := ta.formatPayload(ev)
	if body == "" {
		return ta.theme.ToolResult.Render(header)
	}
	return ta.theme.ToolResult.Render(header + "\n" + body)
}

// formatPayload pretty-prints and highlights the payload, truncated to
// a handful of lines so bulky results do not swallow the transcript.
func (ta *ToolActivity) formatPayload(ev protocol.Event) string {
	if len(ev.Payload) == 0 {
		return ""
	}

	pretty, err := json.MarshalIndent(ev.Payload, "", "  ")
	if err != nil {
		return WrapText(ev.Content, ta.contentWidth())
	}

	highlighted := highlightJSON(string(pretty), ta.theme.Palette.ChromaStyle)
	lines := strings.Split(strings.TrimRight(highlighted, "\n"), "\n")
	if len(lines) > maxPayloadLines {
		lines = append(lines[:maxPayloadLines], "... (truncated)")
	}
	return strings.Join(lines, "\n")
}

func (ta *ToolActivity) contentWidth() int {
	w := ta.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

// =============================================================================
// SYNTAX HIGHLIGHTING
// =============================================================================

// highlightJSON applies chroma highlighting for terminal output. The
// input is returned unchanged on any failure.
func highlightJSON(code, styleName string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		return code
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
