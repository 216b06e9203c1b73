// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Name is "dark" or "light".
	Name    string
	Palette Palette

	// Terminal capabilities
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderBrand lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserBody       lipgloss.Style
	AssistantBody  lipgloss.Style
	Timestamp      lipgloss.Style
	ToolNotice     lipgloss.Style
	ToolResult     lipgloss.Style
	Interrupted    lipgloss.Style
	MessageError   lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	AttachmentChip   lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusState  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar              lipgloss.Style
	SidebarTitle         lipgloss.Style
	SidebarItem          lipgloss.Style
	SidebarItemSelected  lipgloss.Style
	SidebarItemActive    lipgloss.Style
	SidebarMeta          lipgloss.Style

	// ==========================================================================
	// TODO PANEL STYLES
	// ==========================================================================

	TodoPanel         lipgloss.Style
	TodoTitle         lipgloss.Style
	TodoPending       lipgloss.Style
	TodoInProgress    lipgloss.Style
	TodoCompleted     lipgloss.Style
	TodoSelected      lipgloss.Style
	TodoDescription   lipgloss.Style

	// ==========================================================================
	// ERROR BANNER STYLES
	// ==========================================================================

	ErrorBanner  lipgloss.Style
	ErrorTitle   lipgloss.Style
	ErrorMessage lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
}

// NewTheme creates a theme for the given name ("dark" or "light").
func NewTheme(name string) *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		Name:         name,
		Palette:      PaletteFor(name),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles from the palette.
func (t *Theme) initStyles() {
	p := t.Palette

	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Brand).
		Background(p.SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Brand)

	// Messages
	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Brand)

	t.AssistantLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	t.UserBody = lipgloss.NewStyle().
		Foreground(p.TextPrimary).
		PaddingLeft(2)

	t.AssistantBody = lipgloss.NewStyle().
		Foreground(p.TextPrimary)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	t.ToolNotice = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Italic(true).
		PaddingLeft(2)

	t.ToolResult = lipgloss.NewStyle().
		Foreground(p.Success).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.Success).
		BorderLeft(true).
		PaddingLeft(1).
		MarginLeft(2)

	t.Interrupted = lipgloss.NewStyle().
		Foreground(p.Warning).
		Italic(true)

	t.MessageError = lipgloss.NewStyle().
		Foreground(p.Danger)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(p.Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(p.Brand).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	t.AttachmentChip = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Background(p.Overlay).
		Padding(0, 1).
		MarginRight(1)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(p.SurfaceDim).
		Foreground(p.TextSecondary).
		Padding(0, 1)

	t.StatusState = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(p.Brand).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(p.Overlay).
		Padding(0, 1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	t.SidebarItem = lipgloss.NewStyle().
		Foreground(p.TextPrimary).
		Padding(0, 1)

	t.SidebarItemSelected = lipgloss.NewStyle().
		Background(p.Accent).
		Foreground(p.TextInverse).
		Bold(true).
		Padding(0, 1)

	t.SidebarItemActive = lipgloss.NewStyle().
		Foreground(p.Brand).
		Bold(true).
		Padding(0, 1)

	t.SidebarMeta = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	// Todo panel
	t.TodoPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(p.Overlay).
		Padding(0, 1)

	t.TodoTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	t.TodoPending = lipgloss.NewStyle().
		Foreground(p.TextPrimary)

	t.TodoInProgress = lipgloss.NewStyle().
		Foreground(p.Warning).
		Bold(true)

	t.TodoCompleted = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Strikethrough(true)

	t.TodoSelected = lipgloss.NewStyle().
		Background(p.Overlay).
		Bold(true)

	t.TodoDescription = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		PaddingLeft(4)

	// Error banner
	t.ErrorBanner = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.Danger).
		Padding(0, 1)

	t.ErrorTitle = lipgloss.NewStyle().
		Foreground(p.Danger).
		Bold(true)

	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(p.TextPrimary)

	// Spinner and loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(p.Accent)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(p.TextSecondary)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 80 columns: chat only
	LayoutMedium                   // 80-120 columns: chat + one panel
	LayoutWide                     // > 120 columns: chat + sidebar + todos
)

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 80 {
		return LayoutNarrow
	}
	if t.Width < 120 {
		return LayoutMedium
	}
	return LayoutWide
}
