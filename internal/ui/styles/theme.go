// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// Renderer styles chosen for the background
	GlamourStyle string
	CodeStyle    string

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar        lipgloss.Style
	SidebarTitle   lipgloss.Style
	SidebarCaption lipgloss.Style
	SidebarSection lipgloss.Style
	Label          lipgloss.Style
	LabelFocused   lipgloss.Style
	Value          lipgloss.Style

	// ==========================================================================
	// WIDGET STYLES
	// ==========================================================================

	SliderFill    lipgloss.Style
	SliderTrack   lipgloss.Style
	SliderKnob    lipgloss.Style
	SelectorItem  lipgloss.Style
	SelectorArrow lipgloss.Style
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonDanger  lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserHeader      lipgloss.Style
	AssistantHeader lipgloss.Style
	UserBody        lipgloss.Style
	AssistantBody   lipgloss.Style
	Attachment      lipgloss.Style
	Timestamp       lipgloss.Style
	Cursor          lipgloss.Style
	ErrorNotice     lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputFocused     lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ModeOnline   lipgloss.Style
	ModeOffline  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// SPINNER AND CODE STYLES
	// ==========================================================================

	Spinner       lipgloss.Style
	ThinkingText  lipgloss.Style
	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style
}

// NewTheme creates a theme for mode ("auto", "dark" or "light").
// Forcing a mode also tells lipgloss which side of each AdaptiveColor to use.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case ModeDark:
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case ModeLight:
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: colorProfile,
		GlamourStyle: "light",
		CodeStyle:    "catppuccin-latte",
	}
	if isDark {
		t.GlamourStyle = "dark"
		t.CodeStyle = "catppuccin-mocha"
	}
	if colorProfile == termenv.Ascii {
		t.GlamourStyle = "notty"
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(1, 2)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.SidebarCaption = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.SidebarSection = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true).
		MarginTop(1)

	t.Label = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.LabelFocused = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.Value = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	// Widgets
	t.SliderFill = lipgloss.NewStyle().
		Foreground(PurpleDeep)

	t.SliderTrack = lipgloss.NewStyle().
		Foreground(OverlayDim)

	t.SliderKnob = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.SelectorItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.SelectorArrow = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Button = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Overlay).
		Padding(0, 2)

	t.ButtonFocused = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Bold(true).
		Padding(0, 2)

	t.ButtonDanger = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Rose).
		Bold(true).
		Padding(0, 2)

	// Messages
	t.UserHeader = lipgloss.NewStyle().
		Foreground(UserAccent).
		Bold(true)

	t.AssistantHeader = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.UserBody = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(UserBorder).
		PaddingLeft(1)

	t.AssistantBody = lipgloss.NewStyle().
		Foreground(AssistantAccent).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(AssistantBorder).
		PaddingLeft(1)

	t.Attachment = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Cursor = lipgloss.NewStyle().
		Foreground(Purple)

	t.ErrorNotice = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)

	t.InputFocused = t.InputContainer.
		BorderForeground(Purple)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ModeOnline = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ModeOffline = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Spinner and code
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.CodeBlock = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.CodeLangBadge = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(Overlay).
		Padding(0, 1).
		Bold(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns, sidebar hidden
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
