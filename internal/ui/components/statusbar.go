// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/xspark/internal/model"
	"github.com/jeranaias/xspark/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusThinking
	StatusStreaming
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusThinking:
		return "Thinking..."
	case StatusStreaming:
		return "Streaming..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns a shape for the status so it does not rely on color alone.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusThinking:
		return "[ ]"
	case StatusStreaming:
		return "~"
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "?"
	}
}

// Shortcut is one key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the single line under the chat pane.
type StatusBar struct {
	ModelID   string
	Status    Status
	Offline   bool
	Messages  int
	Duration  string
	Notice    string
	Shortcuts []Shortcut
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status: StatusReady,
		Width:  80,
		theme:  theme,
	}
}

// SetWidth sets the available width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the status bar. Parts are dropped from the right when the
// line does not fit.
func (s *StatusBar) View() string {
	t := s.theme

	mode := t.ModeOnline.Render("GEMINI")
	if s.Offline {
		mode = t.ModeOffline.Render("OFFLINE")
	}

	left := []string{
		mode,
		t.Value.Render(model.DisplayName(s.ModelID)),
		s.Status.Icon() + " " + s.Status.String(),
	}
	if s.Notice != "" {
		left = append(left, t.ErrorNotice.Render(s.Notice))
	}

	var right []string
	if s.Messages > 0 {
		right = append(right, t.ShortcutDesc.Render(strconv.Itoa(s.Messages)+" msgs"))
	}
	if s.Duration != "" {
		right = append(right, t.ShortcutDesc.Render(s.Duration))
	}
	for _, sc := range s.Shortcuts {
		right = append(right, t.ShortcutKey.Render(sc.Key)+" "+t.ShortcutDesc.Render(sc.Desc))
	}

	sep := " │ "
	inner := max(0, s.Width-2)
	leftStr := strings.Join(left, sep)
	for len(right) > 0 && lipgloss.Width(leftStr)+lipgloss.Width(strings.Join(right, "  "))+1 > inner {
		right = right[:len(right)-1]
	}
	rightStr := strings.Join(right, "  ")

	gap := max(1, inner-lipgloss.Width(leftStr)-lipgloss.Width(rightStr))
	line := leftStr + strings.Repeat(" ", gap) + rightStr
	return t.StatusBar.Width(s.Width).MaxWidth(s.Width).Render(line)
}
