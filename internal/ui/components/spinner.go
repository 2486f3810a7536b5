// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/xspark/internal/ui/styles"
)

// =============================================================================
// THINKING INDICATOR
// =============================================================================

// ThinkingIndicator is shown between submission and the first fragment.
type ThinkingIndicator struct {
	spinner   spinner.Model
	theme     *styles.Theme
	message   string
	startTime time.Time
	isActive  bool
}

// NewThinkingIndicator creates an inactive indicator.
func NewThinkingIndicator(theme *styles.Theme) ThinkingIndicator {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = theme.Spinner
	return ThinkingIndicator{spinner: s, theme: theme, message: "Thinking"}
}

// Start activates the indicator and returns its tick command.
func (t *ThinkingIndicator) Start() tea.Cmd {
	t.isActive = true
	t.startTime = time.Now()
	return t.spinner.Tick
}

// Stop deactivates the indicator.
func (t *ThinkingIndicator) Stop() {
	t.isActive = false
}

// IsActive returns whether the indicator is running.
func (t ThinkingIndicator) IsActive() bool {
	return t.isActive
}

// Update advances the animation.
func (t ThinkingIndicator) Update(msg tea.Msg) (ThinkingIndicator, tea.Cmd) {
	if !t.isActive {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders "| Thinking... 3s".
func (t ThinkingIndicator) View() string {
	if !t.isActive {
		return ""
	}
	return t.spinner.View() + " " +
		t.theme.ThinkingText.Render(t.message+"...") + " " +
		t.theme.Timestamp.Render(formatElapsed(time.Since(t.startTime)))
}

func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
