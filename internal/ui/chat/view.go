// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"
)

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	main := m.mainView()
	if !m.sidebarVisible {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), main)
}

// widgetWidth is the usable width inside the sidebar's border and padding.
func (m Model) widgetWidth() int {
	return max(10, m.sidebarWidth-5)
}

// =============================================================================
// SIDEBAR
// =============================================================================

func (m Model) sidebarView() string {
	t := m.theme
	w := m.widgetWidth()

	personaLabel := t.Label
	if m.focus == FocusPersona {
		personaLabel = t.LabelFocused
	}

	clearBtn := t.Button
	if m.focus == FocusClear {
		clearBtn = t.ButtonDanger
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		t.SidebarTitle.Render(m.cfg.UI.Title),
		t.SidebarCaption.Render(m.cfg.UI.Caption),
		t.SidebarSection.Render(settingsHeading),
		m.modelSel.View(t, w, m.focus == FocusModel),
		"",
		m.temperature.View(t, w, m.focus == FocusTemperature),
		"",
		m.tokens.View(t, w, m.focus == FocusTokens),
		"",
		personaLabel.Render("Persona"),
		m.persona.View(),
		"",
		clearBtn.Render("Clear Chat"),
		t.SidebarSection.Render("Keys"),
		m.help.View(m.keys),
	)

	return t.Sidebar.
		Width(m.sidebarWidth - 1).
		Height(max(1, m.height-2)).
		Render(content)
}

// =============================================================================
// MAIN PANE
// =============================================================================

func (m Model) mainView() string {
	t := m.theme

	inputStyle := t.InputContainer
	if m.focus == FocusChat {
		inputStyle = t.InputFocused
	}
	inputWidth := max(10, m.viewport.Width-2)

	attachLine := ""
	if m.attachErr != "" {
		attachLine = t.ErrorNotice.Render("Attachment rejected: " + m.attachErr)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.thinking.View(),
		m.imageInput.View(),
		attachLine,
		inputStyle.Width(inputWidth).Render(m.input.View()),
		m.status.View(),
	)
}
