// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/xspark/internal/attach"
	"github.com/jeranaias/xspark/internal/config"
	"github.com/jeranaias/xspark/internal/model"
	"github.com/jeranaias/xspark/internal/session"
	"github.com/jeranaias/xspark/internal/turn"
	"github.com/jeranaias/xspark/internal/ui/components"
	"github.com/jeranaias/xspark/internal/ui/styles"
	"github.com/jeranaias/xspark/internal/util"
)

// Rows used by everything in the main pane except the viewport:
// thinking line, image input, attachment error, bordered chat input, status bar.
const chromeHeight = 7

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case StreamTokenMsg:
		return m.handleStreamToken(msg)

	case StreamCompleteMsg:
		return m.handleStreamComplete(msg)

	case StreamErrorMsg:
		return m.handleStreamError(msg)

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.thinking, cmd = m.thinking.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	m.sidebarVisible = m.theme.GetLayoutMode() != styles.LayoutNarrow
	mainWidth := m.width
	if m.sidebarVisible {
		mainWidth -= m.sidebarWidth
	} else if m.focus.inSidebar() {
		m.setFocus(FocusChat)
	}
	mainWidth = max(20, mainWidth)

	m.viewport.Width = mainWidth
	m.viewport.Height = max(3, m.height-chromeHeight)
	m.messages.SetWidth(mainWidth - 2)
	m.status.SetWidth(mainWidth)
	m.input.Width = max(10, mainWidth-6)
	m.imageInput.Width = max(10, mainWidth-6)
	m.persona.SetWidth(m.widgetWidth())
	m.help.Width = m.widgetWidth()
	m.ready = true

	m.refreshViewport()
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.FocusNext):
		cmd := m.cycleFocus(1)
		return m, cmd

	case key.Matches(msg, m.keys.FocusPrev):
		cmd := m.cycleFocus(-1)
		return m, cmd

	case key.Matches(msg, m.keys.Clear):
		m.clear()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.focus {
	case FocusModel, FocusTemperature, FocusTokens:
		switch {
		case key.Matches(msg, m.keys.Decrease):
			m.adjust(-1)
		case key.Matches(msg, m.keys.Increase):
			m.adjust(1)
		}
		return m, nil

	case FocusClear:
		if key.Matches(msg, m.keys.Submit) {
			m.clear()
		}
		return m, nil

	case FocusImage:
		if key.Matches(msg, m.keys.Submit) {
			cmd := m.setFocus(FocusChat)
			return m, cmd
		}

	case FocusChat:
		if key.Matches(msg, m.keys.Submit) {
			return m.submit()
		}
	}

	return m.updateFocused(msg)
}

// updateFocused forwards msg to the focused text widget.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusPersona:
		before := m.persona.Value()
		m.persona, cmd = m.persona.Update(msg)
		if after := m.persona.Value(); after != before {
			m.settings.Set(m.settings.Get().WithPersona(after))
		}
	case FocusImage:
		m.imageInput, cmd = m.imageInput.Update(msg)
	case FocusChat:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// cycleFocus moves focus by delta, skipping the sidebar while it is hidden.
func (m *Model) cycleFocus(delta int) tea.Cmd {
	next := m.focus
	for range focusCount {
		next = Focus((int(next) + delta + int(focusCount)) % int(focusCount))
		if m.sidebarVisible || !next.inSidebar() {
			break
		}
	}
	return m.setFocus(next)
}

func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f
	m.input.Blur()
	m.imageInput.Blur()
	m.persona.Blur()

	switch f {
	case FocusChat:
		return m.input.Focus()
	case FocusImage:
		return m.imageInput.Focus()
	case FocusPersona:
		return m.persona.Focus()
	}
	return nil
}

// adjust moves the focused selector or slider one step.
func (m *Model) adjust(delta int) {
	gen := m.settings.Get()
	switch m.focus {
	case FocusModel:
		gen = gen.CycleModel(delta)
		m.modelSel.SetSelected(gen.Model)
		m.status.ModelID = gen.Model
	case FocusTemperature:
		if delta > 0 {
			m.temperature.Increment()
		} else {
			m.temperature.Decrement()
		}
		gen = gen.WithTemperature(m.temperature.Value())
	case FocusTokens:
		if delta > 0 {
			m.tokens.Increment()
		} else {
			m.tokens.Decrement()
		}
		gen = gen.WithMaxOutputTokens(int(m.tokens.Value()))
	default:
		return
	}
	m.settings.Set(gen)
}

// =============================================================================
// TURN LIFECYCLE
// =============================================================================

// submit starts a turn from the chat input and the optional image path.
// It does nothing unless the loop is idle.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.state != turn.StateIdle {
		return m, nil
	}
	prompt := m.input.Value()
	if util.NormalizePrompt(prompt) == "" {
		return m, nil
	}

	var img *model.Image
	if path := strings.TrimSpace(m.imageInput.Value()); path != "" {
		loaded, err := attach.Load(path, m.cfg.Attachments)
		if err != nil {
			log.Printf("ATTACH_REJECTED | path=%q err=%v", path, err)
			m.attachErr = err.Error()
			return m, nil
		}
		img = loaded
	}

	t := m.runner.Begin(m.ctx, prompt, img)
	if t == nil {
		return m, nil
	}

	m.turnID++
	m.active = t
	m.state = turn.StateSubmitted
	m.notice = ""
	m.attachErr = ""
	m.input.Reset()
	m.imageInput.Reset()
	m.status.Status = components.StatusThinking
	m.status.Notice = ""
	m.refreshViewport()

	tick := m.thinking.Start()

	log.Printf("UI_SUBMIT | turn=%d image=%t", m.turnID, img != nil)
	return m, tea.Batch(pullCmd(m.turnID, t), tick)
}

func (m Model) handleStreamToken(msg StreamTokenMsg) (tea.Model, tea.Cmd) {
	if m.active == nil || msg.TurnID != m.turnID {
		return m, nil
	}
	m.active.Append(msg.Fragment)
	m.state = turn.StateGenerating
	m.thinking.Stop()
	m.status.Status = components.StatusStreaming
	m.refreshViewport()
	return m, pullCmd(m.turnID, m.active)
}

func (m Model) handleStreamComplete(msg StreamCompleteMsg) (tea.Model, tea.Cmd) {
	if m.active == nil || msg.TurnID != m.turnID {
		return m, nil
	}
	m.finishTurn()
	m.status.Status = components.StatusReady
	m.refreshViewport()
	return m, nil
}

func (m Model) handleStreamError(msg StreamErrorMsg) (tea.Model, tea.Cmd) {
	if m.active == nil || msg.TurnID != m.turnID {
		return m, nil
	}
	m.active.Fail(msg.Err)
	m.notice = m.active.Notice()
	m.finishTurn()
	m.status.Status = components.StatusError
	m.status.Notice = m.notice
	m.refreshViewport()
	return m, nil
}

// finishTurn records the reply and returns the loop to idle.
func (m *Model) finishTurn() {
	m.active.Finish()
	m.active = nil
	m.state = turn.StateIdle
	m.thinking.Stop()

	if m.pending != nil {
		m.applyGeneration(*m.pending)
		m.pending = nil
	}
}

// clear empties the session. It is ignored while a turn is running.
func (m *Model) clear() {
	if m.state != turn.StateIdle {
		return
	}
	m.sess.Clear()
	m.notice = ""
	m.attachErr = ""
	m.status.Notice = ""
	m.status.Status = components.StatusReady
	m.refreshViewport()
	log.Printf("UI_CLEAR | session=%s", m.sess.ID())
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Config != nil {
		cfg := msg.Config.Clone()
		cfg.ApplyOverrides(m.overrides)
		if err := cfg.Validate(); err != nil {
			log.Printf("CONFIG_RELOAD_REJECTED | err=%v", err)
			return m, waitForConfig(m.watcher)
		}
		gen := cfg.Generation.Clamp()
		if m.state == turn.StateIdle {
			m.applyGeneration(gen)
		} else {
			m.pending = &gen
		}
	}
	return m, waitForConfig(m.watcher)
}

// applyGeneration replaces the live settings and moves every widget to match.
func (m *Model) applyGeneration(gen config.GenerationConfig) {
	gen = gen.Clamp()
	m.settings.Set(gen)

	m.modelSel.SetOptions(gen.Models)
	m.modelSel.SetSelected(gen.Model)
	m.temperature.SetValue(gen.Temperature)
	m.tokens.SetValue(float64(gen.MaxOutputTokens))
	if m.persona.Value() != gen.Persona {
		m.persona.SetValue(gen.Persona)
	}
	m.status.ModelID = gen.Model

	log.Printf("CONFIG_APPLIED | model=%s temperature=%.2f max_tokens=%d", gen.Model, gen.Temperature, gen.MaxOutputTokens)
}

// =============================================================================
// VIEWPORT
// =============================================================================

// refreshViewport re-renders the conversation and scrolls to the bottom.
func (m *Model) refreshViewport() {
	msgs := m.sess.Messages()

	var parts []string
	if len(msgs) > 0 {
		parts = append(parts, m.messages.RenderList(msgs))
	}
	if m.active != nil {
		if display := m.active.Display(); display != "" {
			parts = append(parts, m.messages.RenderStreaming(display, turn.Cursor))
		}
	}
	if m.notice != "" {
		parts = append(parts, m.messages.RenderNotice(m.notice))
	}
	if len(parts) == 0 {
		parts = append(parts, m.theme.Timestamp.Render("Ask anything. Add an image path below to ask about a picture."))
	}

	m.viewport.SetContent(strings.Join(parts, "\n\n"))
	m.viewport.GotoBottom()

	st := m.sess.GetStatus()
	m.status.Messages = st.Messages
	m.status.Duration = session.FormatDuration(st.Duration)
}
