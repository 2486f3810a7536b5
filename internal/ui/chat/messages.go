// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/xspark/internal/config"
	"github.com/jeranaias/xspark/internal/turn"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamTokenMsg delivers one fragment of the active turn.
type StreamTokenMsg struct {
	TurnID   int
	Fragment string
}

// StreamCompleteMsg signals that the active turn's stream ended normally.
type StreamCompleteMsg struct {
	TurnID int
}

// StreamErrorMsg signals that the active turn failed.
type StreamErrorMsg struct {
	TurnID int
	Err    error
}

// pullCmd fetches exactly one fragment from t.
func pullCmd(id int, t *turn.Turn) tea.Cmd {
	return func() tea.Msg {
		frag, err := t.Pull()
		switch {
		case errors.Is(err, io.EOF):
			return StreamCompleteMsg{TurnID: id}
		case err != nil:
			return StreamErrorMsg{TurnID: id, Err: err}
		}
		return StreamTokenMsg{TurnID: id, Fragment: frag}
	}
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg carries a configuration re-read from disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// waitForConfig blocks until the watcher publishes or closes.
func waitForConfig(w *config.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, ok := <-w.Updates()
		if !ok {
			return nil
		}
		return ConfigReloadedMsg{Config: cfg}
	}
}
