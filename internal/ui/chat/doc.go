// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the xspark chat screen.

The screen is a single Bubble Tea model with a settings sidebar on the left
and the conversation on the right.

# Key Components

## Model (model.go)

The Model struct holds all screen state:
  - Sidebar widgets: model selector, temperature and max-token sliders,
    persona textarea, clear button and key help
  - Main pane widgets: message viewport, image path input, chat input,
    thinking indicator and status bar
  - The turn runner and the live generation settings it reads per call

## Update Loop (update.go)

Handles all Bubble Tea messages:
  - Focus cycling and slider/selector adjustment
  - Submission, attachment loading and clearing
  - One StreamTokenMsg per pulled fragment until StreamCompleteMsg or
    StreamErrorMsg
  - Config reloads from the file watcher, deferred while a turn runs

## View Rendering (view.go)

Joins the sidebar and the main pane with lipgloss. The sidebar is hidden
on narrow terminals.

# Usage

	m := chat.New(ctx, chat.Options{
		Config:    cfg,
		Generator: gen,
		Session:   session.New(),
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
*/
package chat
