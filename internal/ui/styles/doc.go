// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the xspark TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. NewTheme accepts the configured ui.theme value; "dark" and
"light" pin the background instead of asking the terminal.

# Color System (colors.go)

  - Purple - Primary accent for assistant messages and focused widgets
  - Cyan - Brand color for the title and user highlights
  - Emerald - Offline mode indicator
  - Amber - Attachments and warnings
  - Rose - Errors and the clear button

# Theme (theme.go)

Theme groups the styles for the sidebar, the slider and selector widgets,
messages, the input area and the status bar. It also names the glamour and
chroma styles that match the background:

	theme := styles.NewTheme(cfg.UI.Theme)
	theme.SetSize(width, height)
	if theme.GetLayoutMode() == styles.LayoutNarrow {
	    // hide the sidebar
	}

# Accessibility

Status messages pair color with ASCII indicators ([OK], [X], [!], [i]) so
states remain distinguishable without color.
*/
package styles
