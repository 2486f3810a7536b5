// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the widgets and renderers used by the chat TUI.

# Widgets

Slider (slider.go) - Bounded numeric value with fixed steps (temperature, max tokens).
Selector (selector.go) - Cycling choice from a fixed list (model).
ThinkingIndicator (spinner.go) - Spinner shown until the first fragment arrives.
StatusBar (statusbar.go) - Model, mode, state and key hints under the chat pane.

# Rendering

MessageView (message.go) - Renders stored and in-progress messages.
MarkdownRenderer (markdown.go) - glamour rendering with a plain fallback.
CodeBlock (codeblock.go) - Chroma-highlighted fenced code for the plain fallback.

All components take a *styles.Theme:

	theme := styles.NewTheme(cfg.UI.Theme)
	md := components.NewMarkdownRenderer(theme, cfg.UI.Markdown)
	view := components.NewMessageView(theme, md)
	view.SetWidth(80)
	out := view.RenderList(sess.Messages())
*/
package components
