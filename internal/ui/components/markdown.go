// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"log"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/xspark/internal/ui/styles"
)

// MarkdownRenderer renders reply text for the terminal. With markdown
// enabled it uses glamour; otherwise, or when glamour fails, text is shown
// as is with fenced code highlighted by chroma.
type MarkdownRenderer struct {
	mu        sync.Mutex
	enabled   bool
	style     string
	codeStyle string
	width     int
	term      *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer for theme.
func NewMarkdownRenderer(theme *styles.Theme, enabled bool) *MarkdownRenderer {
	return &MarkdownRenderer{
		enabled:   enabled,
		style:     theme.GlamourStyle,
		codeStyle: theme.CodeStyle,
		width:     80,
	}
}

// SetWidth sets the wrap width. The glamour renderer is rebuilt lazily.
func (r *MarkdownRenderer) SetWidth(width int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	width = max(20, width)
	if width != r.width {
		r.width = width
		r.term = nil
	}
}

// Render returns text formatted for display.
func (r *MarkdownRenderer) Render(text string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if text == "" {
		return ""
	}
	if !r.enabled {
		return r.plain(text)
	}

	if r.term == nil {
		term, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(r.width),
		)
		if err != nil {
			log.Printf("MARKDOWN_INIT_FAILED | style=%s err=%v", r.style, err)
			return r.plain(text)
		}
		r.term = term
	}

	out, err := r.term.Render(text)
	if err != nil {
		log.Printf("MARKDOWN_RENDER_FAILED | err=%v", err)
		return r.plain(text)
	}
	return strings.Trim(out, "\n")
}

func (r *MarkdownRenderer) plain(text string) string {
	return ParseCodeBlocks(text, r.width, r.codeStyle)
}
