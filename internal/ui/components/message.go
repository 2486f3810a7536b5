// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/jeranaias/xspark/internal/model"
	"github.com/jeranaias/xspark/internal/ui/styles"
)

// =============================================================================
// MESSAGE VIEW
// =============================================================================

// AttachmentIcon prefixes the attachment line of an image message.
const AttachmentIcon = "📎 "

// MessageView renders conversation messages for the viewport.
type MessageView struct {
	Width         int
	ShowTimestamp bool

	theme *styles.Theme
	md    *MarkdownRenderer
}

// NewMessageView creates a message view using md for assistant text.
func NewMessageView(theme *styles.Theme, md *MarkdownRenderer) *MessageView {
	return &MessageView{
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
		md:            md,
	}
}

// SetWidth sets the available width.
func (v *MessageView) SetWidth(width int) {
	v.Width = max(20, width)
	v.md.SetWidth(v.Width - 2)
}

// Render renders a stored message.
func (v *MessageView) Render(msg *model.Message) string {
	if msg == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(v.header(msg.Role, msg.Timestamp))
	b.WriteString("\n")

	var body strings.Builder
	if msg.HasImage() {
		body.WriteString(v.theme.Attachment.Render(AttachmentIcon + msg.Image.Describe()))
		body.WriteString("\n")
	}

	if msg.Role == model.RoleAssistant {
		body.WriteString(v.md.Render(msg.Text))
		b.WriteString(v.theme.AssistantBody.Width(v.Width - 1).Render(body.String()))
	} else {
		body.WriteString(msg.Text)
		b.WriteString(v.theme.UserBody.Width(v.Width - 1).Render(body.String()))
	}
	return b.String()
}

// RenderStreaming renders an in-progress reply. display is the turn's
// display text, with the trailing cursor if present.
func (v *MessageView) RenderStreaming(display, cursor string) string {
	text, hasCursor := strings.CutSuffix(display, cursor)

	var b strings.Builder
	b.WriteString(v.header(model.RoleAssistant, time.Time{}))
	b.WriteString("\n")

	body := v.md.Render(text)
	if hasCursor {
		body += v.theme.Cursor.Render(cursor)
	}
	b.WriteString(v.theme.AssistantBody.Width(v.Width - 1).Render(body))
	return b.String()
}

// RenderNotice renders an error notice line.
func (v *MessageView) RenderNotice(text string) string {
	return v.theme.ErrorNotice.Width(v.Width).Render(styles.StatusIndicators.Error + " " + text)
}

// RenderList renders messages separated by blank lines.
func (v *MessageView) RenderList(msgs []*model.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, v.Render(m))
	}
	return strings.Join(parts, "\n\n")
}

func (v *MessageView) header(role model.Role, ts time.Time) string {
	style := v.theme.UserHeader
	if role == model.RoleAssistant {
		style = v.theme.AssistantHeader
	}
	h := style.Render(role.DisplayName())
	if v.ShowTimestamp && !ts.IsZero() {
		h += " " + v.theme.Timestamp.Render(ts.Format("15:04"))
	}
	return h
}
