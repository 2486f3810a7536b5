// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat messages and models.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "XSpark"
	default:
		return string(r)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in a chat session.
// Messages are immutable once appended to a session.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	Text string `json:"text"`

	// Image is set only on user messages that carried an attachment.
	Image *Image `json:"image,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, text string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user message with an optional image.
func NewUserMessage(text string, img *Image) *Message {
	msg := NewMessage(RoleUser, text)
	msg.Image = img
	return msg
}

// NewAssistantMessage creates a completed assistant message.
func NewAssistantMessage(text string) *Message {
	return NewMessage(RoleAssistant, text)
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// HasImage reports whether the message carries an image attachment.
func (m *Message) HasImage() bool {
	return m != nil && m.Image != nil
}

// Preview returns a single-line, rune-truncated preview of the text.
func (m *Message) Preview(maxLen int) string {
	text := strings.Join(strings.Fields(m.Text), " ")
	runes := []rune(text)
	if maxLen <= 3 || len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has neither text nor an image.
func (m *Message) IsEmpty() bool {
	return strings.TrimSpace(m.Text) == "" && m.Image == nil
}

// EstimateTokens gives a rough estimate of token count.
// Uses the approximation of ~4 characters per token.
func (m *Message) EstimateTokens() int {
	return (len(m.Text) + 3) / 4
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	return "msg_" + uuid.New().String()
}
