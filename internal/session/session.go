// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/xspark/internal/llm"
	"github.com/jeranaias/xspark/internal/model"
)

// =============================================================================
// SESSION STATE
// =============================================================================

// Session is the per-run conversation state: the ordered message list and
// the chat handle from the most recent text turn.
//
// The Session is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id        string
	startTime time.Time
	messages  []*model.Message
	chat      llm.Chat
}

// New creates an empty session.
func New() *Session {
	return &Session{
		id:        generateSessionID(),
		startTime: time.Now(),
	}
}

// ID returns the session ID.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Append adds msg to the end of the conversation.
func (s *Session) Append(msg *model.Message) {
	if msg == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Messages returns a copy of the message list.
func (s *Session) Messages() []*model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// Len returns the number of messages.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Last returns the newest message, or nil.
func (s *Session) Last() *model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return nil
	}
	return s.messages[len(s.messages)-1]
}

// Chat returns the chat handle of the latest text turn, or nil.
func (s *Session) Chat() llm.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat
}

// SetChat stores the chat handle. Image turns leave it untouched.
func (s *Session) SetChat(c llm.Chat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = c
}

// Clear drops all messages and the chat handle and starts a new session ID.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.chat = nil
	s.id = generateSessionID()
	s.startTime = time.Now()
}

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status summarizes the session for display.
type Status struct {
	ID         string
	StartTime  time.Time
	Duration   time.Duration
	Messages   int
	ImageTurns int
	Tokens     int
	HasChat    bool
}

// GetStatus returns the current session status.
func (s *Session) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		ID:        s.id,
		StartTime: s.startTime,
		Duration:  time.Since(s.startTime),
		Messages:  len(s.messages),
		HasChat:   s.chat != nil,
	}
	for _, m := range s.messages {
		if m.HasImage() {
			st.ImageTurns++
		}
		st.Tokens += m.EstimateTokens()
	}
	return st
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		if secs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func generateSessionID() string {
	return "sess_" + uuid.NewString()[:8]
}
