// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/jeranaias/xspark/internal/llm/llmmock"
	"github.com/jeranaias/xspark/internal/model"
)

func TestNew(t *testing.T) {
	s := New()
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if s.Last() != nil {
		t.Error("Last() should be nil for an empty session")
	}
	if s.Chat() != nil {
		t.Error("Chat() should be nil for a new session")
	}
	if !strings.HasPrefix(s.ID(), "sess_") {
		t.Errorf("ID() = %q, want sess_ prefix", s.ID())
	}
}

func TestSession_AppendPreservesOrder(t *testing.T) {
	s := New()
	s.Append(model.NewUserMessage("hi", nil))
	s.Append(model.NewAssistantMessage("hello"))
	s.Append(nil)

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(Messages()) = %d, want 2", len(msgs))
	}
	if msgs[0].Text != "hi" || msgs[1].Text != "hello" {
		t.Errorf("unexpected order: %q, %q", msgs[0].Text, msgs[1].Text)
	}
	if s.Last().Text != "hello" {
		t.Errorf("Last().Text = %q", s.Last().Text)
	}
}

func TestSession_MessagesIsACopy(t *testing.T) {
	s := New()
	s.Append(model.NewUserMessage("hi", nil))

	msgs := s.Messages()
	msgs[0] = model.NewAssistantMessage("tampered")
	_ = append(msgs, model.NewAssistantMessage("extra"))

	if s.Len() != 1 || s.Messages()[0].Text != "hi" {
		t.Error("mutating the returned slice should not change the session")
	}
}

func TestSession_Clear(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := New()
	oldID := s.ID()

	s.Append(model.NewUserMessage("hi", nil))
	s.SetChat(llmmock.NewMockChat(ctrl))
	s.Clear()

	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d", s.Len())
	}
	if s.Chat() != nil {
		t.Error("Clear should drop the chat handle")
	}
	if s.ID() == oldID {
		t.Error("Clear should start a new session ID")
	}
}

func TestSession_GetStatus(t *testing.T) {
	s := New()
	s.Append(model.NewUserMessage("what is this", &model.Image{Name: "a.png"}))
	s.Append(model.NewAssistantMessage("a cat"))
	s.Append(model.NewUserMessage("thanks", nil))

	st := s.GetStatus()
	if st.Messages != 3 {
		t.Errorf("Messages = %d, want 3", st.Messages)
	}
	if st.ImageTurns != 1 {
		t.Errorf("ImageTurns = %d, want 1", st.ImageTurns)
	}
	if st.HasChat {
		t.Error("HasChat should be false")
	}
	if st.Tokens <= 0 {
		t.Error("Tokens should be positive")
	}
}

func TestSession_ConcurrentAppend(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Append(model.NewAssistantMessage("x"))
			_ = s.Messages()
		}()
	}
	wg.Wait()
	if s.Len() != 50 {
		t.Errorf("Len() = %d, want 50", s.Len())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{42 * time.Second, "42s"},
		{3 * time.Minute, "3m"},
		{3*time.Minute + 20*time.Second, "3m 20s"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
	}
	for _, tc := range tests {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
