// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package turn

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/xspark/internal/config"
	"github.com/jeranaias/xspark/internal/llm"
	"github.com/jeranaias/xspark/internal/model"
	"github.com/jeranaias/xspark/internal/session"
	"github.com/jeranaias/xspark/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// FallbackText is stored as the assistant reply when a turn fails.
const FallbackText = "I encountered an error. Please try again."

// Cursor trails the partial reply while fragments are arriving.
const Cursor = "▌"

// ErrorNotice is the user-facing line shown when a turn fails.
func ErrorNotice(err error) string {
	if err == nil {
		return ""
	}
	return "An error occurred: " + err.Error()
}

// =============================================================================
// STATE
// =============================================================================

// State is the lifecycle position of the conversation loop.
type State int

const (
	StateIdle State = iota
	StateSubmitted
	StateGenerating
)

func (s State) String() string {
	switch s {
	case StateSubmitted:
		return "submitted"
	case StateGenerating:
		return "generating"
	default:
		return "idle"
	}
}

// =============================================================================
// RUNNER
// =============================================================================

// SettingsFunc returns the generation settings at the moment of a call.
type SettingsFunc func() config.GenerationConfig

// Runner starts turns against a generator and records them in a session.
type Runner struct {
	gen      llm.Generator
	sess     *session.Session
	settings SettingsFunc
}

// NewRunner creates a Runner. settings is read once per turn, right before
// the request is made.
func NewRunner(gen llm.Generator, sess *session.Session, settings SettingsFunc) *Runner {
	return &Runner{gen: gen, sess: sess, settings: settings}
}

// Session returns the session turns are recorded in.
func (r *Runner) Session() *session.Session {
	return r.sess
}

// Begin records the user message and opens the reply stream.
//
// The prompt is normalized first; an empty prompt starts nothing and Begin
// returns nil. Failures to open the stream are kept on the Turn and
// surface from its first Pull.
func (r *Runner) Begin(ctx context.Context, prompt string, img *model.Image) *Turn {
	prompt = util.NormalizePrompt(prompt)
	if prompt == "" {
		return nil
	}

	prior := r.sess.Messages()
	user := model.NewUserMessage(prompt, img)
	r.sess.Append(user)

	params := llm.ParamsFrom(r.settings())
	t := &Turn{
		User:    user,
		Model:   params.Model,
		sess:    r.sess,
		state:   StateSubmitted,
		started: time.Now(),
	}
	log.Printf("TURN_BEGIN | model=%s history=%d image=%t prompt=%q", params.Model, len(prior), img != nil, user.Preview(60))

	switch req := llm.NewRequest(prompt, img, prior).(type) {
	case llm.WithImage:
		t.stream, t.openErr = r.beginImage(ctx, params, req)
	case llm.TextOnly:
		t.stream, t.openErr = r.beginText(ctx, params, req)
	}
	return t
}

func (r *Runner) beginImage(ctx context.Context, params llm.Params, req llm.WithImage) (llm.Stream, error) {
	return r.gen.GenerateWithImage(ctx, params, req.Prompt, req.Image)
}

func (r *Runner) beginText(ctx context.Context, params llm.Params, req llm.TextOnly) (llm.Stream, error) {
	chat, err := r.gen.StartChat(ctx, params, req.History)
	if err != nil {
		return nil, err
	}
	r.sess.SetChat(chat)
	return chat.SendText(ctx, req.Prompt)
}

// =============================================================================
// TURN
// =============================================================================

// Turn is one prompt and its streamed reply.
//
// Pull may run on a different goroutine from the other methods, but never
// concurrently with itself.
type Turn struct {
	User  *model.Message
	Model string

	sess    *session.Session
	stream  llm.Stream
	openErr error
	started time.Time

	mu        sync.Mutex
	state     State
	text      strings.Builder
	fragments int
	err       error
	reply     *model.Message
}

// Pull blocks for the next fragment. It returns io.EOF when the reply is
// complete.
func (t *Turn) Pull() (string, error) {
	if t.openErr != nil {
		return "", t.openErr
	}
	if t.stream == nil {
		return "", io.EOF
	}
	return t.stream.Next()
}

// Append adds a fragment to the reply.
func (t *Turn) Append(fragment string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.reply != nil {
		return
	}
	t.state = StateGenerating
	t.text.WriteString(fragment)
	t.fragments++
}

// Fail marks the turn as failed. Text received so far is discarded.
func (t *Turn) Fail(err error) {
	if err == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err == nil {
		t.err = err
	}
	log.Printf("TURN_FAILED | model=%s fragments=%d kind=%s err=%v", t.Model, t.fragments, llm.KindOf(err), err)
}

// Display is the text to show for the reply right now.
func (t *Turn) Display() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.reply != nil:
		return t.reply.Text
	case t.err != nil:
		return ""
	case t.state == StateGenerating:
		return t.text.String() + Cursor
	default:
		return ""
	}
}

// State returns the turn's lifecycle state.
func (t *Turn) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Err returns the failure, if any.
func (t *Turn) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Notice returns the error notice for a failed turn, or "".
func (t *Turn) Notice() string {
	return ErrorNotice(t.Err())
}

// Finish closes the stream and appends the assistant message to the
// session. Calling it again returns the same message.
func (t *Turn) Finish() *model.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.reply != nil {
		return t.reply
	}
	if t.stream != nil {
		if err := t.stream.Close(); err != nil {
			log.Printf("TURN_CLOSE_FAILED | err=%v", err)
		}
	}

	text := t.text.String()
	if t.err != nil {
		text = FallbackText
	}
	t.reply = model.NewAssistantMessage(text)
	t.state = StateIdle
	t.sess.Append(t.reply)

	log.Printf("TURN_DONE | model=%s image=%t fragments=%d chars=%d failed=%t duration=%v",
		t.Model, t.User.HasImage(), t.fragments, len(text), t.err != nil, time.Since(t.started).Round(time.Millisecond))
	return t.reply
}

// Run drives the turn to completion, calling onUpdate with the display
// text after every fragment. The returned error is the turn failure, for
// display only; the reply is always recorded.
func (t *Turn) Run(onUpdate func(display string)) (*model.Message, error) {
	for {
		frag, err := t.Pull()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fail(err)
			break
		}
		t.Append(frag)
		if onUpdate != nil {
			onUpdate(t.Display())
		}
	}
	reply := t.Finish()
	return reply, t.Err()
}
