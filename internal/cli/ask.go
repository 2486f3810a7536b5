// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question for xspark.
//
// Examples:
//   xspark ask "What is a goroutine?"
//   xspark ask --image cat.png "What is in this picture?"

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/xspark/internal/attach"
	"github.com/jeranaias/xspark/internal/config"
	"github.com/jeranaias/xspark/internal/llm"
	"github.com/jeranaias/xspark/internal/model"
	"github.com/jeranaias/xspark/internal/session"
	"github.com/jeranaias/xspark/internal/turn"
)

// ErrEmptyPrompt is returned by Ask when the question is blank.
var ErrEmptyPrompt = errors.New("prompt is empty")

// AskOptions configures a one-shot question.
type AskOptions struct {
	Prompt    string
	ImagePath string
	// Markdown renders the answer with glamour
	Markdown bool
	Out      io.Writer
}

// Ask runs a single turn and prints the final answer. A failed turn
// returns the failure after printing the error notice.
func Ask(ctx context.Context, cfg *config.Config, gen llm.Generator, opts AskOptions) error {
	var img *model.Image
	if opts.ImagePath != "" {
		loaded, err := attach.Load(opts.ImagePath, cfg.Attachments)
		if err != nil {
			return fmt.Errorf("attachment rejected: %w", err)
		}
		img = loaded
	}

	settings := cfg.Generation.Clamp()
	runner := turn.NewRunner(gen, session.New(), func() config.GenerationConfig { return settings })
	t := runner.Begin(ctx, opts.Prompt, img)
	if t == nil {
		return ErrEmptyPrompt
	}

	reply, err := t.Run(nil)
	if err != nil {
		fmt.Fprintln(opts.Out, ErrorStyle.Render(turn.ErrorNotice(err)))
		return err
	}

	if opts.Markdown {
		fmt.Fprint(opts.Out, renderMarkdown(reply.Text, wrapWidth(cfg.UI.WordWrap)))
		return nil
	}
	fmt.Fprintln(opts.Out, reply.Text)
	return nil
}

// renderMarkdown renders content for the terminal, returning it unchanged
// when the renderer cannot be built or fails.
func renderMarkdown(content string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content + "\n"
	}
	out, err := r.Render(content)
	if err != nil {
		return content + "\n"
	}
	return out
}
