// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import "github.com/jeranaias/xspark/internal/model"

// Request is the kind of generation a submission needs. It is either
// TextOnly or WithImage; use a type switch to dispatch.
type Request interface {
	// Text returns the prompt text.
	Text() string
	isRequest()
}

// TextOnly is a stateful request continued from History.
type TextOnly struct {
	Prompt string
	// History is every message before the one being answered.
	History []*model.Message
}

// WithImage is a stateless single-turn request carrying an image.
type WithImage struct {
	Prompt string
	Image  *model.Image
}

func (r TextOnly) Text() string  { return r.Prompt }
func (r WithImage) Text() string { return r.Prompt }

func (TextOnly) isRequest()  {}
func (WithImage) isRequest() {}

// NewRequest picks the request kind for a submission. prior is the
// session content before the new user message.
func NewRequest(prompt string, img *model.Image, prior []*model.Message) Request {
	if img != nil {
		return WithImage{Prompt: prompt, Image: img}
	}
	return TextOnly{Prompt: prompt, History: prior}
}
