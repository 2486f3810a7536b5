// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

//go:generate mockgen -destination=llmmock/llm_mock.go -package=llmmock -source=llm.go

import (
	"context"

	"github.com/jeranaias/xspark/internal/config"
	"github.com/jeranaias/xspark/internal/model"
)

// =============================================================================
// PARAMETERS
// =============================================================================

// Params are the per-call generation parameters. They are built from the
// current widget values immediately before every call.
type Params struct {
	Model           string
	Persona         string
	Temperature     float32
	MaxOutputTokens int32
}

// ParamsFrom converts a generation config into call parameters.
func ParamsFrom(g config.GenerationConfig) Params {
	g = g.Clamp()
	return Params{
		Model:           g.Model,
		Persona:         g.Persona,
		Temperature:     float32(g.Temperature),
		MaxOutputTokens: int32(g.MaxOutputTokens),
	}
}

// =============================================================================
// INTERFACES
// =============================================================================

// Stream is a pull-based sequence of text fragments.
//
// Next returns the next non-empty fragment, io.EOF once the response is
// complete, or any other error if generation failed. Close releases the
// underlying request and may be called at any point, more than once.
type Stream interface {
	Next() (string, error)
	Close() error
}

// Chat is an open multi-turn conversation seeded with prior history.
type Chat interface {
	// SendText sends a text-only prompt and streams the reply.
	SendText(ctx context.Context, prompt string) (Stream, error)
}

// Generator creates streams for the two request shapes.
type Generator interface {
	// StartChat opens a chat whose context is the given prior messages.
	// Implementations decide how messages map to their wire history.
	StartChat(ctx context.Context, params Params, history []*model.Message) (Chat, error)

	// GenerateWithImage performs a stateless single-turn request for a
	// prompt plus one image. No history is involved.
	GenerateWithImage(ctx context.Context, params Params, prompt string, img *model.Image) (Stream, error)
}
