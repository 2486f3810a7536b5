// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lorem provides an offline llm.Generator that streams lorem ipsum.
// It is used for --offline runs and for exercising the UI without an API key.
package lorem

import (
	"context"
	"fmt"
	"iter"
	"log"
	"strings"
	"sync"
	"time"

	loremgen "github.com/bozaro/golorem"

	"github.com/jeranaias/xspark/internal/llm"
	"github.com/jeranaias/xspark/internal/model"
)

// DefaultDelay is the pause between streamed words.
const DefaultDelay = 40 * time.Millisecond

// Word limits for a single reply.
const (
	minWords = 8
	maxWords = 120
)

// Generator produces placeholder replies word by word.
type Generator struct {
	mu    sync.Mutex
	gen   *loremgen.Lorem
	delay time.Duration
}

// New creates a Generator that waits delay between words.
// A negative delay selects DefaultDelay.
func New(delay time.Duration) *Generator {
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Generator{gen: loremgen.New(), delay: delay}
}

// StartChat returns a chat. History only affects logging.
func (g *Generator) StartChat(_ context.Context, params llm.Params, history []*model.Message) (llm.Chat, error) {
	log.Printf("LOREM_CHAT | model=%s history=%d", params.Model, len(history))
	return &chat{g: g, params: params}, nil
}

// GenerateWithImage streams a reply that names the image and then rambles.
func (g *Generator) GenerateWithImage(ctx context.Context, params llm.Params, prompt string, img *model.Image) (llm.Stream, error) {
	if img == nil {
		return nil, &llm.Error{Kind: llm.KindRequest, Message: "image request without image"}
	}
	lead := fmt.Sprintf("Offline mode cannot see %s.", img.Describe())
	log.Printf("LOREM_REQUEST | kind=image model=%s image=%q", params.Model, img.Name)
	return g.stream(ctx, lead, wordBudget(params.MaxOutputTokens)), nil
}

type chat struct {
	g      *Generator
	params llm.Params
}

func (c *chat) SendText(ctx context.Context, prompt string) (llm.Stream, error) {
	log.Printf("LOREM_REQUEST | kind=text model=%s prompt_len=%d", c.params.Model, len(prompt))
	return c.g.stream(ctx, "", wordBudget(c.params.MaxOutputTokens)), nil
}

// stream yields lead followed by words lorem words, one fragment per word.
func (g *Generator) stream(ctx context.Context, lead string, words int) llm.Stream {
	text := g.text(words)
	if lead != "" {
		text = lead + " " + text
	}
	return llm.FromSeq(g.words(ctx, strings.Fields(text)))
}

func (g *Generator) words(ctx context.Context, words []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for i, w := range words {
			if i > 0 {
				w = " " + w
				if err := g.sleep(ctx); err != nil {
					yield("", llm.Wrap(llm.KindCanceled, "generation canceled", err))
					return
				}
			} else if err := ctx.Err(); err != nil {
				yield("", llm.Wrap(llm.KindCanceled, "generation canceled", err))
				return
			}
			if !yield(w, nil) {
				return
			}
		}
	}
}

func (g *Generator) sleep(ctx context.Context) error {
	if g.delay == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(g.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// text returns at least words words of sentences.
func (g *Generator) text(words int) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var sb strings.Builder
	count := 0
	for count < words {
		sentence := g.gen.Sentence(5, 15)
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(sentence)
		count += len(strings.Fields(sentence))
	}
	return sb.String()
}

// wordBudget scales the reply length with the token cap.
func wordBudget(maxTokens int32) int {
	return max(minWords, min(maxWords, int(maxTokens)/20))
}
