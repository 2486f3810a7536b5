// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"fmt"
	"iter"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/jeranaias/xspark/internal/llm"
	"github.com/jeranaias/xspark/internal/model"
)

// =============================================================================
// BACKEND SURFACE
// =============================================================================

// api is the slice of the genai client the Client uses.
type api interface {
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
	CreateChat(ctx context.Context, model string, cfg *genai.GenerateContentConfig, history []*genai.Content) (chatAPI, error)
}

// chatAPI is satisfied by *genai.Chat.
type chatAPI interface {
	SendMessageStream(ctx context.Context, parts ...genai.Part) iter.Seq2[*genai.GenerateContentResponse, error]
}

type sdkAPI struct {
	client *genai.Client
}

func (a sdkAPI) GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	return a.client.Models.GenerateContentStream(ctx, model, contents, cfg)
}

func (a sdkAPI) CreateChat(ctx context.Context, model string, cfg *genai.GenerateContentConfig, history []*genai.Content) (chatAPI, error) {
	chat, err := a.client.Chats.Create(ctx, model, cfg, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is an llm.Generator backed by the Gemini API.
//
// The Client is safe for concurrent use; every call builds its own request
// from the params it is given.
type Client struct {
	api     api
	history HistoryFunc
}

// Option configures a Client.
type Option func(*Client)

// WithHistoryFunc replaces the history adapter used by StartChat.
func WithHistoryFunc(f HistoryFunc) Option {
	return func(c *Client) {
		if f != nil {
			c.history = f
		}
	}
}

// NewClient creates a Gemini client authenticated with apiKey.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, llm.ErrCredential
	}

	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, llm.Wrap(llm.KindCredential, "failed to create Gemini client", err)
	}
	return newClient(sdkAPI{client: sdk}, opts...), nil
}

func newClient(a api, opts ...Option) *Client {
	c := &Client{api: a, history: BuildHistory}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateWithImage sends prompt and img as one user turn. It does not
// touch the history adapter.
func (c *Client) GenerateWithImage(ctx context.Context, params llm.Params, prompt string, img *model.Image) (llm.Stream, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, &llm.Error{Kind: llm.KindRequest, Message: "image request without image data"}
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(img.Data, img.MIME),
		}, genai.RoleUser),
	}

	log.Printf("GEMINI_REQUEST | kind=image model=%s image=%q bytes=%d", params.Model, img.Name, img.Size())
	seq := c.api.GenerateContentStream(ctx, params.Model, contents, generateConfig(params))
	return llm.FromSeq(textSeq(seq, params.Model)), nil
}

// StartChat opens a chat seeded with the adapted history.
func (c *Client) StartChat(ctx context.Context, params llm.Params, history []*model.Message) (llm.Chat, error) {
	contents := c.history(history)

	chat, err := c.api.CreateChat(ctx, params.Model, generateConfig(params), contents)
	if err != nil {
		return nil, llm.Wrap(llm.KindRequest, "failed to start chat", err)
	}
	log.Printf("GEMINI_CHAT | model=%s history=%d", params.Model, len(contents))
	return &chatSession{chat: chat, model: params.Model}, nil
}

// chatSession implements llm.Chat.
type chatSession struct {
	chat  chatAPI
	model string
}

func (s *chatSession) SendText(ctx context.Context, prompt string) (llm.Stream, error) {
	log.Printf("GEMINI_REQUEST | kind=text model=%s prompt_len=%d", s.model, len(prompt))
	seq := s.chat.SendMessageStream(ctx, genai.Part{Text: prompt})
	return llm.FromSeq(textSeq(seq, s.model)), nil
}

// =============================================================================
// HELPERS
// =============================================================================

// generateConfig carries the per-call params. The persona is the system
// instruction on every call.
func generateConfig(p llm.Params) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(p.Temperature),
		MaxOutputTokens: p.MaxOutputTokens,
	}
	if strings.TrimSpace(p.Persona) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(p.Persona, genai.RoleUser)
	}
	return cfg
}

// textSeq maps responses to their text. An error before the first response
// is a request failure; later errors are stream failures.
func textSeq(seq iter.Seq2[*genai.GenerateContentResponse, error], modelID string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		start := time.Now()
		received := 0
		for resp, err := range seq {
			if err != nil {
				kind, msg := llm.KindStream, "stream interrupted"
				if received == 0 {
					kind, msg = llm.KindRequest, "request failed"
				}
				log.Printf("GEMINI_ERROR | model=%s responses=%d err=%v", modelID, received, err)
				yield("", llm.Wrap(kind, msg, err))
				return
			}
			received++
			if resp == nil {
				continue
			}
			text := resp.Text()
			if err := blocked(resp, text); err != nil {
				log.Printf("GEMINI_BLOCKED | model=%s responses=%d err=%v", modelID, received, err)
				yield("", err)
				return
			}
			if !yield(text, nil) {
				return
			}
		}
		log.Printf("GEMINI_DONE | model=%s responses=%d duration=%v", modelID, received, time.Since(start).Round(time.Millisecond))
	}
}

// blocked reports a response the API refused to answer: a prompt block, or
// a candidate that stopped for a reason other than STOP or MAX_TOKENS
// without producing text.
func blocked(resp *genai.GenerateContentResponse, text string) error {
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		cause := fmt.Errorf("prompt blocked (%s)", fb.BlockReason)
		if fb.BlockReasonMessage != "" {
			cause = fmt.Errorf("prompt blocked (%s): %s", fb.BlockReason, fb.BlockReasonMessage)
		}
		return llm.Wrap(llm.KindRequest, "response blocked", cause)
	}
	if text != "" || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	switch reason := resp.Candidates[0].FinishReason; reason {
	case "", genai.FinishReasonUnspecified, genai.FinishReasonStop, genai.FinishReasonMaxTokens:
		return nil
	default:
		return llm.Wrap(llm.KindRequest, "response blocked", fmt.Errorf("finish reason %s", reason))
	}
}
