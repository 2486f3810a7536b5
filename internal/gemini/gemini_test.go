// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/jeranaias/xspark/internal/llm"
	"github.com/jeranaias/xspark/internal/model"
)

// =============================================================================
// FAKE BACKEND
// =============================================================================

type fakeAPI struct {
	fragments []string
	extra     []*genai.GenerateContentResponse
	err       error

	// recorded calls
	generateCalls int
	chatCalls     int
	lastModel     string
	lastContents  []*genai.Content
	lastHistory   []*genai.Content
	lastConfig    *genai.GenerateContentConfig
	sent          []genai.Part
}

func (f *fakeAPI) responses() iter.Seq2[*genai.GenerateContentResponse, error] {
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, frag := range f.fragments {
			resp := &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(frag, genai.RoleModel)}},
			}
			if !yield(resp, nil) {
				return
			}
		}
		for _, resp := range f.extra {
			if !yield(resp, nil) {
				return
			}
		}
		if f.err != nil {
			yield(nil, f.err)
		}
	}
}

func (f *fakeAPI) GenerateContentStream(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	f.generateCalls++
	f.lastModel = model
	f.lastContents = contents
	f.lastConfig = cfg
	return f.responses()
}

func (f *fakeAPI) CreateChat(_ context.Context, model string, cfg *genai.GenerateContentConfig, history []*genai.Content) (chatAPI, error) {
	f.chatCalls++
	f.lastModel = model
	f.lastHistory = history
	f.lastConfig = cfg
	return fakeChat{api: f}, nil
}

type fakeChat struct {
	api *fakeAPI
}

func (c fakeChat) SendMessageStream(_ context.Context, parts ...genai.Part) iter.Seq2[*genai.GenerateContentResponse, error] {
	c.api.sent = append(c.api.sent, parts...)
	return c.api.responses()
}

var testParams = llm.Params{
	Model:           "gemini-1.5-flash",
	Persona:         "You are a helpful AI assistant named XSpark.",
	Temperature:     0.7,
	MaxOutputTokens: 2048,
}

// =============================================================================
// HISTORY ADAPTER TESTS
// =============================================================================

func TestBuildHistory_OrderAndRoles(t *testing.T) {
	prior := []*model.Message{
		model.NewUserMessage("hi", nil),
		model.NewAssistantMessage("hello"),
		model.NewUserMessage("how are you?", nil),
		model.NewAssistantMessage("fine"),
	}

	history := BuildHistory(prior)
	require.Len(t, history, 4)

	wantRoles := []string{"user", "model", "user", "model"}
	wantTexts := []string{"hi", "hello", "how are you?", "fine"}
	for i, c := range history {
		assert.Equal(t, wantRoles[i], c.Role, "role %d", i)
		require.Len(t, c.Parts, 1)
		assert.Equal(t, wantTexts[i], c.Parts[0].Text, "text %d", i)
	}
}

func TestBuildHistory_DropsImageMessages(t *testing.T) {
	img := &model.Image{Name: "cat.png", MIME: "image/png", Data: []byte{1, 2}}
	prior := []*model.Message{
		model.NewUserMessage("hi", nil),
		model.NewAssistantMessage("hello"),
		model.NewUserMessage("what is this?", img),
		model.NewAssistantMessage("a cat"),
	}

	history := BuildHistory(prior)
	require.Len(t, history, 3)
	for _, c := range history {
		assert.NotEqual(t, "what is this?", c.Parts[0].Text)
	}
	// The reply to the image turn is kept as plain text.
	assert.Equal(t, "a cat", history[2].Parts[0].Text)
}

func TestBuildHistory_Empty(t *testing.T) {
	assert.Empty(t, BuildHistory(nil))
}

// =============================================================================
// CLIENT TESTS
// =============================================================================

func TestNewClient_MissingKey(t *testing.T) {
	_, err := NewClient(context.Background(), "   ")
	assert.ErrorIs(t, err, llm.ErrCredential)
}

func TestClient_GenerateWithImage(t *testing.T) {
	fake := &fakeAPI{fragments: []string{"A ", "cat."}}
	historyCalls := 0
	c := newClient(fake, WithHistoryFunc(func(prior []*model.Message) []*genai.Content {
		historyCalls++
		return BuildHistory(prior)
	}))

	img := &model.Image{Name: "cat.png", MIME: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	stream, err := c.GenerateWithImage(context.Background(), testParams, "What is this?", img)
	require.NoError(t, err)

	text, err := llm.Collect(stream)
	require.NoError(t, err)
	assert.Equal(t, "A cat.", text)

	assert.Equal(t, 0, historyCalls, "history adapter must not run for image requests")
	assert.Equal(t, 0, fake.chatCalls)
	assert.Equal(t, 1, fake.generateCalls)

	require.Len(t, fake.lastContents, 1)
	parts := fake.lastContents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, "What is this?", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
	assert.Equal(t, img.Data, parts[1].InlineData.Data)
}

func TestClient_GenerateWithImage_NoData(t *testing.T) {
	c := newClient(&fakeAPI{})
	_, err := c.GenerateWithImage(context.Background(), testParams, "x", &model.Image{Name: "empty.png"})
	assert.Equal(t, llm.KindRequest, llm.KindOf(err))
}

func TestClient_StartChat_PassesHistoryAndParams(t *testing.T) {
	fake := &fakeAPI{fragments: []string{"Hel", "lo", "!"}}
	c := newClient(fake)

	prior := []*model.Message{
		model.NewUserMessage("hi", nil),
		model.NewAssistantMessage("hello"),
	}
	chat, err := c.StartChat(context.Background(), testParams, prior)
	require.NoError(t, err)

	stream, err := chat.SendText(context.Background(), "again")
	require.NoError(t, err)
	text, err := llm.Collect(stream)
	require.NoError(t, err)
	assert.Equal(t, "Hello!", text)

	assert.Equal(t, "gemini-1.5-flash", fake.lastModel)
	assert.Len(t, fake.lastHistory, 2)
	require.Len(t, fake.sent, 1)
	assert.Equal(t, "again", fake.sent[0].Text)

	cfg := fake.lastConfig
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.7, *cfg.Temperature, 1e-6)
	assert.Equal(t, int32(2048), cfg.MaxOutputTokens)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, testParams.Persona, cfg.SystemInstruction.Parts[0].Text)
}

func TestClient_ParamsReadPerCall(t *testing.T) {
	fake := &fakeAPI{fragments: []string{"ok"}}
	c := newClient(fake)

	_, err := c.StartChat(context.Background(), testParams, nil)
	require.NoError(t, err)

	changed := testParams
	changed.Temperature = 0.2
	changed.MaxOutputTokens = 500
	_, err = c.StartChat(context.Background(), changed, nil)
	require.NoError(t, err)

	assert.InDelta(t, 0.2, *fake.lastConfig.Temperature, 1e-6)
	assert.Equal(t, int32(500), fake.lastConfig.MaxOutputTokens)
}

func TestClient_EmptyPersonaOmitsSystemInstruction(t *testing.T) {
	fake := &fakeAPI{}
	c := newClient(fake)

	p := testParams
	p.Persona = "  "
	_, err := c.StartChat(context.Background(), p, nil)
	require.NoError(t, err)
	assert.Nil(t, fake.lastConfig.SystemInstruction)
}

func TestClient_ErrorClassification(t *testing.T) {
	boom := errors.New("503 unavailable")

	t.Run("before first response", func(t *testing.T) {
		c := newClient(&fakeAPI{err: boom})
		chat, err := c.StartChat(context.Background(), testParams, nil)
		require.NoError(t, err)
		stream, err := chat.SendText(context.Background(), "hi")
		require.NoError(t, err)

		_, err = llm.Collect(stream)
		assert.ErrorIs(t, err, llm.ErrRequest)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("mid stream", func(t *testing.T) {
		c := newClient(&fakeAPI{fragments: []string{"partial"}, err: boom})
		chat, err := c.StartChat(context.Background(), testParams, nil)
		require.NoError(t, err)
		stream, err := chat.SendText(context.Background(), "hi")
		require.NoError(t, err)

		text, err := llm.Collect(stream)
		assert.ErrorIs(t, err, llm.ErrStream)
		assert.Equal(t, "partial", text)
	})
}

func TestClient_BlockedResponses(t *testing.T) {
	tests := []struct {
		name      string
		fragments []string
		resp      *genai.GenerateContentResponse
		wantErr   string
	}{
		{
			name: "prompt feedback",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			},
			wantErr: "SAFETY",
		},
		{
			name: "safety finish without text",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			},
			wantErr: "SAFETY",
		},
		{
			name:      "recitation after partial text",
			fragments: []string{"Once upon"},
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonRecitation}},
			},
			wantErr: "RECITATION",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAPI{fragments: tt.fragments, extra: []*genai.GenerateContentResponse{tt.resp}}
			chat, err := newClient(fake).StartChat(context.Background(), testParams, nil)
			require.NoError(t, err)
			stream, err := chat.SendText(context.Background(), "hi")
			require.NoError(t, err)

			_, err = llm.Collect(stream)
			require.Error(t, err)
			assert.ErrorIs(t, err, llm.ErrRequest)
			assert.Contains(t, err.Error(), "response blocked")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClient_NormalFinishIsNotBlocked(t *testing.T) {
	fake := &fakeAPI{
		fragments: []string{"done"},
		extra: []*genai.GenerateContentResponse{
			{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}}},
			{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonMaxTokens}}},
		},
	}
	stream, err := newClient(fake).GenerateWithImage(context.Background(), testParams, "what?",
		&model.Image{Name: "a.png", MIME: "image/png", Data: []byte{1}})
	require.NoError(t, err)

	text, err := llm.Collect(stream)
	require.NoError(t, err)
	assert.Equal(t, "done", text)
}
