// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/xspark/internal/config"
	"github.com/jeranaias/xspark/internal/model"
)

// =============================================================================
// STREAM TESTS
// =============================================================================

func TestFromSeq_YieldsInOrderAndSkipsEmpty(t *testing.T) {
	s := FragmentStream([]string{"Hel", "", "lo", "!"}, nil)

	var got []string
	for {
		frag, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, frag)
	}

	assert.Equal(t, []string{"Hel", "lo", "!"}, got)

	// EOF is sticky.
	_, err := s.Next()
	assert.Equal(t, io.EOF, err)
}

func TestFromSeq_ErrorIsSticky(t *testing.T) {
	boom := errors.New("boom")
	s := FragmentStream([]string{"partial"}, boom)

	frag, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "partial", frag)

	_, err = s.Next()
	assert.ErrorIs(t, err, boom)
	_, err = s.Next()
	assert.ErrorIs(t, err, boom)
}

func TestFromSeq_LazyStart(t *testing.T) {
	started := false
	s := FromSeq(func(yield func(string, error) bool) {
		started = true
		yield("x", nil)
	})
	assert.False(t, started, "sequence should not run before Next")

	_, err := s.Next()
	require.NoError(t, err)
	assert.True(t, started)
	require.NoError(t, s.Close())
}

func TestFromSeq_CloseStopsProducer(t *testing.T) {
	produced := 0
	s := FromSeq(func(yield func(string, error) bool) {
		for i := 0; i < 100; i++ {
			produced++
			if !yield(fmt.Sprint(i), nil) {
				return
			}
		}
	})

	_, err := s.Next()
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Next()
	assert.Equal(t, io.EOF, err)
	assert.Less(t, produced, 100)
}

func TestCollect(t *testing.T) {
	text, err := Collect(FragmentStream([]string{"Hel", "lo", "!"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "Hello!", text)

	boom := errors.New("boom")
	text, err = Collect(FragmentStream([]string{"a", "b"}, boom))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "ab", text)
}

// =============================================================================
// REQUEST TESTS
// =============================================================================

func TestNewRequest(t *testing.T) {
	prior := []*model.Message{
		model.NewMessage(model.RoleUser, "hi"),
		model.NewAssistantMessage("hello"),
	}

	t.Run("text only carries history", func(t *testing.T) {
		req := NewRequest("next", nil, prior)
		text, ok := req.(TextOnly)
		require.True(t, ok, "got %T", req)
		assert.Equal(t, "next", text.Text())
		assert.Len(t, text.History, 2)
	})

	t.Run("image ignores history", func(t *testing.T) {
		img := &model.Image{Name: "a.png", MIME: "image/png", Data: []byte{1}}
		req := NewRequest("what is this", img, prior)
		withImg, ok := req.(WithImage)
		require.True(t, ok, "got %T", req)
		assert.Same(t, img, withImg.Image)
		assert.Equal(t, "what is this", withImg.Text())
	})
}

// =============================================================================
// PARAMS TESTS
// =============================================================================

func TestParamsFrom(t *testing.T) {
	g := config.GenerationConfig{
		Model:           "gemini-1.5-pro",
		Temperature:     0.35,
		MaxOutputTokens: 1200,
		Persona:         "You are terse.",
	}
	p := ParamsFrom(g)
	assert.Equal(t, "gemini-1.5-pro", p.Model)
	assert.Equal(t, "You are terse.", p.Persona)
	assert.InDelta(t, 0.35, p.Temperature, 1e-6)
	assert.Equal(t, int32(1200), p.MaxOutputTokens)
}

func TestParamsFrom_Clamps(t *testing.T) {
	p := ParamsFrom(config.GenerationConfig{
		Model:           "gemini-1.5-flash",
		Temperature:     3,
		MaxOutputTokens: 50000,
	})
	assert.InDelta(t, config.TemperatureMax, p.Temperature, 1e-6)
	assert.Equal(t, int32(config.OutputTokensMax), p.MaxOutputTokens)
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindStream, "stream failed", cause)

	assert.ErrorIs(t, err, ErrStream)
	assert.NotErrorIs(t, err, ErrRequest)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindStream, KindOf(err))
	assert.Equal(t, "stream failed: connection reset", err.Error())

	// Already-wrapped errors pass through.
	assert.Same(t, err, Wrap(KindRequest, "other", err))

	assert.NoError(t, Wrap(KindRequest, "nothing", nil))
}

func TestWrap_ContextCanceled(t *testing.T) {
	err := Wrap(KindRequest, "request failed", fmt.Errorf("send: %w", context.Canceled))
	assert.Equal(t, KindCanceled, KindOf(err))
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestKindOf_Unknown(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, "unknown", KindUnknown.String())
	assert.Equal(t, "credential", KindCredential.String())
}
