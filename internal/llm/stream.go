// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"io"
	"iter"
	"strings"
	"sync"
)

// =============================================================================
// SEQUENCE STREAM
// =============================================================================

// seqStream adapts a push-style iterator into a pull Stream.
type seqStream struct {
	next func() (string, error, bool)
	stop func()

	mu     sync.Mutex
	err    error // sticky terminal error (io.EOF included)
	closed bool
}

// FromSeq turns a range-over-func sequence of fragments into a Stream.
// The sequence is not started until the first call to Next. Empty
// fragments are skipped. The first error ends the stream.
func FromSeq(seq iter.Seq2[string, error]) Stream {
	next, stop := iter.Pull2(seq)
	return &seqStream{next: next, stop: stop}
}

func (s *seqStream) Next() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", io.EOF
	}
	for s.err == nil {
		text, err, ok := s.next()
		switch {
		case !ok:
			s.err = io.EOF
		case err != nil:
			s.err = err
			s.stop()
		case text != "":
			return text, nil
		}
	}
	return "", s.err
}

func (s *seqStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.stop()
	}
	return nil
}

// =============================================================================
// FIXED STREAMS
// =============================================================================

// FragmentStream returns a Stream that yields fragments in order and then
// ends with err, or io.EOF when err is nil.
func FragmentStream(fragments []string, err error) Stream {
	return FromSeq(func(yield func(string, error) bool) {
		for _, f := range fragments {
			if !yield(f, nil) {
				return
			}
		}
		if err != nil {
			yield("", err)
		}
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// Collect drains s and returns the concatenated text. The stream is closed
// on return. A non-EOF error is returned together with the text read so far.
func Collect(s Stream) (string, error) {
	defer s.Close()

	var b strings.Builder
	for {
		frag, err := s.Next()
		if err == io.EOF {
			return b.String(), nil
		}
		if err != nil {
			return b.String(), err
		}
		b.WriteString(frag)
	}
}
