// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"errors"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// Error represents a failed generation.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Cause == nil && t.Kind == e.Kind
}

// ErrorKind categorizes generation errors for display.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindCredential
	KindRequest
	KindStream
	KindCanceled
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindCredential:
		return "credential"
	case KindRequest:
		return "request"
	case KindStream:
		return "stream"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Sentinel errors for easy checking.
var (
	ErrCredential = &Error{Kind: KindCredential, Message: "invalid or missing API key"}
	ErrRequest    = &Error{Kind: KindRequest, Message: "request failed"}
	ErrStream     = &Error{Kind: KindStream, Message: "stream failed"}
	ErrCanceled   = &Error{Kind: KindCanceled, Message: "generation canceled"}
)

// Wrap attaches a kind and message to cause. Context cancellation is
// reported as KindCanceled whatever kind was requested. Errors that are
// already *Error pass through unchanged.
func Wrap(kind ErrorKind, message string, cause error) error {
	if cause == nil {
		return nil
	}
	var existing *Error
	if errors.As(cause, &existing) {
		return cause
	}
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		kind = KindCanceled
	}
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the kind of err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
