// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package turn runs one conversation turn: record the prompt, pick the
// request shape, stream the reply, and record the answer.
//
// A Turn can be driven step by step (Pull, Append, Fail, Finish) from a
// Bubble Tea update loop, or synchronously with Run from line mode. A failed
// turn never returns an error to its driver as a crash: the session gets
// FallbackText as the reply and the driver shows ErrorNotice.
package turn
