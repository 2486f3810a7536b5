// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm defines the generation surface shared by the remote Gemini
// client, the offline generator and the turn engine.
//
// # Request shapes
//
// A submission is either TextOnly (continued from prior history through a
// Chat) or WithImage (one stateless call). NewRequest chooses the shape:
//
//	switch req := llm.NewRequest(prompt, img, prior).(type) {
//	case llm.WithImage:
//	    stream, err = gen.GenerateWithImage(ctx, params, req.Prompt, req.Image)
//	case llm.TextOnly:
//	    chat, err := gen.StartChat(ctx, params, req.History)
//	    ...
//	}
//
// # Streams
//
// Stream is pulled one fragment at a time so a UI can redraw between
// fragments. FromSeq adapts iter.Seq2 producers with iter.Pull2.
package llm
