// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini implements llm.Generator on top of the Google Gen AI SDK.
//
// Image turns go through a single GenerateContentStream call. Text turns
// open a chat whose history comes from BuildHistory, then stream the reply
// with SendMessageStream.
//
//	client, err := gemini.NewClient(ctx, cfg.Credential())
//	chat, err := client.StartChat(ctx, params, prior)
//	stream, err := chat.SendText(ctx, "Hello")
//	text, err := llm.Collect(stream)
package gemini
