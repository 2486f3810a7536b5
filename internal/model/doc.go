// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat messages and models.
//
// This package defines the core domain types shared by the session, the
// generation clients and both user interfaces.
//
// # Key Types
//
//   - Message: Single message with role, text, timestamp and an optional image
//   - Image: Inline image attachment (name, MIME type, bytes, dimensions)
//   - ModelInfo: Information about a selectable Gemini model
//   - Role: Message role enumeration (user, assistant)
//
// # Usage
//
// Create messages:
//
//	q := model.NewUserMessage("What is in this picture?", img)
//	a := model.NewAssistantMessage("A cat sitting on a keyboard.")
//
// Look up model information:
//
//	info, _ := model.GetModelInfo("gemini-1.5-flash")
//	fmt.Println(info.Name, info.Description)
package model
