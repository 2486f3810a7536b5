// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the xspark packages.
//
// # Key Functions
//
//   - AtomicWriteFile: crash-safe file writing with fsync and rename
//   - TruncateWidth, PadRight, StringWidth: column-aware text fitting for the TUI
//   - NormalizePrompt: NFC normalization and trimming of user input
//
// # Usage
//
//	label := util.TruncateWidth(img.Describe(), 28)
//	prompt := util.NormalizePrompt(input.Value())
//	err := util.AtomicWriteFile(path, data, 0600)
package util
