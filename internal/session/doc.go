// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the in-memory conversation for one run.
//
// Nothing is persisted: a Session lives as long as the process, and Clear
// returns it to the empty state.
//
// # Key Types
//
//   - Session: Ordered messages plus the current chat handle
//   - Status: Snapshot for the sidebar and the /settings command
package session
