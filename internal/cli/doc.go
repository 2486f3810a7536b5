// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the non-TUI surfaces of xspark.
//
// # Commands Overview
//
//   - chat: line-mode REPL with input history and slash commands
//   - ask: single question, answer rendered with glamour
//   - config show|path|init: inspect or create the configuration file
//
// Line mode is also what runs when stdout is not a terminal.
//
// # Usage
//
//	repl := cli.NewREPL(cfg, gen, cli.NewLineReader(), os.Stdout)
//	defer repl.Close()
//	return repl.Run(ctx)
package cli
