// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the HitCraft command-line interface: argument
// parsing, the interactive chat REPL, and the non-interactive commands.
//
// # Key Types
//
//   - Command: the parsed top-level command
//   - Args: parsed flags and positional arguments
//   - ChatCLI: line editing and input history for the chat REPL
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdChat:
//	    err = cli.HandleChat(args)
//	...
//	}
package cli
