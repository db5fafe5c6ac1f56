// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and top-level command dispatch for hitcraft.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdChat Command = iota
	CmdHistory
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool

	// Command-specific
	ArtistID   string
	ThreadID   string
	Limit      int
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `hitcraft - chat with your AI music production assistant

Usage:
  hitcraft                   Start an interactive chat session
  hitcraft chat              Same as above
  hitcraft chat --resume ID  Resume a past conversation
  hitcraft history           List past conversations
  hitcraft config [show|path]
                             Configuration inspection
  hitcraft version           Show version information
  hitcraft help              Show this help

Chat Flags:
  -a, --artist ID     Artist persona for new threads (overrides config)
  -r, --resume ID     Resume the given thread
  -q, --quiet         Minimal output
  -v, --verbose       Verbose output

History Flags:
  -n, --limit N       Number of threads to list (default: 20)

Interactive Commands (during chat):
  /new                Start a fresh conversation
  /resume [N|ID]      Switch to a past conversation
  /history            List past conversations
  /help, /h           Show available commands
  /quit, /q           Exit chat
  Ctrl+D              Exit chat

Configuration:
  ~/.hitcraft/config.toml, overridden by HITCRAFT_BASE_URL,
  HITCRAFT_TOKEN and HITCRAFT_ARTIST_ID environment variables.
`

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsedArgs := parseGlobalFlags(args)

	// No arguments means interactive chat.
	if len(remaining) == 0 {
		return CmdChat, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "chat":
		parseChatArgs(&parsedArgs, remaining)
		return CmdChat, parsedArgs

	case "history", "threads":
		parseHistoryArgs(&parsedArgs, remaining)
		return CmdHistory, parsedArgs

	case "config":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdConfig, parsedArgs

	case "version", "-V", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts flags valid for every command and returns the
// remaining arguments.
func parseGlobalFlags(args []string) ([]string, Args) {
	var parsed Args
	var remaining []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		default:
			remaining = append(remaining, args[i])
		}
	}
	return remaining, parsed
}

func parseChatArgs(parsed *Args, args []string) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-a", "--artist":
			if i+1 < len(args) {
				i++
				parsed.ArtistID = args[i]
			}
		case "-r", "--resume":
			if i+1 < len(args) {
				i++
				parsed.ThreadID = args[i]
			}
		}
	}
}

func parseHistoryArgs(parsed *Args, args []string) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n", "--limit":
			if i+1 < len(args) {
				i++
				fmt.Sscanf(args[i], "%d", &parsed.Limit)
			}
		}
	}
}

// PrintUsage prints the top-level usage text.
func PrintUsage() {
	fmt.Print(usageText)
}

// HandleVersion prints version information.
func HandleVersion() error {
	fmt.Printf("hitcraft %s\n", Version)
	fmt.Printf("  commit:  %s\n", GitCommit)
	fmt.Printf("  built:   %s\n", BuildDate)
	fmt.Printf("  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}
