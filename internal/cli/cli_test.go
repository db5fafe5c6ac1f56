// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"testing"
	"time"
)

func parseWith(t *testing.T, argv ...string) (Command, Args) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"hitcraft"}, argv...)
	defer func() { os.Args = old }()
	return Parse()
}

func TestParseDefaultsToChat(t *testing.T) {
	cmd, _ := parseWith(t)
	if cmd != CmdChat {
		t.Errorf("default command = %d, want CmdChat", cmd)
	}
}

func TestParseChatFlags(t *testing.T) {
	cmd, args := parseWith(t, "chat", "--artist", "artist-7", "-r", "thread_3")
	if cmd != CmdChat {
		t.Fatalf("command = %d, want CmdChat", cmd)
	}
	if args.ArtistID != "artist-7" {
		t.Errorf("ArtistID = %q", args.ArtistID)
	}
	if args.ThreadID != "thread_3" {
		t.Errorf("ThreadID = %q", args.ThreadID)
	}
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args := parseWith(t, "-q", "history", "-n", "50")
	if cmd != CmdHistory {
		t.Fatalf("command = %d, want CmdHistory", cmd)
	}
	if !args.Quiet {
		t.Error("Quiet not set")
	}
	if args.Limit != 50 {
		t.Errorf("Limit = %d, want 50", args.Limit)
	}
}

func TestParseConfigSubcommand(t *testing.T) {
	cmd, args := parseWith(t, "config", "path")
	if cmd != CmdConfig {
		t.Fatalf("command = %d, want CmdConfig", cmd)
	}
	if args.Subcommand != "path" {
		t.Errorf("Subcommand = %q", args.Subcommand)
	}
}

func TestParseUnknownCommandFallsBackToHelp(t *testing.T) {
	cmd, _ := parseWith(t, "frobnicate")
	if cmd != CmdHelp {
		t.Errorf("command = %d, want CmdHelp", cmd)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, "unknown"},
		{"seconds", now.Add(-30 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-48 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relativeTime(tt.t); got != tt.want {
				t.Errorf("relativeTime = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateTitle(t *testing.T) {
	if got := truncateTitle("short", 10); got != "short" {
		t.Errorf("truncateTitle(short) = %q", got)
	}
	got := truncateTitle("a very long conversation title indeed", 10)
	if len([]rune(got)) != 10 {
		t.Errorf("truncated length = %d, want 10", len([]rune(got)))
	}
}
