// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - Past conversation listing for the hitcraft CLI.
//
// Command: history
// Short:   List past conversations, most recent first
//
// Examples:
//   hitcraft history             List the 20 most recent conversations
//   hitcraft history -n 50      List up to 50 conversations
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/hitcraft/hitcraft-cli/internal/config"
	"github.com/hitcraft/hitcraft-cli/internal/history"
)

// HandleHistory lists past conversation threads.
func HandleHistory(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	limit := args.Limit
	if limit <= 0 {
		limit = cfg.Chat.HistoryLimit
	}

	dir := history.NewDirectory(newClient(cfg))
	if err := dir.Refresh(context.Background(), limit); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render(friendlyError(err)))
		return err
	}

	threads := dir.Threads()
	if !args.Quiet {
		fmt.Println(TitleStyle.Render("Past Conversations"))
	}
	if len(threads) == 0 {
		fmt.Println(InfoStyle.Render("No past conversations."))
		return nil
	}

	for i, th := range threads {
		fmt.Printf("%s %-40s %s\n",
			InfoStyle.Render(fmt.Sprintf("%2d.", i+1)),
			truncateTitle(th.DisplayTitle(), 40),
			InfoStyle.Render(relativeTime(th.LastMessageAt)))
		if args.Verbose {
			fmt.Printf("    %s\n", InfoStyle.Render("id: "+th.ThreadID))
		}
	}
	return nil
}

// truncateTitle shortens a title to fit the listing column.
func truncateTitle(title string, max int) string {
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max-1]) + "…"
}
