// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration inspection for the hitcraft CLI.
//
// Command: config
// Subcommands:
//   show (default)   Print the effective configuration
//   path             Print the config file location
package cli

import (
	"fmt"
	"os"

	"github.com/hitcraft/hitcraft-cli/internal/auth"
	"github.com/hitcraft/hitcraft-cli/internal/config"
)

// HandleConfig implements the config command.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return configShow()
	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args.Subcommand)
		return fmt.Errorf("unknown config subcommand %q", args.Subcommand)
	}
}

func configShow() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("HitCraft Configuration"))

	fmt.Println(InfoStyle.Render("  [api]"))
	fmt.Printf("    base_url        %s\n", cfg.API.BaseURL)
	fmt.Printf("    timeout_secs    %d\n", cfg.API.TimeoutSecs)
	fmt.Printf("    max_response_kb %d\n", cfg.API.MaxResponseKB)
	if cfg.API.RateLimitRPS > 0 {
		fmt.Printf("    rate_limit_rps  %.2f (burst %d)\n", cfg.API.RateLimitRPS, cfg.API.RateLimitBurst)
	}

	fmt.Println(InfoStyle.Render("  [auth]"))
	// SECURITY: Never print the token itself, only a fingerprint.
	tokens := auth.Chain{
		auth.EnvToken{Var: auth.DefaultTokenEnv},
		auth.StaticToken(cfg.Auth.Token),
	}
	fmt.Printf("    token           %s\n", auth.Masked(tokens))

	fmt.Println(InfoStyle.Render("  [chat]"))
	if cfg.Chat.ArtistID != "" {
		fmt.Printf("    artist_id       %s\n", cfg.Chat.ArtistID)
	} else {
		fmt.Printf("    artist_id       %s\n", InfoStyle.Render("(not set)"))
	}
	fmt.Printf("    history_limit   %d\n", cfg.Chat.HistoryLimit)
	return nil
}
