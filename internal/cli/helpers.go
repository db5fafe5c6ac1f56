// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared helpers for CLI command handlers.
package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/hitcraft/hitcraft-cli/internal/api"
	"github.com/hitcraft/hitcraft-cli/internal/auth"
	"github.com/hitcraft/hitcraft-cli/internal/config"
)

// newClient builds an API client from the loaded configuration. Token
// resolution prefers the environment over the config file.
func newClient(cfg *config.Config) *api.Client {
	tokens := auth.Chain{
		auth.EnvToken{Var: auth.DefaultTokenEnv},
		auth.StaticToken(cfg.Auth.Token),
	}

	client := api.NewClient(tokens).
		WithBaseURL(cfg.API.BaseURL).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second).
		WithMaxResponseSize(int64(cfg.API.MaxResponseKB) * 1024)
	if cfg.API.RateLimitRPS > 0 {
		client = client.WithRateLimit(cfg.API.RateLimitRPS, cfg.API.RateLimitBurst)
	}
	return client
}

// friendlyError maps API errors to messages suitable for end users.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, auth.ErrNoToken), errors.Is(err, api.ErrUnauthorized):
		return "Not signed in. Set HITCRAFT_TOKEN or add a token to ~/.hitcraft/config.toml."
	case errors.Is(err, api.ErrForbidden):
		return "Access denied for this artist or thread."
	case errors.Is(err, api.ErrUnavailable):
		return "HitCraft is temporarily unavailable. Please try again in a moment."
	case errors.Is(err, api.ErrTransport):
		return "Could not reach HitCraft. Check your network connection."
	default:
		return err.Error()
	}
}

// relativeTime renders a timestamp as a short human-readable age.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
