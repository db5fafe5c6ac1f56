// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides bearer-token sources for the HitCraft API.
//
// The identity provider itself is out of scope; this package only models
// the capability the API client needs: produce a bearer token, or report
// that none is available. Tokens are never logged — display forms use a
// SHA-256 fingerprint instead.
//
// # Key Types
//
//   - TokenSource: capability interface consumed by the API client
//   - StaticToken: fixed token (from config)
//   - EnvToken: token read from an environment variable
//   - Chain: first source that yields a token wins
//
// # Usage
//
//	tokens := auth.Chain{auth.StaticToken(cfg.Auth.Token), auth.EnvToken{}}
//	client := api.NewClient(tokens)
package auth
