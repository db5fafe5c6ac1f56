// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides bearer-token sources for the HitCraft API.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"strings"
)

// DefaultTokenEnv is the environment variable checked by EnvToken when no
// variable name is configured.
const DefaultTokenEnv = "HITCRAFT_TOKEN"

// ErrNoToken indicates no credential is available from a source.
// The API client converts this into an authorization failure before any
// network call is attempted.
var ErrNoToken = errors.New("no bearer token available")

// TokenSource produces a bearer token for outbound API requests.
type TokenSource interface {
	// Token returns a non-empty bearer token, or ErrNoToken.
	Token() (string, error)
}

// =============================================================================
// SOURCES
// =============================================================================

// StaticToken is a fixed token, typically loaded from config.
type StaticToken string

// Token implements TokenSource.
func (s StaticToken) Token() (string, error) {
	token := strings.TrimSpace(string(s))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// EnvToken reads the token from an environment variable.
type EnvToken struct {
	// Var is the variable name; defaults to DefaultTokenEnv.
	Var string
}

// Token implements TokenSource.
func (e EnvToken) Token() (string, error) {
	name := e.Var
	if name == "" {
		name = DefaultTokenEnv
	}
	token := strings.TrimSpace(os.Getenv(name))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Chain tries each source in order and returns the first token found.
type Chain []TokenSource

// Token implements TokenSource.
func (c Chain) Token() (string, error) {
	for _, src := range c {
		token, err := src.Token()
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, ErrNoToken) {
			return "", err
		}
	}
	return "", ErrNoToken
}

// =============================================================================
// DISPLAY HELPERS
// =============================================================================

// Fingerprint returns a display-safe identifier for a token.
// SECURITY: Never exposes token fragments - SHA-256 fingerprint only.
func Fingerprint(token string) string {
	if token == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(token))
	return "sha256:" + hex.EncodeToString(h[:4])
}

// Masked returns a display form of a token source's current state.
func Masked(src TokenSource) string {
	token, err := src.Token()
	if err != nil {
		return "[not set]"
	}
	return "[REDACTED, fingerprint=" + Fingerprint(token) + "]"
}
