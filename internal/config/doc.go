// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// HitCraft CLI.
//
// Configuration is TOML, with sensible defaults, environment variable
// overrides, and validation.
//
// Configuration file location (in order of precedence):
//   - ~/.hitcraft/config.toml
//   - Built-in defaults
//
// Environment overrides (applied last): HITCRAFT_BASE_URL,
// HITCRAFT_TOKEN, HITCRAFT_ARTIST_ID.
package config
