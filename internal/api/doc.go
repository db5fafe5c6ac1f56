// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the HitCraft chat backend.
//
// The client covers the four chat endpoints (create thread, send message,
// list messages, list threads) and maps every transport and HTTP outcome
// onto a closed error taxonomy. It never retries: each call is
// independently retryable by the caller.
//
// # Key Types
//
//   - Client: HTTP client with fluent configuration
//   - APIError: server-reported error with HTTP status and message
//   - ValidationError: field-level validation failures from the backend
//
// # Usage
//
// Create a client and start a thread:
//
//	client := api.NewClient(tokens).WithBaseURL(cfg.API.BaseURL)
//	threadID, err := client.CreateThread(ctx, "artist-1")
//	reply, err := client.SendMessage(ctx, threadID, "hello")
//
// # Errors
//
// Check error categories with errors.Is / errors.As:
//
//	if errors.Is(err, api.ErrUnavailable) { ... }
//	var apiErr *api.APIError
//	if errors.As(err, &apiErr) { ... }
package api
