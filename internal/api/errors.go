// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the HitCraft chat backend.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error variables for the closed error taxonomy.
// Every failure from the client wraps exactly one of these, an *APIError,
// or a ValidationError.
var (
	// ErrInvalidRequest indicates a request rejected client-side before
	// any network call (empty artist ID, thread ID, or message text).
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnauthorized indicates a missing or rejected credential (401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the credential lacks access (403).
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates the backend is temporarily down (503).
	ErrUnavailable = errors.New("service unavailable")

	// ErrTransport indicates a connectivity or timeout failure.
	ErrTransport = errors.New("transport failure")

	// ErrDecode indicates a 2xx response whose body could not be parsed
	// into the expected shape.
	ErrDecode = errors.New("malformed response body")
)

// APIError represents a server-reported error outside the sentinel cases.
type APIError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("hitcraft api error (HTTP %d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("hitcraft api error (HTTP %d)", e.Code)
}

// ValidationError carries field-level validation messages from the backend.
type ValidationError []string

// Error implements the error interface.
func (e ValidationError) Error() string {
	return "validation failed: " + strings.Join(e, "; ")
}

// errorEnvelope is the backend's error body shape, where present.
type errorEnvelope struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors"`
}

// decodeError converts a non-2xx response into the taxonomy.
func decodeError(statusCode int, body []byte) error {
	var env errorEnvelope
	_ = json.Unmarshal(body, &env) // best effort; envelope is optional

	switch {
	case (statusCode == http.StatusBadRequest || statusCode == http.StatusUnprocessableEntity) && len(env.Errors) > 0:
		return ValidationError(env.Errors)
	case statusCode == http.StatusUnauthorized:
		return wrapSentinel(ErrUnauthorized, env.Error)
	case statusCode == http.StatusForbidden:
		return wrapSentinel(ErrForbidden, env.Error)
	case statusCode == http.StatusServiceUnavailable:
		return wrapSentinel(ErrUnavailable, env.Error)
	default:
		msg := env.Error
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return &APIError{Code: statusCode, Message: msg}
	}
}

// wrapSentinel attaches the server message to a sentinel error when present.
func wrapSentinel(sentinel error, message string) error {
	if message == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, message)
}
