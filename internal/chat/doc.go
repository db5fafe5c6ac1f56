// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the client-side chat session manager.
//
// A Session owns the active thread identifier and the in-memory message
// log, mediates send/receive against the backend, and exposes typed
// callbacks for presentation layers (message-log updates, typing flag,
// scroll intent, errors). The session is the single writer to its log;
// all state transitions are serialized behind its lock, and callbacks are
// always invoked outside the lock.
//
// # Key Types
//
//   - Session: the session manager
//   - Backend: the remote chat capability it consumes
//   - ScrollAnchor: scroll intent hint (bottom/top)
//
// # Usage
//
// Construct explicitly (no singletons) and wire callbacks:
//
//	session := chat.NewSession(client, chat.Config{ArtistID: "artist-1"})
//	session.SetTypingCallback(func(on bool) { ... })
//	err := session.Send(ctx, "make the drums punchier")
//
// # Failure semantics
//
// Nothing is fatal. A failed Initialize leaves a usable empty session
// (fail-open), a failed Send leaves the optimistic user message in place
// with no reply, and every failure is both returned and reported through
// the error callback.
package chat
