// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the client-side chat session manager.
package chat

// =============================================================================
// PRESENTATION CALLBACKS
// =============================================================================

// ScrollAnchor is a scroll intent hint for presentation layers.
// It is advice only; the core never scrolls anything.
type ScrollAnchor int

const (
	// ScrollBottom asks the consumer to reveal the newest message.
	ScrollBottom ScrollAnchor = iota

	// ScrollTop asks the consumer to reveal the start of the thread.
	ScrollTop
)

// String returns the string representation of the anchor.
func (a ScrollAnchor) String() string {
	switch a {
	case ScrollBottom:
		return "bottom"
	case ScrollTop:
		return "top"
	default:
		return "unknown"
	}
}

// SetMessagesCallback sets the function called after the message log changes.
// The consumer should re-read Messages for the new snapshot.
func (s *Session) SetMessagesCallback(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMessages = fn
}

// SetTypingCallback sets the function called when the typing flag flips.
func (s *Session) SetTypingCallback(fn func(typing bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTyping = fn
}

// SetScrollCallback sets the function called with scroll intents.
func (s *Session) SetScrollCallback(fn func(anchor ScrollAnchor)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onScroll = fn
}

// SetErrorCallback sets the function called when a backend call fails.
func (s *Session) SetErrorCallback(fn func(err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = fn
}
