// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the client-side chat session manager.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/hitcraft/hitcraft-cli/internal/model"
)

// DefaultWelcome is the synthetic greeting seeded into a fresh thread.
const DefaultWelcome = "Hey, I'm HitCraft! Your AI music production assistant. What are we working on today?"

// ErrSendInFlight is returned when Send is called while a previous send
// has not completed. Overlapping sends would interleave assistant replies
// in network completion order, so they are rejected instead.
var ErrSendInFlight = errors.New("a send is already in flight")

// =============================================================================
// BACKEND CAPABILITY
// =============================================================================

// Backend is the remote chat capability a Session consumes.
// *api.Client satisfies it.
type Backend interface {
	CreateThread(ctx context.Context, artistID string) (string, error)
	SendMessage(ctx context.Context, threadID, text string) (*model.Message, error)
	ListMessages(ctx context.Context, threadID string) ([]*model.Message, error)
}

// =============================================================================
// SESSION STATE
// =============================================================================

// State describes the session lifecycle phase.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	StateIdle          State = "idle"
	StateSending       State = "sending"
)

// Config holds configuration for a session.
type Config struct {
	// ArtistID is passed through to thread creation. The core does not
	// validate or cache artist metadata beyond this.
	ArtistID string

	// WelcomeMessage overrides DefaultWelcome when non-empty.
	WelcomeMessage string
}

// Session is the client-side active-conversation state: current thread id,
// message log, and liveness flags.
//
// The session is the sole writer to its log. Backend calls are suspension
// points issued outside the lock; a generation counter bumped by Clear and
// Resume invalidates in-flight completions, whose results are dropped
// rather than appended to a thread they no longer belong to.
type Session struct {
	mu      sync.Mutex
	backend Backend
	log     *model.Log

	artistID string
	welcome  string

	threadID     string
	typing       bool
	sending      bool
	initializing bool
	initialized  bool
	generation   uint64
	lastErr      error

	onMessages func()
	onTyping   func(bool)
	onScroll   func(ScrollAnchor)
	onError    func(error)
}

// NewSession creates a session bound to the given backend.
// Dependencies are explicit; there is no shared instance.
func NewSession(backend Backend, cfg Config) *Session {
	welcome := cfg.WelcomeMessage
	if welcome == "" {
		welcome = DefaultWelcome
	}
	return &Session{
		backend:  backend,
		log:      model.NewLog(),
		artistID: cfg.ArtistID,
		welcome:  welcome,
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Messages returns a snapshot of the ordered message log.
func (s *Session) Messages() []*model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.All()
}

// ThreadID returns the active thread id, or "" if none.
func (s *Session) ThreadID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadID
}

// IsTyping reports whether a reply is pending.
func (s *Session) IsTyping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

// HasActiveChat reports whether a thread is attached and the log is
// non-empty (at least the welcome message).
func (s *Session) HasActiveChat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadID != "" && s.log.Len() > 0
}

// IsInitialized reports whether initialization has been attempted.
// True even after a failed (fail-open) initialize.
func (s *Session) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// LastError returns the most recent backend failure, or nil.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// CurrentState returns the lifecycle phase.
func (s *Session) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.sending:
		return StateSending
	case s.initializing:
		return StateInitializing
	case s.initialized:
		return StateIdle
	default:
		return StateUninitialized
	}
}

// =============================================================================
// LIFECYCLE OPERATIONS
// =============================================================================

// Initialize creates a backend thread and seeds the welcome message.
//
// artistID overrides the configured artist when non-empty. On failure the
// session is fail-open: it is marked initialized with an empty log so a
// front-end is never blocked, and the error is recorded, reported through
// the error callback, and returned.
func (s *Session) Initialize(ctx context.Context, artistID string) error {
	s.mu.Lock()
	if s.initialized && s.threadID != "" {
		s.mu.Unlock()
		return nil
	}
	if strings.TrimSpace(artistID) != "" {
		s.artistID = artistID
	}
	artist := s.artistID
	gen := s.generation
	s.initializing = true
	s.mu.Unlock()

	threadID, err := s.backend.CreateThread(ctx, artist)

	s.mu.Lock()
	if s.generation != gen {
		// Session was cleared or resumed while we were away; drop it.
		s.mu.Unlock()
		return nil
	}
	s.initializing = false
	s.initialized = true

	if err != nil {
		s.lastErr = err
		onError := s.onError
		s.mu.Unlock()
		if onError != nil {
			onError(err)
		}
		return err
	}

	s.threadID = threadID
	s.log.Append(model.NewAssistantMessage(s.welcome))
	notify := s.collectLocked(true, ScrollBottom)
	s.mu.Unlock()
	notify()
	return nil
}

// Send sends user text to the active thread.
//
// Empty (or whitespace-only) text is a no-op with no network call. If no
// thread is attached yet, the thread is created lazily first. The user
// message is appended before the round-trip completes (optimistic echo)
// and is not rolled back on failure. At most one send may be in flight;
// overlapping calls fail with ErrSendInFlight.
func (s *Session) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return ErrSendInFlight
	}
	s.sending = true
	gen := s.generation
	needThread := s.threadID == ""
	s.mu.Unlock()

	if needThread {
		if err := s.Initialize(ctx, ""); err != nil {
			s.clearSending(gen)
			return err
		}
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return nil
	}
	threadID := s.threadID
	s.log.Append(model.NewUserMessage(text))
	s.typing = true
	notify := s.collectLocked(true, ScrollBottom)
	s.mu.Unlock()
	notify()

	reply, err := s.backend.SendMessage(ctx, threadID, text)

	s.mu.Lock()
	if s.generation != gen {
		// Stale completion: the thread this reply belongs to is gone.
		s.mu.Unlock()
		return nil
	}
	s.sending = false
	s.typing = false

	if err != nil {
		s.lastErr = err
		onTyping := s.onTyping
		onError := s.onError
		s.mu.Unlock()
		if onTyping != nil {
			onTyping(false)
		}
		if onError != nil {
			onError(err)
		}
		return err
	}

	s.log.Append(reply)
	notify = s.collectLocked(true, ScrollBottom)
	s.mu.Unlock()
	notify()
	return nil
}

// Resume attaches the session to an existing thread, replacing the log
// wholesale with the fetched history.
func (s *Session) Resume(ctx context.Context, threadID string) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.log.Clear()
	s.threadID = threadID
	s.typing = true
	s.sending = false
	s.initializing = false
	s.initialized = true
	notify := s.collectLocked(true, ScrollBottom)
	s.mu.Unlock()
	notify()

	msgs, err := s.backend.ListMessages(ctx, threadID)

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return nil
	}
	s.typing = false

	if err != nil {
		s.lastErr = err
		onTyping := s.onTyping
		onError := s.onError
		s.mu.Unlock()
		if onTyping != nil {
			onTyping(false)
		}
		if onError != nil {
			onError(err)
		}
		return err
	}

	s.log.Replace(msgs)
	notify = s.collectLocked(true, ScrollBottom)
	s.mu.Unlock()
	notify()
	return nil
}

// Clear resets the session to its uninitialized-equivalent state and
// detaches the thread id. In-flight operations are invalidated; their
// eventual results are dropped. The next Send or Initialize starts a
// brand-new thread.
func (s *Session) Clear() {
	s.mu.Lock()
	s.generation++
	s.threadID = ""
	s.log.Clear()
	wasTyping := s.typing
	s.typing = false
	s.sending = false
	s.initializing = false
	s.initialized = false
	s.lastErr = nil
	onMessages := s.onMessages
	onTyping := s.onTyping
	s.mu.Unlock()

	if onMessages != nil {
		onMessages()
	}
	if wasTyping && onTyping != nil {
		onTyping(false)
	}
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

// clearSending resets the in-flight gate, unless the session moved on to a
// newer generation (which already reset it).
func (s *Session) clearSending(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == gen {
		s.sending = false
	}
}

// collectLocked captures the callbacks to fire for a log change while the
// lock is held, returning a closure to run after unlock.
func (s *Session) collectLocked(typingChanged bool, anchor ScrollAnchor) func() {
	onMessages := s.onMessages
	onScroll := s.onScroll
	var onTyping func(bool)
	var typing bool
	if typingChanged {
		onTyping = s.onTyping
		typing = s.typing
	}
	return func() {
		if onMessages != nil {
			onMessages()
		}
		if onTyping != nil {
			onTyping(typing)
		}
		if onScroll != nil {
			onScroll(anchor)
		}
	}
}
