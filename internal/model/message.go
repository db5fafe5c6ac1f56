// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat threads and messages.
package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"

	// RoleSystem is reserved for backend-originated notices. The current
	// API only emits user and assistant messages.
	RoleSystem Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "HitCraft"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// CONTENT PART TYPE
// =============================================================================

// PartType discriminates the content part union.
type PartType string

const (
	PartText               PartType = "text"
	PartUploadRequest      PartType = "upload_request"
	PartUploadComplete     PartType = "upload_complete"
	PartReferenceSelection PartType = "reference_selection"
	PartRenderComplete     PartType = "render_complete"
)

// ContentPart is one element of a message body.
//
// Plain text parts carry Text (and optionally Format, e.g. "markdown").
// Structured parts (upload requests, render notices, ...) are stored and
// ordered opaquely: their full wire payload is retained in Raw and handed
// back untouched, so a presentation layer can interpret them exhaustively
// while this core never does.
type ContentPart struct {
	Type   PartType `json:"type"`
	Text   string   `json:"text,omitempty"`
	Format string   `json:"format,omitempty"`

	// Raw is the original wire payload for structured (non-text) parts.
	Raw json.RawMessage `json:"-"`
}

// TextPart creates a plain text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// IsText returns true for plain text parts.
func (p ContentPart) IsText() bool {
	return p.Type == PartText
}

// contentPartAlias avoids UnmarshalJSON recursion.
type contentPartAlias struct {
	Type   PartType `json:"type"`
	Text   string   `json:"text,omitempty"`
	Format string   `json:"format,omitempty"`
}

// UnmarshalJSON decodes a content part, keeping the raw payload for
// structured variants.
func (p *ContentPart) UnmarshalJSON(data []byte) error {
	var alias contentPartAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	p.Type = alias.Type
	p.Text = alias.Text
	p.Format = alias.Format
	if p.Type == "" {
		// Backend omits the discriminator for bare text parts.
		p.Type = PartText
	}
	if p.Type != PartText {
		p.Raw = append(json.RawMessage(nil), data...)
	}
	return nil
}

// MarshalJSON re-emits structured parts verbatim from their retained
// payload so round-tripping never loses fields this core does not model.
func (p ContentPart) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	return json.Marshal(contentPartAlias{Type: p.Type, Text: p.Text, Format: p.Format})
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a thread.
//
// Messages are never mutated after creation. Within a thread, insertion
// order is the source of truth; Timestamp is advisory (display only).
type Message struct {
	ID        string        `json:"id,omitempty"`
	Role      Role          `json:"role"`
	Timestamp time.Time     `json:"timestamp"`
	Content   []ContentPart `json:"content"`
}

// NewMessage creates a message with a generated ID and the current time.
func NewMessage(role Role, parts ...ContentPart) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Role:      role,
		Timestamp: time.Now().UTC(),
		Content:   parts,
	}
}

// NewUserMessage creates a user message with a single text part.
func NewUserMessage(text string) *Message {
	return NewMessage(RoleUser, TextPart(text))
}

// NewAssistantMessage creates an assistant message with a single text part.
func NewAssistantMessage(text string) *Message {
	return NewMessage(RoleAssistant, TextPart(text))
}

// Text flattens the message's text parts into a single string.
// Structured parts are skipped.
func (m *Message) Text() string {
	var sb strings.Builder
	for _, part := range m.Content {
		if !part.IsText() || part.Text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// IsEmpty returns true if the message has no displayable or structured content.
func (m *Message) IsEmpty() bool {
	for _, part := range m.Content {
		if part.Text != "" || len(part.Raw) > 0 {
			return false
		}
	}
	return true
}

// Preview returns a truncated single-line preview of the message text.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	text := strings.ReplaceAll(m.Text(), "\n", " ")
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// THREAD SUMMARY TYPE
// =============================================================================

// ThreadSummary holds lightweight metadata about a thread for listings.
type ThreadSummary struct {
	ThreadID      string    `json:"threadId"`
	Title         string    `json:"title"`
	ArtistID      string    `json:"artistId"`
	LastMessageAt time.Time `json:"lastMessageAt"`
}

// DisplayTitle returns the thread title or a default.
func (t ThreadSummary) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return "New conversation"
}
