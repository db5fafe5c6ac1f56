// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat threads and messages.
package model

// Log is the append-only in-memory message log for the active thread.
//
// The log preserves insertion order and never reorders or deduplicates.
// It is not internally synchronized: the session manager is the single
// writer and serializes access behind its own lock. Readers get a
// consistent snapshot from All.
type Log struct {
	msgs []*Message
}

// NewLog creates an empty message log.
func NewLog() *Log {
	return &Log{msgs: make([]*Message, 0)}
}

// Append adds a message to the end of the log.
func (l *Log) Append(msg *Message) {
	l.msgs = append(l.msgs, msg)
}

// All returns a snapshot of the full ordered log.
// The returned slice is a copy; messages themselves are immutable.
func (l *Log) All() []*Message {
	out := make([]*Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Replace swaps the log contents wholesale, preserving the given order.
// Used when resuming a thread from the backend.
func (l *Log) Replace(msgs []*Message) {
	l.msgs = make([]*Message, len(msgs))
	copy(l.msgs, msgs)
}

// Clear empties the log.
func (l *Log) Clear() {
	l.msgs = make([]*Message, 0)
}

// Len returns the number of messages.
func (l *Log) Len() int {
	return len(l.msgs)
}

// Last returns the most recent message, or nil if empty.
func (l *Log) Last() *Message {
	if len(l.msgs) == 0 {
		return nil
	}
	return l.msgs[len(l.msgs)-1]
}
