// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat threads and messages.
//
// This package defines the domain types shared by the API client, the
// session manager, and the thread directory. Messages are immutable once
// created; ordering within a thread is insertion order, with timestamps
// carried for display only.
//
// # Key Types
//
//   - Message: a single chat message with an ordered list of content parts
//   - ContentPart: tagged union of message content variants
//   - Role: sender of a message ("user" or "assistant")
//   - Log: append-only in-memory message log for the active thread
//   - ThreadSummary: lightweight thread metadata for history listings
//
// # Usage
//
// Create messages and append them to a log:
//
//	log := model.NewLog()
//	log.Append(model.NewUserMessage("make the chorus hit harder"))
//	for _, msg := range log.All() {
//	    fmt.Println(msg.Role, msg.Text())
//	}
package model
