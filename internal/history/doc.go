// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history maintains the thread directory: the list of past
// conversations available for resumption, ordered by recency.
//
// The directory is a cache over the backend's thread listing. A refresh
// replaces the cached snapshot wholesale; a failed refresh keeps the
// previous snapshot so the picker can still show something useful while
// surfacing the error.
//
// # Key Types
//
//   - Directory: cached, recency-ordered thread listing
//   - Lister: the backend capability the directory needs
//
// # Usage
//
//	dir := history.NewDirectory(client)
//	if err := dir.Refresh(ctx, 20); err != nil {
//	    // stale snapshot still available via dir.Threads()
//	}
//	for _, th := range dir.Threads() {
//	    fmt.Println(th.Title)
//	}
package history
