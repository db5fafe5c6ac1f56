// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hitcraft/hitcraft-cli/internal/model"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// DefaultLimit is the number of threads fetched when the caller does not
// specify one.
const DefaultLimit = 20

// =============================================================================
// DIRECTORY
// =============================================================================

// Lister is the backend capability the directory depends on. *api.Client
// satisfies it.
type Lister interface {
	ListThreads(ctx context.Context, limit int) ([]model.ThreadSummary, error)
}

// Directory caches the recency-ordered list of past conversation threads.
// It is safe for concurrent use.
type Directory struct {
	mu          sync.Mutex
	backend     Lister
	threads     []model.ThreadSummary
	err         error
	refreshedAt time.Time
}

// NewDirectory creates an empty directory backed by the given lister.
func NewDirectory(backend Lister) *Directory {
	return &Directory{backend: backend}
}

// Refresh fetches up to limit threads and replaces the cached snapshot,
// most recent first. Threads with equal activity timestamps keep the
// relative order the backend returned them in. On failure the previous
// snapshot is retained and the error is recorded.
func (d *Directory) Refresh(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = DefaultLimit
	}

	threads, err := d.backend.ListThreads(ctx, limit)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.err = err
		return err
	}

	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].LastMessageAt.After(threads[j].LastMessageAt)
	})
	d.threads = threads
	d.err = nil
	d.refreshedAt = time.Now()
	return nil
}

// Threads returns the cached snapshot, most recent first. The returned
// slice is a copy; mutating it does not affect the directory.
func (d *Directory) Threads() []model.ThreadSummary {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.ThreadSummary, len(d.threads))
	copy(out, d.threads)
	return out
}

// Lookup returns the cached summary for the given thread id.
func (d *Directory) Lookup(threadID string) (model.ThreadSummary, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, th := range d.threads {
		if th.ThreadID == threadID {
			return th, true
		}
	}
	return model.ThreadSummary{}, false
}

// Len returns the number of cached threads.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.threads)
}

// Err returns the error from the most recent refresh, or nil if it
// succeeded. A non-nil error means the snapshot may be stale.
func (d *Directory) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// RefreshedAt returns the time of the last successful refresh, or the
// zero time if none has succeeded.
func (d *Directory) RefreshedAt() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.refreshedAt
}
