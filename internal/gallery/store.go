// Package gallery serves read-mostly snapshots of the enrolled identities for
// the per-frame matching pass. Enrollment is rare relative to matching, so the
// store holds one immutable snapshot behind a read-write lock and reloads it
// on demand.
package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/facestream-labs/facestream/internal/match"
)

// Source loads the full gallery from persistent storage.
type Source interface {
	ListGallery(ctx context.Context) ([]match.Candidate, error)
}

// Store caches the gallery snapshot. Every session's matching step reads it;
// only the enrollment path invalidates it.
type Store struct {
	source Source
	logger *slog.Logger
	ttl    time.Duration

	mu       sync.RWMutex
	snapshot []match.Candidate
	loadedAt time.Time
}

// NewStore creates a gallery store. ttl bounds how long a snapshot is served
// before it is transparently reloaded; zero means snapshots never go stale on
// their own and reload only on Invalidate.
func NewStore(source Source, ttl time.Duration, logger *slog.Logger) *Store {
	return &Store{
		source: source,
		logger: logger,
		ttl:    ttl,
	}
}

// Snapshot returns a consistent view of the gallery. The returned slice must
// be treated as immutable; it is shared between sessions.
func (s *Store) Snapshot(ctx context.Context) ([]match.Candidate, error) {
	s.mu.RLock()
	if !s.stale() {
		snap := s.snapshot
		s.mu.RUnlock()
		return snap, nil
	}
	s.mu.RUnlock()

	return s.reload(ctx)
}

// Invalidate marks the snapshot stale so the next matching pass reloads it.
// Called by the enrollment path after identities or embeddings change.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.loadedAt = time.Time{}
	s.mu.Unlock()
}

// Refresh forces an immediate reload.
func (s *Store) Refresh(ctx context.Context) error {
	_, err := s.reload(ctx)
	return err
}

func (s *Store) reload(ctx context.Context) ([]match.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have reloaded while we waited for the lock.
	if !s.stale() {
		return s.snapshot, nil
	}

	snap, err := s.source.ListGallery(ctx)
	if err != nil {
		// Serve the previous snapshot if there is one.
		if s.snapshot != nil {
			s.logger.Warn("gallery reload failed, serving stale snapshot", slog.Any("error", err))
			return s.snapshot, nil
		}
		return nil, fmt.Errorf("load gallery: %w", err)
	}

	s.snapshot = snap
	s.loadedAt = time.Now()

	s.logger.Debug("gallery snapshot reloaded", slog.Int("identities", len(snap)))
	return snap, nil
}

// stale must be called with at least a read lock held.
func (s *Store) stale() bool {
	if s.loadedAt.IsZero() {
		return true
	}
	return s.ttl > 0 && time.Since(s.loadedAt) > s.ttl
}
