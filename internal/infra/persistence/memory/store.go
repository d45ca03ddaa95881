// Package memory provides an in-memory snapshot store for tests and
// ephemeral sessions.
package memory

import (
	"context"
	"sync"

	"rostercore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.SnapshotStore = (*Store)(nil)

// Store keeps the last saved snapshot in memory.
type Store struct {
	mu    sync.Mutex
	snap  domain.Snapshot
	saved bool
	saves int
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// Save implements domain.SnapshotStore.
func (s *Store) Save(_ context.Context, snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snapshot.Clone()
	s.saved = true
	s.saves++
	return nil
}

// Load implements domain.SnapshotStore.
func (s *Store) Load(context.Context) (domain.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saved {
		return domain.Snapshot{}, false, nil
	}
	return s.snap.Clone(), true, nil
}

// Saves returns how many times Save was called, for test assertions on the
// save-per-commit contract.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
