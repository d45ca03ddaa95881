// Package persistence adapts snapshot stores to the model's change-event
// sink.
package persistence

import (
	"context"

	"rostercore/pkg/domain"
)

// CommitSink saves the snapshot carried by each change event. Save failures
// never unwind the already-applied in-memory state: they are forwarded to the
// warn callback and the core moves on.
type CommitSink struct {
	store domain.SnapshotStore
	warn  func(error)
}

// NewCommitSink wires a snapshot store into the model. warn may be nil.
func NewCommitSink(store domain.SnapshotStore, warn func(error)) *CommitSink {
	return &CommitSink{store: store, warn: warn}
}

// Notify implements domain.Sink.
func (s *CommitSink) Notify(ctx context.Context, event domain.ChangeEvent) {
	if err := s.store.Save(ctx, event.Snapshot); err != nil && s.warn != nil {
		s.warn(err)
	}
}
