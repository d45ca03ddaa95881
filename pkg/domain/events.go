package domain

import "context"

// ChangeSource identifies which versioned list a change event originated from.
type ChangeSource string

const (
	// SourceRoster marks changes to the contact roster.
	SourceRoster ChangeSource = "roster"
	// SourceLedger marks changes to the group ledger.
	SourceLedger ChangeSource = "ledger"
)

// ChangeEvent notifies listeners that the model mutated. It carries the new
// authoritative state; it is raised strictly after the in-memory mutation
// completes, in the order operations were applied.
type ChangeEvent struct {
	Source   ChangeSource
	Snapshot Snapshot
}

// Sink receives change events. It is passed into the model at construction;
// there is no process-wide dispatcher.
type Sink interface {
	Notify(ctx context.Context, event ChangeEvent)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, event ChangeEvent)

// Notify implements Sink.
func (f SinkFunc) Notify(ctx context.Context, event ChangeEvent) { f(ctx, event) }

// NopSink discards every event.
type NopSink struct{}

// Notify implements Sink.
func (NopSink) Notify(context.Context, ChangeEvent) {}
