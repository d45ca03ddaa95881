package core

import (
	"context"
	"fmt"
	"time"

	"rostercore/pkg/domain"
)

const (
	contactKind = "contact"
	groupKind   = "group"
)

// Model is the single point of mutation over the versioned contact roster and
// group ledger. Writes mutate the live working copy; an explicit commit
// checkpoints it into history. Every successful write raises a change event on
// the sink, strictly after the in-memory mutation, in operation order. Failed
// operations raise nothing and propagate their typed error unchanged.
//
// The model performs no internal locking: it expects one in-flight command at
// a time, exactly like the command loop it is built for. Embedders driving it
// from several goroutines must serialize access externally.
type Model struct {
	roster *domain.Versioned[*domain.Collection[domain.Contact]]
	ledger *domain.Versioned[*domain.Collection[domain.Group]]

	contactFilter func(domain.Contact) bool
	groupFilter   func(domain.Group) bool

	sink    domain.Sink
	history *History
	logger  Logger
	clock   Clock
	metrics MetricsRecorder
	tracer  Tracer
}

// NewModel builds a model seeded with the initial snapshot as commit #0. The
// sink receives every change event; pass domain.NopSink{} when nothing
// listens. Seeding fails when either list contains identity duplicates.
func NewModel(initial domain.Snapshot, sink domain.Sink, opts ...Option) (*Model, error) {
	contacts := domain.NewCollection[domain.Contact](contactKind)
	if err := contacts.ResetAll(initial.Contacts); err != nil {
		return nil, fmt.Errorf("seed roster: %w", err)
	}
	groups := domain.NewCollection[domain.Group](groupKind)
	if err := groups.ResetAll(initial.Groups); err != nil {
		return nil, fmt.Errorf("seed ledger: %w", err)
	}
	if sink == nil {
		sink = domain.NopSink{}
	}
	m := &Model{
		roster:  domain.NewVersioned(contacts),
		ledger:  domain.NewVersioned(groups),
		sink:    sink,
		history: NewHistory(),
		logger:  noopLogger{},
		clock:   ClockFunc(func() time.Time { return time.Now().UTC() }),
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// History returns the command-history ledger shared with the dispatch layer.
func (m *Model) History() *History { return m.history }

// Snapshot returns the full authoritative working state.
func (m *Model) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Contacts: m.roster.Working().Slice(),
		Groups:   m.ledger.Working().Slice(),
	}
}

// run wraps one mutating operation with tracing, metrics, and the command
// ledger. The ledger is appended only on success; errors pass through
// untouched.
func (m *Model) run(ctx context.Context, op, detail string, fn func() error) error {
	start := m.clock.Now()
	ctx, span := m.tracer.Start(ctx, op)
	err := fn()
	span.End(err)
	m.metrics.Observe(ctx, op, err == nil, m.clock.Now().Sub(start))
	if err != nil {
		m.logger.Warnf("%s rejected: %v", op, err)
		return err
	}
	m.history.Append(CommandRecord{Name: op, Detail: detail, At: m.clock.Now()})
	m.logger.Debugf("%s applied", op)
	return nil
}

func (m *Model) notify(ctx context.Context, source domain.ChangeSource) {
	m.sink.Notify(ctx, domain.ChangeEvent{Source: source, Snapshot: m.Snapshot()})
}

// ---- roster reads -----------------------------------------------------------

// HasContact reports whether a contact with the same identity is present in
// the working roster.
func (m *Model) HasContact(c domain.Contact) bool {
	return m.roster.Working().Contains(c)
}

// Contacts returns the working roster in insertion order.
func (m *Model) Contacts() []domain.Contact {
	return m.roster.Working().Slice()
}

// FilteredContacts returns the live filtered view, order preserved.
func (m *Model) FilteredContacts() []domain.Contact {
	return m.roster.Working().Filter(m.contactFilter)
}

// SetContactFilter replaces the roster view predicate. A nil predicate shows
// everything.
func (m *Model) SetContactFilter(pred func(domain.Contact) bool) {
	m.contactFilter = pred
}

// CanUndoRoster reports whether an older roster state exists.
func (m *Model) CanUndoRoster() bool { return m.roster.CanUndo() }

// CanRedoRoster reports whether a newer roster state exists.
func (m *Model) CanRedoRoster() bool { return m.roster.CanRedo() }

// ---- roster writes ----------------------------------------------------------

// AddContact appends the contact and resets the filter so the new record is
// visible.
func (m *Model) AddContact(ctx context.Context, c domain.Contact) error {
	if err := m.run(ctx, "add_contact", c.Key(), func() error {
		return m.roster.Working().Add(c)
	}); err != nil {
		return err
	}
	m.contactFilter = nil
	m.notify(ctx, domain.SourceRoster)
	return nil
}

// RemoveContact deletes the contact with the same identity.
func (m *Model) RemoveContact(ctx context.Context, c domain.Contact) error {
	if err := m.run(ctx, "remove_contact", c.Key(), func() error {
		return m.roster.Working().Remove(c)
	}); err != nil {
		return err
	}
	m.notify(ctx, domain.SourceRoster)
	return nil
}

// ReplaceContact substitutes updated for old in place.
func (m *Model) ReplaceContact(ctx context.Context, old, updated domain.Contact) error {
	if err := m.run(ctx, "replace_contact", old.Key(), func() error {
		return m.roster.Working().Replace(old, updated)
	}); err != nil {
		return err
	}
	m.notify(ctx, domain.SourceRoster)
	return nil
}

// ContactReplacement is one (old, updated) pair in a batch replace.
type ContactReplacement struct {
	Old     domain.Contact
	Updated domain.Contact
}

// ReplaceContacts applies every pair atomically and records the batch as a
// single commit. All pairs are validated against a scratch copy first; if any
// pair violates the replace contract the whole batch is rejected before any
// live mutation.
func (m *Model) ReplaceContacts(ctx context.Context, pairs []ContactReplacement) error {
	if err := m.run(ctx, "replace_contacts", fmt.Sprintf("%d pairs", len(pairs)), func() error {
		scratch := m.roster.Working().Clone()
		for _, p := range pairs {
			if err := scratch.Replace(p.Old, p.Updated); err != nil {
				return err
			}
		}
		m.roster.ResetData(scratch)
		m.roster.Commit()
		return nil
	}); err != nil {
		return err
	}
	m.notify(ctx, domain.SourceRoster)
	return nil
}

// ResetContacts replaces the whole roster, outside the undo chain. Like any
// other mutation it needs CommitRoster to be retained in history.
func (m *Model) ResetContacts(ctx context.Context, contacts []domain.Contact) error {
	if err := m.run(ctx, "reset_contacts", fmt.Sprintf("%d contacts", len(contacts)), func() error {
		next := domain.NewCollection[domain.Contact](contactKind)
		if err := next.ResetAll(contacts); err != nil {
			return err
		}
		m.roster.ResetData(next)
		return nil
	}); err != nil {
		return err
	}
	m.notify(ctx, domain.SourceRoster)
	return nil
}

// CommitRoster checkpoints the working roster, discarding any redo tail.
func (m *Model) CommitRoster(ctx context.Context) {
	m.roster.Commit()
	m.notify(ctx, domain.SourceRoster)
}

// UndoRoster restores the previous committed roster state.
func (m *Model) UndoRoster(ctx context.Context) error {
	if err := m.run(ctx, "undo_roster", "", m.roster.Undo); err != nil {
		return err
	}
	m.notify(ctx, domain.SourceRoster)
	return nil
}

// RedoRoster restores the next committed roster state.
func (m *Model) RedoRoster(ctx context.Context) error {
	if err := m.run(ctx, "redo_roster", "", m.roster.Redo); err != nil {
		return err
	}
	m.notify(ctx, domain.SourceRoster)
	return nil
}

// ---- ledger reads -----------------------------------------------------------

// HasGroup reports whether a group with the same identity exists in the
// working ledger.
func (m *Model) HasGroup(g domain.Group) bool {
	return m.ledger.Working().Contains(g)
}

// Groups returns the working ledger in insertion order.
func (m *Model) Groups() []domain.Group {
	return m.ledger.Working().Slice()
}

// FilteredGroups returns the live filtered ledger view, order preserved.
func (m *Model) FilteredGroups() []domain.Group {
	return m.ledger.Working().Filter(m.groupFilter)
}

// SetGroupFilter replaces the ledger view predicate. A nil predicate shows
// everything.
func (m *Model) SetGroupFilter(pred func(domain.Group) bool) {
	m.groupFilter = pred
}

// CanUndoLedger reports whether an older ledger state exists.
func (m *Model) CanUndoLedger() bool { return m.ledger.CanUndo() }

// CanRedoLedger reports whether a newer ledger state exists.
func (m *Model) CanRedoLedger() bool { return m.ledger.CanRedo() }

func (m *Model) findGroup(name string) (domain.Group, bool) {
	probe := domain.Group{Name: name}
	for _, g := range m.ledger.Working().Slice() {
		if g.Same(probe) {
			return g, true
		}
	}
	return domain.Group{}, false
}

// ---- ledger writes ----------------------------------------------------------

// AddGroup appends the group and resets the ledger filter.
func (m *Model) AddGroup(ctx context.Context, g domain.Group) error {
	if err := m.run(ctx, "add_group", g.Key(), func() error {
		return m.ledger.Working().Add(g)
	}); err != nil {
		return err
	}
	m.groupFilter = nil
	m.notify(ctx, domain.SourceLedger)
	return nil
}

// RemoveGroup deletes the group with the same identity.
func (m *Model) RemoveGroup(ctx context.Context, g domain.Group) error {
	if err := m.run(ctx, "remove_group", g.Key(), func() error {
		return m.ledger.Working().Remove(g)
	}); err != nil {
		return err
	}
	m.notify(ctx, domain.SourceLedger)
	return nil
}

// ReplaceGroup substitutes updated for old in place.
func (m *Model) ReplaceGroup(ctx context.Context, old, updated domain.Group) error {
	if err := m.run(ctx, "replace_group", old.Key(), func() error {
		return m.ledger.Working().Replace(old, updated)
	}); err != nil {
		return err
	}
	m.notify(ctx, domain.SourceLedger)
	return nil
}

// ResetGroups replaces the whole ledger, outside the undo chain.
func (m *Model) ResetGroups(ctx context.Context, groups []domain.Group) error {
	if err := m.run(ctx, "reset_groups", fmt.Sprintf("%d groups", len(groups)), func() error {
		next := domain.NewCollection[domain.Group](groupKind)
		if err := next.ResetAll(groups); err != nil {
			return err
		}
		m.ledger.ResetData(next)
		return nil
	}); err != nil {
		return err
	}
	m.notify(ctx, domain.SourceLedger)
	return nil
}

// AddGroupEntry appends a ledger entry to the named group, assigning the next
// 1-based position.
func (m *Model) AddGroupEntry(ctx context.Context, name string, e domain.Entry) error {
	if err := m.run(ctx, "add_group_entry", name, func() error {
		old, ok := m.findGroup(name)
		if !ok {
			return domain.RecordNotFoundError{Kind: groupKind, Key: name}
		}
		return m.ledger.Working().Replace(old, old.WithEntry(e))
	}); err != nil {
		return err
	}
	m.notify(ctx, domain.SourceLedger)
	return nil
}

// RemoveGroupEntry deletes the num-th entry of the named group and renumbers
// the remainder densely from 1.
func (m *Model) RemoveGroupEntry(ctx context.Context, name string, num int) error {
	if err := m.run(ctx, "remove_group_entry", fmt.Sprintf("%s#%d", name, num), func() error {
		old, ok := m.findGroup(name)
		if !ok {
			return domain.RecordNotFoundError{Kind: groupKind, Key: name}
		}
		updated, err := old.WithoutEntry(num)
		if err != nil {
			return err
		}
		return m.ledger.Working().Replace(old, updated)
	}); err != nil {
		return err
	}
	m.notify(ctx, domain.SourceLedger)
	return nil
}

// CommitLedger checkpoints the working ledger, discarding any redo tail.
func (m *Model) CommitLedger(ctx context.Context) {
	m.ledger.Commit()
	m.notify(ctx, domain.SourceLedger)
}

// UndoLedger restores the previous committed ledger state.
func (m *Model) UndoLedger(ctx context.Context) error {
	if err := m.run(ctx, "undo_ledger", "", m.ledger.Undo); err != nil {
		return err
	}
	m.notify(ctx, domain.SourceLedger)
	return nil
}

// RedoLedger restores the next committed ledger state.
func (m *Model) RedoLedger(ctx context.Context) error {
	if err := m.run(ctx, "redo_ledger", "", m.ledger.Redo); err != nil {
		return err
	}
	m.notify(ctx, domain.SourceLedger)
	return nil
}
