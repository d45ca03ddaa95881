package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"rostercore/pkg/domain"
)

type captureSink struct {
	events []domain.ChangeEvent
}

func (s *captureSink) Notify(_ context.Context, event domain.ChangeEvent) {
	s.events = append(s.events, event)
}

func mustContact(t *testing.T, name string) domain.Contact {
	t.Helper()
	c, err := domain.NewContact(name, "", "", "", "")
	if err != nil {
		t.Fatalf("NewContact(%q): %v", name, err)
	}
	return c
}

func mustGroup(t *testing.T, name string, budget int64) domain.Group {
	t.Helper()
	g, err := domain.NewGroup(name, decimal.NewFromInt(budget))
	if err != nil {
		t.Fatalf("NewGroup(%q): %v", name, err)
	}
	return g
}

func newTestModel(t *testing.T, opts ...Option) (*Model, *captureSink) {
	t.Helper()
	sink := &captureSink{}
	m, err := NewModel(domain.Snapshot{}, sink, opts...)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m, sink
}

func contactNames(contacts []domain.Contact) []string {
	out := make([]string, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, c.Name)
	}
	return out
}

func sameNames(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestNewModelRejectsDuplicateSeed(t *testing.T) {
	_, err := NewModel(domain.Snapshot{
		Contacts: []domain.Contact{{Name: "Alice"}, {Name: "alice"}},
	}, nil)
	var dup domain.DuplicateRecordError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateRecordError, got %v", err)
	}
}

func TestAddContactShowsUpInFilteredView(t *testing.T) {
	ctx := context.Background()
	m, sink := newTestModel(t)

	// Narrow the view first; adding must reset it so the new record is visible.
	m.SetContactFilter(func(domain.Contact) bool { return false })

	alice := mustContact(t, "Alice")
	if err := m.AddContact(ctx, alice); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	got := m.FilteredContacts()
	if len(got) != 1 || !got[0].Equal(alice) {
		t.Fatalf("filtered view must show the added contact, got %v", contactNames(got))
	}
	if len(sink.events) != 1 || sink.events[0].Source != domain.SourceRoster {
		t.Fatalf("expected one roster event, got %+v", sink.events)
	}
	if len(sink.events[0].Snapshot.Contacts) != 1 {
		t.Fatalf("event must carry the post-mutation state")
	}
}

func TestAddDuplicateContactRejectedViewUnchanged(t *testing.T) {
	ctx := context.Background()
	m, sink := newTestModel(t)
	if err := m.AddContact(ctx, mustContact(t, "Alice")); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	eventsBefore := len(sink.events)
	historyBefore := m.History().Len()

	err := m.AddContact(ctx, mustContact(t, "ALICE"))
	var dup domain.DuplicateRecordError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateRecordError, got %v", err)
	}
	if got := contactNames(m.Contacts()); !sameNames(got, "Alice") {
		t.Fatalf("rejected add must leave the roster unchanged: %v", got)
	}
	if len(sink.events) != eventsBefore {
		t.Fatalf("rejected operation must raise no event")
	}
	if m.History().Len() != historyBefore {
		t.Fatalf("rejected operation must not be recorded")
	}
}

func TestRosterUndoRedoLifecycle(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModel(t)
	alice := mustContact(t, "Alice")

	if err := m.AddContact(ctx, alice); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	m.CommitRoster(ctx)
	if err := m.RemoveContact(ctx, alice); err != nil {
		t.Fatalf("RemoveContact: %v", err)
	}
	m.CommitRoster(ctx)

	if !m.CanUndoRoster() {
		t.Fatalf("expected undoable roster")
	}
	if err := m.UndoRoster(ctx); err != nil {
		t.Fatalf("UndoRoster: %v", err)
	}
	if got := contactNames(m.Contacts()); !sameNames(got, "Alice") {
		t.Fatalf("first undo must restore [Alice], got %v", got)
	}
	if err := m.UndoRoster(ctx); err != nil {
		t.Fatalf("UndoRoster: %v", err)
	}
	if got := m.Contacts(); len(got) != 0 {
		t.Fatalf("second undo must restore the empty roster, got %v", contactNames(got))
	}

	var noUndo domain.NoUndoableActionError
	if err := m.UndoRoster(ctx); !errors.As(err, &noUndo) {
		t.Fatalf("expected NoUndoableActionError, got %v", err)
	}

	if err := m.RedoRoster(ctx); err != nil {
		t.Fatalf("RedoRoster: %v", err)
	}
	if got := contactNames(m.Contacts()); !sameNames(got, "Alice") {
		t.Fatalf("redo must restore [Alice], got %v", got)
	}
}

func TestCommitAfterUndoDiscardsRedoTail(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModel(t)

	if err := m.AddContact(ctx, mustContact(t, "Alice")); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	m.CommitRoster(ctx)
	if err := m.AddContact(ctx, mustContact(t, "Bob")); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	m.CommitRoster(ctx)

	if err := m.UndoRoster(ctx); err != nil {
		t.Fatalf("UndoRoster: %v", err)
	}
	if err := m.AddContact(ctx, mustContact(t, "Carol")); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	m.CommitRoster(ctx)

	if m.CanRedoRoster() {
		t.Fatalf("divergent commit must discard the redo tail")
	}
	var noRedo domain.NoRedoableActionError
	if err := m.RedoRoster(ctx); !errors.As(err, &noRedo) {
		t.Fatalf("expected NoRedoableActionError, got %v", err)
	}
}

func TestReplaceContactsBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	m, sink := newTestModel(t)
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		if err := m.AddContact(ctx, mustContact(t, name)); err != nil {
			t.Fatalf("AddContact: %v", err)
		}
	}
	m.CommitRoster(ctx)
	eventsBefore := len(sink.events)

	// Second pair collides with Carol: the whole batch must be rejected.
	err := m.ReplaceContacts(ctx, []ContactReplacement{
		{Old: mustContact(t, "Alice"), Updated: mustContact(t, "Amy")},
		{Old: mustContact(t, "Bob"), Updated: mustContact(t, "Carol")},
	})
	var dup domain.DuplicateRecordError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateRecordError, got %v", err)
	}
	if got := contactNames(m.Contacts()); !sameNames(got, "Alice", "Bob", "Carol") {
		t.Fatalf("rejected batch must leave the roster unchanged: %v", got)
	}
	if m.CanRedoRoster() || len(sink.events) != eventsBefore {
		t.Fatalf("rejected batch must neither commit nor notify")
	}

	// A valid batch lands as a single commit.
	if err := m.ReplaceContacts(ctx, []ContactReplacement{
		{Old: mustContact(t, "Alice"), Updated: mustContact(t, "Amy")},
		{Old: mustContact(t, "Bob"), Updated: mustContact(t, "Ben")},
	}); err != nil {
		t.Fatalf("ReplaceContacts: %v", err)
	}
	if got := contactNames(m.Contacts()); !sameNames(got, "Amy", "Ben", "Carol") {
		t.Fatalf("batch replace produced wrong roster: %v", got)
	}
	if err := m.UndoRoster(ctx); err != nil {
		t.Fatalf("UndoRoster: %v", err)
	}
	if got := contactNames(m.Contacts()); !sameNames(got, "Alice", "Bob", "Carol") {
		t.Fatalf("one undo must revert the whole batch: %v", got)
	}
}

func TestNotificationsFollowMutationsInOrder(t *testing.T) {
	ctx := context.Background()
	m, sink := newTestModel(t)

	if err := m.AddContact(ctx, mustContact(t, "Alice")); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	if err := m.AddGroup(ctx, mustGroup(t, "Chess", 100)); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	if err := m.AddContact(ctx, mustContact(t, "Bob")); err != nil {
		t.Fatalf("AddContact: %v", err)
	}

	want := []domain.ChangeSource{domain.SourceRoster, domain.SourceLedger, domain.SourceRoster}
	if len(sink.events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(sink.events))
	}
	for i, source := range want {
		if sink.events[i].Source != source {
			t.Fatalf("event %d: expected source %s, got %s", i, source, sink.events[i].Source)
		}
	}
	// Each event carries the state as of that operation.
	if len(sink.events[0].Snapshot.Contacts) != 1 || len(sink.events[2].Snapshot.Contacts) != 2 {
		t.Fatalf("events must carry the post-mutation snapshots")
	}
}

func TestHistorySurvivesUndo(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModel(t)

	if err := m.AddContact(ctx, mustContact(t, "Alice")); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	m.CommitRoster(ctx)
	if err := m.UndoRoster(ctx); err != nil {
		t.Fatalf("UndoRoster: %v", err)
	}
	if err := m.AddContact(ctx, mustContact(t, "Bob")); err != nil {
		t.Fatalf("AddContact: %v", err)
	}

	records := m.History().Records()
	if len(records) != 3 {
		t.Fatalf("expected 3 records (add, undo, add), got %d", len(records))
	}
	if records[0].Name != "add_contact" || records[1].Name != "undo_roster" || records[2].Name != "add_contact" {
		t.Fatalf("unexpected ledger: %+v", records)
	}
	if records[0].Detail != "Alice" {
		t.Fatalf("undone command must stay in the ledger, got %+v", records[0])
	}
}

func TestRosterAndLedgerUndoChainsAreIndependent(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModel(t)

	if err := m.AddContact(ctx, mustContact(t, "Alice")); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	m.CommitRoster(ctx)
	if err := m.AddGroup(ctx, mustGroup(t, "Chess", 100)); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	m.CommitLedger(ctx)

	if err := m.UndoLedger(ctx); err != nil {
		t.Fatalf("UndoLedger: %v", err)
	}
	if len(m.Groups()) != 0 {
		t.Fatalf("ledger undo must empty the ledger")
	}
	if got := contactNames(m.Contacts()); !sameNames(got, "Alice") {
		t.Fatalf("ledger undo must not touch the roster: %v", got)
	}
}

func TestGroupEntryLifecycle(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModel(t)

	if err := m.AddGroup(ctx, mustGroup(t, "Basketball", 500)); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	m.CommitLedger(ctx)
	for _, remarks := range []string{"balls", "jerseys", "court booking"} {
		if err := m.AddGroupEntry(ctx, "Basketball", domain.Entry{
			Date: "2024-03-01", Amount: decimal.NewFromInt(40), Remarks: remarks,
		}); err != nil {
			t.Fatalf("AddGroupEntry: %v", err)
		}
	}
	m.CommitLedger(ctx)

	if err := m.RemoveGroupEntry(ctx, "Basketball", 2); err != nil {
		t.Fatalf("RemoveGroupEntry: %v", err)
	}
	groups := m.Groups()
	if len(groups) != 1 || len(groups[0].Entries) != 2 {
		t.Fatalf("expected 2 surviving entries, got %+v", groups)
	}
	if groups[0].Entries[0].Remarks != "balls" || groups[0].Entries[1].Remarks != "court booking" {
		t.Fatalf("wrong survivors: %+v", groups[0].Entries)
	}
	if groups[0].Entries[1].Num != 2 {
		t.Fatalf("expected dense renumbering, got %d", groups[0].Entries[1].Num)
	}

	m.CommitLedger(ctx)
	if err := m.UndoLedger(ctx); err != nil {
		t.Fatalf("UndoLedger: %v", err)
	}
	if got := len(m.Groups()[0].Entries); got != 3 {
		t.Fatalf("undo must restore the removed entry, got %d entries", got)
	}
}

func TestGroupEntryOpsOnMissingGroup(t *testing.T) {
	ctx := context.Background()
	m, sink := newTestModel(t)
	err := m.AddGroupEntry(ctx, "Ghost", domain.Entry{Amount: decimal.NewFromInt(1)})
	var notFound domain.RecordNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected RecordNotFoundError, got %v", err)
	}
	if len(sink.events) != 0 {
		t.Fatalf("failed entry op must raise no event")
	}
}

func TestResetContactsNeedsCommitToBeUndoable(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModel(t)
	if err := m.ResetContacts(ctx, []domain.Contact{mustContact(t, "Xavier")}); err != nil {
		t.Fatalf("ResetContacts: %v", err)
	}
	if m.CanUndoRoster() {
		t.Fatalf("reset without commit must not be undoable")
	}
	m.CommitRoster(ctx)
	if err := m.UndoRoster(ctx); err != nil {
		t.Fatalf("UndoRoster: %v", err)
	}
	if len(m.Contacts()) != 0 {
		t.Fatalf("undo after reset must restore the seed state")
	}
}

func TestModelRecordsMetricsAndTraces(t *testing.T) {
	ctx := context.Background()
	recorder := NewExpvarMetricsRecorder("")
	tracer := NewJSONTracer(nil)
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	m, _ := newTestModel(t,
		WithMetricsRecorder(recorder),
		WithTracer(tracer),
		WithClock(ClockFunc(func() time.Time { return fixed })),
	)

	if err := m.AddContact(ctx, mustContact(t, "Alice")); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	if err := m.AddContact(ctx, mustContact(t, "Alice")); err == nil {
		t.Fatalf("expected duplicate rejection")
	}

	snap := recorder.Snapshot()
	if snap.Results["add_contact"]["success"] != 1 || snap.Results["add_contact"]["error"] != 1 {
		t.Fatalf("unexpected metrics: %+v", snap.Results)
	}
	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(entries))
	}
	if entries[0].Status != "success" || entries[1].Status != "error" {
		t.Fatalf("unexpected span statuses: %+v", entries)
	}

	records := m.History().Records()
	if len(records) != 1 || !records[0].At.Equal(fixed) {
		t.Fatalf("command record must use the injected clock, got %+v", records)
	}
}

func TestWithHistorySharesLedgerAcrossModels(t *testing.T) {
	ctx := context.Background()
	shared := NewHistory()
	a, _ := newTestModel(t, WithHistory(shared))
	b, _ := newTestModel(t, WithHistory(shared))

	if err := a.AddContact(ctx, mustContact(t, "Alice")); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	if err := b.AddContact(ctx, mustContact(t, "Bob")); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	if shared.Len() != 2 {
		t.Fatalf("expected shared ledger with 2 records, got %d", shared.Len())
	}
}

func TestSnapshotReflectsWorkingState(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestModel(t)
	if err := m.AddContact(ctx, mustContact(t, "Alice")); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	if err := m.AddGroup(ctx, mustGroup(t, "Chess", 100)); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	snap := m.Snapshot()
	if len(snap.Contacts) != 1 || len(snap.Groups) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	// Snapshot is a copy, not a live view.
	snap.Contacts[0].Name = "Mutated"
	if m.Contacts()[0].Name != "Alice" {
		t.Fatalf("Snapshot leaked interior state")
	}
}
