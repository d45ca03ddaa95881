package core

import (
	"testing"
	"time"
)

func TestHistoryEmptyLedgersAreEqual(t *testing.T) {
	if !NewHistory().Equal(NewHistory()) {
		t.Fatalf("two fresh ledgers must be equal")
	}
}

func TestHistoryAppendBreaksEqualityWithFresh(t *testing.T) {
	h := NewHistory()
	h.Append(CommandRecord{Name: "add_contact", Detail: "Alice", At: time.Now()})
	if h.Equal(NewHistory()) {
		t.Fatalf("ledger with one record must not equal a fresh ledger")
	}
	if h.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", h.Len())
	}
}

func TestHistoryPreservesExecutionOrder(t *testing.T) {
	h := NewHistory()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for _, name := range []string{"add_contact", "remove_contact", "undo_roster"} {
		h.Append(CommandRecord{Name: name, At: at})
	}
	records := h.Records()
	if records[0].Name != "add_contact" || records[2].Name != "undo_roster" {
		t.Fatalf("wrong order: %+v", records)
	}
	// Records returns a copy.
	records[0].Name = "mutated"
	if h.Records()[0].Name != "add_contact" {
		t.Fatalf("Records leaked interior state")
	}
}

func TestHistoryEqualComparesRecordsStructurally(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	a, b := NewHistory(), NewHistory()
	a.Append(CommandRecord{Name: "add_contact", Detail: "Alice", At: at})
	b.Append(CommandRecord{Name: "add_contact", Detail: "Alice", At: at.In(time.FixedZone("X", 3600))})
	if !a.Equal(b) {
		t.Fatalf("same instant in different zones must compare equal")
	}
	b.Append(CommandRecord{Name: "undo_roster", At: at})
	if a.Equal(b) {
		t.Fatalf("different lengths must not compare equal")
	}
	if a.Equal(nil) {
		t.Fatalf("nil ledger must not compare equal")
	}
}
