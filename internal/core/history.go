package core

import "time"

// CommandRecord describes one successfully executed mutating command.
type CommandRecord struct {
	Name   string    `json:"name"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// Equal reports structural equality of two records.
func (r CommandRecord) Equal(other CommandRecord) bool {
	return r.Name == other.Name && r.Detail == other.Detail && r.At.Equal(other.At)
}

// History is the append-only ledger of executed commands. It is an audit
// trail, deliberately decoupled from the undo stack: undo and redo never
// truncate it, so after an undo plus a fresh command the ledger still names
// the undone command even though its state is no longer reachable via redo.
type History struct {
	records []CommandRecord
}

// NewHistory returns an empty ledger, the canonical "no commands executed"
// value.
func NewHistory() *History {
	return &History{}
}

// Append adds a record at the end. It never fails.
func (h *History) Append(record CommandRecord) {
	h.records = append(h.records, record)
}

// Len returns the number of recorded commands.
func (h *History) Len() int { return len(h.records) }

// Records returns a copy of the ledger in execution order.
func (h *History) Records() []CommandRecord {
	out := make([]CommandRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Equal reports ordered structural equality of two ledgers.
func (h *History) Equal(other *History) bool {
	if other == nil || len(h.records) != len(other.records) {
		return false
	}
	for i := range h.records {
		if !h.records[i].Equal(other.records[i]) {
			return false
		}
	}
	return true
}
