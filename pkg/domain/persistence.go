package domain

import "context"

// Snapshot is the full authoritative state handed to persistence on each
// committed change and on deliberate resets.
type Snapshot struct {
	Contacts []Contact `json:"contacts"`
	Groups   []Group   `json:"groups"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	cp := Snapshot{}
	if s.Contacts != nil {
		cp.Contacts = make([]Contact, 0, len(s.Contacts))
		for _, c := range s.Contacts {
			cp.Contacts = append(cp.Contacts, c.Clone())
		}
	}
	if s.Groups != nil {
		cp.Groups = make([]Group, 0, len(s.Groups))
		for _, g := range s.Groups {
			cp.Groups = append(cp.Groups, g.Clone())
		}
	}
	return cp
}

// Equal reports order-sensitive structural equality of both sequences.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.Contacts) != len(other.Contacts) || len(s.Groups) != len(other.Groups) {
		return false
	}
	for i := range s.Contacts {
		if !s.Contacts[i].Equal(other.Contacts[i]) {
			return false
		}
	}
	for i := range s.Groups {
		if !s.Groups[i].Equal(other.Groups[i]) {
			return false
		}
	}
	return true
}

// SnapshotStore is the minimal abstraction over durable backends. Save is
// called once per committed change, never once per field edit; Load reports
// ok=false when no snapshot has ever been saved.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot Snapshot) error
	Load(ctx context.Context) (snapshot Snapshot, ok bool, err error)
}
