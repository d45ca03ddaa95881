package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Entry is a single ledger transaction inside a group. Num is the 1-based
// position of the entry in the group's ledger; positions stay dense, so
// removing an entry renumbers everything behind it.
type Entry struct {
	Num     int             `json:"num"`
	Date    string          `json:"date"`
	Amount  decimal.Decimal `json:"amount"`
	Remarks string          `json:"remarks,omitempty"`
}

// Equal reports full structural equality of two entries.
func (e Entry) Equal(other Entry) bool {
	return e.Num == other.Num && e.Date == other.Date &&
		e.Amount.Equal(other.Amount) && e.Remarks == other.Remarks
}

// Group is a budget-tracked unit in the ledger. Identity is carried by the
// group name; budget amounts are exact decimals.
type Group struct {
	Name        string          `json:"name"`
	Head        string          `json:"head,omitempty"`
	ViceHead    string          `json:"vice_head,omitempty"`
	Budget      decimal.Decimal `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Entries     []Entry         `json:"entries,omitempty"`
}

// NewGroup builds a group with the given budget, no leadership assigned, and
// the full budget outstanding.
func NewGroup(name string, budget decimal.Decimal) (Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Group{}, InvalidArgumentError{Field: "group name", Reason: "must not be blank"}
	}
	if budget.IsNegative() {
		return Group{}, InvalidArgumentError{Field: "budget", Reason: "must not be negative"}
	}
	return Group{
		Name:        name,
		Head:        "-",
		ViceHead:    "-",
		Budget:      budget,
		Spent:       decimal.Zero,
		Outstanding: budget,
	}, nil
}

// Key returns the identity key used in duplicate and not-found reporting.
func (g Group) Key() string { return g.Name }

// Same reports identity equality, compared on the normalized group name.
func (g Group) Same(other Group) bool {
	return normalizeName(g.Name) == normalizeName(other.Name)
}

// Equal reports full structural equality, including the ordered entry list.
func (g Group) Equal(other Group) bool {
	if g.Name != other.Name || g.Head != other.Head || g.ViceHead != other.ViceHead {
		return false
	}
	if !g.Budget.Equal(other.Budget) || !g.Spent.Equal(other.Spent) || !g.Outstanding.Equal(other.Outstanding) {
		return false
	}
	if len(g.Entries) != len(other.Entries) {
		return false
	}
	for i := range g.Entries {
		if !g.Entries[i].Equal(other.Entries[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	cp := g
	if g.Entries != nil {
		cp.Entries = append([]Entry(nil), g.Entries...)
	}
	return cp
}

// Entry returns the n-th ledger entry, 1-based.
func (g Group) Entry(num int) (Entry, error) {
	if num < 1 || num > len(g.Entries) {
		return Entry{}, InvalidArgumentError{Field: "entry index", Reason: "out of range"}
	}
	return g.Entries[num-1], nil
}

// WithEntry returns a copy of the group with the entry appended at the end of
// the ledger. The entry's Num is assigned from its position.
func (g Group) WithEntry(e Entry) Group {
	cp := g.Clone()
	e.Num = len(cp.Entries) + 1
	cp.Entries = append(cp.Entries, e)
	return cp
}

// WithoutEntry returns a copy of the group with the n-th entry removed and the
// remaining entries renumbered densely from 1.
func (g Group) WithoutEntry(num int) (Group, error) {
	if num < 1 || num > len(g.Entries) {
		return Group{}, InvalidArgumentError{Field: "entry index", Reason: "out of range"}
	}
	cp := g.Clone()
	cp.Entries = append(cp.Entries[:num-1], cp.Entries[num:]...)
	for i := range cp.Entries {
		cp.Entries[i].Num = i + 1
	}
	return cp, nil
}
