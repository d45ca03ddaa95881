// Package domain defines the core entities, collections, and versioning
// primitives used by rostercore.
package domain

import (
	"strings"
	"unicode"
)

// Record is the contract every stored entity satisfies. Same compares identity
// attributes ("is this the same logical record"), Equal compares every field
// ("is this a byte-identical record"). Keeping the two comparisons as separate
// methods keeps the distinction visible at call sites.
type Record[T any] interface {
	Same(T) bool
	Equal(T) bool
	Clone() T
	Key() string
}

// Contact is a roster record. Identity is carried by the name; the remaining
// fields are data attributes replaced by swapping in a new value, never by
// in-place mutation of a stored contact.
type Contact struct {
	Name   string   `json:"name"`
	Room   string   `json:"room,omitempty"`
	Phone  string   `json:"phone,omitempty"`
	Email  string   `json:"email,omitempty"`
	School string   `json:"school,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// NewContact validates the given fields and builds a Contact. Name is
// mandatory; phone and email are validated only when present.
func NewContact(name, room, phone, email, school string, tags ...string) (Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Contact{}, InvalidArgumentError{Field: "name", Reason: "must not be blank"}
	}
	if phone != "" && !validPhone(phone) {
		return Contact{}, InvalidArgumentError{Field: "phone", Reason: "must be at least 3 digits"}
	}
	if email != "" && !validEmail(email) {
		return Contact{}, InvalidArgumentError{Field: "email", Reason: "must contain a local part and domain"}
	}
	c := Contact{Name: name, Room: room, Phone: phone, Email: email, School: school}
	if len(tags) > 0 {
		c.Tags = append([]string(nil), tags...)
	}
	return c, nil
}

func validPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		if !unicode.IsDigit(r) {
			return false
		}
		digits++
	}
	return digits >= 3
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}

// Key returns the identity key used in duplicate and not-found reporting.
func (c Contact) Key() string { return c.Name }

// Same reports whether both contacts carry the same identity, compared on the
// normalized name.
func (c Contact) Same(other Contact) bool {
	return normalizeName(c.Name) == normalizeName(other.Name)
}

// Equal reports full structural equality across every field.
func (c Contact) Equal(other Contact) bool {
	if c.Name != other.Name || c.Room != other.Room || c.Phone != other.Phone ||
		c.Email != other.Email || c.School != other.School {
		return false
	}
	if len(c.Tags) != len(other.Tags) {
		return false
	}
	for i := range c.Tags {
		if c.Tags[i] != other.Tags[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the contact.
func (c Contact) Clone() Contact {
	cp := c
	if c.Tags != nil {
		cp.Tags = append([]string(nil), c.Tags...)
	}
	return cp
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
