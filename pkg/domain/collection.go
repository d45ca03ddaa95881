package domain

// Collection is an ordered, identity-deduplicated container of records.
// Insertion order is the iteration order. No two elements may be mutually
// Same; violating operations fail without touching the backing sequence.
type Collection[T Record[T]] struct {
	kind  string
	items []T
}

// NewCollection builds an empty collection. The kind labels records in error
// values ("contact", "group").
func NewCollection[T Record[T]](kind string) *Collection[T] {
	return &Collection[T]{kind: kind}
}

// Len returns the number of records.
func (c *Collection[T]) Len() int { return len(c.items) }

// Contains reports whether a record with the same identity is present.
func (c *Collection[T]) Contains(r T) bool {
	return c.indexOf(r) >= 0
}

func (c *Collection[T]) indexOf(r T) int {
	for i, existing := range c.items {
		if existing.Same(r) {
			return i
		}
	}
	return -1
}

// Add appends the record at the end. It fails with DuplicateRecordError when a
// record with the same identity already exists.
func (c *Collection[T]) Add(r T) error {
	if c.Contains(r) {
		return DuplicateRecordError{Kind: c.kind, Key: r.Key()}
	}
	c.items = append(c.items, r.Clone())
	return nil
}

// Remove deletes the record with the same identity, preserving the relative
// order of the remainder. It fails with RecordNotFoundError when absent.
func (c *Collection[T]) Remove(r T) error {
	i := c.indexOf(r)
	if i < 0 {
		return RecordNotFoundError{Kind: c.kind, Key: r.Key()}
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

// Replace substitutes updated for old in place, preserving position. It fails
// with RecordNotFoundError when old is absent, and with DuplicateRecordError
// when updated collides with a different existing record.
func (c *Collection[T]) Replace(old, updated T) error {
	i := c.indexOf(old)
	if i < 0 {
		return RecordNotFoundError{Kind: c.kind, Key: old.Key()}
	}
	if j := c.indexOf(updated); j >= 0 && j != i {
		return DuplicateRecordError{Kind: c.kind, Key: updated.Key()}
	}
	c.items[i] = updated.Clone()
	return nil
}

// ResetAll replaces the entire backing sequence with the given records,
// preserving the given order. It fails with DuplicateRecordError when the
// input contains two mutually Same records, leaving the collection unchanged.
func (c *Collection[T]) ResetAll(records []T) error {
	next := make([]T, 0, len(records))
	for _, r := range records {
		for _, accepted := range next {
			if accepted.Same(r) {
				return DuplicateRecordError{Kind: c.kind, Key: r.Key()}
			}
		}
		next = append(next, r.Clone())
	}
	c.items = next
	return nil
}

// Slice returns a cloned copy of the records in iteration order.
func (c *Collection[T]) Slice() []T {
	out := make([]T, 0, len(c.items))
	for _, r := range c.items {
		out = append(out, r.Clone())
	}
	return out
}

// Filter returns cloned records matching the predicate, order preserved. A nil
// predicate matches everything.
func (c *Collection[T]) Filter(pred func(T) bool) []T {
	out := make([]T, 0, len(c.items))
	for _, r := range c.items {
		if pred == nil || pred(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Equal reports order-sensitive, element-wise full equality.
func (c *Collection[T]) Equal(other *Collection[T]) bool {
	if other == nil || len(c.items) != len(other.items) {
		return false
	}
	for i := range c.items {
		if !c.items[i].Equal(other.items[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the collection.
func (c *Collection[T]) Clone() *Collection[T] {
	return &Collection[T]{kind: c.kind, items: c.Slice()}
}
