package domain

// Snapshotable is satisfied by any state a Versioned store can checkpoint.
type Snapshotable[S any] interface {
	Clone() S
	Equal(S) bool
}

// Versioned wraps a state in an ordered history of committed snapshots plus a
// cursor. Live mutations happen on a working copy; Commit checkpoints the
// working copy into history, so Undo can always restore the exact prior
// committed state. Committing after an undo discards the stale redo tail.
type Versioned[S Snapshotable[S]] struct {
	states  []S
	current int
	working S
}

// NewVersioned seeds the store with the initial state as commit #0.
func NewVersioned[S Snapshotable[S]](initial S) *Versioned[S] {
	return &Versioned[S]{
		states:  []S{initial.Clone()},
		working: initial.Clone(),
	}
}

// Working returns the live working state. Callers mutate it directly between
// commits; the committed history is never reachable through it.
func (v *Versioned[S]) Working() S { return v.working }

// Commit drops any snapshots past the cursor and appends a copy of the working
// state, advancing the cursor to the new last index.
func (v *Versioned[S]) Commit() {
	v.states = append(v.states[:v.current+1], v.working.Clone())
	v.current = len(v.states) - 1
}

// CanUndo reports whether an older committed state exists.
func (v *Versioned[S]) CanUndo() bool { return v.current > 0 }

// CanRedo reports whether a newer committed state exists.
func (v *Versioned[S]) CanRedo() bool { return v.current < len(v.states)-1 }

// Undo moves the cursor one state back and restores the working copy from it.
func (v *Versioned[S]) Undo() error {
	if !v.CanUndo() {
		return NoUndoableActionError{}
	}
	v.current--
	v.working = v.states[v.current].Clone()
	return nil
}

// Redo moves the cursor one state forward and restores the working copy from it.
func (v *Versioned[S]) Redo() error {
	if !v.CanRedo() {
		return NoRedoableActionError{}
	}
	v.current++
	v.working = v.states[v.current].Clone()
	return nil
}

// ResetData swaps the working copy wholesale, outside the undo chain. Like any
// other mutation it needs an explicit Commit to be retained in history.
func (v *Versioned[S]) ResetData(state S) {
	v.working = state.Clone()
}

// Depth returns the number of committed states.
func (v *Versioned[S]) Depth() int { return len(v.states) }
