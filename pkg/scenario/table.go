// Package scenario implements the per-scenario state machine that gates
// mapping eligibility: each scenario is a name with a current state
// string, started, and transitions are serialized per-name so unrelated
// scenarios never contend (spec.md 4.5/5).
package scenario

import "sync"

// Started is the state every scenario begins in.
const Started = "Started"

// entry pairs a scenario's current state with the mutex that serializes
// transitions against it.
type entry struct {
	mu    sync.Mutex
	state string
}

// Table is the server's scenario table: one entry per distinct name seen,
// created lazily on first reference. A sync.Map keyed by name gives each
// scenario its own mutex, so a transition on "checkout" never blocks a
// concurrent transition on "inventory" (spec.md 5: "per-scenario
// serialization around the transition step").
type Table struct {
	entries sync.Map // name -> *entry
}

// NewTable returns an empty scenario table.
func NewTable() *Table {
	return &Table{}
}

func (t *Table) entryFor(name string) *entry {
	if v, ok := t.entries.Load(name); ok {
		return v.(*entry)
	}
	v, _ := t.entries.LoadOrStore(name, &entry{state: Started})
	return v.(*entry)
}

// StateOf returns name's current state, creating it in the Started state
// if it has never been referenced before.
func (t *Table) StateOf(name string) string {
	e := t.entryFor(name)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Eligible reports whether requiredState permits a mapping referencing
// name to fire right now. An empty requiredState means "any state"
// (spec.md 4.3).
func (t *Table) Eligible(name, requiredState string) bool {
	if requiredState == "" {
		return true
	}
	return t.StateOf(name) == requiredState
}

// Transition performs the compare-and-swap described in spec.md 4.5/5:
// while holding name's mutex, check the current state against from (empty
// from matches any current state), and if it matches, write to. Returns
// whether the transition was applied. A concurrent caller targeting the
// same scenario blocks here, not on a global lock.
func (t *Table) Transition(name, from, to string) bool {
	if to == "" {
		return false
	}
	e := t.entryFor(name)
	e.mu.Lock()
	defer e.mu.Unlock()
	if from != "" && e.state != from {
		return false
	}
	e.state = to
	return true
}

// Reset restores every known scenario to Started.
func (t *Table) Reset() {
	t.entries.Range(func(key, value any) bool {
		e := value.(*entry)
		e.mu.Lock()
		e.state = Started
		e.mu.Unlock()
		return true
	})
}

// SetState forcibly sets name's state, regardless of its current value;
// used by the admin "set scenario state" operation (spec.md 4.9), which
// is not itself gated by a required-state check.
func (t *Table) SetState(name, state string) {
	e := t.entryFor(name)
	e.mu.Lock()
	e.state = state
	e.mu.Unlock()
}

// Names returns every scenario name the table has seen, in no particular
// order.
func (t *Table) Names() []string {
	var names []string
	t.entries.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})
	return names
}
