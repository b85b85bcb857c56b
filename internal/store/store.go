package store

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/getmockd/mockd/pkg/mapping"
)

// ErrNotFound is returned by Update and Delete when the mapping ID is not
// present in the current snapshot.
type ErrNotFound struct{ ID string }

func (e *ErrNotFound) Error() string { return fmt.Sprintf("store: mapping %q not found", e.ID) }

// MappingStore is an ordered, concurrently accessed set of mappings. Every
// write builds a new immutable snapshot and atomically swaps it in;
// readers call Snapshot once per matching operation and iterate the
// returned slice without touching the store again, so a single matching
// operation never observes a mix of two snapshots (spec.md 4.4/5).
//
// This generalizes the hot-swappable-client discipline used elsewhere in
// this codebase (one atomic.Pointer holding one live value, swapped
// wholesale on every write) from "swap one client" to "swap one snapshot".
type MappingStore struct {
	current atomic.Pointer[snapshot]

	insertionCounter atomic.Int64
}

// NewMappingStore returns an empty store.
func NewMappingStore() *MappingStore {
	s := &MappingStore{}
	s.current.Store(emptySnapshot())
	return s
}

// Snapshot returns the mappings currently in the store, in insertion
// order. The returned slice must not be mutated; it is shared with the
// store's internal snapshot.
func (s *MappingStore) Snapshot() []*mapping.Mapping {
	return s.current.Load().mappings
}

// Get returns the mapping with the given ID, if present.
func (s *MappingStore) Get(id string) (*mapping.Mapping, bool) {
	snap := s.current.Load()
	idx, ok := snap.byID[id]
	if !ok {
		return nil, false
	}
	return snap.mappings[idx], true
}

// Add assigns an ID (if m.ID is empty), insertion index, and creation
// time, then appends m to the store. Returns the stored mapping.
func (s *MappingStore) Add(m *mapping.Mapping) *mapping.Mapping {
	stored := m.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.InsertionIndex = int(s.insertionCounter.Add(1)) - 1
	stored.CreatedAt = time.Now()

	for {
		old := s.current.Load()
		next := old.withAdded(stored)
		if s.current.CompareAndSwap(old, next) {
			return stored
		}
	}
}

// Update replaces the mapping with the same ID in place, preserving its
// original insertion position (spec.md 4.3: "mutable only by
// replace-in-place"). InsertionIndex and CreatedAt are carried over from
// the existing entry; a caller cannot backdate or reorder a mapping via
// Update.
func (s *MappingStore) Update(m *mapping.Mapping) (*mapping.Mapping, error) {
	for {
		old := s.current.Load()
		existing, ok := old.byID[m.ID]
		if !ok {
			return nil, &ErrNotFound{ID: m.ID}
		}
		stored := m.Clone()
		stored.InsertionIndex = old.mappings[existing].InsertionIndex
		stored.CreatedAt = old.mappings[existing].CreatedAt

		next, ok := old.withReplaced(stored)
		if !ok {
			return nil, &ErrNotFound{ID: m.ID}
		}
		if s.current.CompareAndSwap(old, next) {
			return stored, nil
		}
	}
}

// Delete removes the mapping with the given ID.
func (s *MappingStore) Delete(id string) error {
	for {
		old := s.current.Load()
		next, ok := old.withDeleted(id)
		if !ok {
			return &ErrNotFound{ID: id}
		}
		if s.current.CompareAndSwap(old, next) {
			return nil
		}
	}
}

// Reset discards every mapping, returning the store to its initial empty
// state. The insertion counter is not reset, so IDs added after a Reset
// never reuse an insertion index from before it.
func (s *MappingStore) Reset() {
	s.current.Store(emptySnapshot())
}

// List returns all mappings in insertion order. It is an alias for
// Snapshot named for readability at call sites that only care about
// listing, not about snapshot identity.
func (s *MappingStore) List() []*mapping.Mapping {
	return s.Snapshot()
}
