package requestlog

import (
	"sync"

	"github.com/google/uuid"

	"github.com/getmockd/mockd/pkg/mapping"
)

// DefaultCapacity is the ring's default size (spec.md 4.8).
const DefaultCapacity = 1000

// Filter selects entries for List: it is handed each entry's stored
// RequestMessage and scores it with the same [0,1] matcher algebra used
// for mappings (spec.md 4.8: "Filters accept a MatchTree ... applied to
// the stored RequestMessage"). A nil filter matches everything.
type Filter func(req *mapping.RequestMessage) bool

// MatcherFilter adapts a mapping.Matcher tree into a Filter, treating any
// score >= 1 as a match.
func MatcherFilter(m mapping.Matcher) Filter {
	return func(req *mapping.RequestMessage) bool { return m.Score(req) >= 1 }
}

// Store is the bounded, append-only request log. Append takes a single
// writer lock and overwrites the oldest slot once the ring is full; reads
// take a brief lock only to copy the current contents, matching the
// teacher's single-writer-lock-plus-snapshot-on-read discipline used for
// hot-swappable runtime state elsewhere in this codebase.
type Store struct {
	mu       sync.Mutex
	entries  []*Entry // ring buffer; nil slots unused until first wraparound
	capacity int      // 0 means unbounded
	next     int      // next write position when capacity > 0
	count    int      // number of entries ever written, capped at capacity
	all      []*Entry // backing slice when capacity == 0 (unbounded)
}

// New returns a Store with the given capacity. capacity <= 0 means
// unbounded (spec.md 4.8: "default capacity 1000, configurable, or
// unbounded").
func New(capacity int) *Store {
	if capacity <= 0 {
		return &Store{capacity: 0}
	}
	return &Store{capacity: capacity, entries: make([]*Entry, capacity)}
}

// Append adds entry to the log, assigning an ID if it has none.
// Eviction, when bounded, is strictly FIFO (spec.md 4.8).
func (s *Store) Append(entry *Entry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.capacity == 0 {
		s.all = append(s.all, entry)
		return
	}
	s.entries[s.next] = entry
	s.next = (s.next + 1) % s.capacity
	if s.count < s.capacity {
		s.count++
	}
}

// snapshotLocked returns entries in insertion (oldest-first) order. Caller
// must hold s.mu.
func (s *Store) snapshotLocked() []*Entry {
	if s.capacity == 0 {
		out := make([]*Entry, len(s.all))
		copy(out, s.all)
		return out
	}
	out := make([]*Entry, 0, s.count)
	start := (s.next - s.count + s.capacity) % s.capacity
	for i := 0; i < s.count; i++ {
		out = append(out, s.entries[(start+i)%s.capacity])
	}
	return out
}

// List returns every entry matching filter, oldest first. A nil filter
// returns every entry.
func (s *Store) List(filter Filter) []*Entry {
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if filter == nil {
		return snap
	}
	out := make([]*Entry, 0, len(snap))
	for _, e := range snap {
		if e.Request != nil && filter(e.Request) {
			out = append(out, e)
		}
	}
	return out
}

// FindByMapping returns every logged entry whose MatchedMappingID equals
// id, oldest first.
func (s *Store) FindByMapping(id string) []*Entry {
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	out := make([]*Entry, 0)
	for _, e := range snap {
		if e.MatchedMappingID == id {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of entries currently retained.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.capacity == 0 {
		return len(s.all)
	}
	return s.count
}

// Reset discards every entry.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.capacity == 0 {
		s.all = nil
		return
	}
	s.entries = make([]*Entry, s.capacity)
	s.next = 0
	s.count = 0
}

// Resize changes the ring's capacity, preserving as many of the most
// recent entries as fit in the new size (spec.md 6, PUT /__admin/settings
// updating request-log capacity at runtime). capacity <= 0 makes the
// store unbounded.
func (s *Store) Resize(capacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshotLocked()
	if capacity <= 0 {
		s.capacity = 0
		s.entries = nil
		s.next = 0
		s.count = 0
		s.all = snap
		return
	}
	if len(snap) > capacity {
		snap = snap[len(snap)-capacity:]
	}
	s.capacity = capacity
	s.entries = make([]*Entry, capacity)
	copy(s.entries, snap)
	s.next = len(snap) % capacity
	s.count = len(snap)
	s.all = nil
}

// Capacity returns the ring's current capacity, 0 meaning unbounded.
func (s *Store) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capacity
}
