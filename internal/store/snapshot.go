package store

import "github.com/getmockd/mockd/pkg/mapping"

// snapshot is the immutable view swapped in by every write. Mappings
// preserves insertion order (spec.md 4.4: "Iteration order is insertion
// order"); byID supports O(1) Get/Update/Delete lookups without scanning.
type snapshot struct {
	mappings []*mapping.Mapping
	byID     map[string]int // id -> index into mappings
}

func emptySnapshot() *snapshot {
	return &snapshot{mappings: nil, byID: map[string]int{}}
}

// withAdded returns a new snapshot with m appended, preserving the
// original's order and entries.
func (s *snapshot) withAdded(m *mapping.Mapping) *snapshot {
	next := &snapshot{
		mappings: make([]*mapping.Mapping, len(s.mappings), len(s.mappings)+1),
		byID:     make(map[string]int, len(s.byID)+1),
	}
	copy(next.mappings, s.mappings)
	for id, idx := range s.byID {
		next.byID[id] = idx
	}
	next.mappings = append(next.mappings, m)
	next.byID[m.ID] = len(next.mappings) - 1
	return next
}

// withReplaced returns a new snapshot with the mapping at m.ID's position
// replaced by m, preserving insertion position.
func (s *snapshot) withReplaced(m *mapping.Mapping) (*snapshot, bool) {
	idx, ok := s.byID[m.ID]
	if !ok {
		return s, false
	}
	next := &snapshot{
		mappings: make([]*mapping.Mapping, len(s.mappings)),
		byID:     make(map[string]int, len(s.byID)),
	}
	copy(next.mappings, s.mappings)
	for id, i := range s.byID {
		next.byID[id] = i
	}
	next.mappings[idx] = m
	return next, true
}

// withDeleted returns a new snapshot with id removed, and whether it was
// present.
func (s *snapshot) withDeleted(id string) (*snapshot, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return s, false
	}
	next := &snapshot{
		mappings: make([]*mapping.Mapping, 0, len(s.mappings)-1),
		byID:     make(map[string]int, len(s.byID)-1),
	}
	for i, m := range s.mappings {
		if i == idx {
			continue
		}
		next.byID[m.ID] = len(next.mappings)
		next.mappings = append(next.mappings, m)
	}
	return next, true
}
