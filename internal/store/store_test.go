package store

import (
	"sync"
	"testing"

	"github.com/getmockd/mockd/pkg/mapping"
)

func newTestMapping(id string, priority int) *mapping.Mapping {
	return &mapping.Mapping{
		ID:       id,
		Priority: priority,
		Response: &mapping.ResponseTemplate{StatusCode: 200},
	}
}

func TestMappingStore_AddAssignsIDAndIndex(t *testing.T) {
	s := NewMappingStore()
	stored := s.Add(newTestMapping("", 0))
	if stored.ID == "" {
		t.Fatal("expected Add to assign a non-empty ID")
	}
	if stored.CreatedAt.IsZero() {
		t.Fatal("expected Add to set CreatedAt")
	}

	second := s.Add(newTestMapping("", 0))
	if second.InsertionIndex <= stored.InsertionIndex {
		t.Errorf("expected monotonically increasing insertion index, got %d then %d", stored.InsertionIndex, second.InsertionIndex)
	}
}

func TestMappingStore_GetAndList(t *testing.T) {
	s := NewMappingStore()
	a := s.Add(newTestMapping("a", 0))
	b := s.Add(newTestMapping("b", 0))

	got, ok := s.Get(a.ID)
	if !ok || got.ID != a.ID {
		t.Fatalf("Get(%q) = %v, %v", a.ID, got, ok)
	}

	list := s.List()
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Fatalf("List() did not preserve insertion order: %+v", list)
	}
}

func TestMappingStore_UpdatePreservesInsertionPosition(t *testing.T) {
	s := NewMappingStore()
	orig := s.Add(newTestMapping("", 5))

	updated := newTestMapping(orig.ID, 9)
	stored, err := s.Update(updated)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if stored.InsertionIndex != orig.InsertionIndex {
		t.Errorf("Update changed InsertionIndex: got %d, want %d", stored.InsertionIndex, orig.InsertionIndex)
	}
	if stored.Priority != 9 {
		t.Errorf("Update did not apply new priority: got %d", stored.Priority)
	}
	if !stored.CreatedAt.Equal(orig.CreatedAt) {
		t.Error("Update should not change CreatedAt")
	}
}

func TestMappingStore_UpdateNotFound(t *testing.T) {
	s := NewMappingStore()
	_, err := s.Update(newTestMapping("missing", 0))
	if _, ok := err.(*ErrNotFound); !ok {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMappingStore_Delete(t *testing.T) {
	s := NewMappingStore()
	a := s.Add(newTestMapping("", 0))
	b := s.Add(newTestMapping("", 0))

	if err := s.Delete(a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := s.Get(a.ID); ok {
		t.Error("deleted mapping still present")
	}
	if _, ok := s.Get(b.ID); !ok {
		t.Error("unrelated mapping should remain after Delete")
	}

	if err := s.Delete("missing"); err == nil {
		t.Error("expected error deleting a missing ID")
	}
}

func TestMappingStore_Reset(t *testing.T) {
	s := NewMappingStore()
	s.Add(newTestMapping("", 0))
	s.Add(newTestMapping("", 0))
	s.Reset()
	if len(s.List()) != 0 {
		t.Error("Reset should empty the store")
	}
}

func TestMappingStore_SnapshotIsolation(t *testing.T) {
	s := NewMappingStore()
	s.Add(newTestMapping("", 0))
	snap := s.Snapshot()
	s.Add(newTestMapping("", 0))
	if len(snap) != 1 {
		t.Errorf("previously taken snapshot should not observe later writes, got len %d", len(snap))
	}
}

func TestMappingStore_ConcurrentAdd(t *testing.T) {
	s := NewMappingStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add(newTestMapping("", 0))
		}()
	}
	wg.Wait()
	if len(s.List()) != 50 {
		t.Errorf("expected 50 mappings after concurrent Add, got %d", len(s.List()))
	}
}
