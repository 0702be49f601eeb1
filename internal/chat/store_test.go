package chat

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestStoreSuppressesDuplicates(t *testing.T) {
	s := NewStore(8)
	id := uuid.New()

	if !s.Add(id) {
		t.Fatal("first add reported duplicate")
	}
	if s.Add(id) {
		t.Fatal("second add reported new")
	}
	if !s.Seen(id) || s.Len() != 1 {
		t.Fatalf("seen=%v len=%d", s.Seen(id), s.Len())
	}
}

func TestStoreEvictsOldest(t *testing.T) {
	s := NewStore(2)
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	s.Add(a)
	s.Add(b)
	s.Add(c)

	if s.Seen(a) {
		t.Error("oldest id not evicted")
	}
	if !s.Seen(b) || !s.Seen(c) {
		t.Error("recent ids evicted")
	}
	if s.Len() != 2 {
		t.Errorf("len = %d", s.Len())
	}

	// a is new again after eviction, and evicts b.
	if !s.Add(a) || s.Seen(b) {
		t.Error("ring did not advance")
	}
}

func TestStoreDefaultSize(t *testing.T) {
	if s := NewStore(0); s.limit != DefaultStoreSize {
		t.Fatalf("limit = %d", s.limit)
	}
}

func TestStoreConcurrentAdd(t *testing.T) {
	s := NewStore(64)
	id := uuid.New()

	var wg sync.WaitGroup
	var mu sync.Mutex
	added := 0
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Add(id) {
				mu.Lock()
				added++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if added != 1 {
		t.Fatalf("id added %d times", added)
	}
}
