// Package chat holds per-connection chat state.
package chat

import (
	"sync"

	"github.com/google/uuid"
)

// DefaultStoreSize bounds how many message ids a connection remembers.
const DefaultStoreSize = 512

// Store tracks the message ids already delivered on one connection so a
// message arriving twice (history page plus live event, or the sender's own
// echo) is only written once. It is created when a stream opens and
// discarded when it closes.
type Store struct {
	mu    sync.Mutex
	seen  map[uuid.UUID]struct{}
	order []uuid.UUID
	next  int
	limit int
}

// NewStore creates a Store remembering at most limit ids.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultStoreSize
	}
	return &Store{
		seen:  make(map[uuid.UUID]struct{}, limit),
		order: make([]uuid.UUID, 0, limit),
		limit: limit,
	}
}

// Add records id and reports whether it was new. Once full, the oldest id is
// forgotten.
func (s *Store) Add(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[id]; ok {
		return false
	}

	if len(s.order) < s.limit {
		s.order = append(s.order, id)
	} else {
		delete(s.seen, s.order[s.next])
		s.order[s.next] = id
		s.next = (s.next + 1) % s.limit
	}
	s.seen[id] = struct{}{}
	return true
}

// Seen reports whether id was already added.
func (s *Store) Seen(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[id]
	return ok
}

// Len returns the number of remembered ids.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
