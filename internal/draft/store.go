package draft

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jcmexdev/pos-counter/internal/domain"
)

// Store keeps the live draft sessions in memory, keyed by a generated id.
// Mutations run through Update so a draft is only ever touched by one
// request at a time.
type Store struct {
	mu     sync.RWMutex
	drafts map[string]*Draft
}

func NewStore() *Store {
	return &Store{drafts: make(map[string]*Draft)}
}

// Put registers a draft and returns its session id.
func (s *Store) Put(d *Draft) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[id] = d
	return id
}

// Get returns a read-only view of the draft.
func (s *Store) Get(id string) (*Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return d, nil
}

// Update runs fn against the draft while holding the store lock.
func (s *Store) Update(id string, fn func(*Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return domain.ErrDraftNotFound
	}
	return fn(d)
}

// Delete discards the session, typically after a successful submit.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
}
