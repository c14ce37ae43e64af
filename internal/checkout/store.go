package checkout

import (
	"sync"

	"github.com/jcmexdev/pos-counter/internal/checkout/receiptlog"
	"github.com/jcmexdev/pos-counter/internal/domain"
)

// Store holds the live checkout sessions, keyed by sale id. One session per
// sale; beginning a checkout for a sale that already has one resumes it.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Checkout
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Checkout)}
}

// Begin opens (or resumes) the session for the given sale.
func (s *Store) Begin(sale domain.Sale, svc Finalizer, printer Printer, log receiptlog.Repository) (*Checkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.sessions[sale.ID]; ok {
		return c, nil
	}
	c, err := Begin(sale, svc, printer, log)
	if err != nil {
		return nil, err
	}
	s.sessions[sale.ID] = c
	return c, nil
}

// Update runs fn against the session while holding the store lock.
func (s *Store) Update(saleID string, fn func(*Checkout) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.sessions[saleID]
	if !ok {
		return &domain.NotFoundError{Kind: "checkout", ID: saleID}
	}
	return fn(c)
}

// End discards the session, after finalization or when the user leaves the
// flow for the edit screen.
func (s *Store) End(saleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, saleID)
}
