// Package session persists per-terminal carts between HTTP requests. The
// cart itself stays a pure in-memory value; only this layer does I/O.
package session

import (
	"context"
	"sync"

	"github.com/tindahan/pos-backend/internal/entity"
)

// Store holds one cart per terminal. Load returns an empty cart for a
// terminal that has none yet.
type Store interface {
	Load(ctx context.Context, terminalID string) (*entity.Cart, error)
	Save(ctx context.Context, terminalID string, cart *entity.Cart) error
	Clear(ctx context.Context, terminalID string) error
}

// MemoryStore keeps carts in process memory. Suitable for tests and
// single-process deployments.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]*entity.Cart
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]*entity.Cart)}
}

func (s *MemoryStore) Load(_ context.Context, terminalID string) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[terminalID]; ok {
		// Hand out a copy so callers mutate their own working set.
		cp := entity.Cart{Lines: append([]entity.CartLine(nil), c.Lines...)}
		return &cp, nil
	}
	return entity.NewCart(), nil
}

func (s *MemoryStore) Save(_ context.Context, terminalID string, cart *entity.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := entity.Cart{Lines: append([]entity.CartLine(nil), cart.Lines...)}
	s.carts[terminalID] = &cp
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, terminalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, terminalID)
	return nil
}
