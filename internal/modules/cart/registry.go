package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Registry owns one cart per session.
type Registry struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[uuid.UUID]*Cart)}
}

// For returns the session's cart, creating an empty one on first use.
func (r *Registry) For(sessionID uuid.UUID) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[sessionID]
	if !ok {
		c = New()
		r.carts[sessionID] = c
	}
	return c
}

// Drop forgets the session's cart.
func (r *Registry) Drop(sessionID uuid.UUID) {
	r.mu.Lock()
	delete(r.carts, sessionID)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}
