package cart

import "sync"

// Registry holds one cart per portal session. Carts live in process memory
// only and disappear with the session or the process.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: map[string]*Cart{}}
}

// ForSession returns the session's cart, creating an empty one on first use.
func (r *Registry) ForSession(sessionID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.carts[sessionID]; ok {
		return existing
	}
	created := New()
	r.carts[sessionID] = created
	return created
}

// Drop discards a session's cart, typically on logout or session expiry.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
}

// Len reports how many session carts are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}
