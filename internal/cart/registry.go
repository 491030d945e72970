package cart

import "sync"

// Registry holds one Store per customer, keyed by user id. Stores are
// created lazily on first access and live until the logout handler calls
// Evict.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]*Store
}

func NewRegistry() *Registry {
	return &Registry{stores: map[string]*Store{}}
}

// ForUser returns the customer's basket, creating it on first use.
func (r *Registry) ForUser(userKey string) *Store {
	r.mu.RLock()
	store, ok := r.stores[userKey]
	r.mu.RUnlock()
	if ok {
		return store
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.stores[userKey]; ok {
		return store
	}
	store = NewStore()
	r.stores[userKey] = store
	return store
}

// Peek returns the basket without creating one.
func (r *Registry) Peek(userKey string) (*Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	store, ok := r.stores[userKey]
	return store, ok
}

// Evict drops the customer's basket entirely.
func (r *Registry) Evict(userKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, userKey)
}

// Len reports how many baskets are live.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stores)
}
