package storage

import "sync"

// Registry is a concurrency-safe in-memory map. It keeps per-chat values such
// as learning sessions and the last reminder message.
type Registry[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// NewRegistry creates an empty Registry.
func NewRegistry[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		items: make(map[K]V),
	}
}

// Store saves a value under key, replacing any previous one.
func (r *Registry[K, V]) Store(key K, v V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = v
}

// Get retrieves the value stored under key.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[key]
	return v, ok
}

// GetOrCreate returns the value under key, storing the result of create first
// if there is none. create runs at most once per missing key.
func (r *Registry[K, V]) GetOrCreate(key K, create func() V) (V, bool) {
	r.mu.RLock()
	v, ok := r.items[key]
	r.mu.RUnlock()
	if ok {
		return v, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.items[key]; ok {
		return v, false
	}
	v = create()
	r.items[key] = v
	return v, true
}

// Delete removes the value under key and returns it.
func (r *Registry[K, V]) Delete(key K) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[key]
	delete(r.items, key)
	return v, ok
}

// Len returns the number of stored values.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
