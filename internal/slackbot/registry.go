package slackbot

import "sync"

// Registry tracks which threads have an agent invocation in flight.
// All operations are atomic under a single lock, so a concurrent
// TryAcquire for the same key admits exactly one caller.
type Registry struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[string]struct{})}
}

// TryAcquire marks key as busy. It returns false, without mutating
// anything, if the key is already held.
func (r *Registry) TryAcquire(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.active[key]; busy {
		return false
	}
	r.active[key] = struct{}{}
	return true
}

// Release frees key. Releasing an absent key is a no-op.
func (r *Registry) Release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, key)
}

// Contains reports whether key is currently held.
func (r *Registry) Contains(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, busy := r.active[key]
	return busy
}

// Len returns the number of threads currently busy.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

// ThreadKey builds the registry key for a thread: the channel ID and the
// thread root timestamp joined by an underscore. The same key doubles as
// the agent session ID.
func ThreadKey(channel, rootTS string) string {
	return channel + "_" + rootTS
}
