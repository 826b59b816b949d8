package fleet

import (
	"sort"
	"sync"
)

// Registry tracks live workers by name. It implements worker.Accountant,
// so passing it to worker.WithAccountant keeps the census current as
// workers are created and deleted. Safe for concurrent use.
type Registry struct {
	mu   sync.Mutex
	live map[string]struct{}
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{live: make(map[string]struct{})}
}

// WorkerCreated records name as live.
func (r *Registry) WorkerCreated(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[name] = struct{}{}
}

// WorkerDeleted removes name from the census. Unknown names are ignored.
func (r *Registry) WorkerDeleted(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.live, name)
}

// Count reports how many workers are live.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// Names returns the live worker names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.live))
	for n := range r.live {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
