package bridge

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/hupe1980/hostbridge/core"
)

// Registry maps logic instances to their live execution context. Owners are
// used as map keys and must be comparable; pointers are the usual choice.
type Registry struct {
	mu      sync.RWMutex
	entries map[any]*Context
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[any]*Context)}
}

// Register associates hc with owner. It fails with a UsageError when owner
// already has a registered context.
func (r *Registry) Register(owner any, hc *Context) error {
	if err := checkOwner("register", owner); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.entries[owner]; ok && existing != hc {
		return core.NewUsageError("register", fmt.Sprintf("%T already has a live execution context (%s)", owner, existing.ID()))
	}
	r.entries[owner] = hc
	return nil
}

// Unregister removes the association if owner is still bound to hc.
func (r *Registry) Unregister(owner any, hc *Context) bool {
	if checkOwner("unregister", owner) != nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries[owner] != hc {
		return false
	}
	delete(r.entries, owner)
	return true
}

// Lookup returns the live context of owner. A closed context is still live
// while its queue drains, so stops can reach the queued actions; disposed
// contexts are never returned.
func (r *Registry) Lookup(owner any) (*Context, bool) {
	if checkOwner("lookup", owner) != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	hc, ok := r.entries[owner]
	if !ok || hc.IsDisposed() {
		return nil, false
	}
	return hc, true
}

// Len returns the number of registered contexts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func checkOwner(op string, owner any) error {
	if owner == nil {
		return core.NewUsageError(op, "owner must not be nil")
	}
	if !reflect.TypeOf(owner).Comparable() {
		return core.NewUsageError(op, fmt.Sprintf("owner type %T is not comparable", owner))
	}
	return nil
}
