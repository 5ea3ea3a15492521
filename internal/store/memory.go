// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used when durability is not required (STORE=memory) and in tests.
//
// Characteristics:
//   - Definitions keyed by name in a map, creation order kept in a slice.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex          // guards defs and order
	defs  map[string]Definition // keyed by Definition.Name
	order []string              // names in creation order
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{defs: make(map[string]Definition)}
}

// Save inserts d. Names are write-once.
func (m *memory) Save(ctx context.Context, d Definition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.defs[d.Name]; ok {
		return fmt.Errorf("save %q: %w", d.Name, ErrExists)
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	m.defs[d.Name] = d.clone()
	m.order = append(m.order, d.Name)
	return nil
}

// Get looks up a definition by name.
func (m *memory) Get(ctx context.Context, name string) (Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.defs[name]; ok {
		return d.clone(), nil
	}
	return Definition{}, fmt.Errorf("get %q: %w", name, ErrNotFound)
}

// List returns every definition in creation order.
func (m *memory) List(ctx context.Context) ([]Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Definition, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.defs[name].clone())
	}
	return out, nil
}
