package game

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

type memoKey interface {
	comparable
	String() string
}

// pairKey is an ordered pair of identities.
type pairKey struct{ a, b ID }

func (k pairKey) String() string { return k.a.String() + ":" + k.b.String() }

// memo is one memo table. The lock is held only while an entry is read or
// written, never while a value is being computed, so computations are free
// to recurse into the same table. Concurrent misses on one key share a
// single computation.
type memo[K memoKey, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
	flight  singleflight.Group
	enabled bool

	hits       atomic.Int64
	misses     atomic.Int64
	hitMetric  prometheus.Counter
	missMetric prometheus.Counter
}

func newMemo[K memoKey, V any](table string, enabled bool) *memo[K, V] {
	return &memo[K, V]{
		entries:    make(map[K]V),
		enabled:    enabled,
		hitMetric:  memoLookupsTotal.WithLabelValues(table, "hit"),
		missMetric: memoLookupsTotal.WithLabelValues(table, "miss"),
	}
}

func (m *memo[K, V]) get(k K) (V, bool) {
	m.mu.RLock()
	v, ok := m.entries[k]
	m.mu.RUnlock()
	return v, ok
}

// put records v for k unless an entry already exists.
func (m *memo[K, V]) put(k K, v V) {
	if !m.enabled {
		return
	}
	m.mu.Lock()
	if _, ok := m.entries[k]; !ok {
		m.entries[k] = v
	}
	m.mu.Unlock()
}

// do returns the value recorded for k, computing and recording it with fn
// on a miss. With the table disabled fn runs every time.
func (m *memo[K, V]) do(k K, fn func() V) V {
	if !m.enabled {
		return fn()
	}
	if v, ok := m.get(k); ok {
		m.hits.Add(1)
		m.hitMetric.Inc()
		return v
	}
	m.misses.Add(1)
	m.missMetric.Inc()

	res, _, _ := m.flight.Do(k.String(), func() (interface{}, error) {
		// Double-check: another flight may have finished while we waited.
		if v, ok := m.get(k); ok {
			return v, nil
		}
		v := fn()
		m.put(k, v)
		return v, nil
	})
	return res.(V)
}

func (m *memo[K, V]) size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *memo[K, V]) reset() {
	m.mu.Lock()
	clear(m.entries)
	m.mu.Unlock()
}
