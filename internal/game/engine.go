// internal/game/engine.go
//
// Evaluation context for combinatorial game values.
// Responsibilities:
//   - Own the canonical store and the three memo tables (leq, sum, neg).
//   - Construct values from option lists (Make, Zero).
//   - Report and manage cache state (Stats, Sweep, Reset).
//
// Notes:
//   - Nothing here is package-global: every Engine is isolated, so tests can
//     start from a clean slate.
//   - Values belong to the Engine that made them. Mixing engines panics.
//   - Inputs must be finite and acyclic; a deeper tree only means deeper
//     recursion, there is no depth limit and no error path.

package game

import "fmt"

// Engine builds, compares and combines game values. It is safe for
// concurrent use.
type Engine struct {
	store *Store
	leqs  *memo[pairKey, bool]
	sums  *memo[pairKey, *node]
	negs  *memo[ID, *node]
	zero  *node
}

// Options configures an Engine.
type Options struct {
	// Digest computes structural digests. Default: Combine.
	Digest DigestFunc

	// Memo enables the memo tables. Default: true.
	Memo bool
}

// DefaultOptions returns the options used by New without arguments.
func DefaultOptions() Options {
	return Options{Digest: Combine, Memo: true}
}

// Option is a functional option for New.
type Option func(*Options)

// WithDigest replaces the digest function. Mainly useful to force
// collisions in tests.
func WithDigest(fn DigestFunc) Option {
	return func(o *Options) {
		if fn != nil {
			o.Digest = fn
		}
	}
}

// WithoutMemo disables the memo tables; every query is evaluated afresh.
func WithoutMemo() Option {
	return func(o *Options) { o.Memo = false }
}

// New returns an Engine with an empty store and empty memo tables.
func New(opts ...Option) *Engine {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	e := &Engine{
		store: newStore(o.Digest),
		leqs:  newMemo[pairKey, bool]("leq", o.Memo),
		sums:  newMemo[pairKey, *node]("sum", o.Memo),
		negs:  newMemo[ID, *node]("neg", o.Memo),
	}
	e.zero = e.store.intern(nil, nil)
	return e
}

// Make returns the value with the given Left and Right options. Option
// order and duplicates are irrelevant; the result is the single canonical
// position for that content.
func (e *Engine) Make(left, right []Value, label string) Value {
	return Value{
		n:     e.store.intern(e.nodes(left), e.nodes(right)),
		label: label,
	}
}

// Zero returns {|}, labelled "0".
func (e *Engine) Zero() Value { return Value{n: e.zero, label: "0"} }

func (e *Engine) nodes(vs []Value) []*node {
	if len(vs) == 0 {
		return nil
	}
	out := make([]*node, len(vs))
	for i, v := range vs {
		out[i] = e.own(v)
	}
	return out
}

// own returns v's position, panicking if v is invalid or foreign.
func (e *Engine) own(v Value) *node {
	switch {
	case v.n == nil:
		panic("game: use of invalid Value")
	case v.n.owner != e.store:
		panic(fmt.Sprintf("game: value %s (id %d) belongs to another Engine", v.label, v.n.id))
	}
	return v.n
}

// Stats is a snapshot of an Engine's store and memo tables.
type Stats struct {
	Entries    int   `json:"entries"`    // registry entries, live or not
	Live       int   `json:"live"`       // registry entries still reachable
	Buckets    int   `json:"buckets"`    // distinct digests
	Interned   int64 `json:"interned"`   // positions created
	Reused     int64 `json:"reused"`     // interns answered by an existing position
	Collisions int64 `json:"collisions"` // digest matches that were not structural matches
	Evicted    int64 `json:"evicted"`    // registry entries dropped

	Leq  TableStats `json:"leq"`
	Sum  TableStats `json:"sum"`
	Neg  TableStats `json:"neg"`
	Memo bool       `json:"memo"`
}

// TableStats describes one memo table.
type TableStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Stats returns current counters.
func (e *Engine) Stats() Stats {
	entries, live, buckets := e.store.counts()
	return Stats{
		Entries:    entries,
		Live:       live,
		Buckets:    buckets,
		Interned:   e.store.interned.Load(),
		Reused:     e.store.reused.Load(),
		Collisions: e.store.collisions.Load(),
		Evicted:    e.store.evicted.Load(),
		Leq:        tableStats(e.leqs),
		Sum:        tableStats(e.sums),
		Neg:        tableStats(e.negs),
		Memo:       e.leqs.enabled,
	}
}

func tableStats[K memoKey, V any](m *memo[K, V]) TableStats {
	return TableStats{Entries: m.size(), Hits: m.hits.Load(), Misses: m.misses.Load()}
}

// Sweep drops registry entries of reclaimed positions and returns how many
// were removed.
func (e *Engine) Sweep() int { return e.store.sweep() }

// Reset empties the memo tables. Positions held only by memo entries become
// reclaimable.
func (e *Engine) Reset() {
	e.leqs.reset()
	e.sums.reset()
	e.negs.reset()
}
