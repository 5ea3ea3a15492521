// internal/game/store.go
//
// Canonical store: the hash-consing registry behind every Value.
//
//   - Positions are keyed by structural digest; each key holds a chain so that
//     digest collisions get distinct positions instead of being conflated.
//   - The registry holds weak pointers only. Lifetime is decided by the
//     ordinary references held by values, other positions and memo tables.
//   - Entries whose position has been reclaimed are dropped when a lookup
//     walks past them, or eagerly by Sweep.

package game

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/rs/zerolog/log"
)

// Store interns canonical positions. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex                      // guards buckets
	buckets map[uint64][]weak.Pointer[node] // keyed by digest
	digest  DigestFunc
	lastID  atomic.Uint64

	interned   atomic.Int64
	reused     atomic.Int64
	collisions atomic.Int64
	evicted    atomic.Int64
}

func newStore(digest DigestFunc) *Store {
	if digest == nil {
		digest = Combine
	}
	return &Store{
		buckets: make(map[uint64][]weak.Pointer[node]),
		digest:  digest,
	}
}

// intern returns the single live position with the given options, creating
// it if absent. The options must themselves be canonical positions of s.
func (s *Store) intern(left, right []*node) *node {
	left = canonical(left)
	right = canonical(right)
	d := s.digest(digests(left), digests(right))

	s.mu.Lock()
	defer s.mu.Unlock()

	chain := s.buckets[d]
	live := chain[:0]
	var found *node
	for _, wp := range chain {
		n := wp.Value()
		if n == nil {
			s.evicted.Add(1)
			storeEvictionsTotal.Inc()
			continue
		}
		live = append(live, wp)
		if found == nil && slices.Equal(n.left, left) && slices.Equal(n.right, right) {
			found = n
		}
	}
	clear(chain[len(live):])

	if found != nil {
		s.buckets[d] = live
		s.reused.Add(1)
		storeInternsTotal.WithLabelValues("reused").Inc()
		return found
	}

	if len(live) > 0 {
		s.collisions.Add(1)
		storeInternsTotal.WithLabelValues("collision").Inc()
		log.Debug().
			Uint64("digest", d).
			Int("chain", len(live)+1).
			Msg("digest collision, chaining new position")
	}

	n := &node{
		id:     ID(s.lastID.Add(1)),
		left:   left,
		right:  right,
		digest: d,
		owner:  s,
	}
	s.buckets[d] = append(live, weak.Make(n))
	s.interned.Add(1)
	storeInternsTotal.WithLabelValues("created").Inc()
	return n
}

// sweep drops every registry entry whose position has been reclaimed and
// returns how many were removed.
func (s *Store) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for d, chain := range s.buckets {
		live := chain[:0]
		for _, wp := range chain {
			if wp.Value() != nil {
				live = append(live, wp)
			}
		}
		gone := len(chain) - len(live)
		if gone == 0 {
			continue
		}
		removed += gone
		clear(chain[len(live):])
		if len(live) == 0 {
			delete(s.buckets, d)
		} else {
			s.buckets[d] = live
		}
	}
	if removed > 0 {
		s.evicted.Add(int64(removed))
		storeEvictionsTotal.Add(float64(removed))
		log.Debug().Int("removed", removed).Msg("swept canonical store")
	}
	return removed
}

// counts reports registry entries and how many of them are still live.
func (s *Store) counts() (entries, live, buckets int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chain := range s.buckets {
		entries += len(chain)
		for _, wp := range chain {
			if wp.Value() != nil {
				live++
			}
		}
	}
	return entries, live, len(s.buckets)
}

// canonical returns opts ordered by (digest, id) with duplicates removed.
// Tied options share a digest, so their relative order cannot change the
// digest of the enclosing position.
func canonical(opts []*node) []*node {
	if len(opts) == 0 {
		return nil
	}
	out := slices.Clone(opts)
	slices.SortFunc(out, func(a, b *node) int {
		if c := cmp.Compare(a.digest, b.digest); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	return slices.Compact(out)
}
