// internal/game/types.go
//
// Core type definitions for the combinatorial game engine.
// Defines:
//   - ID: process-unique identity of a canonical position.
//   - node: the canonical (hash-consed) representation of a position.
//   - Value: an immutable handle onto a node plus a display label.
//   - Relation: outcome of comparing two values under the game order.

package game

import (
	"strconv"
	"strings"
)

// ID identifies a canonical position within an Engine. IDs are never reused,
// so a stale ID can never alias a newer position.
type ID uint64

func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// node is the canonical representation of a position. It is immutable once
// the store publishes it; left and right are in canonical order and hold no
// duplicates.
type node struct {
	id     ID
	left   []*node
	right  []*node
	digest uint64
	owner  *Store // store that interned this node
}

// Value is a handle onto a canonical position.
//
// The label is descriptive only: it takes no part in identity, digest or
// comparison. The zero Value is invalid and must not be passed to an Engine.
type Value struct {
	n     *node
	label string
}

// Valid reports whether v refers to a position.
func (v Value) Valid() bool { return v.n != nil }

// Label returns the display label, possibly empty.
func (v Value) Label() string { return v.label }

// WithLabel returns a handle onto the same position carrying label.
func (v Value) WithLabel(label string) Value { return Value{n: v.n, label: label} }

// ID returns the canonical identity of v.
func (v Value) ID() ID {
	if v.n == nil {
		return 0
	}
	return v.n.id
}

// Digest returns the structural digest of v.
func (v Value) Digest() uint64 {
	if v.n == nil {
		return 0
	}
	return v.n.digest
}

// Left returns the Left options of v in canonical order. Options carry no
// labels.
func (v Value) Left() []Value { return handles(v.n, func(n *node) []*node { return n.left }) }

// Right returns the Right options of v in canonical order.
func (v Value) Right() []Value { return handles(v.n, func(n *node) []*node { return n.right }) }

// Same reports whether v and w share one canonical representation. Two
// values can be equal in the game order without being the same.
func (v Value) Same(w Value) bool { return v.n != nil && v.n == w.n }

// String renders v structurally as {L1,L2|R1}. The form is for diagnostics
// only and ignores labels.
func (v Value) String() string {
	if v.n == nil {
		return "<invalid>"
	}
	var sb strings.Builder
	render(&sb, v.n)
	return sb.String()
}

func handles(n *node, pick func(*node) []*node) []Value {
	if n == nil {
		return nil
	}
	opts := pick(n)
	out := make([]Value, len(opts))
	for i, o := range opts {
		out[i] = Value{n: o}
	}
	return out
}

func render(sb *strings.Builder, n *node) {
	sb.WriteByte('{')
	for i, o := range n.left {
		if i > 0 {
			sb.WriteByte(',')
		}
		render(sb, o)
	}
	sb.WriteByte('|')
	for i, o := range n.right {
		if i > 0 {
			sb.WriteByte(',')
		}
		render(sb, o)
	}
	sb.WriteByte('}')
}

// Relation is the outcome of comparing G with H.
type Relation string

const (
	Equal    Relation = "="  // G <= H and H <= G
	Less     Relation = "<"  // G <= H only
	Greater  Relation = ">"  // H <= G only
	Confused Relation = "||" // neither
)
