// internal/game/arith.go
//
// Sum, negation and difference of game values.
//
//   G + H := {G+HL, GL+H | G+HR, GR+H}
//   -G    := {-GR | -GL}
//   G - H := G + (-H)
//
// Sum and negation recurse through their own memo tables; difference is
// composed from the two and has no table of its own.

package game

import "strings"

// negMarker prefixes the label of a negated value.
const negMarker = "-"

// Add returns G + H. The result carries no label.
func (e *Engine) Add(g, h Value) Value {
	return Value{n: e.add(e.own(g), e.own(h))}
}

func (e *Engine) add(g, h *node) *node {
	return e.sums.do(pairKey{g.id, h.id}, func() *node {
		left := make([]*node, 0, len(g.left)+len(h.left))
		for _, hl := range h.left {
			left = append(left, e.add(g, hl))
		}
		for _, gl := range g.left {
			left = append(left, e.add(gl, h))
		}

		right := make([]*node, 0, len(g.right)+len(h.right))
		for _, hr := range h.right {
			right = append(right, e.add(g, hr))
		}
		for _, gr := range g.right {
			right = append(right, e.add(gr, h))
		}

		s := e.store.intern(left, right)
		// Sum is commutative; record the swapped pair as well.
		e.sums.put(pairKey{h.id, g.id}, s)
		return s
	})
}

// Neg returns -G. See negLabel for how the label is derived.
func (e *Engine) Neg(g Value) Value {
	return Value{n: e.neg(e.own(g)), label: negLabel(g.label)}
}

func (e *Engine) neg(g *node) *node {
	return e.negs.do(g.id, func() *node {
		left := make([]*node, len(g.right))
		for i, gr := range g.right {
			left[i] = e.neg(gr)
		}
		right := make([]*node, len(g.left))
		for i, gl := range g.left {
			right[i] = e.neg(gl)
		}

		n := e.store.intern(left, right)
		// Negation is an involution.
		e.negs.put(n.id, g)
		return n
	})
}

// negLabel prefixes negMarker, or strips it when label already starts with
// one, so repeated negation alternates between two labels. Empty stays
// empty.
func negLabel(label string) string {
	switch {
	case label == "":
		return ""
	case strings.HasPrefix(label, negMarker):
		return strings.TrimPrefix(label, negMarker)
	default:
		return negMarker + label
	}
}

// Sub returns G - H, unlabelled.
func (e *Engine) Sub(g, h Value) Value {
	return e.Add(g, Value{n: e.neg(e.own(h))})
}

// Sum returns the sum of vs, or zero when vs is empty. The result carries
// no label.
func (e *Engine) Sum(vs ...Value) Value {
	acc := e.zero
	for _, v := range vs {
		acc = e.add(acc, e.own(v))
	}
	return Value{n: acc}
}
