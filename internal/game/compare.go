package game

// Leq reports whether G <= H: no Left option GL of G has H <= GL, and no
// Right option HR of H has HR <= G.
func (e *Engine) Leq(g, h Value) bool { return e.leq(e.own(g), e.own(h)) }

func (e *Engine) leq(g, h *node) bool {
	if g == h {
		return true
	}
	// leq is not symmetric: the key is the ordered pair.
	return e.leqs.do(pairKey{g.id, h.id}, func() bool {
		for _, gl := range g.left {
			if e.leq(h, gl) {
				return false
			}
		}
		for _, hr := range h.right {
			if e.leq(hr, g) {
				return false
			}
		}
		return true
	})
}

// Geq reports whether G >= H.
func (e *Engine) Geq(g, h Value) bool { return e.Leq(h, g) }

// Eq reports whether G and H are equal in the game order. Equal values need
// not share a canonical representation.
func (e *Engine) Eq(g, h Value) bool { return e.Leq(g, h) && e.Leq(h, g) }

// Neq reports whether G and H are not equal.
func (e *Engine) Neq(g, h Value) bool { return !e.Eq(g, h) }

// Lt reports whether G < H.
func (e *Engine) Lt(g, h Value) bool { return e.Leq(g, h) && !e.Leq(h, g) }

// Gt reports whether G > H.
func (e *Engine) Gt(g, h Value) bool { return e.Lt(h, g) }

// Confused reports whether G and H are incomparable (G || H).
func (e *Engine) Confused(g, h Value) bool { return !e.Leq(g, h) && !e.Leq(h, g) }

// Compare classifies the pair with two leq evaluations.
func (e *Engine) Compare(g, h Value) Relation {
	le, ge := e.Leq(g, h), e.Leq(h, g)
	switch {
	case le && ge:
		return Equal
	case le:
		return Less
	case ge:
		return Greater
	default:
		return Confused
	}
}
