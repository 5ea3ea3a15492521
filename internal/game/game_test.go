package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtures holds the small positions most tests are phrased in.
type fixtures struct {
	e        *Engine
	zero     Value
	one      Value
	minusOne Value
	star     Value
	two      Value
	half     Value
	up       Value // {0|*}
	down     Value // {*|0}
}

func newFixtures(t *testing.T, opts ...Option) fixtures {
	t.Helper()
	e := New(opts...)
	f := fixtures{e: e, zero: e.Zero()}
	z := []Value{f.zero}
	f.one = e.Make(z, nil, "1")
	f.minusOne = e.Make(nil, z, "-1")
	f.star = e.Make(z, z, "*")
	f.two = e.Make([]Value{f.one}, nil, "2")
	f.half = e.Make(z, []Value{f.one}, "1/2")
	f.up = e.Make(z, []Value{f.star}, "^")
	f.down = e.Make([]Value{f.star}, z, "v")
	return f
}

func (f fixtures) all() []Value {
	return []Value{f.zero, f.one, f.minusOne, f.star, f.two, f.half, f.up, f.down}
}

func TestCombine(t *testing.T) {
	const zero = uint64(0x9e3779b97f4a7c13)

	assert.Equal(t, zero, Combine(nil, nil), "empty position digest is the differentiator")
	assert.Equal(t, uint64(0xcd94bf157aa9994a), Combine([]uint64{zero}, nil))
	assert.Equal(t, uint64(0xcd94bf3130b9e583), Combine(nil, []uint64{zero}))
	assert.Equal(t, uint64(0xfb58d1cb5c3b37d4), Combine([]uint64{zero}, []uint64{zero}))

	a, b := uint64(17), uint64(4242)
	assert.NotEqual(t, Combine([]uint64{a}, []uint64{b}), Combine([]uint64{b}, []uint64{a}),
		"swapping Left and Right must change the digest")
}

func TestMake_CanonicalIdentity(t *testing.T) {
	f := newFixtures(t)
	e := f.e

	again := e.Make([]Value{f.zero}, []Value{f.zero}, "")
	assert.True(t, again.Same(f.star))
	assert.Equal(t, f.star.ID(), again.ID())

	// Option order and duplicates do not matter.
	a := e.Make([]Value{f.one, f.zero, f.star}, []Value{f.two}, "")
	b := e.Make([]Value{f.star, f.one, f.zero, f.one}, []Value{f.two, f.two}, "")
	assert.True(t, a.Same(b))
	assert.Len(t, a.Left(), 3)
	assert.Len(t, a.Right(), 1)
}

func TestMake_LabelIndependence(t *testing.T) {
	f := newFixtures(t)

	other := f.e.Make([]Value{f.zero.WithLabel("nothing")}, nil, "uno")
	assert.True(t, other.Same(f.one))
	assert.Equal(t, f.one.Digest(), other.Digest())
	assert.Equal(t, "uno", other.Label())
	assert.Equal(t, "1", f.one.Label())
	assert.True(t, f.e.Eq(other, f.one))
}

func TestMake_EqualIsNotIdentical(t *testing.T) {
	f := newFixtures(t)

	starStar := f.e.Add(f.star, f.star)
	assert.True(t, f.e.Eq(starStar, f.zero))
	assert.False(t, starStar.Same(f.zero))
}

func TestValue_Accessors(t *testing.T) {
	f := newFixtures(t)

	require.Len(t, f.one.Left(), 1)
	assert.True(t, f.one.Left()[0].Same(f.zero))
	assert.Empty(t, f.one.Right())
	assert.Empty(t, f.zero.Left())

	assert.Equal(t, "{|}", f.zero.String())
	assert.Equal(t, "{{|}|}", f.one.String())
	assert.Equal(t, "{{|}|{|}}", f.star.String())
	assert.Equal(t, "<invalid>", Value{}.String())

	assert.True(t, f.one.Valid())
	assert.False(t, Value{}.Valid())
	assert.Zero(t, Value{}.ID())
}

func TestEngine_Misuse(t *testing.T) {
	f := newFixtures(t)
	other := New()

	assert.PanicsWithValue(t, "game: use of invalid Value", func() {
		f.e.Leq(Value{}, f.zero)
	})
	assert.Panics(t, func() { other.Add(f.one, other.Zero()) })
	assert.Panics(t, func() { other.Make([]Value{f.one}, nil, "") })
}
