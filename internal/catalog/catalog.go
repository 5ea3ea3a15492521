// internal/catalog/catalog.go
//
// Named game values backed by a definitions Store.
// Responsibilities:
//   - Evaluate definitions (options, sum, neg, sub) into game values.
//   - Bind names to values; names are write-once.
//   - Rebuild every binding at startup by replaying stored definitions.
//   - Seed built-in entries from YAML.
//
// Notes:
//   - A definition may only refer to names that already exist and names are
//     never rebound, so every catalog entry is a finite acyclic tree.
//   - Holding a Value in the catalog keeps its position alive in the engine.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/combgames/internal/game"
	"github.com/robalobadob/combgames/internal/store"
)

var (
	ErrInvalidName = errors.New("invalid name")
	ErrUnknownRef  = errors.New("unknown reference")
	ErrBadKind     = errors.New("bad definition")
)

var nameRE = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,32}$`)

// Catalog maps names to game values. It is safe for concurrent use.
type Catalog struct {
	engine *game.Engine
	store  store.Store

	mu     sync.RWMutex          // guards values, order, names
	values map[string]game.Value // keyed by name
	order  []string              // creation order
	names  map[game.ID]string    // first name bound to each position
}

// New builds a catalog over st, replaying every stored definition.
func New(ctx context.Context, e *game.Engine, st store.Store) (*Catalog, error) {
	c := &Catalog{
		engine: e,
		store:  st,
		values: make(map[string]game.Value),
		names:  make(map[game.ID]string),
	}
	defs, err := st.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	for _, d := range defs {
		v, err := c.Evaluate(d)
		if err != nil {
			return nil, fmt.Errorf("replay %q: %w", d.Name, err)
		}
		c.bind(d.Name, v)
	}
	log.Debug().Int("definitions", len(defs)).Msg("catalog replayed")
	return c, nil
}

// Engine returns the engine values are built in.
func (c *Catalog) Engine() *game.Engine { return c.engine }

// Evaluate builds the value d describes without binding it.
func (c *Catalog) Evaluate(d store.Definition) (game.Value, error) {
	refs, err := c.resolve(d.Refs())
	if err != nil {
		return game.Value{}, err
	}
	e := c.engine

	var v game.Value
	switch kind(d) {
	case store.KindOptions:
		if len(d.Args) > 0 {
			return game.Value{}, fmt.Errorf("%w: options take left/right, not args", ErrBadKind)
		}
		v = e.Make(refs[:len(d.Left)], refs[len(d.Left):], "")
	case store.KindSum:
		if err := arity(d, 1, -1); err != nil {
			return game.Value{}, err
		}
		v = e.Sum(refs...)
	case store.KindNeg:
		if err := arity(d, 1, 1); err != nil {
			return game.Value{}, err
		}
		v = e.Neg(refs[0])
	case store.KindSub:
		if err := arity(d, 2, 2); err != nil {
			return game.Value{}, err
		}
		v = e.Sub(refs[0], refs[1])
	default:
		return game.Value{}, fmt.Errorf("%w: unknown kind %q", ErrBadKind, d.Kind)
	}
	if d.Label != "" {
		v = v.WithLabel(d.Label)
	}
	return v, nil
}

func kind(d store.Definition) store.Kind {
	if d.Kind == "" {
		return store.KindOptions
	}
	return d.Kind
}

// arity checks the operator arguments; hi < 0 means unbounded.
func arity(d store.Definition, lo, hi int) error {
	if len(d.Left) > 0 || len(d.Right) > 0 {
		return fmt.Errorf("%w: %s takes args, not left/right", ErrBadKind, d.Kind)
	}
	n := len(d.Args)
	if n < lo || (hi >= 0 && n > hi) {
		return fmt.Errorf("%w: %s with %d args", ErrBadKind, d.Kind, n)
	}
	return nil
}

func (c *Catalog) resolve(names []string) ([]game.Value, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]game.Value, len(names))
	for i, name := range names {
		v, ok := c.values[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRef, name)
		}
		out[i] = v
	}
	return out, nil
}

// Define evaluates d, persists it and binds its name.
func (c *Catalog) Define(ctx context.Context, d store.Definition) (game.Value, error) {
	if !nameRE.MatchString(d.Name) {
		return game.Value{}, fmt.Errorf("%w: %q", ErrInvalidName, d.Name)
	}
	d.Kind = kind(d)
	if _, err := c.Lookup(d.Name); err == nil {
		return game.Value{}, fmt.Errorf("define %q: %w", d.Name, store.ErrExists)
	}

	v, err := c.Evaluate(d)
	if err != nil {
		return game.Value{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.values[d.Name]; ok {
		return game.Value{}, fmt.Errorf("define %q: %w", d.Name, store.ErrExists)
	}
	if err := c.store.Save(ctx, d); err != nil {
		return game.Value{}, err
	}
	c.bindLocked(d.Name, v)
	log.Info().Str("name", d.Name).Str("kind", string(d.Kind)).Uint64("id", uint64(v.ID())).Msg("defined")
	return v, nil
}

func (c *Catalog) bind(name string, v game.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindLocked(name, v)
}

func (c *Catalog) bindLocked(name string, v game.Value) {
	c.values[name] = v
	c.order = append(c.order, name)
	if _, ok := c.names[v.ID()]; !ok {
		c.names[v.ID()] = name
	}
}

// Lookup returns the value bound to name.
func (c *Catalog) Lookup(name string) (game.Value, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.values[name]; ok {
		return v, nil
	}
	return game.Value{}, fmt.Errorf("lookup %q: %w", name, store.ErrNotFound)
}

// NameOf returns the first name bound to v's position, if any.
func (c *Catalog) NameOf(v game.Value) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.names[v.ID()]
	return name, ok
}

// Names returns every bound name in creation order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.order)
}

// Definition returns the stored definition of name.
func (c *Catalog) Definition(ctx context.Context, name string) (store.Definition, error) {
	return c.store.Get(ctx, name)
}

// Seed defines every entry of a YAML list of definitions whose name is not
// bound yet, in file order. It returns how many entries were added.
func (c *Catalog) Seed(ctx context.Context, data []byte) (int, error) {
	var defs []store.Definition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return 0, fmt.Errorf("parse seed: %w", err)
	}
	added := 0
	for _, d := range defs {
		if _, err := c.Lookup(d.Name); err == nil {
			continue
		}
		if _, err := c.Define(ctx, d); err != nil {
			return added, fmt.Errorf("seed %q: %w", d.Name, err)
		}
		added++
	}
	log.Info().Int("added", added).Int("entries", len(defs)).Msg("catalog seeded")
	return added, nil
}
