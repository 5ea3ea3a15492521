// internal/store/definition.go
//
// Persistence interface for catalog definitions.
// A Definition records how a named position was built, never the position
// itself: replaying definitions in creation order rebuilds the catalog.

package store

import (
	"context"
	"errors"
	"slices"
	"time"
)

var (
	// ErrNotFound is returned when no definition has the requested name.
	ErrNotFound = errors.New("definition not found")
	// ErrExists is returned when saving a name that is already taken.
	ErrExists = errors.New("definition already exists")
)

// Kind says how a definition builds its position.
type Kind string

const (
	KindOptions Kind = "options" // {Left | Right}
	KindSum     Kind = "sum"     // Args[0] + Args[1] + ...
	KindNeg     Kind = "neg"     // -Args[0]
	KindSub     Kind = "sub"     // Args[0] - Args[1]
)

// Definition is one named entry of the catalog.
type Definition struct {
	Name      string    `json:"name" yaml:"name"`
	Label     string    `json:"label,omitempty" yaml:"label,omitempty"`
	Kind      Kind      `json:"kind" yaml:"kind"`
	Left      []string  `json:"left,omitempty" yaml:"left,omitempty"`   // KindOptions
	Right     []string  `json:"right,omitempty" yaml:"right,omitempty"` // KindOptions
	Args      []string  `json:"args,omitempty" yaml:"args,omitempty"`   // operator kinds
	OwnerID   string    `json:"ownerId,omitempty" yaml:"-"`
	CreatedAt time.Time `json:"createdAt" yaml:"-"`
}

// Refs returns every name d refers to.
func (d Definition) Refs() []string {
	out := make([]string, 0, len(d.Left)+len(d.Right)+len(d.Args))
	out = append(out, d.Left...)
	out = append(out, d.Right...)
	return append(out, d.Args...)
}

func (d Definition) clone() Definition {
	d.Left = slices.Clone(d.Left)
	d.Right = slices.Clone(d.Right)
	d.Args = slices.Clone(d.Args)
	return d
}

// Store defines the persistence interface for definitions.
// Implementations may be backed by memory (NewMemoryStore) or SQLite
// (NewSQLiteStore).
type Store interface {
	// Save persists a new definition. Returns ErrExists if the name is taken.
	Save(ctx context.Context, d Definition) error

	// Get retrieves a definition by name.
	// Returns ErrNotFound if missing.
	Get(ctx context.Context, name string) (Definition, error)

	// List returns all definitions in creation order.
	List(ctx context.Context) ([]Definition, error)
}
