package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// sqliteStore persists definitions in the definitions table (see
// assets/sql). Name lists are stored as JSON arrays.
type sqliteStore struct{ db *sql.DB }

// NewSQLiteStore returns a Store backed by db. The schema must already be
// migrated.
func NewSQLiteStore(db *sql.DB) Store { return &sqliteStore{db: db} }

func (s *sqliteStore) Save(ctx context.Context, d Definition) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	left, err := encodeNames(d.Left)
	if err != nil {
		return err
	}
	right, err := encodeNames(d.Right)
	if err != nil {
		return err
	}
	args, err := encodeNames(d.Args)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO definitions(name, label, kind, left_opts, right_opts, args, owner_id, created_at)
VALUES(?,?,?,?,?,?,?,?)`,
		d.Name, d.Label, string(d.Kind), left, right, args,
		sql.NullString{String: d.OwnerID, Valid: d.OwnerID != ""},
		d.CreatedAt.Format(time.RFC3339Nano),
	)
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) && sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("save %q: %w", d.Name, ErrExists)
	}
	if err != nil {
		return fmt.Errorf("save %q: %w", d.Name, err)
	}
	return nil
}

const selectDefinition = `SELECT name, label, kind, left_opts, right_opts, args, COALESCE(owner_id,''), created_at
FROM definitions`

func (s *sqliteStore) Get(ctx context.Context, name string) (Definition, error) {
	row := s.db.QueryRowContext(ctx, selectDefinition+` WHERE name=?`, name)
	d, err := scanDefinition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Definition{}, fmt.Errorf("get %q: %w", name, ErrNotFound)
	}
	return d, err
}

func (s *sqliteStore) List(ctx context.Context) ([]Definition, error) {
	rows, err := s.db.QueryContext(ctx, selectDefinition+` ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Definition
	for rows.Next() {
		d, err := scanDefinition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDefinition(sc scanner) (Definition, error) {
	var (
		d                 Definition
		kind, created     string
		left, right, args string
	)
	if err := sc.Scan(&d.Name, &d.Label, &kind, &left, &right, &args, &d.OwnerID, &created); err != nil {
		return Definition{}, err
	}
	d.Kind = Kind(kind)
	for _, f := range []struct {
		src string
		dst *[]string
	}{{left, &d.Left}, {right, &d.Right}, {args, &d.Args}} {
		if err := json.Unmarshal([]byte(f.src), f.dst); err != nil {
			return Definition{}, fmt.Errorf("decode %q: %w", d.Name, err)
		}
		if len(*f.dst) == 0 {
			*f.dst = nil
		}
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Definition{}, fmt.Errorf("decode %q created_at: %w", d.Name, err)
	}
	d.CreatedAt = t
	return d, nil
}

func encodeNames(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	b, err := json.Marshal(names)
	return string(b), err
}
