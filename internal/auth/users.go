// internal/auth/users.go
//
// User accounts for the game server.
// Responsibilities:
//   - Validate signup input (username/password rules).
//   - Hash and verify passwords with bcrypt.
//   - Create and look up users in the users table.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidSignup      = errors.New("invalid signup")
)

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Users reads and writes accounts.
type Users struct{ db *sql.DB }

// NewUsers returns a Users over a migrated database.
func NewUsers(db *sql.DB) *Users { return &Users{db: db} }

// Create validates input, checks uniqueness, hashes the password and
// inserts a new user.
func (u *Users) Create(ctx context.Context, username, pw string) (*User, error) {
	username = NormalizeUsername(username)
	if err := ValidateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	_ = u.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if exists == 1 {
		return nil, ErrUsernameTaken
	}
	h, err := hashPassword(pw)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: h,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if _, err := u.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user when the password matches.
func (u *Users) Authenticate(ctx context.Context, username, pw string) (*User, error) {
	user, err := u.ByUsername(ctx, NormalizeUsername(username))
	if err != nil || !checkPassword(user.PasswordHash, pw) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ByUsername loads a user by case-insensitive username.
func (u *Users) ByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(u.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE lower(username)=lower(?)`, username))
}

// ByID loads a user by ID.
func (u *Users) ByID(ctx context.Context, id string) (*User, error) {
	return scanUser(u.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id=?`, id))
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

// NormalizeUsername trims whitespace.
func NormalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// ValidateSignup enforces basic username/password rules.
func ValidateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return fmt.Errorf("%w: username must be 3–24 chars", ErrInvalidSignup)
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("%w: username: letters, numbers, underscore only", ErrInvalidSignup)
		}
	}
	if len(p) < 8 || len(p) > 72 {
		return fmt.Errorf("%w: password must be 8–72 chars", ErrInvalidSignup)
	}
	return nil
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
