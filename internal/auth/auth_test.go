package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/combgames/assets"
	"github.com/robalobadob/combgames/internal/database"
)

func newUsers(t *testing.T) *Users {
	t.Helper()
	db, err := database.Open(database.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db, assets.Migrations()))
	return NewUsers(db)
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name     string
		user, pw string
		ok       bool
	}{
		{"valid", "conway", "surreal-numbers", true},
		{"short username", "jc", "surreal-numbers", false},
		{"bad characters", "john conway", "surreal-numbers", false},
		{"short password", "conway", "short", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignup(tt.user, tt.pw)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidSignup)
			}
		})
	}
}

func TestUsers_CreateAndAuthenticate(t *testing.T) {
	users := newUsers(t)
	ctx := context.Background()

	u, err := users.Create(ctx, "  berlekamp ", "winning-ways")
	require.NoError(t, err)
	assert.Equal(t, "berlekamp", u.Username)
	assert.NotEmpty(t, u.ID)

	_, err = users.Create(ctx, "BERLEKAMP", "another-password")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := users.Authenticate(ctx, "Berlekamp", "winning-ways")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.Authenticate(ctx, "berlekamp", "losing-ways")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	byID, err := users.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, u.CreatedAt.Equal(byID.CreatedAt))

	_, err = users.ByID(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTokens(t *testing.T) {
	tokens := Tokens{Secret: []byte("test-secret"), TTL: time.Hour}

	tok, exp, err := tokens.Sign("id-1", "guy")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "id-1", claims.ID)
	assert.Equal(t, "guy", claims.Username)

	other := Tokens{Secret: []byte("other-secret"), TTL: time.Hour}
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := Tokens{Secret: tokens.Secret, TTL: -time.Minute}
	old, _, err := expired.Sign("id-1", "guy")
	require.NoError(t, err)
	_, err = tokens.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
