package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/combgames/assets"
	"github.com/robalobadob/combgames/internal/auth"
	"github.com/robalobadob/combgames/internal/catalog"
	"github.com/robalobadob/combgames/internal/database"
	"github.com/robalobadob/combgames/internal/game"
	"github.com/robalobadob/combgames/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(database.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db, assets.Migrations()))

	cat, err := catalog.New(ctx, game.New(), store.NewSQLiteStore(db))
	require.NoError(t, err)
	seed, err := assets.Seed()
	require.NoError(t, err)
	_, err = cat.Seed(ctx, seed)
	require.NoError(t, err)

	return New(cat, auth.NewUsers(db), auth.Tokens{Secret: []byte("test-secret"), TTL: time.Hour})
}

// do sends a request with an optional JSON body and auth cookies.
func do(t *testing.T, s *Server, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// signup registers a user and returns its auth cookie.
func signup(t *testing.T, s *Server, username string) *http.Cookie {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/auth/signup", credentialsReq{Username: username, Password: "short-games"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName() {
			return c
		}
	}
	t.Fatal("no auth cookie")
	return nil
}

func TestDiagnostics(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/debug/engine", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[game.Stats](t, rec)
	assert.Positive(t, stats.Live)
	assert.True(t, stats.Memo)

	rec = do(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cgt_store_interns_total")

	rec = do(t, s, http.MethodPost, "/debug/engine/sweep", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGames_ListAndShow(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/games", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]gameSummary](t, rec)
	require.NotEmpty(t, list)
	assert.Equal(t, "zero", list[0].Name)
	assert.Equal(t, "{|}", list[0].Value)

	rec = do(t, s, http.MethodGet, "/games/up", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	up := decode[gameView](t, rec)
	assert.Equal(t, "^", up.Label)
	require.Len(t, up.Left, 1)
	require.Len(t, up.Right, 1)
	assert.Equal(t, "zero", up.Left[0].Name)
	assert.Equal(t, "star", up.Right[0].Name)
	require.NotNil(t, up.Definition)
	assert.Equal(t, store.KindOptions, up.Definition.Kind)
	assert.Len(t, up.Digest, 16)

	rec = do(t, s, http.MethodGet, "/games/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompare(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		a, b string
		want game.Relation
	}{
		{"one", "zero", game.Greater},
		{"minus_one", "zero", game.Less},
		{"star", "zero", game.Confused},
		{"up", "zero", game.Greater},
		{"up_star", "zero", game.Confused},
		{"half", "half", game.Equal},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/compare?a="+tt.a+"&b="+tt.b, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			res := decode[compareRes](t, rec)
			assert.Equal(t, tt.want, res.Relation)
			assert.Equal(t, tt.want == game.Confused, res.Confused)
			assert.Equal(t, tt.want == game.Equal, res.Eq)
			assert.Equal(t, tt.want == game.Less || tt.want == game.Equal, res.Leq)
		})
	}

	rec := do(t, s, http.MethodGet, "/compare?a=one", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, s, http.MethodGet, "/compare?a=one&b=missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOps(t *testing.T) {
	s := newTestServer(t)

	// -* is * itself, so the result resolves to the catalog entry.
	rec := do(t, s, http.MethodPost, "/ops/neg", opReq{Args: []string{"star"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	neg := decode[gameView](t, rec)
	assert.Equal(t, "star", neg.Name)
	assert.Equal(t, "-*", neg.Label)

	rec = do(t, s, http.MethodPost, "/ops/sum", opReq{Args: []string{"star", "star"}, Label: "*+*"})
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decode[gameView](t, rec)
	assert.Equal(t, "*+*", sum.Label)
	assert.Equal(t, "{{{|}|{|}}|{{|}|{|}}}", sum.Value)

	rec = do(t, s, http.MethodPost, "/ops/sub", opReq{Args: []string{"one"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/ops/sum", opReq{Args: []string{"nope"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/ops/mul", opReq{Args: []string{"one", "two"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/ops/sum", opReq{Args: []string{"one", "one"}, SaveAs: "two_again"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthAndDefine(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/games", defineReq{Name: "three", Left: []string{"two"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookie := signup(t, s, "conway")

	rec = do(t, s, http.MethodGet, "/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "conway", decode[authUser](t, rec).Username)

	rec = do(t, s, http.MethodPost, "/games", defineReq{Name: "three", Label: "3", Left: []string{"two"}}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	three := decode[gameView](t, rec)
	assert.Equal(t, "3", three.Label)
	require.NotNil(t, three.Definition)
	assert.NotEmpty(t, three.Definition.OwnerID)

	rec = do(t, s, http.MethodPost, "/games", defineReq{Name: "three", Left: []string{"one"}}, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/games", defineReq{Name: "bad name"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/ops/sub", opReq{Args: []string{"three", "two"}, SaveAs: "one_again"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/compare?a=one_again&b=one", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, game.Equal, decode[compareRes](t, rec).Relation)

	rec = do(t, s, http.MethodPost, "/debug/engine/sweep", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_Errors(t *testing.T) {
	s := newTestServer(t)
	signup(t, s, "berlekamp")

	rec := do(t, s, http.MethodPost, "/auth/signup", credentialsReq{Username: "Berlekamp", Password: "short-games"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/auth/signup", credentialsReq{Username: "guy", Password: "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/auth/login", credentialsReq{Username: "berlekamp", Password: "long-games"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodPost, "/auth/login", credentialsReq{Username: "berlekamp", Password: "short-games"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/auth/me", nil, &http.Cookie{Name: cookieName(), Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
