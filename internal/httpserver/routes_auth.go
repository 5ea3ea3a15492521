package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/combgames/internal/auth"
)

// credentialsReq is the payload for signup and login.
type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

// currentUser returns the authenticated user, or nil for guests.
func currentUser(r *http.Request) *authUser {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	return me
}

// mountAuthRoutes registers /auth/*.
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)
	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentUser(r))
	})
}

// handleSignup creates a new user, signs a JWT and sets the auth cookie.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.users.Create(r.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "Username taken")
		return
	case errors.Is(err, auth.ErrInvalidSignup):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Error().Err(err).Msg("create user")
		writeError(w, http.StatusInternalServerError, "signup_failed")
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	log.Info().Str("user", u.ID).Msg("signup")
	writeJSON(w, http.StatusOK, u)
}

// handleLogin authenticates a user and sets the auth cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.users.Authenticate(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	writeJSON(w, http.StatusOK, authUser{ID: u.ID, Username: u.Username})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// issueToken signs a token for u and sets it as the auth cookie.
func (s *Server) issueToken(w http.ResponseWriter, u *auth.User) bool {
	tok, exp, err := s.tokens.Sign(u.ID, u.Username)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	s.setAuthCookie(w, tok, exp)
	return true
}

// --------------------------- auth middleware -------------------------------

// userFromRequest verifies the request token and checks the user still exists.
func (s *Server) userFromRequest(r *http.Request) (*authUser, bool) {
	tok := bearerOrCookie(r)
	if tok == "" {
		return nil, false
	}
	claims, err := s.tokens.Parse(tok)
	if err != nil {
		return nil, false
	}
	if _, err := s.users.ByID(r.Context(), claims.ID); err != nil {
		return nil, false
	}
	return &authUser{ID: claims.ID, Username: claims.Username}, true
}

// withOptionalAuth decorates requests with user context if a valid JWT is present.
// It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if me, ok := s.userFromRequest(r); ok {
				r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, me))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth enforces a valid JWT and injects authUser into request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			me, ok := s.userFromRequest(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, me)))
		})
	}
}

// ------------------------------ cookies ------------------------------------

func cookieName() string { return getEnv("COOKIE_NAME", "cgt_token") }

// cookiePolicy returns Secure/SameSite attributes for the current environment.
func cookiePolicy() (bool, http.SameSite) {
	if os.Getenv("NODE_ENV") == "production" {
		return true, http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return false, http.SameSiteLaxMode
}

// setAuthCookie writes the auth token cookie.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	secure, sameSite := cookiePolicy()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// clearAuthCookie deletes the auth token cookie.
func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	secure, sameSite := cookiePolicy()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		MaxAge:   -1,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookieName()); err == nil {
		return c.Value
	}
	return ""
}
