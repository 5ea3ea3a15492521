// internal/httpserver/routes_games.go
//
// HTTP routes over the catalog of named game values.
//   - GET  /games          → every catalog entry in creation order
//   - GET  /games/{name}   → one entry with its options and definition
//   - POST /games          → define {name,label,left,right} (auth)
//   - POST /ops/{op}       → evaluate sum|neg|sub over named args;
//                            with saveAs (auth) the result is defined too
//   - GET  /compare?a=&b=  → relation between two entries
//
// Values are addressed by catalog name only. Anything built by /ops without
// saveAs is returned but not kept.

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/combgames/internal/catalog"
	"github.com/robalobadob/combgames/internal/game"
	"github.com/robalobadob/combgames/internal/store"
)

// mountGameRoutes registers catalog, evaluation and comparison routes.
func (s *Server) mountGameRoutes(r chi.Router) {
	r.Get("/games", s.handleListGames)
	r.Get("/games/{name}", s.handleShowGame)
	r.Post("/games", s.handleDefineGame)
	r.Post("/ops/{op}", s.handleOp)
	r.Get("/compare", s.handleCompare)
}

// optionView is one option of a game: its rendering plus its catalog name
// when the option is itself a catalog entry.
type optionView struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value"`
}

// gameView is the JSON shape of a game value.
type gameView struct {
	Name       string            `json:"name,omitempty"`
	Label      string            `json:"label,omitempty"`
	ID         uint64            `json:"id"`
	Digest     string            `json:"digest"` // 16 hex digits
	Value      string            `json:"value"`
	Left       []optionView      `json:"left"`
	Right      []optionView      `json:"right"`
	Definition *store.Definition `json:"definition,omitempty"`
}

func (s *Server) view(name string, v game.Value) gameView {
	return gameView{
		Name:   name,
		Label:  v.Label(),
		ID:     uint64(v.ID()),
		Digest: fmt.Sprintf("%016x", v.Digest()),
		Value:  v.String(),
		Left:   s.options(v.Left()),
		Right:  s.options(v.Right()),
	}
}

func (s *Server) options(vs []game.Value) []optionView {
	out := make([]optionView, 0, len(vs))
	for _, o := range vs {
		name, _ := s.cat.NameOf(o)
		out = append(out, optionView{ID: uint64(o.ID()), Name: name, Value: o.String()})
	}
	return out
}

// gameSummary is one row of GET /games.
type gameSummary struct {
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
	ID    uint64 `json:"id"`
	Value string `json:"value"`
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	names := s.cat.Names()
	out := make([]gameSummary, 0, len(names))
	for _, name := range names {
		v, err := s.cat.Lookup(name)
		if err != nil {
			continue
		}
		out = append(out, gameSummary{Name: name, Label: v.Label(), ID: uint64(v.ID()), Value: v.String()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleShowGame(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	v, err := s.cat.Lookup(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	out := s.view(name, v)
	if d, err := s.cat.Definition(r.Context(), name); err == nil {
		out.Definition = &d
	}
	writeJSON(w, http.StatusOK, out)
}

// defineReq is the payload for POST /games.
type defineReq struct {
	Name  string   `json:"name"`
	Label string   `json:"label"`
	Left  []string `json:"left"`
	Right []string `json:"right"`
}

func (s *Server) handleDefineGame(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	if me == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req defineReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	s.define(w, r, store.Definition{
		Name:    req.Name,
		Label:   req.Label,
		Kind:    store.KindOptions,
		Left:    req.Left,
		Right:   req.Right,
		OwnerID: me.ID,
	})
}

// define binds d in the catalog and answers 201 with the new entry.
func (s *Server) define(w http.ResponseWriter, r *http.Request, d store.Definition) {
	v, err := s.cat.Define(r.Context(), d)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	out := s.view(d.Name, v)
	if stored, err := s.cat.Definition(r.Context(), d.Name); err == nil {
		out.Definition = &stored
	}
	writeJSON(w, http.StatusCreated, out)
}

// opReq is the payload for POST /ops/{op}.
type opReq struct {
	Args   []string `json:"args"`
	Label  string   `json:"label"`
	SaveAs string   `json:"saveAs"`
}

var ops = map[string]store.Kind{
	"sum": store.KindSum,
	"neg": store.KindNeg,
	"sub": store.KindSub,
}

func (s *Server) handleOp(w http.ResponseWriter, r *http.Request) {
	kind, ok := ops[strings.ToLower(chi.URLParam(r, "op"))]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_op")
		return
	}
	var req opReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	d := store.Definition{Name: req.SaveAs, Label: req.Label, Kind: kind, Args: req.Args}

	if req.SaveAs != "" {
		me := currentUser(r)
		if me == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		d.OwnerID = me.ID
		s.define(w, r, d)
		return
	}

	v, err := s.cat.Evaluate(d)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	name, _ := s.cat.NameOf(v)
	writeJSON(w, http.StatusOK, s.view(name, v))
}

// compareRes is the answer of GET /compare.
type compareRes struct {
	A        string        `json:"a"`
	B        string        `json:"b"`
	Relation game.Relation `json:"relation"`
	Leq      bool          `json:"leq"`
	Geq      bool          `json:"geq"`
	Eq       bool          `json:"eq"`
	Lt       bool          `json:"lt"`
	Gt       bool          `json:"gt"`
	Confused bool          `json:"confused"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, b := q.Get("a"), q.Get("b")
	if a == "" || b == "" {
		writeError(w, http.StatusBadRequest, "a and b are required")
		return
	}
	g, err := s.cat.Lookup(a)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown game "+a)
		return
	}
	h, err := s.cat.Lookup(b)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown game "+b)
		return
	}

	e := s.cat.Engine()
	leq, geq := e.Leq(g, h), e.Geq(g, h)
	writeJSON(w, http.StatusOK, compareRes{
		A:        a,
		B:        b,
		Relation: e.Compare(g, h),
		Leq:      leq,
		Geq:      geq,
		Eq:       leq && geq,
		Lt:       leq && !geq,
		Gt:       geq && !leq,
		Confused: !leq && !geq,
	})
}

// writeCatalogError maps catalog and store errors to HTTP statuses.
func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, catalog.ErrInvalidName),
		errors.Is(err, catalog.ErrUnknownRef),
		errors.Is(err, catalog.ErrBadKind):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "save_failed")
	}
}
