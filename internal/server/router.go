// Package server wires the HTTP surface: the play socket, a small JSON API
// and runtime debug pages.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arl/statsviz"
	"github.com/gillessed/palantarot/engine"
	"github.com/gillessed/palantarot/internal/cache"
	"github.com/gillessed/palantarot/internal/database"
	"github.com/gillessed/palantarot/internal/play"
	"github.com/gillessed/palantarot/internal/socket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// Options configures the HTTP surface.
type Options struct {
	// Verifier checks the bearer token that names the reader of a replay.
	Verifier socket.TokenVerifier
	// AllowDebug mounts the full state dump and lets replays name their
	// reader with ?player= instead of a token.
	AllowDebug bool
}

type api struct {
	svc  *play.PlayService
	opts Options
}

// Router builds the HTTP handler. socket serves /ws.
func Router(svc *play.PlayService, socket http.Handler, opts Options) http.Handler {
	a := &api{svc: svc, opts: opts}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Handle("/ws", socket)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(10 * time.Second))
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})
		r.Get("/games", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"games": svc.List()})
		})
		r.Post("/games", func(w http.ResponseWriter, r *http.Request) {
			g := svc.Create()
			writeJSON(w, http.StatusCreated, map[string]any{"id": g.ID})
		})
		r.Route("/games/{id}", func(r chi.Router) {
			if opts.AllowDebug {
				r.Get("/state", a.gameState)
			}
			r.Get("/events", a.gameEvents)
			r.Get("/history", a.gameHistory)
		})
		r.Get("/players", playerTotals)
	})

	if srv, err := statsviz.NewServer(); err != nil {
		log.Warnf("statsviz disabled: %v", err)
	} else {
		r.Get("/debug/statsviz/ws", srv.Ws())
		r.Get("/debug/statsviz", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/debug/statsviz/", http.StatusMovedPermanently)
		})
		r.Handle("/debug/statsviz/*", srv.Index())
	}
	return r
}

var errMissingToken = errString("a player token is required")

// viewer resolves whose private events a request may read. A bearer token
// wins; ?player= is only trusted in debug mode. Without either the reader
// is anonymous and sees public events only, unless tokens are configured,
// in which case the request is refused.
func (a *api) viewer(r *http.Request) (engine.PlayerID, error) {
	if a.opts.Verifier != nil {
		if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && token != "" {
			return a.opts.Verifier.Verify(token)
		}
	}
	if a.opts.AllowDebug {
		return engine.PlayerID(r.URL.Query().Get("player")), nil
	}
	if a.opts.Verifier != nil {
		return "", errMissingToken
	}
	return "", nil
}

type stateResponse struct {
	Phase engine.BoardName  `json:"phase"`
	Board engine.BoardState `json:"board"`
	Log   int               `json:"log"`
}

// gameState exposes the full board, hands included. Debug use only.
func (a *api) gameState(w http.ResponseWriter, r *http.Request) {
	g, err := a.svc.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "DOES_NOT_EXIST", err)
		return
	}
	board := g.State()
	writeJSON(w, http.StatusOK, stateResponse{Phase: board.Name(), Board: board, Log: g.Len()})
}

// gameEvents replays the log as the requesting player sees it.
func (a *api) gameEvents(w http.ResponseWriter, r *http.Request) {
	player, err := a.viewer(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", err)
		return
	}
	g, err := a.svc.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "DOES_NOT_EXIST", err)
		return
	}
	q := r.URL.Query()
	startAt, err := intParam(q.Get("startAt"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err)
		return
	}
	limit, err := intParam(q.Get("limit"), -1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err)
		return
	}
	events := g.Events(player, startAt, limit)
	writeJSON(w, http.StatusOK, map[string]any{"game": g.ID, "events": events})
}

// gameHistory reads what the historian stored in Redis, filtered for the
// requesting player.
func (a *api) gameHistory(w http.ResponseWriter, r *http.Request) {
	player, err := a.viewer(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", err)
		return
	}
	if cache.Rdb == nil {
		writeError(w, http.StatusServiceUnavailable, "UNAVAILABLE", errString("redis is not configured"))
		return
	}
	records, err := cache.LoadGameEvents(r.Context(), cache.Rdb, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err)
		return
	}
	visible := make([]cache.GameEventRecord, 0, len(records))
	for _, rec := range records {
		if engine.VisibleTo(rec.Event, player) {
			visible = append(visible, rec)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": visible})
}

func playerTotals(w http.ResponseWriter, r *http.Request) {
	if database.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "UNAVAILABLE", errString("database is not configured"))
		return
	}
	totals, err := database.PlayerTotals(r.Context(), database.DB)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": totals})
}

type errString string

func (e errString) Error() string { return string(e) }

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debugf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, map[string]any{"errorCode": code, "error": err.Error()})
}
