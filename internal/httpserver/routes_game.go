// internal/httpserver/routes_game.go
//
// HTTP routes for a 끝말잇기 session:
//   - POST /game/new   → create an idle session and issue its token
//   - GET  /game       → current session
//   - POST /game/move  → submit the user's word; returns the opponent's reply
//   - GET  /game/hints → up to HINT_LIMIT legal continuations (read-only)
//   - POST /game/reset → discard history, back to idle
//
// Moves on one session are serialised by store.Update; a second submission
// waits for the first to finish.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/kkeutmal/internal/dict"
	"github.com/robalobadob/kkeutmal/internal/game"
	"github.com/robalobadob/kkeutmal/internal/store"
)

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/", s.handleState)
			r.Post("/move", s.handleMove)
			r.Get("/hints", s.handleHints)
			r.Post("/reset", s.handleReset)
		})
	})
}

// -----------------------------------------------------------------------------
// /game/new

// newGameRes is returned by /game/new.
type newGameRes struct {
	GameID    string       `json:"gameId"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Session   game.Session `json:"session"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	sess := game.NewSession(uuid.NewString())
	if err := s.store.Create(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("create session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.tokens.sign(sess.ID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign session token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setSessionCookie(w, tok, exp)
	sessionsStarted.Inc()
	writeJSON(w, http.StatusOK, newGameRes{GameID: sess.ID, Token: tok, ExpiresAt: exp, Session: sess})
}

// -----------------------------------------------------------------------------
// /game

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), sessionID(r))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// -----------------------------------------------------------------------------
// /game/move

// moveReq is the request payload for /game/move.
type moveReq struct {
	Word string `json:"word"`
}

// moveRes is the response payload for /game/move.
type moveRes struct {
	game.MoveResult
	Message   string `json:"message,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	var res game.MoveResult
	_, err := s.store.Update(r.Context(), sessionID(r), func(cur game.Session) (game.Session, error) {
		res = s.engine.Submit(r.Context(), cur, req.Word)
		return res.Session, nil
	})
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	logger := hlog.FromRequest(r)
	if !res.Accepted {
		movesTotal.WithLabelValues(string(res.Reason)).Inc()
		logger.Debug().Str("word", strings.TrimSpace(req.Word)).Str("reason", string(res.Reason)).Msg("move rejected")
		if res.Reason == game.ReasonLookupUnavailable {
			w.Header().Set("Retry-After", "1")
		}
		writeJSON(w, rejectStatus(res.Reason), moveRes{
			MoveResult: res,
			Message:    res.Reason.Message(),
			Retryable:  res.Reason.Retryable(),
		})
		return
	}

	movesTotal.WithLabelValues("accepted").Inc()
	if res.Session.Status == game.StatusEnded {
		gamesFinished.WithLabelValues(string(res.Session.Winner)).Inc()
		logger.Info().Str("session", res.Session.ID).Int("words", len(res.Session.History)).Msg("game ended, user wins")
	}
	writeJSON(w, http.StatusOK, moveRes{MoveResult: res})
}

// rejectStatus maps a rejection reason to an HTTP status.
func rejectStatus(r game.Reason) int {
	switch r {
	case game.ReasonLookupUnavailable:
		return http.StatusServiceUnavailable
	case game.ReasonGameOver:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

// -----------------------------------------------------------------------------
// /game/hints

// hintsRes is returned by /game/hints.
type hintsRes struct {
	Hints []string `json:"hints"`
}

func (s *Server) handleHints(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), sessionID(r))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	hints, err := s.engine.Hints(r.Context(), sess)
	switch {
	case errors.Is(err, game.ErrNotInProgress):
		writeError(w, http.StatusConflict, "not_in_progress")
		return
	case errors.Is(err, dict.ErrLookupUnavailable):
		hlog.FromRequest(r).Warn().Err(err).Msg("hint lookup")
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, "lookup_unavailable")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "hints_failed")
		return
	}
	hintsServed.Inc()
	writeJSON(w, http.StatusOK, hintsRes{Hints: hints})
}

// -----------------------------------------------------------------------------
// /game/reset

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Update(r.Context(), sessionID(r), func(cur game.Session) (game.Session, error) {
		return game.Reset(cur), nil
	})
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// storeError reports a store failure; unknown sessions are 404.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session_not_found")
		return
	}
	hlog.FromRequest(r).Error().Err(err).Msg("session store")
	writeError(w, http.StatusInternalServerError, "store_failed")
}
