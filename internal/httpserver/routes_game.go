// internal/httpserver/routes_game.go
//
// HTTP routes for the board game. One session per game, driven by discrete
// calls in this order per turn:
//   - POST /game/new          → create session, initialize engine
//   - POST /game/{id}/turn    → start the active player's turn
//   - POST /game/{id}/answer  → submit the selected option
//   - POST /game/{id}/timeout → countdown expired before an answer
//   - POST /game/{id}/advance → display delay over; rotate to next player
//   - POST /game/{id}/reset   → back to setup
//   - GET  /game/{id}         → observable state snapshot
// Plus GET /leaderboard for recent winners.
//
// When a game reaches gameOver the result record is handed to the
// leaderboard store in a goroutine. That write is strictly best-effort: a
// failure is logged and never rolls back the game-state transition.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/anahumita/trivia-go-arena-play/internal/game"
	"github.com/anahumita/trivia-go-arena-play/internal/store"
)

// mountGame registers all /game routes plus the winners leaderboard.
func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleGameNew)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", s.handleGameState)
		r.Post("/turn", s.handleGameTurn)
		r.Post("/answer", s.handleGameAnswer)
		r.Post("/timeout", s.handleGameTimeout)
		r.Post("/advance", s.handleGameAdvance)
		r.Post("/reset", s.handleGameReset)
	})
	r.Get("/leaderboard", s.handleLeaderboard)
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode    string   `json:"mode"`    // "single" | "multiplayer"
	Players []string `json:"players"` // 1 or 2 names, join order = id order
}
type newGameRes struct {
	GameID string     `json:"gameId"`
	State  game.State `json:"state"`
}

// handleGameNew creates a session and initializes its engine.
func (s *Server) handleGameNew(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	eng := game.NewEngine(s.src)
	if err := eng.Initialize(game.Mode(req.Mode), req.Players); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	sess := &store.Session{ID: uuid.NewString(), Engine: eng}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	log.Info().Str("gameId", sess.ID).Str("mode", req.Mode).Int("players", len(req.Players)).Msg("game created")
	_ = json.NewEncoder(w).Encode(newGameRes{GameID: sess.ID, State: eng.Snapshot()})
}

// session resolves the {id} route param to a live session, writing the 404
// itself when missing.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *store.Session {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"game_not_found"}`, http.StatusNotFound)
		return nil
	}
	return sess
}

// handleGameState returns the observable state surface.
func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(sess.Engine.Snapshot())
}

// handleGameTurn starts the active player's turn: either a fresh question or
// a consumed skip flag. A failed question lookup is recoverable — the phase
// is unchanged and the client may retry.
func (s *Server) handleGameTurn(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	res, err := sess.Engine.StartTurn(r.Context())
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	if res.GameOver {
		s.persistResult(r, sess)
	}
	_ = json.NewEncoder(w).Encode(res)
}

// answerReq is the payload for POST /game/{id}/answer.
type answerReq struct {
	Option string `json:"option"`
}

// handleGameAnswer submits the selected option.
func (s *Server) handleGameAnswer(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var req answerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	res, err := sess.Engine.SubmitAnswer(req.Option)
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	if res.GameOver {
		s.persistResult(r, sess)
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleGameTimeout reports that the client countdown fired. Races with a
// near-simultaneous answer are resolved by the engine's answered guard.
func (s *Server) handleGameTimeout(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	res, err := sess.Engine.TimeExpire()
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleGameAdvance rotates play after the client's display delay.
func (s *Server) handleGameAdvance(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	res, err := sess.Engine.AdvanceTurn()
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	if res.GameOver {
		s.persistResult(r, sess)
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleGameReset returns the engine to setup.
func (s *Server) handleGameReset(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	sess.Engine.Reset()
	_ = json.NewEncoder(w).Encode(sess.Engine.Snapshot())
}

// handleLeaderboard lists recent winning results.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := s.results.Top(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard query")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(rows)
}

// persistResult hands the final record to the leaderboard store and bumps
// the authenticated user's stats. Best effort: failures are logged only.
func (s *Server) persistResult(r *http.Request, sess *store.Session) {
	result, ok := sess.Engine.Result()
	if !ok {
		return
	}
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)

	go func() {
		ctx, cancel := contextWithTimeout(5 * time.Second)
		defer cancel()
		if err := s.results.InsertResult(ctx, sess.ID, result); err != nil {
			log.Warn().Err(err).Str("gameId", sess.ID).Msg("persist game result")
		}
		if me != nil {
			// In local play the session owner plays as player 1.
			if err := s.bumpStats(ctx, me.ID, result.WinnerID == 1); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}()
}

// contextWithTimeout builds a detached context for writes that outlive the
// request (the request context dies when the handler returns).
func contextWithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

// writeEngineErr maps engine errors to JSON responses. Precondition
// violations are caller bugs and come back as 409s; lookup failures are 502s
// the client may retry.
func writeEngineErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrNotPlaying), errors.Is(err, game.ErrTurnActive),
		errors.Is(err, game.ErrNoAnswer), errors.Is(err, game.ErrBadSetup):
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusConflict)
	case errors.Is(err, game.ErrCanceled):
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusGone)
	default:
		http.Error(w, `{"error":"question_source_unavailable"}`, http.StatusBadGateway)
	}
}
