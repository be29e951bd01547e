// internal/httpserver/routes_levels.go
//
// HTTP routes for the leveled quiz mode.
// Exposes, under /levels/{level} (level ∈ 1..5):
//   - POST /new         → start a run over the level's fixed question order
//   - POST /answer      → submit the selected option ("" = timeout)
//   - POST /advance     → display delay over; move to the next question
//   - GET  /leaderboard → top runs for the level
//
// Runs are held in memory for active play and persisted on completion.
// Question order is deterministic per level (salt + level), so every player
// of a level answers the same sequence.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/anahumita/trivia-go-arena-play/internal/levels"
	"github.com/anahumita/trivia-go-arena-play/internal/questions"
)

// questionsPerLevel caps how many questions one run asks.
const questionsPerLevel = 10

// levelServer wraps dependencies for /levels endpoints.
type levelServer struct {
	srv      *Server
	salt     string
	mu       sync.Mutex
	sessions map[string]*levelSession // keyed by run id
}

// levelSession holds transient in-memory state for an in-progress run.
type levelSession struct {
	RunID  string
	UserID string
	Quiz   *levels.Quiz
	Start  time.Time
}

// mountLevels registers all /levels routes.
func (s *Server) mountLevels(r chi.Router) {
	ls := &levelServer{
		srv:      s,
		salt:     getEnv("LEVEL_SALT", "local_dev_salt"),
		sessions: make(map[string]*levelSession),
	}
	r.Route("/levels/{level}", func(r chi.Router) {
		r.Post("/new", ls.handleNew)
		r.Post("/answer", ls.handleAnswer)
		r.Post("/advance", ls.handleAdvance)
		r.Get("/leaderboard", ls.handleLeaderboard)
	})
}

// levelFromURL parses and bounds the {level} parameter.
func levelFromURL(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil || n < levels.MinLevel || n > levels.MaxLevel {
		return 0, false
	}
	return n, true
}

// userID returns the authenticated user id, or a stable anonymous id.
func (l *levelServer) userID(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return l.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /levels/{level}/new

type levelNewRes struct {
	RunID    string             `json:"runId"`
	Level    int                `json:"level"`
	Total    int                `json:"totalQuestions"`
	Question questions.Question `json:"question"`
}

// handleNew starts a fresh run for the level.
func (l *levelServer) handleNew(w http.ResponseWriter, r *http.Request) {
	level, ok := levelFromURL(r)
	if !ok {
		http.Error(w, `{"error":"bad_level"}`, http.StatusBadRequest)
		return
	}

	qs := levels.QuestionsFor(l.srv.pool, l.salt, level, questionsPerLevel)
	quiz, err := levels.NewQuiz(level, qs)
	if err != nil {
		http.Error(w, `{"error":"no_questions"}`, http.StatusServiceUnavailable)
		return
	}

	sess := &levelSession{
		RunID:  uuid.NewString(),
		UserID: l.userID(w, r),
		Quiz:   quiz,
		Start:  time.Now(),
	}
	l.mu.Lock()
	l.sessions[sess.RunID] = sess
	l.mu.Unlock()

	cur, _ := quiz.Current()
	_ = json.NewEncoder(w).Encode(levelNewRes{
		RunID:    sess.RunID,
		Level:    level,
		Total:    len(qs),
		Question: cur,
	})
}

// get looks up a run by id, writing the 404 itself when missing.
func (l *levelServer) get(w http.ResponseWriter, runID string) *levelSession {
	l.mu.Lock()
	defer l.mu.Unlock()
	if sess, ok := l.sessions[runID]; ok {
		return sess
	}
	http.Error(w, `{"error":"run_not_found"}`, http.StatusNotFound)
	return nil
}

// -----------------------------------------------------------------------------
// /levels/{level}/answer

type levelAnswerReq struct {
	RunID  string `json:"runId"`
	Option string `json:"option"` // empty = time expired
}

// handleAnswer resolves one submission.
func (l *levelServer) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req levelAnswerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess := l.get(w, req.RunID)
	if sess == nil {
		return
	}

	l.mu.Lock()
	res, err := sess.Quiz.Answer(req.Option)
	l.mu.Unlock()
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusConflict)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// -----------------------------------------------------------------------------
// /levels/{level}/advance

type levelAdvanceReq struct {
	RunID string `json:"runId"`
}

type levelAdvanceRes struct {
	Done     bool                `json:"done"`
	Question *questions.Question `json:"question,omitempty"`
	Summary  *levels.Summary     `json:"summary,omitempty"`
}

// handleAdvance steps to the next question, or completes the run and
// persists its summary (best effort).
func (l *levelServer) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var req levelAdvanceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess := l.get(w, req.RunID)
	if sess == nil {
		return
	}

	l.mu.Lock()
	more := sess.Quiz.Advance()
	if !more {
		delete(l.sessions, sess.RunID)
	}
	l.mu.Unlock()

	if more {
		cur, _ := sess.Quiz.Current()
		_ = json.NewEncoder(w).Encode(levelAdvanceRes{Question: &cur})
		return
	}

	sum := sess.Quiz.Summary()
	row := levels.ResultRow{
		UserID:         sess.UserID,
		Level:          sum.Level,
		Score:          sum.Score,
		CorrectAnswers: sum.CorrectAnswers,
		TotalQuestions: sum.TotalQuestions,
		Percent:        sum.Percent,
	}
	go func() {
		ctx, cancel := contextWithTimeout(5 * time.Second)
		defer cancel()
		if err := l.srv.lvStore.InsertResult(ctx, row); err != nil {
			log.Warn().Err(err).Str("runId", sess.RunID).Msg("persist level result")
		}
	}()

	_ = json.NewEncoder(w).Encode(levelAdvanceRes{Done: true, Summary: &sum})
}

// -----------------------------------------------------------------------------
// /levels/{level}/leaderboard

// handleLeaderboard returns the top runs for the level.
func (l *levelServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	level, ok := levelFromURL(r)
	if !ok {
		http.Error(w, `{"error":"bad_level"}`, http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := l.srv.lvStore.Leaderboard(r.Context(), level, limit)
	if err != nil {
		log.Error().Err(err).Int("level", level).Msg("level leaderboard query")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(rows)
}
