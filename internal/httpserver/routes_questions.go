// internal/httpserver/routes_questions.go
//
// Admin CRUD over the question bank. All routes require auth; the game
// engine picks these rows up on its next lookup, no restart needed.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/anahumita/trivia-go-arena-play/internal/questions"
)

// mountQuestions registers the /questions admin routes.
func (s *Server) mountQuestions() {
	s.r.With(s.requireAuth()).Route("/questions", func(r chi.Router) {
		r.Get("/", s.handleQuestionList)
		r.Post("/", s.handleQuestionCreate)
		r.Delete("/{id}", s.handleQuestionDelete)
	})
}

// handleQuestionList returns every stored question.
func (s *Server) handleQuestionList(w http.ResponseWriter, r *http.Request) {
	qs, err := s.qdb.All(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list questions")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if qs == nil {
		qs = []questions.Question{}
	}
	_ = json.NewEncoder(w).Encode(qs)
}

// handleQuestionCreate validates and stores a new question.
func (s *Server) handleQuestionCreate(w http.ResponseWriter, r *http.Request) {
	var q questions.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if q.Prompt == "" || len(q.Options) < 2 || !contains(q.Options, q.CorrectAnswer) {
		http.Error(w, `{"error":"invalid_question"}`, http.StatusBadRequest)
		return
	}
	if q.Difficulty == "" {
		q.Difficulty = questions.DifficultyEasy
	}
	id, err := s.qdb.Insert(r.Context(), q)
	if err != nil {
		log.Error().Err(err).Msg("insert question")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	q.ID = id
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(q)
}

// handleQuestionDelete removes a question by id.
func (s *Server) handleQuestionDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"bad_id"}`, http.StatusBadRequest)
		return
	}
	if err := s.qdb.Delete(r.Context(), id); err != nil {
		log.Error().Err(err).Int("id", id).Msg("delete question")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
