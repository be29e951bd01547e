// internal/levels/quiz.go
//
// The "leveled quiz" variant: a fixed ordered question list per level with
// linear completion. Scoring mirrors the board game's answer resolution —
// +10 per correct answer, a timeout counts as a wrong answer, and double
// submissions are swallowed by the answered guard.

package levels

import (
	"errors"

	"github.com/anahumita/trivia-go-arena-play/internal/questions"
)

// PointsPerCorrect matches the board game award.
const PointsPerCorrect = 10

// MinLevel..MaxLevel bound the selectable difficulty levels.
const (
	MinLevel = 1
	MaxLevel = 5
)

var (
	// ErrFinished rejects answers after the last question.
	ErrFinished = errors.New("levels: quiz already completed")
	// ErrNoQuestions reports a level with an empty question list.
	ErrNoQuestions = errors.New("levels: no questions for level")
)

// Quiz runs one player through a level's ordered question list.
type Quiz struct {
	level     int
	questions []questions.Question
	index     int
	score     int
	correct   int
	answered  bool
	finished  bool
}

// NewQuiz starts a quiz over qs for the given level.
func NewQuiz(level int, qs []questions.Question) (*Quiz, error) {
	if len(qs) == 0 {
		return nil, ErrNoQuestions
	}
	return &Quiz{level: level, questions: qs}, nil
}

// Level reports the quiz's level number.
func (q *Quiz) Level() int { return q.level }

// Current returns the active question, or false once the quiz is complete.
func (q *Quiz) Current() (questions.Question, bool) {
	if q.finished {
		return questions.Question{}, false
	}
	return q.questions[q.index], true
}

// AnswerResult describes how one submission resolved.
type AnswerResult struct {
	Accepted      bool   `json:"accepted"`
	Correct       bool   `json:"correct"`
	TimedOut      bool   `json:"timedOut"`
	CorrectAnswer string `json:"correctAnswer"`
	Score         int    `json:"score"`
}

// Answer resolves option against the active question. An empty option is how
// the presentation reports a timeout; it scores as wrong. Repeat submissions
// for the same question are accepted no-ops.
func (q *Quiz) Answer(option string) (AnswerResult, error) {
	if q.finished {
		return AnswerResult{}, ErrFinished
	}
	if q.answered {
		return AnswerResult{Score: q.score}, nil
	}
	q.answered = true

	cur := q.questions[q.index]
	res := AnswerResult{
		Accepted:      true,
		TimedOut:      option == "",
		CorrectAnswer: cur.CorrectAnswer,
	}
	if option != "" && option == cur.CorrectAnswer {
		res.Correct = true
		q.score += PointsPerCorrect
		q.correct++
	}
	res.Score = q.score
	return res, nil
}

// Advance moves to the next question after the presentation's display delay.
// Returns false when the quiz is complete.
func (q *Quiz) Advance() bool {
	if q.finished || !q.answered {
		return !q.finished
	}
	q.answered = false
	q.index++
	if q.index >= len(q.questions) {
		q.finished = true
	}
	return !q.finished
}

// Finished reports completion.
func (q *Quiz) Finished() bool { return q.finished }

// Summary is the completion record for a level run.
type Summary struct {
	Level          int `json:"level"`
	Score          int `json:"score"`
	CorrectAnswers int `json:"correctAnswers"`
	TotalQuestions int `json:"totalQuestions"`
	Percent        int `json:"percentage"`
}

// Summary returns the running (or final) tally.
func (q *Quiz) Summary() Summary {
	total := len(q.questions)
	pct := 0
	if total > 0 {
		pct = q.correct * 100 / total
	}
	return Summary{
		Level:          q.level,
		Score:          q.score,
		CorrectAnswers: q.correct,
		TotalQuestions: total,
		Percent:        pct,
	}
}
