// internal/questions/questions.go
//
// Core types and the Source contract for supplying trivia questions.
// Defines:
//   - Question: a single multiple-choice question record.
//   - Source: the lookup boundary the game engine consumes.
//   - ResetFraction: the used-pool fraction at which repeat-avoidance resets.

package questions

import (
	"context"
	"errors"
)

// Difficulty labels carried by question records.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ResetFraction is the share of the pool that may be marked used before the
// exclusion set is disregarded and selection falls back to the full pool.
// Repeat-avoidance is best-effort and must never block progress.
const ResetFraction = 0.75

// ErrEmptyPool is returned when a source has no questions at all.
var ErrEmptyPool = errors.New("questions: pool is empty")

// Question is a single multiple-choice question.
// Options always contains CorrectAnswer; records are immutable once issued.
type Question struct {
	ID            int      `json:"id"`
	Prompt        string   `json:"question"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
}

// Source supplies question records to the engine.
//
// Pick returns one question whose id is not in exclude. When the exclusion
// set covers at least ResetFraction of the pool, the source disregards it and
// selects from the full pool instead; the second return value reports that
// this happened so the caller can clear its own used-id tracking. Sources do
// not record session state themselves — adding the returned id to exclude is
// the caller's job.
type Source interface {
	Pick(ctx context.Context, exclude map[int]struct{}) (Question, bool, error)
}
