// internal/game/types.go
//
// Core type definitions for the trivia board game engine.
// Defines:
//   - Player: one token on the board (id, name, position, score, skip flag).
//   - Mode / Phase: coarse game configuration and lifecycle stage.
//   - State: the observable state surface exposed to presentation.
//   - Result: the end-of-game record handed to persistence.

package game

import "github.com/anahumita/trivia-go-arena-play/internal/questions"

// Mode distinguishes solo play from two-player games.
// Purely informational; the turn rules are identical.
type Mode string

const (
	ModeSingle      Mode = "single"
	ModeMultiplayer Mode = "multiplayer"
)

// Phase is the coarse game lifecycle stage.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhasePlaying  Phase = "playing"
	PhaseGameOver Phase = "gameOver"
)

// Player is one participant's token and tally.
// IDs are 1-based and assigned in join order; they are stable for the
// session and only the engine mutates the rest.
type Player struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Position     int    `json:"position"`
	Score        int    `json:"score"`
	SkipNextTurn bool   `json:"skipNextTurn"`
}

// State is a copy of everything presentation may observe.
// CurrentQuestion is non-nil iff ShowQuestion is true.
type State struct {
	Players            []Player            `json:"players"`
	CurrentPlayerIndex int                 `json:"currentPlayerIndex"`
	CurrentQuestion    *questions.Question `json:"currentQuestion"`
	Mode               Mode                `json:"gameMode"`
	Phase              Phase               `json:"gamePhase"`
	Round              int                 `json:"round"`
	ShowQuestion       bool                `json:"showQuestion"`
	AnswerSelected     bool                `json:"answerSelected"`
	MaxRounds          int                 `json:"maxRounds"`
	MaxPosition        int                 `json:"maxPosition"`
}

// FinalScore is one player's line in the end-of-game record.
type FinalScore struct {
	PlayerID int    `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Position int    `json:"position"`
}

// Result is the record handed to the persistence collaborator when a game
// ends.
type Result struct {
	WinnerID    int          `json:"winnerId"`
	WinnerName  string       `json:"winnerName"`
	FinalScores []FinalScore `json:"finalScores"`
	Rounds      int          `json:"rounds"`
	Mode        Mode         `json:"mode"`
}
