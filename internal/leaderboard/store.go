// internal/leaderboard/store.go
//
// Persistence collaborator for finished games. The engine does not await
// these writes: they are fired after gameOver as a best-effort side effect
// and must never roll back or block a game-state transition.

package leaderboard

import (
	"context"
	"database/sql"
	"time"

	"github.com/anahumita/trivia-go-arena-play/internal/game"
)

// Store writes and reads the game_results table.
type Store struct{ db *sql.DB }

// NewStore wraps db.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Entry is one player's line of a finished game.
type Entry struct {
	GameID     string `json:"gameId"`
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
	Position   int    `json:"position"`
	Winner     bool   `json:"winner"`
	Rounds     int    `json:"rounds"`
	Mode       string `json:"mode"`
	FinishedAt string `json:"finishedAt"`
}

// InsertResult records every player of a finished game, flagging the winner.
func (s *Store) InsertResult(ctx context.Context, gameID string, r game.Result) error {
	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, fs := range r.FinalScores {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO game_results (game_id, player_id, player_name, score, position, winner, rounds, mode, finished_at)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			gameID, fs.PlayerID, fs.Name, fs.Score, fs.Position, fs.PlayerID == r.WinnerID, r.Rounds, string(r.Mode), now,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Top returns the most recent winning entries, best score first.
func (s *Store) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, player_name, score, position, rounds, mode, finished_at
		FROM game_results
		WHERE winner = 1
		ORDER BY score DESC, finished_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		e := Entry{Winner: true}
		if err := rows.Scan(&e.GameID, &e.PlayerName, &e.Score, &e.Position, &e.Rounds, &e.Mode, &e.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
