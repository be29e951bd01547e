// internal/levels/store.go
//
// Persistence for completed level runs: best-effort inserts plus a per-level
// leaderboard query, mirroring the board-game results store.

package levels

import (
	"context"
	"database/sql"
	"time"
)

// Store writes and reads the level_results table.
type Store struct{ db *sql.DB }

// NewStore wraps db.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// ResultRow is one completed run.
type ResultRow struct {
	UserID         string `json:"userId"`
	Level          int    `json:"level"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalQuestions int    `json:"totalQuestions"`
	Percent        int    `json:"percentage"`
}

// InsertResult stores one completed run.
func (s *Store) InsertResult(ctx context.Context, r ResultRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO level_results (user_id, level, score, correct_answers, total_questions, percentage, completed_at)
		VALUES (?,?,?,?,?,?,?)`,
		r.UserID, r.Level, r.Score, r.CorrectAnswers, r.TotalQuestions, r.Percent,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// BestScore returns a user's best score for a level (0 when unplayed).
func (s *Store) BestScore(ctx context.Context, userID string, level int) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(score) FROM level_results WHERE user_id=? AND level=?`,
		userID, level).Scan(&best)
	if err != nil {
		return 0, err
	}
	return int(best.Int64), nil
}

// LBRow is one leaderboard line for a level.
type LBRow struct {
	UserID  string `json:"userId"`
	Score   int    `json:"score"`
	Percent int    `json:"percentage"`
}

// Leaderboard returns the top runs for a level.
func (s *Store) Leaderboard(ctx context.Context, level, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, score, percentage
		FROM level_results
		WHERE level=?
		ORDER BY score DESC, percentage DESC, completed_at ASC
		LIMIT ?`, level, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LBRow
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Score, &r.Percent); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
