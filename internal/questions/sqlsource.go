// internal/questions/sqlsource.go
//
// SQLite-backed Source reading the questions table maintained by the admin
// CRUD endpoints. Same exclusion/reset policy as Pool; storage errors are
// surfaced to the caller as recoverable errors, never as a silent empty
// question.

package questions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"
)

// SQLSource selects questions from the database.
type SQLSource struct {
	db  *sql.DB
	rng *rand.Rand
}

// NewSQLSource wraps db as a Source.
func NewSQLSource(db *sql.DB, opts ...func(*SQLSource)) *SQLSource {
	s := &SQLSource{db: db, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	for _, o := range opts {
		o(s)
	}
	return s
}

// WithSQLRand injects a deterministic random source (tests).
func WithSQLRand(r *rand.Rand) func(*SQLSource) {
	return func(s *SQLSource) { s.rng = r }
}

// Count reports how many questions are stored.
func (s *SQLSource) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM questions`).Scan(&n)
	return n, err
}

// Pick implements Source against the questions table.
func (s *SQLSource) Pick(ctx context.Context, exclude map[int]struct{}) (Question, bool, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return Question{}, false, fmt.Errorf("questions: count: %w", err)
	}
	if total == 0 {
		return Question{}, false, ErrEmptyPool
	}

	reset := float64(len(exclude)) >= float64(total)*ResetFraction
	use := exclude
	if reset {
		use = nil
	}

	qs, err := s.fetchAll(ctx, use)
	if err != nil {
		return Question{}, false, err
	}
	if len(qs) == 0 {
		// Every stored id excluded despite the threshold; retry unfiltered.
		reset = true
		if qs, err = s.fetchAll(ctx, nil); err != nil {
			return Question{}, false, err
		}
		if len(qs) == 0 {
			return Question{}, false, ErrEmptyPool
		}
	}
	return qs[s.rng.Intn(len(qs))], reset, nil
}

// fetchAll loads question rows, skipping excluded ids.
func (s *SQLSource) fetchAll(ctx context.Context, exclude map[int]struct{}) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, prompt, correct_answer, options, category, difficulty FROM questions`)
	if err != nil {
		return nil, fmt.Errorf("questions: select: %w", err)
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		var q Question
		var opts string
		if err := rows.Scan(&q.ID, &q.Prompt, &q.CorrectAnswer, &opts, &q.Category, &q.Difficulty); err != nil {
			return nil, fmt.Errorf("questions: scan: %w", err)
		}
		if _, used := exclude[q.ID]; used {
			continue
		}
		if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
			continue // malformed row, leave it to the admin screens
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Insert stores a new question and returns its id. Options are persisted as
// a JSON array in a TEXT column.
func (s *SQLSource) Insert(ctx context.Context, q Question) (int, error) {
	opts, err := json.Marshal(q.Options)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO questions (prompt, correct_answer, options, category, difficulty)
		 VALUES (?,?,?,?,?)`,
		q.Prompt, q.CorrectAnswer, string(opts), q.Category, q.Difficulty)
	if err != nil {
		return 0, fmt.Errorf("questions: insert: %w", err)
	}
	id, err := res.LastInsertId()
	return int(id), err
}

// Delete removes a question by id.
func (s *SQLSource) Delete(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id=?`, id)
	return err
}

// All returns every stored question (admin listing).
func (s *SQLSource) All(ctx context.Context) ([]Question, error) {
	return s.fetchAll(ctx, nil)
}
