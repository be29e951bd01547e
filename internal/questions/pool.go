// internal/questions/pool.go
//
// In-memory question pool, the default Source implementation.
//
// Loading behavior (Load):
//   1. If QUESTIONS_FILE is set, parse that JSON file (array of Question).
//   2. Otherwise fall back to the embedded default pack in assets/.
//
// Constraints:
//   • Every question must have ≥ 2 options and CorrectAnswer ∈ Options;
//     invalid records are dropped at load time.
//   • Loading runs once (sync.Once); later Load calls return the first error.
//
// Selection is uniform-random over the eligible subset, driven by an
// injectable *rand.Rand so tests can supply a deterministic sequence.

package questions

import (
	"context"
	"encoding/json"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/anahumita/trivia-go-arena-play/assets"
)

var (
	loadOnce    sync.Once
	defaultPack []Question
	loadErr     error
)

// Load parses the default question pack exactly once.
func Load() ([]Question, error) {
	loadOnce.Do(func() {
		var raw []byte
		if path := os.Getenv("QUESTIONS_FILE"); path != "" {
			raw, loadErr = os.ReadFile(path)
		} else {
			raw, loadErr = assets.QuestionPack()
		}
		if loadErr != nil {
			return
		}
		var qs []Question
		if loadErr = json.Unmarshal(raw, &qs); loadErr != nil {
			return
		}
		defaultPack = sanitize(qs)
	})
	return defaultPack, loadErr
}

// sanitize drops malformed records so the engine never sees an unanswerable
// question.
func sanitize(qs []Question) []Question {
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if len(q.Options) < 2 {
			continue
		}
		ok := false
		for _, o := range q.Options {
			if o == q.CorrectAnswer {
				ok = true
				break
			}
		}
		if ok {
			out = append(out, q)
		}
	}
	return out
}

// Pool is a fixed in-memory Source.
type Pool struct {
	questions []Question
	rng       *rand.Rand
}

// PoolOption customizes a Pool.
type PoolOption func(*Pool)

// WithRand injects a deterministic random source (tests).
func WithRand(r *rand.Rand) PoolOption {
	return func(p *Pool) { p.rng = r }
}

// NewPool builds a Pool over qs.
func NewPool(qs []Question, opts ...PoolOption) *Pool {
	p := &Pool{
		questions: qs,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Len reports the pool size.
func (p *Pool) Len() int { return len(p.questions) }

// Pick selects one question not in exclude, resetting the exclusion once it
// covers ResetFraction of the pool. See the Source contract.
func (p *Pool) Pick(ctx context.Context, exclude map[int]struct{}) (Question, bool, error) {
	if len(p.questions) == 0 {
		return Question{}, false, ErrEmptyPool
	}
	if err := ctx.Err(); err != nil {
		return Question{}, false, err
	}

	reset := float64(len(exclude)) >= float64(len(p.questions))*ResetFraction
	pool := p.questions
	if !reset {
		eligible := make([]Question, 0, len(p.questions))
		for _, q := range p.questions {
			if _, used := exclude[q.ID]; !used {
				eligible = append(eligible, q)
			}
		}
		// Exhausted despite being under the threshold (duplicate ids in
		// exclude, tiny pools): fall back to the full pool.
		if len(eligible) == 0 {
			reset = true
		} else {
			pool = eligible
		}
	}

	return pool[p.rng.Intn(len(pool))], reset, nil
}
