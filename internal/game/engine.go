// internal/game/engine.go
//
// The turn engine: the state machine that sequences turns between players,
// selects non-repeating questions, resolves answers into position/score
// updates, applies square effects, and decides game completion.
//
// Lifecycle: setup → playing → gameOver, with a per-player sub-cycle of
// awaiting-start → question-active → resolved while playing.
//
// Notes:
//   - All state lives in the Engine and is only mutated by its own
//     operations; callers observe it through Snapshot().
//   - The countdown timer lives with the presentation layer. It calls
//     SubmitAnswer or TimeExpire, whichever fires first; the loser of that
//     race becomes a no-op through the answerSelected guard.
//   - AdvanceTurn is the presentation's display-delay hook: it clears the
//     resolved question and rotates to the next player.

package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/anahumita/trivia-go-arena-play/internal/questions"
)

const (
	// MaxRounds is the round count after which a game ends on score.
	MaxRounds = 10
	// PointsPerCorrect is awarded for every correct answer, before effects.
	PointsPerCorrect = 10
)

var (
	// ErrNotPlaying rejects operations outside the playing phase.
	ErrNotPlaying = errors.New("game: not in playing phase")
	// ErrTurnActive rejects StartTurn while a question is active or a fetch
	// is in flight.
	ErrTurnActive = errors.New("game: turn already active")
	// ErrNoAnswer rejects AdvanceTurn before the active question was
	// resolved.
	ErrNoAnswer = errors.New("game: question not answered yet")
	// ErrCanceled reports that a question fetch outlived its game (reset or
	// finished while the lookup was pending); its result was discarded.
	ErrCanceled = errors.New("game: turn canceled")
	// ErrBadSetup reports an Initialize call that violates the mode/name
	// contract.
	ErrBadSetup = errors.New("game: invalid setup")
)

// Engine owns the authoritative state of one game session.
type Engine struct {
	mu  sync.Mutex
	src questions.Source

	board     Board
	maxRounds int
	players   []Player
	current int
	mode    Mode
	phase   Phase
	round   int

	question       *questions.Question
	showQuestion   bool
	answerSelected bool
	used           map[int]struct{}

	fetching bool
	epoch    uint64

	result *Result
}

// Option customizes an Engine.
type Option func(*Engine)

// WithBoard substitutes the default track (tests, variants).
func WithBoard(b Board) Option {
	return func(e *Engine) { e.board = b }
}

// WithMaxRounds overrides the round limit (tests).
func WithMaxRounds(n int) Option {
	return func(e *Engine) { e.maxRounds = n }
}

// NewEngine builds an engine in the setup phase over src.
func NewEngine(src questions.Source, opts ...Option) *Engine {
	e := &Engine{
		src:       src,
		board:     DefaultBoard(),
		maxRounds: MaxRounds,
		phase:     PhaseSetup,
		round:     1,
		used:      make(map[int]struct{}),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Initialize seeds players and enters the playing phase. Single mode takes
// exactly one name, multiplayer exactly two.
func (e *Engine) Initialize(mode Mode, names []string) error {
	want := 0
	switch mode {
	case ModeSingle:
		want = 1
	case ModeMultiplayer:
		want = 2
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrBadSetup, mode)
	}
	if len(names) != want {
		return fmt.Errorf("%w: mode %q needs %d player name(s), got %d", ErrBadSetup, mode, want, len(names))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.players = make([]Player, len(names))
	for i, name := range names {
		e.players[i] = Player{ID: i + 1, Name: name}
	}
	e.mode = mode
	e.phase = PhasePlaying
	e.current = 0
	e.round = 1
	e.question = nil
	e.showQuestion = false
	e.answerSelected = false
	e.used = make(map[int]struct{})
	e.result = nil
	return nil
}

// TurnResult describes what StartTurn did: either a fresh question became
// active, or the player's turn was skipped and play advanced.
type TurnResult struct {
	Skipped       bool                `json:"skipped"`
	SkippedPlayer *Player             `json:"skippedPlayer,omitempty"`
	Question      *questions.Question `json:"question,omitempty"`
	Round         int                 `json:"round"`
	GameOver      bool                `json:"gameOver"`
	Winner        *Player             `json:"winner,omitempty"`
}

// StartTurn begins the active player's turn. A player carrying the skip flag
// gets no question: the flag is consumed and play advances immediately. A
// failed question lookup leaves the phase unchanged so the caller can retry.
// StartTurn is not re-entrant; a second call while a lookup is pending is
// rejected with ErrTurnActive.
func (e *Engine) StartTurn(ctx context.Context) (TurnResult, error) {
	e.mu.Lock()
	if e.phase != PhasePlaying {
		e.mu.Unlock()
		return TurnResult{}, ErrNotPlaying
	}
	if e.showQuestion || e.question != nil || e.fetching {
		e.mu.Unlock()
		return TurnResult{}, ErrTurnActive
	}

	player := &e.players[e.current]
	if player.SkipNextTurn {
		player.SkipNextTurn = false
		skipped := *player
		res := TurnResult{Skipped: true, SkippedPlayer: &skipped}
		e.advanceLocked()
		res.Round = e.round
		if e.phase == PhaseGameOver {
			res.GameOver = true
			res.Winner = e.winnerCopyLocked()
		}
		e.mu.Unlock()
		return res, nil
	}

	// Fetch outside the lock; the lookup may suspend on I/O.
	e.fetching = true
	epoch := e.epoch
	exclude := make(map[int]struct{}, len(e.used))
	for id := range e.used {
		exclude[id] = struct{}{}
	}
	e.mu.Unlock()

	q, reset, err := e.src.Pick(ctx, exclude)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.fetching = false

	// The game was reset or finished while the lookup was pending; the late
	// response must not touch state.
	if e.epoch != epoch || e.phase != PhasePlaying {
		return TurnResult{}, ErrCanceled
	}
	if err != nil {
		return TurnResult{}, fmt.Errorf("game: question lookup: %w", err)
	}

	if reset {
		e.used = make(map[int]struct{})
	}
	e.used[q.ID] = struct{}{}

	e.question = &q
	e.showQuestion = true
	e.answerSelected = false
	return TurnResult{Question: &q, Round: e.round}, nil
}

// AnswerResult describes how a submission (or timeout) resolved.
type AnswerResult struct {
	Accepted      bool    `json:"accepted"`
	Correct       bool    `json:"correct"`
	TimedOut      bool    `json:"timedOut"`
	CorrectAnswer string  `json:"correctAnswer"`
	Effect        string  `json:"effect,omitempty"`
	Player        Player  `json:"player"`
	GameOver      bool    `json:"gameOver"`
	Winner        *Player `json:"winner,omitempty"`
}

// SubmitAnswer resolves the active question against option. Calls with no
// active question, or after an answer was already recorded, are accepted
// no-ops (Accepted=false) — the guard that makes SubmitAnswer and TimeExpire
// mutually idempotent.
func (e *Engine) SubmitAnswer(option string) (AnswerResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolveLocked(option, false)
}

// TimeExpire records the countdown firing: equivalent to a guaranteed-wrong
// submission. Whichever of SubmitAnswer/TimeExpire lands first wins; the
// other becomes a no-op.
func (e *Engine) TimeExpire() (AnswerResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolveLocked("", true)
}

// resolveLocked applies answer-resolution semantics. Callers hold e.mu.
func (e *Engine) resolveLocked(option string, timedOut bool) (AnswerResult, error) {
	if e.phase != PhasePlaying {
		return AnswerResult{}, ErrNotPlaying
	}
	if e.question == nil || e.answerSelected {
		return AnswerResult{}, nil
	}

	e.answerSelected = true
	player := &e.players[e.current]
	correct := !timedOut && option == e.question.CorrectAnswer

	res := AnswerResult{
		Accepted:      true,
		Correct:       correct,
		TimedOut:      timedOut,
		CorrectAnswer: e.question.CorrectAnswer,
	}

	if correct {
		pos := player.Position + 1
		if pos > e.board.MaxPosition() {
			pos = e.board.MaxPosition()
		}
		score := player.Score + PointsPerCorrect

		out := e.board.ResolveEffect(pos, score)
		player.Position = out.Position
		player.Score = out.Score
		if out.SkipNextTurn {
			player.SkipNextTurn = true
		}
		res.Effect = out.Description
	}

	res.Player = *player

	// Reaching the final square ends the game at once, bypassing the normal
	// advance path.
	if player.Position == e.board.MaxPosition() {
		e.endGameLocked(player.ID)
		res.GameOver = true
		res.Winner = e.winnerCopyLocked()
	}
	return res, nil
}

// AdvanceResult describes the turn rotation after a resolved question.
type AdvanceResult struct {
	Round           int     `json:"round"`
	NextPlayerIndex int     `json:"nextPlayerIndex"`
	GameOver        bool    `json:"gameOver"`
	Winner          *Player `json:"winner,omitempty"`
}

// AdvanceTurn is called by the presentation layer after its display delay:
// it clears the resolved question and moves play to the next player,
// incrementing the round on wrap-around and ending the game once rounds are
// exhausted.
func (e *Engine) AdvanceTurn() (AdvanceResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhasePlaying {
		return AdvanceResult{}, ErrNotPlaying
	}
	if e.question == nil || !e.answerSelected {
		return AdvanceResult{}, ErrNoAnswer
	}

	e.question = nil
	e.showQuestion = false
	e.answerSelected = false
	e.advanceLocked()

	res := AdvanceResult{Round: e.round, NextPlayerIndex: e.current}
	if e.phase == PhaseGameOver {
		res.GameOver = true
		res.Winner = e.winnerCopyLocked()
	}
	return res, nil
}

// advanceLocked rotates to the next player; wrapping back to player 0
// increments the round and, past MaxRounds, ends the game on score.
func (e *Engine) advanceLocked() {
	e.current = (e.current + 1) % len(e.players)
	if e.current == 0 {
		e.round++
		if e.round > e.maxRounds {
			e.endGameLocked(0)
		}
	}
}

// endGameLocked enters the terminal phase. winnerID > 0 means that player
// reached the final square; otherwise the strictly highest score wins, first
// encountered max on ties.
func (e *Engine) endGameLocked(winnerID int) {
	e.phase = PhaseGameOver
	e.question = nil
	e.showQuestion = false
	e.answerSelected = false

	if winnerID == 0 {
		best := -1
		for i := range e.players {
			if best == -1 || e.players[i].Score > e.players[best].Score {
				best = i
			}
		}
		if best >= 0 {
			winnerID = e.players[best].ID
		}
	}

	rounds := e.round
	if rounds > e.maxRounds {
		rounds = e.maxRounds
	}
	result := &Result{WinnerID: winnerID, Rounds: rounds, Mode: e.mode}
	for _, p := range e.players {
		if p.ID == winnerID {
			result.WinnerName = p.Name
		}
		result.FinalScores = append(result.FinalScores, FinalScore{
			PlayerID: p.ID,
			Name:     p.Name,
			Score:    p.Score,
			Position: p.Position,
		})
	}
	e.result = result
}

// winnerCopyLocked returns a copy of the winning player, if any.
func (e *Engine) winnerCopyLocked() *Player {
	if e.result == nil {
		return nil
	}
	for _, p := range e.players {
		if p.ID == e.result.WinnerID {
			cp := p
			return &cp
		}
	}
	return nil
}

// Reset returns the engine to a fresh setup phase. Any in-flight question
// lookup is orphaned: its late response is discarded by the epoch check.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.epoch++
	e.players = nil
	e.current = 0
	e.mode = ModeSingle
	e.phase = PhaseSetup
	e.round = 1
	e.question = nil
	e.showQuestion = false
	e.answerSelected = false
	e.used = make(map[int]struct{})
	e.result = nil
}

// Snapshot returns a copy of the observable state surface.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := State{
		Players:            append([]Player(nil), e.players...),
		CurrentPlayerIndex: e.current,
		Mode:               e.mode,
		Phase:              e.phase,
		Round:              e.round,
		ShowQuestion:       e.showQuestion,
		AnswerSelected:     e.answerSelected,
		MaxRounds:          e.maxRounds,
		MaxPosition:        e.board.MaxPosition(),
	}
	if e.question != nil {
		q := *e.question
		st.CurrentQuestion = &q
	}
	return st
}

// Result returns the final record once the game is over.
func (e *Engine) Result() (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.result == nil {
		return Result{}, false
	}
	return *e.result, true
}

// UsedQuestionCount reports how many distinct question ids were issued this
// game.
func (e *Engine) UsedQuestionCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.used)
}
