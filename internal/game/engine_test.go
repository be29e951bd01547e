package game

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anahumita/trivia-go-arena-play/internal/questions"
)

// scriptedSource hands out questions in order, ignoring the exclusion set.
// Deterministic by construction, so tests can predict every answer.
type scriptedSource struct {
	qs    []questions.Question
	next  int
	err   error
	reset bool
}

func (s *scriptedSource) Pick(ctx context.Context, exclude map[int]struct{}) (questions.Question, bool, error) {
	if s.err != nil {
		return questions.Question{}, false, s.err
	}
	q := s.qs[s.next%len(s.qs)]
	s.next++
	return q, s.reset, nil
}

// blockingSource parks Pick until released, for reset-during-fetch tests.
type blockingSource struct {
	entered  chan struct{}
	release  chan struct{}
	question questions.Question
}

func (b *blockingSource) Pick(ctx context.Context, exclude map[int]struct{}) (questions.Question, bool, error) {
	close(b.entered)
	<-b.release
	return b.question, false, nil
}

func simpleQuestion(id int) questions.Question {
	return questions.Question{
		ID:            id,
		Prompt:        fmt.Sprintf("question %d", id),
		CorrectAnswer: "yes",
		Options:       []string{"yes", "no"},
		Category:      "Test",
		Difficulty:    questions.DifficultyEasy,
	}
}

func newSource(n int) *scriptedSource {
	s := &scriptedSource{}
	for i := 1; i <= n; i++ {
		s.qs = append(s.qs, simpleQuestion(i))
	}
	return s
}

// plainBoard is a track with no effect squares, so movement is purely
// answer-driven.
func plainBoard(size int) Board {
	b := make(Board, size)
	for i := range b {
		b[i] = Square{ID: i, Type: SquareNormal}
	}
	b[size-1].Type = SquareFinal
	return b
}

// playTurn runs one full start/answer/advance cycle for the active player.
func playTurn(t *testing.T, e *Engine, option string) AnswerResult {
	t.Helper()
	tr, err := e.StartTurn(context.Background())
	require.NoError(t, err)
	require.False(t, tr.Skipped)
	require.NotNil(t, tr.Question)

	res, err := e.SubmitAnswer(option)
	require.NoError(t, err)
	require.True(t, res.Accepted)

	if !res.GameOver {
		_, err = e.AdvanceTurn()
		require.NoError(t, err)
	}
	return res
}

func TestInitializeValidation(t *testing.T) {
	e := NewEngine(newSource(4))

	require.ErrorIs(t, e.Initialize(ModeSingle, nil), ErrBadSetup)
	require.ErrorIs(t, e.Initialize(ModeSingle, []string{"Ana", "Bogdan"}), ErrBadSetup)
	require.ErrorIs(t, e.Initialize(ModeMultiplayer, []string{"Ana"}), ErrBadSetup)
	require.ErrorIs(t, e.Initialize(Mode("party"), []string{"Ana"}), ErrBadSetup)

	require.NoError(t, e.Initialize(ModeMultiplayer, []string{"Ana", "Bogdan"}))
	st := e.Snapshot()
	assert.Equal(t, PhasePlaying, st.Phase)
	assert.Equal(t, 1, st.Round)
	assert.Equal(t, 0, st.CurrentPlayerIndex)
	require.Len(t, st.Players, 2)
	assert.Equal(t, Player{ID: 1, Name: "Ana"}, st.Players[0])
	assert.Equal(t, Player{ID: 2, Name: "Bogdan"}, st.Players[1])
}

func TestCorrectAnswerMovesAndScores(t *testing.T) {
	e := NewEngine(newSource(4), WithBoard(plainBoard(25)))
	require.NoError(t, e.Initialize(ModeSingle, []string{"Ana"}))

	res := playTurn(t, e, "yes")
	assert.True(t, res.Correct)
	assert.Equal(t, 1, res.Player.Position)
	assert.Equal(t, 10, res.Player.Score)
}

func TestWrongAnswerChangesNothing(t *testing.T) {
	e := NewEngine(newSource(4), WithBoard(plainBoard(25)))
	require.NoError(t, e.Initialize(ModeSingle, []string{"Ana"}))

	res := playTurn(t, e, "no")
	assert.False(t, res.Correct)
	assert.Equal(t, "yes", res.CorrectAnswer)
	assert.Equal(t, 0, res.Player.Position)
	assert.Equal(t, 0, res.Player.Score)
}

func TestAnswerTimeoutIdempotence(t *testing.T) {
	e := NewEngine(newSource(4))
	require.NoError(t, e.Initialize(ModeSingle, []string{"Ana"}))

	_, err := e.StartTurn(context.Background())
	require.NoError(t, err)

	first, err := e.SubmitAnswer("yes")
	require.NoError(t, err)
	require.True(t, first.Accepted)
	require.True(t, first.Correct)

	// The countdown fires anyway: must be a no-op.
	second, err := e.TimeExpire()
	require.NoError(t, err)
	assert.False(t, second.Accepted)

	// And a duplicate submission too.
	third, err := e.SubmitAnswer("no")
	require.NoError(t, err)
	assert.False(t, third.Accepted)

	st := e.Snapshot()
	assert.Equal(t, 1, st.Players[0].Position)
	assert.Equal(t, 10, st.Players[0].Score)
}

func TestTimeoutFirstWins(t *testing.T) {
	e := NewEngine(newSource(4))
	require.NoError(t, e.Initialize(ModeSingle, []string{"Ana"}))

	_, err := e.StartTurn(context.Background())
	require.NoError(t, err)

	res, err := e.TimeExpire()
	require.NoError(t, err)
	require.True(t, res.Accepted)
	assert.True(t, res.TimedOut)
	assert.False(t, res.Correct)
	assert.Equal(t, "yes", res.CorrectAnswer)

	late, err := e.SubmitAnswer("yes")
	require.NoError(t, err)
	assert.False(t, late.Accepted)
	assert.Equal(t, 0, e.Snapshot().Players[0].Score)
}

func TestSubmitWithoutQuestionIsNoOp(t *testing.T) {
	e := NewEngine(newSource(4))
	require.NoError(t, e.Initialize(ModeSingle, []string{"Ana"}))

	res, err := e.SubmitAnswer("yes")
	require.NoError(t, err)
	assert.False(t, res.Accepted)
}

func TestStartTurnReentrancyGuard(t *testing.T) {
	e := NewEngine(newSource(4))
	require.NoError(t, e.Initialize(ModeSingle, []string{"Ana"}))

	_, err := e.StartTurn(context.Background())
	require.NoError(t, err)

	_, err = e.StartTurn(context.Background())
	require.ErrorIs(t, err, ErrTurnActive)
}

func TestAdvanceRequiresResolvedQuestion(t *testing.T) {
	e := NewEngine(newSource(4))
	require.NoError(t, e.Initialize(ModeSingle, []string{"Ana"}))

	_, err := e.AdvanceTurn()
	require.ErrorIs(t, err, ErrNoAnswer)

	_, err = e.StartTurn(context.Background())
	require.NoError(t, err)
	_, err = e.AdvanceTurn()
	require.ErrorIs(t, err, ErrNoAnswer)
}

func TestRoundIncrementsOnWrap(t *testing.T) {
	e := NewEngine(newSource(8), WithBoard(plainBoard(25)))
	require.NoError(t, e.Initialize(ModeMultiplayer, []string{"Ana", "Bogdan"}))

	require.Equal(t, 1, e.Snapshot().Round)

	playTurn(t, e, "no") // Ana
	st := e.Snapshot()
	assert.Equal(t, 1, st.CurrentPlayerIndex)
	assert.Equal(t, 1, st.Round)

	playTurn(t, e, "no") // Bogdan, wraps back to Ana
	st = e.Snapshot()
	assert.Equal(t, 0, st.CurrentPlayerIndex)
	assert.Equal(t, 2, st.Round)
}

func TestGameEndsOnRoundExhaustionWithScoreWinner(t *testing.T) {
	e := NewEngine(newSource(8), WithBoard(plainBoard(25)), WithMaxRounds(2))
	require.NoError(t, e.Initialize(ModeMultiplayer, []string{"Ana", "Bogdan"}))

	// Round 1: Ana wrong, Bogdan correct. Round 2: both wrong → game over,
	// Bogdan leads on score.
	playTurn(t, e, "no")
	playTurn(t, e, "yes")
	playTurn(t, e, "no")
	res := playTurn(t, e, "no")
	require.False(t, res.GameOver) // answer itself did not end it

	st := e.Snapshot()
	assert.Equal(t, PhaseGameOver, st.Phase)

	result, ok := e.Result()
	require.True(t, ok)
	assert.Equal(t, 2, result.WinnerID)
	assert.Equal(t, "Bogdan", result.WinnerName)
	assert.Equal(t, 2, result.Rounds)
	require.Len(t, result.FinalScores, 2)
}

func TestTieGoesToFirstEncounteredMax(t *testing.T) {
	e := NewEngine(newSource(8), WithBoard(plainBoard(25)), WithMaxRounds(1))
	require.NoError(t, e.Initialize(ModeMultiplayer, []string{"Ana", "Bogdan"}))

	playTurn(t, e, "yes")
	playTurn(t, e, "yes")

	result, ok := e.Result()
	require.True(t, ok)
	assert.Equal(t, 1, result.WinnerID)
}

func TestReachingFinalSquareWinsImmediately(t *testing.T) {
	// 2-player game, plain 25-square board: Ana answers correctly 24
	// consecutive times while Bogdan never moves. Her 24th correct answer
	// puts her on the final square and ends the game on the spot,
	// independent of round count or Bogdan's score.
	e := NewEngine(newSource(8), WithBoard(plainBoard(25)), WithMaxRounds(100))
	require.NoError(t, e.Initialize(ModeMultiplayer, []string{"Ana", "Bogdan"}))

	var last AnswerResult
	for i := 0; i < 24; i++ {
		last = playTurn(t, e, "yes") // Ana
		if last.GameOver {
			break
		}
		playTurn(t, e, "no") // Bogdan
	}

	require.True(t, last.GameOver)
	require.NotNil(t, last.Winner)
	assert.Equal(t, 1, last.Winner.ID)
	assert.Equal(t, 24, last.Winner.Position)
	assert.Equal(t, PhaseGameOver, e.Snapshot().Phase)

	result, ok := e.Result()
	require.True(t, ok)
	assert.Equal(t, 1, result.WinnerID)
}

func TestPositionBonusClampsToFinalAndWins(t *testing.T) {
	// Square 23 carries a +2 position bonus: landing there from 22 resolves
	// to 25, clamps to 24, and triggers the winner path.
	b := plainBoard(25)
	b[23] = Square{ID: 23, Type: SquareBonus, Effect: &Effect{Kind: EffectPosition, Value: 2}}
	e := NewEngine(newSource(8), WithBoard(b), WithMaxRounds(100))
	require.NoError(t, e.Initialize(ModeSingle, []string{"Ana"}))

	for i := 0; i < 22; i++ {
		playTurn(t, e, "yes")
	}
	require.Equal(t, 22, e.Snapshot().Players[0].Position)

	res := playTurn(t, e, "yes")
	require.True(t, res.GameOver)
	require.NotNil(t, res.Winner)
	assert.Equal(t, 24, res.Winner.Position)
}

func TestSkipSquareConsumesNextTurn(t *testing.T) {
	// A skip square at 7: the player reaching it carries the flag; the next
	// StartTurn issues no question and advances the round, and the flag is
	// gone afterwards.
	b := plainBoard(25)
	b[7] = Square{ID: 7, Type: SquareSkip, Effect: &Effect{Kind: EffectSkip, Value: 1}}
	e := NewEngine(newSource(16), WithBoard(b))
	require.NoError(t, e.Initialize(ModeSingle, []string{"Ana"}))

	var res AnswerResult
	for i := 0; i < 7; i++ {
		res = playTurn(t, e, "yes")
	}
	require.Equal(t, 7, res.Player.Position)
	require.True(t, res.Player.SkipNextTurn)
	assert.Equal(t, "Skip! You'll miss your next turn.", res.Effect)

	roundBefore := e.Snapshot().Round
	tr, err := e.StartTurn(context.Background())
	require.NoError(t, err)
	require.True(t, tr.Skipped)
	require.Nil(t, tr.Question)
	require.NotNil(t, tr.SkippedPlayer)
	assert.Equal(t, "Ana", tr.SkippedPlayer.Name)

	st := e.Snapshot()
	assert.False(t, st.ShowQuestion)
	assert.Nil(t, st.CurrentQuestion)
	assert.False(t, st.Players[0].SkipNextTurn)
	assert.Equal(t, roundBefore+1, st.Round)

	// The following turn issues a question again.
	tr, err = e.StartTurn(context.Background())
	require.NoError(t, err)
	assert.False(t, tr.Skipped)
	require.NotNil(t, tr.Question)
}

func TestPositionsStayInBounds(t *testing.T) {
	// Random walk over the default board: positions must stay within
	// [0, MaxPosition] at every observed state.
	e := NewEngine(newSource(16), WithMaxRounds(1000))
	require.NoError(t, e.Initialize(ModeMultiplayer, []string{"Ana", "Bogdan"}))

	max := DefaultBoard().MaxPosition()
	for i := 0; i < 60; i++ {
		st := e.Snapshot()
		if st.Phase != PhasePlaying {
			break
		}
		tr, err := e.StartTurn(context.Background())
		require.NoError(t, err)
		if tr.Skipped {
			continue
		}
		option := "yes"
		if i%3 == 0 {
			option = "no"
		}
		res, err := e.SubmitAnswer(option)
		require.NoError(t, err)
		for _, p := range e.Snapshot().Players {
			assert.GreaterOrEqual(t, p.Position, 0)
			assert.LessOrEqual(t, p.Position, max)
		}
		if res.GameOver {
			break
		}
		_, err = e.AdvanceTurn()
		require.NoError(t, err)
	}
}

func TestQuestionSourceFailureIsRecoverable(t *testing.T) {
	src := newSource(4)
	src.err = errors.New("store unavailable")
	e := NewEngine(src)
	require.NoError(t, e.Initialize(ModeSingle, []string{"Ana"}))

	_, err := e.StartTurn(context.Background())
	require.Error(t, err)

	// Phase unchanged; a retry after the store recovers succeeds.
	st := e.Snapshot()
	assert.Equal(t, PhasePlaying, st.Phase)
	assert.False(t, st.ShowQuestion)

	src.err = nil
	tr, err := e.StartTurn(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tr.Question)
}

func TestUsedQuestionTrackingFollowsSourceReset(t *testing.T) {
	src := newSource(4)
	e := NewEngine(src, WithMaxRounds(1000))
	require.NoError(t, e.Initialize(ModeSingle, []string{"Ana"}))

	for i := 0; i < 3; i++ {
		playTurn(t, e, "no")
	}
	require.Equal(t, 3, e.UsedQuestionCount())

	// The source reports that the exclusion set was disregarded; the engine
	// must restart its tracking with just the freshly issued id.
	src.reset = true
	playTurn(t, e, "no")
	assert.Equal(t, 1, e.UsedQuestionCount())
}

func TestResetDiscardsLateQuestionFetch(t *testing.T) {
	src := &blockingSource{
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
		question: simpleQuestion(1),
	}
	e := NewEngine(src)
	require.NoError(t, e.Initialize(ModeSingle, []string{"Ana"}))

	done := make(chan error, 1)
	go func() {
		_, err := e.StartTurn(context.Background())
		done <- err
	}()

	<-src.entered
	e.Reset()
	close(src.release)

	require.ErrorIs(t, <-done, ErrCanceled)
	st := e.Snapshot()
	assert.Equal(t, PhaseSetup, st.Phase)
	assert.Nil(t, st.CurrentQuestion)
	assert.False(t, st.ShowQuestion)
}

func TestResetClearsEverything(t *testing.T) {
	e := NewEngine(newSource(4))
	require.NoError(t, e.Initialize(ModeMultiplayer, []string{"Ana", "Bogdan"}))
	playTurn(t, e, "yes")

	e.Reset()
	st := e.Snapshot()
	assert.Equal(t, PhaseSetup, st.Phase)
	assert.Empty(t, st.Players)
	assert.Equal(t, 1, st.Round)
	assert.Equal(t, 0, st.CurrentPlayerIndex)
	assert.Equal(t, 0, e.UsedQuestionCount())

	_, ok := e.Result()
	assert.False(t, ok)

	// Operations are rejected until the next Initialize.
	_, err := e.StartTurn(context.Background())
	require.ErrorIs(t, err, ErrNotPlaying)

	require.NoError(t, e.Initialize(ModeSingle, []string{"Carmen"}))
	assert.Equal(t, PhasePlaying, e.Snapshot().Phase)
}

func TestShowQuestionTracksCurrentQuestion(t *testing.T) {
	e := NewEngine(newSource(4))
	require.NoError(t, e.Initialize(ModeSingle, []string{"Ana"}))

	st := e.Snapshot()
	assert.False(t, st.ShowQuestion)
	assert.Nil(t, st.CurrentQuestion)

	_, err := e.StartTurn(context.Background())
	require.NoError(t, err)
	st = e.Snapshot()
	assert.True(t, st.ShowQuestion)
	require.NotNil(t, st.CurrentQuestion)

	_, err = e.SubmitAnswer("no")
	require.NoError(t, err)
	_, err = e.AdvanceTurn()
	require.NoError(t, err)

	st = e.Snapshot()
	assert.False(t, st.ShowQuestion)
	assert.Nil(t, st.CurrentQuestion)
}
