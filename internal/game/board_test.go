package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBoardShape(t *testing.T) {
	b := DefaultBoard()
	require.Len(t, b, 25)
	assert.Equal(t, 24, b.MaxPosition())
	assert.Equal(t, SquareFinal, b[24].Type)

	for i, sq := range b {
		assert.Equal(t, i, sq.ID)
		if sq.Type == SquareNormal || sq.Type == SquareFinal {
			assert.Nil(t, sq.Effect, "square %d", i)
		} else {
			require.NotNil(t, sq.Effect, "square %d", i)
		}
	}
}

func TestResolveEffectPointsSquares(t *testing.T) {
	b := DefaultBoard()

	out := b.ResolveEffect(2, 10)
	assert.Equal(t, 2, out.Position)
	assert.Equal(t, 15, out.Score)
	assert.False(t, out.SkipNextTurn)
	assert.Equal(t, "Bonus! 5 extra points!", out.Description)

	out = b.ResolveEffect(12, 10)
	assert.Equal(t, 12, out.Position)
	assert.Equal(t, 5, out.Score)
	assert.Equal(t, "Penalty! Lost 5 points.", out.Description)
}

func TestResolveEffectPositionSquares(t *testing.T) {
	b := DefaultBoard()

	out := b.ResolveEffect(15, 40)
	assert.Equal(t, 17, out.Position)
	assert.Equal(t, 40, out.Score)
	assert.Equal(t, "Bonus! Moved forward 2 spaces.", out.Description)

	out = b.ResolveEffect(5, 40)
	assert.Equal(t, 3, out.Position)
	assert.Equal(t, 40, out.Score)
	assert.Equal(t, "Penalty! Moved back 2 spaces.", out.Description)
}

func TestResolveEffectSkipSquares(t *testing.T) {
	b := DefaultBoard()
	for _, pos := range []int{7, 18} {
		out := b.ResolveEffect(pos, 30)
		assert.Equal(t, pos, out.Position)
		assert.Equal(t, 30, out.Score)
		assert.True(t, out.SkipNextTurn)
		assert.Equal(t, "Skip! You'll miss your next turn.", out.Description)
	}
}

func TestResolveEffectNormalAndFinalSquares(t *testing.T) {
	b := DefaultBoard()
	for _, pos := range []int{1, 10, 24} {
		out := b.ResolveEffect(pos, 20)
		assert.Equal(t, pos, out.Position)
		assert.Equal(t, 20, out.Score)
		assert.False(t, out.SkipNextTurn)
		assert.Empty(t, out.Description)
	}
}

func TestResolveEffectIgnoresOutOfRange(t *testing.T) {
	b := DefaultBoard()
	for _, pos := range []int{0, -3, 25, 99} {
		out := b.ResolveEffect(pos, 20)
		assert.Equal(t, pos, out.Position)
		assert.Equal(t, 20, out.Score)
		assert.Empty(t, out.Description)
	}
}

func TestResolveEffectClampsPosition(t *testing.T) {
	// Backward move from square 1 would land below the start; forward move
	// near the end would overshoot the final square.
	b := Board{
		{ID: 0, Type: SquareNormal},
		{ID: 1, Type: SquarePenalty, Effect: &Effect{Kind: EffectPosition, Value: -5}},
		{ID: 2, Type: SquareNormal},
		{ID: 3, Type: SquareBonus, Effect: &Effect{Kind: EffectPosition, Value: 5}},
		{ID: 4, Type: SquareFinal},
	}

	out := b.ResolveEffect(1, 0)
	assert.Equal(t, 0, out.Position)

	out = b.ResolveEffect(3, 0)
	assert.Equal(t, 4, out.Position)
}

func TestResolveEffectIsPure(t *testing.T) {
	b := DefaultBoard()
	first := b.ResolveEffect(15, 40)
	second := b.ResolveEffect(15, 40)
	assert.Equal(t, first, second)
	// The board itself is untouched.
	assert.Equal(t, DefaultBoard(), b)
}
