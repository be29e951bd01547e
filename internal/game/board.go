// internal/game/board.go
//
// The fixed board track and the square effect resolver.
// Responsibilities:
//   - Define squares, effect kinds, and the versioned 25-square default track.
//   - ResolveEffect: pure function applying a landed-on square's effect to a
//     candidate position/score. Safe to call speculatively (previews); it
//     never touches engine state.

package game

import "fmt"

// SquareType tags a square on the track.
type SquareType string

const (
	SquareNormal  SquareType = "normal"
	SquareBonus   SquareType = "bonus"
	SquarePenalty SquareType = "penalty"
	SquareSkip    SquareType = "skip"
	SquareFinal   SquareType = "final"
)

// EffectKind selects what an effect modifies.
type EffectKind string

const (
	EffectPoints   EffectKind = "points"
	EffectPosition EffectKind = "position"
	EffectSkip     EffectKind = "skip"
)

// Effect is an optional modifier attached to a square.
// Value is signed: negative for penalties.
type Effect struct {
	Kind  EffectKind `json:"type"`
	Value int        `json:"value"`
}

// Square is one position on the track. Immutable, shared by all players.
type Square struct {
	ID     int        `json:"id"`
	Type   SquareType `json:"type"`
	Effect *Effect    `json:"effect,omitempty"`
}

// Board is the ordered track; ids run 0..len-1 and the last square is final.
type Board []Square

// MaxPosition is the final square's id, the upper bound of all positions.
func (b Board) MaxPosition() int { return len(b) - 1 }

// DefaultBoard returns the fixed 25-square track. Effect values are embedded
// constants, not configurable at runtime.
func DefaultBoard() Board {
	return Board{
		{ID: 0, Type: SquareNormal},
		{ID: 1, Type: SquareNormal},
		{ID: 2, Type: SquareBonus, Effect: &Effect{Kind: EffectPoints, Value: 5}},
		{ID: 3, Type: SquareNormal},
		{ID: 4, Type: SquareNormal},
		{ID: 5, Type: SquarePenalty, Effect: &Effect{Kind: EffectPosition, Value: -2}},
		{ID: 6, Type: SquareNormal},
		{ID: 7, Type: SquareSkip, Effect: &Effect{Kind: EffectSkip, Value: 1}},
		{ID: 8, Type: SquareNormal},
		{ID: 9, Type: SquareBonus, Effect: &Effect{Kind: EffectPoints, Value: 10}},
		{ID: 10, Type: SquareNormal},
		{ID: 11, Type: SquareNormal},
		{ID: 12, Type: SquarePenalty, Effect: &Effect{Kind: EffectPoints, Value: -5}},
		{ID: 13, Type: SquareNormal},
		{ID: 14, Type: SquareNormal},
		{ID: 15, Type: SquareBonus, Effect: &Effect{Kind: EffectPosition, Value: 2}},
		{ID: 16, Type: SquareNormal},
		{ID: 17, Type: SquareNormal},
		{ID: 18, Type: SquareSkip, Effect: &Effect{Kind: EffectSkip, Value: 1}},
		{ID: 19, Type: SquareNormal},
		{ID: 20, Type: SquareNormal},
		{ID: 21, Type: SquareBonus, Effect: &Effect{Kind: EffectPoints, Value: 15}},
		{ID: 22, Type: SquareNormal},
		{ID: 23, Type: SquareNormal},
		{ID: 24, Type: SquareFinal},
	}
}

// EffectOutcome is what landing on a square does to a player's candidate
// position and score. Description is empty for squares without an effect.
type EffectOutcome struct {
	Position     int
	Score        int
	SkipNextTurn bool
	Description  string
}

// ResolveEffect applies the effect of the square at position to the given
// candidate position/score and returns the adjusted values. Square 0 never
// carries an effect by construction and is not inspected. Positions are
// clamped to [0, MaxPosition].
func (b Board) ResolveEffect(position, score int) EffectOutcome {
	out := EffectOutcome{Position: position, Score: score}
	if position <= 0 || position > b.MaxPosition() {
		return out
	}

	sq := b[position]
	if sq.Effect == nil {
		return out
	}

	switch sq.Effect.Kind {
	case EffectPoints:
		out.Score += sq.Effect.Value
		if sq.Type == SquareBonus {
			out.Description = fmt.Sprintf("Bonus! %d extra points!", sq.Effect.Value)
		} else {
			out.Description = fmt.Sprintf("Penalty! Lost %d points.", abs(sq.Effect.Value))
		}
	case EffectPosition:
		out.Position = clamp(position+sq.Effect.Value, 0, b.MaxPosition())
		if sq.Type == SquareBonus {
			out.Description = fmt.Sprintf("Bonus! Moved forward %d spaces.", sq.Effect.Value)
		} else {
			out.Description = fmt.Sprintf("Penalty! Moved back %d spaces.", abs(sq.Effect.Value))
		}
	case EffectSkip:
		out.SkipNextTurn = true
		out.Description = "Skip! You'll miss your next turn."
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
