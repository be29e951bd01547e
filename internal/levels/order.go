// internal/levels/order.go
//
// Deterministic per-level question selection. Every run of a level sees the
// same questions in the same order, derived from HMAC(salt, level) so the
// sequence is stable per deployment but not guessable from the level number
// alone.

package levels

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"strconv"

	"github.com/anahumita/trivia-go-arena-play/internal/questions"
)

// difficultyFor maps a level to the question difficulty it draws from.
func difficultyFor(level int) string {
	switch {
	case level <= 2:
		return questions.DifficultyEasy
	case level <= 4:
		return questions.DifficultyMedium
	default:
		return questions.DifficultyHard
	}
}

// orderSeed derives a stable shuffle seed from the salt and level.
func orderSeed(salt string, level int) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte("level-" + strconv.Itoa(level)))
	sum := h.Sum(nil)
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// QuestionsFor filters pool by the level's difficulty and returns up to n
// questions in the level's fixed order.
func QuestionsFor(pool []questions.Question, salt string, level, n int) []questions.Question {
	want := difficultyFor(level)
	var eligible []questions.Question
	for _, q := range pool {
		if q.Difficulty == want {
			eligible = append(eligible, q)
		}
	}
	if len(eligible) == 0 {
		// Thin pools still have to produce a playable level.
		eligible = append(eligible, pool...)
	}

	rng := rand.New(rand.NewSource(orderSeed(salt, level)))
	rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	if n > 0 && len(eligible) > n {
		eligible = eligible[:n]
	}
	return eligible
}
