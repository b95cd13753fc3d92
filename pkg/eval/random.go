package eval

import (
	"context"
	"github.com/hardfiskur/hardfiskur/pkg/board"
	"math/rand"
)

// Random is a randomized noise generator. It adds a small amount of randomness to evaluations,
// useful so self-play games don't collapse into the same line every time. The limit specifies
// how many centi-pawns to add/remove, in the range [-limit/2; limit/2]. The default value
// always returns zero.
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(limit int, seed int64) Random {
	return Random{
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n Random) Evaluate(ctx context.Context, b *board.Board) Score {
	if n.limit <= 0 {
		return 0
	}
	return Score(n.rand.Intn(n.limit) - n.limit/2)
}
