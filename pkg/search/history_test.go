package search_test

import (
	"testing"

	"github.com/hardfiskur/hardfiskur/pkg/board"
	"github.com/hardfiskur/hardfiskur/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestKillerTableAddAndGet(t *testing.T) {
	k := search.NewKillerTable()

	m1 := board.Move{From: board.E2, To: board.E4}
	m2 := board.Move{From: board.G1, To: board.F3}

	k1, k2 := k.Get(3)
	assert.True(t, k1.Equals(board.Move{}))
	assert.True(t, k2.Equals(board.Move{}))

	k.Add(3, m1)
	k1, k2 = k.Get(3)
	assert.True(t, k1.Equals(m1))
	assert.True(t, k2.Equals(board.Move{}))

	k.Add(3, m2)
	k1, k2 = k.Get(3)
	assert.True(t, k1.Equals(m2))
	assert.True(t, k2.Equals(m1))

	// Re-adding the current top killer is a no-op, not a promotion-to-self.
	k.Add(3, m2)
	k1, k2 = k.Get(3)
	assert.True(t, k1.Equals(m2))
	assert.True(t, k2.Equals(m1))

	// Other plies are unaffected.
	k1, k2 = k.Get(4)
	assert.True(t, k1.Equals(board.Move{}))
	assert.True(t, k2.Equals(board.Move{}))
}

func TestKillerTableOutOfRange(t *testing.T) {
	k := search.NewKillerTable()
	m := board.Move{From: board.E2, To: board.E4}

	k.Add(-1, m)
	k.Add(1<<20, m)

	k1, k2 := k.Get(-1)
	assert.True(t, k1.Equals(board.Move{}))
	assert.True(t, k2.Equals(board.Move{}))
}

func TestHistoryTableRewardsAndPenalizes(t *testing.T) {
	h := search.NewHistoryTable()

	best := board.Move{From: board.D2, To: board.D4}
	tried := []board.Move{
		{From: board.C2, To: board.C4},
		{From: board.G1, To: board.F3},
		best,
	}

	h.Add(board.White, best, tried, 4)

	assert.Equal(t, int32(16), h.Get(board.White, best))
	assert.Equal(t, int32(-16), h.Get(board.White, tried[0]))
	assert.Equal(t, int32(-16), h.Get(board.White, tried[1]))

	// Black's table is independent of White's.
	assert.Equal(t, int32(0), h.Get(board.Black, best))
}

func TestHistoryTableSaturates(t *testing.T) {
	h := search.NewHistoryTable()
	best := board.Move{From: board.A2, To: board.A4}

	for i := 0; i < 100; i++ {
		h.Add(board.White, best, nil, 64) // depth^2 = 4096 per call
	}
	assert.Equal(t, int32(1<<14), h.Get(board.White, best))
}
