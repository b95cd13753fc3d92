package board_test

import (
	"testing"

	"github.com/hardfiskur/hardfiskur/pkg/board"
	"github.com/hardfiskur/hardfiskur/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoard(t *testing.T, position string) *board.Board {
	t.Helper()
	pos, turn, np, fm, err := fen.Decode(position)
	require.NoError(t, err)
	return board.NewBoard(board.NewZobristTable(0), pos, turn, np, fm)
}

func pushNamed(t *testing.T, b *board.Board, uci string) {
	t.Helper()
	m, err := board.ParseMove(uci)
	require.NoError(t, err)
	for _, cand := range b.Position().PseudoLegalMoves(b.Turn()) {
		if cand.Equals(m) {
			require.True(t, b.PushMove(cand))
			return
		}
	}
	t.Fatalf("move %v not legal", uci)
}

// shuffle repeats the reversible h1<->h2 / a8<->a7 cycle n times (4 half-moves per cycle). Kings
// sit on a8 (black) and b5 (white), far enough apart that the black king shuffle never steps
// adjacent to the white king.
func shuffle(t *testing.T, b *board.Board, cycles int) {
	t.Helper()
	for i := 0; i < cycles; i++ {
		pushNamed(t, b, "h1h2")
		pushNamed(t, b, "a8a7")
		pushNamed(t, b, "h2h1")
		pushNamed(t, b, "a7a8")
	}
}

// TestRepetitionCountTwoFoldBeforeResultAdjudicatesThreeFold checks that RepetitionCount reports
// a two-fold repeat as soon as it happens, well before Result() classifies the position as a
// three-fold draw -- the distinction the search relies on to draw two-fold internally while
// leaving three-fold adjudication to the root.
func TestRepetitionCountTwoFoldBeforeResultAdjudicatesThreeFold(t *testing.T) {
	b := newBoard(t, "k7/8/8/1K6/8/8/8/7R w - - 0 1")

	assert.Equal(t, 1, b.RepetitionCount())

	shuffle(t, b, 1)

	// Back to the starting position for the second time: two-fold, but Result() does not call
	// this a draw yet.
	assert.Equal(t, 2, b.RepetitionCount())
	assert.Equal(t, board.Undecided, b.Result().Outcome)

	shuffle(t, b, 1)

	// A third occurrence: now Result() adjudicates it.
	assert.Equal(t, 3, b.RepetitionCount())
	assert.Equal(t, board.Draw, b.Result().Outcome)
	assert.Equal(t, board.Repetition3, b.Result().Reason)
}

// TestResultDoesNotStickAfterADrawConditionClears checks that Result() reflects only the most
// recent push's own facts: a draw flagged at one node must not leak into a later position that
// does not itself satisfy any draw condition.
func TestResultDoesNotStickAfterADrawConditionClears(t *testing.T) {
	b := newBoard(t, "k7/8/8/1K6/8/8/8/7R w - - 0 1")

	shuffle(t, b, 2)
	require.Equal(t, board.Draw, b.Result().Outcome) // genuine three-fold at this node; rook is back on h1

	// A rook move that goes somewhere new breaks the repetition; Result() must clear, not carry
	// the stale Draw forward.
	pushNamed(t, b, "h1b1")
	assert.Equal(t, board.Undecided, b.Result().Outcome)
}
