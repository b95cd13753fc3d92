package search_test

import (
	"testing"

	"github.com/hardfiskur/hardfiskur/pkg/board"
	"github.com/hardfiskur/hardfiskur/pkg/board/fen"
	"github.com/hardfiskur/hardfiskur/pkg/eval"
	"github.com/hardfiskur/hardfiskur/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findMove(t *testing.T, pos *board.Position, side board.Color, uci string) board.Move {
	t.Helper()
	m, err := board.ParseMove(uci)
	require.NoError(t, err)
	for _, cand := range pos.PseudoLegalMoves(side) {
		if cand.Equals(m) {
			return cand
		}
	}
	require.Failf(t, "move not found", "%v not pseudo-legal for %v", uci, side)
	return board.Move{}
}

// TestStaticExchangeFreeCapture checks that capturing an undefended pawn nets exactly a pawn,
// the simplest possible exchange: no recapture follows.
func TestStaticExchangeFreeCapture(t *testing.T) {
	pos, turn, _, _, err := fen.Decode("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	m := findMove(t, pos, turn, "e4d5")
	gain := search.StaticExchange(pos, turn, m)
	assert.Equal(t, eval.NominalValue(board.Pawn), gain)
}

// TestStaticExchangeLosesToDefendedPawn checks that capturing a knight defended by a pawn, with
// nothing of ours left to recapture back, correctly nets knight-for-pawn: the opponent's
// recapture is priced into the exchange even though our move itself is a straight capture.
func TestStaticExchangeLosesToDefendedPawn(t *testing.T) {
	pos, turn, _, _, err := fen.Decode("4k3/8/2p5/3n4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	m := findMove(t, pos, turn, "e4d5")
	gain := search.StaticExchange(pos, turn, m)
	assert.Equal(t, eval.NominalValue(board.Knight)-eval.NominalValue(board.Pawn), gain)
}

// TestStaticExchangeLosingTrade checks the SEE correctly identifies a losing trade: a bishop
// taking a pawn defended by another pawn loses the exchange (bishop for a pawn).
func TestStaticExchangeLosingTrade(t *testing.T) {
	pos, turn, _, _, err := fen.Decode("4k3/8/1p6/2p5/3B4/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	m := findMove(t, pos, turn, "d4c5")
	gain := search.StaticExchange(pos, turn, m)
	assert.Equal(t, eval.NominalValue(board.Pawn)-eval.NominalValue(board.Bishop), gain)
}
