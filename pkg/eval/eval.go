// Package eval contains position evaluation logic and utilities.
package eval

import (
	"context"

	"github.com/hardfiskur/hardfiskur/pkg/board"
)

// Evaluator is a static position evaluator.
type Evaluator interface {
	// Evaluate returns the position score, in centi-pawns, for the side to move.
	Evaluate(ctx context.Context, b *board.Board) Score
}

// Material returns the nominal material advantage balance for the side to move.
type Material struct{}

func (Material) Evaluate(ctx context.Context, b *board.Board) Score {
	pos := b.Position()
	turn := b.Turn()

	var score Score
	for p := board.Pawn; p < board.NumPieces; p++ {
		score += Score(pos.Piece(turn, p).PopCount()-pos.Piece(turn.Opponent(), p).PopCount()) * NominalValue(p)
	}
	return score
}

// NominalValue is the absolute nominal value, in centi-pawns, of a piece. The King is given an
// arbitrary large value so exchange evaluation never treats it as a cheap attacker/victim.
func NominalValue(p board.Piece) Score {
	switch p {
	case board.Pawn:
		return 100
	case board.Bishop, board.Knight:
		return 300
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	case board.King:
		return 20000
	default:
		return 0
	}
}

// NominalValueGain is the nominal material gain, in centi-pawns, for a move.
func NominalValueGain(m board.Move) Score {
	switch m.Type {
	case board.CapturePromotion:
		return NominalValue(m.Capture) + NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Promotion:
		return NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Capture:
		return NominalValue(m.Capture)
	case board.EnPassant:
		return NominalValue(board.Pawn)
	default:
		return 0
	}
}
