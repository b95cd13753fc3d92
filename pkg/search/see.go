package search

import (
	"github.com/hardfiskur/hardfiskur/pkg/board"
	"github.com/hardfiskur/hardfiskur/pkg/eval"
)

// seeOrder lists piece types from least to most valuable, the order in which the swap
// algorithm picks the next attacker to move onto the target square.
var seeOrder = []board.Piece{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King}

// StaticExchange evaluates a capture (or promotion) by simulating the full sequence of
// recaptures on the target square, in increasing order of attacker value, including sliders
// uncovered as each attacker is removed from the board (x-ray attacks). It returns the net
// material gain in centi-pawns for the side initiating the capture; a non-negative result
// means the capture does not lose material even after all recaptures. Pawn/knight/bishop/
// rook/queen/king values are eval.NominalValue; see the CPW "swap algorithm".
func StaticExchange(pos *board.Position, side board.Color, m board.Move) eval.Score {
	if !m.IsCapture() {
		return 0
	}

	target := m.To

	var pieces [2][board.NumPieces]board.Bitboard
	for _, c := range []board.Color{board.White, board.Black} {
		for p := board.Pawn; p < board.NumPieces; p++ {
			pieces[c][p] = pos.Piece(c, p)
		}
	}

	captured := eval.NominalValue(board.Pawn) // EnPassant: implicit pawn capture
	if m.Type != board.EnPassant {
		captured = eval.NominalValue(m.Capture)
	}
	if m.IsPromotion() {
		captured += eval.NominalValue(m.Promotion) - eval.NominalValue(board.Pawn)
	}

	rot := pos.Rotated().Xor(m.From)
	pieces[side][m.Piece] ^= board.BitMask(m.From)
	if ep, ok := m.EnPassantCapture(); ok {
		pieces[side.Opponent()][board.Pawn] ^= board.BitMask(ep)
		rot = rot.Xor(ep)
	}

	gain := make([]eval.Score, 1, 32)
	gain[0] = captured
	attackerValue := eval.NominalValue(m.Piece)
	if m.IsPromotion() {
		attackerValue = eval.NominalValue(m.Promotion)
	}

	side = side.Opponent()
	for {
		attacker, piece, ok := leastValuableAttacker(target, side, rot, pieces)
		if !ok {
			break
		}

		gain = append(gain, attackerValue-gain[len(gain)-1])

		rot = rot.Xor(attacker)
		pieces[side][piece] ^= board.BitMask(attacker)
		attackerValue = eval.NominalValue(piece)
		side = side.Opponent()
	}

	for i := len(gain) - 1; i > 0; i-- {
		if v := -gain[i]; v < gain[i-1] {
			gain[i-1] = v
		}
	}
	return gain[0]
}

// leastValuableAttacker returns the cheapest piece of the given side attacking the target
// square, given the current (possibly already-thinned) occupancy.
func leastValuableAttacker(target board.Square, side board.Color, rot board.RotatedBitboard, pieces [2][board.NumPieces]board.Bitboard) (board.Square, board.Piece, bool) {
	pawns := board.PawnCaptureboard(side.Opponent(), board.BitMask(target)) & pieces[side][board.Pawn]
	if pawns != 0 {
		return pawns.ToSquares()[0], board.Pawn, true
	}

	for _, p := range seeOrder[1:] {
		bb := board.Attackboard(rot, target, p) & pieces[side][p]
		if bb != 0 {
			return bb.ToSquares()[0], p, true
		}
	}
	return board.ZeroSquare, board.NoPiece, false
}
