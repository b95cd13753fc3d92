package eval

import (
	"context"

	"github.com/hardfiskur/hardfiskur/pkg/board"
)

// Standard is a tapered evaluator: material and piece-square tables are interpolated between
// a midgame and an endgame table by game phase, supplemented by pawn structure, mobility and
// king safety terms. All terms are computed from White's perspective and negated for Black's
// view on return, matching Evaluate's side-to-move convention. Evaluation noise, if any, is
// layered on separately by the search (see Context.Noise) rather than baked in here, since it
// is a per-search, not a per-position, concern.
type Standard struct{}

func (s Standard) Evaluate(ctx context.Context, b *board.Board) Score {
	pos := b.Position()
	phase := gamePhase(pos)

	score := materialAndPST(pos, phase) + pawnStructure(pos) + mobility(pos) + kingSafety(pos)
	if b.Turn() == board.Black {
		score = -score
	}
	return score
}

func gamePhase(pos *board.Position) Score {
	var phase Score
	for _, c := range []board.Color{board.White, board.Black} {
		for _, p := range []board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
			phase += Score(pos.Piece(c, p).PopCount()) * nonPawnPhaseWeight(p)
		}
	}
	if phase > 24 {
		phase = 24
	}
	return phase
}

// materialAndPST returns the White-minus-Black material and positional balance.
func materialAndPST(pos *board.Position, phase Score) Score {
	var score Score
	for _, c := range []board.Color{board.White, board.Black} {
		sign := Score(1)
		if c == board.Black {
			sign = -1
		}

		for _, sq := range pos.Piece(c, board.Pawn).ToSquares() {
			score += sign * (NominalValue(board.Pawn) + pstValue(pawnPSTMid, pawnPSTEnd, c, sq, phase))
		}
		for _, sq := range pos.Piece(c, board.Knight).ToSquares() {
			r, f := pstIndex(c, sq)
			score += sign * (NominalValue(board.Knight) + knightPST[r][f])
		}
		for _, sq := range pos.Piece(c, board.Bishop).ToSquares() {
			r, f := pstIndex(c, sq)
			score += sign * (NominalValue(board.Bishop) + bishopPST[r][f])
		}
		for _, sq := range pos.Piece(c, board.Rook).ToSquares() {
			r, f := pstIndex(c, sq)
			score += sign * (NominalValue(board.Rook) + rookPST[r][f])
		}
		for _, sq := range pos.Piece(c, board.Queen).ToSquares() {
			r, f := pstIndex(c, sq)
			score += sign * (NominalValue(board.Queen) + queenPST[r][f])
		}
		for _, sq := range pos.Piece(c, board.King).ToSquares() {
			score += sign * pstValue(kingPSTMid, kingPSTEnd, c, sq, phase)
		}
	}
	return score
}

const (
	doubledPawnPenalty   Score = 10
	isolatedPawnPenalty  Score = 15
	passedPawnBonusBase  Score = 10
	passedPawnBonusRank  Score = 8
	mobilityWeight       Score = 2
	kingShieldBonus      Score = 8
	kingAttackerPenalty  Score = 20
)

// pawnStructure penalizes doubled and isolated pawns and rewards passed pawns, from White's
// perspective.
func pawnStructure(pos *board.Position) Score {
	var score Score
	for _, c := range []board.Color{board.White, board.Black} {
		sign := Score(1)
		if c == board.Black {
			sign = -1
		}
		own := pos.Piece(c, board.Pawn)
		opp := pos.Piece(c.Opponent(), board.Pawn)

		for f := board.ZeroFile; f < board.NumFiles; f++ {
			count := (own & board.BitFile(f)).PopCount()
			if count > 1 {
				score -= sign * doubledPawnPenalty * Score(count-1)
			}
			if count > 0 {
				isolated := true
				if f > board.ZeroFile && (own&board.BitFile(f-1)) != 0 {
					isolated = false
				}
				if f+1 < board.NumFiles && (own&board.BitFile(f+1)) != 0 {
					isolated = false
				}
				if isolated {
					score -= sign * isolatedPawnPenalty * Score(count)
				}
			}
		}

		for _, sq := range own.ToSquares() {
			if isPassedPawn(c, sq, opp) {
				r := sq.Rank().V()
				if c == board.Black {
					r = 7 - r
				}
				score += sign * (passedPawnBonusBase + passedPawnBonusRank*Score(r))
			}
		}
	}
	return score
}

// isPassedPawn reports whether no opposing pawn on the same or adjacent file can ever block
// or capture this pawn as it advances.
func isPassedPawn(c board.Color, sq board.Square, oppPawns board.Bitboard) bool {
	f := sq.File()
	r := sq.Rank().V()

	var mask board.Bitboard
	for df := -1; df <= 1; df++ {
		nf := int(f) + df
		if nf < 0 || nf >= int(board.NumFiles) {
			continue
		}
		mask |= board.BitFile(board.File(nf))
	}

	ahead := mask
	for _, osq := range (oppPawns & ahead).ToSquares() {
		or := osq.Rank().V()
		if c == board.White && or > r {
			return false
		}
		if c == board.Black && or < r {
			return false
		}
	}
	return true
}

// mobility counts pseudo-attacked squares per side, a cheap proxy for piece activity.
func mobility(pos *board.Position) Score {
	var score Score
	for _, c := range []board.Color{board.White, board.Black} {
		sign := Score(1)
		if c == board.Black {
			sign = -1
		}

		var count int
		for _, p := range board.KingQueenRookKnightBishop {
			if p == board.King {
				continue
			}
			for _, sq := range pos.Piece(c, p).ToSquares() {
				count += (board.Attackboard(pos.Rotated(), sq, p) &^ pos.Color(c)).PopCount()
			}
		}
		score += sign * mobilityWeight * Score(count)
	}
	return score
}

// kingSafety rewards own pawns on the squares adjacent to the king, wherever the king stands,
// and penalizes squares around the king attacked by the opponent.
func kingSafety(pos *board.Position) Score {
	var score Score
	for _, c := range []board.Color{board.White, board.Black} {
		sign := Score(1)
		if c == board.Black {
			sign = -1
		}

		kings := pos.Piece(c, board.King)
		if kings == 0 {
			continue
		}
		ksq := kings.ToSquares()[0]

		shield := board.KingAttackboard(ksq) & pos.Piece(c, board.Pawn)
		score += sign * kingShieldBonus * Score(shield.PopCount())

		ring := board.KingAttackboard(ksq)
		attackers := 0
		for _, rsq := range ring.ToSquares() {
			if pos.IsAttacked(c.Opponent(), rsq) {
				attackers++
			}
		}
		score -= sign * kingAttackerPenalty * Score(attackers)
	}
	return score
}
