package eval

import "github.com/hardfiskur/hardfiskur/pkg/board"

// Piece-square tables, indexed [Rank1..Rank8][FileH..FileA], in centi-pawns, from White's
// perspective. Values follow the shape of the well-known PeSTO tables: pawns rewarded for
// advancing and contesting the center, knights penalized on the rim, bishops on long
// diagonals, rooks on open files and the seventh rank, the king hidden in the midgame and
// centralized in the endgame.
var (
	pawnPSTMid = [8][8]Score{
		{0, 0, 0, 0, 0, 0, 0, 0},
		{5, 10, 10, -20, -20, 10, 10, 5},
		{5, -5, -10, 0, 0, -10, -5, 5},
		{0, 0, 0, 20, 20, 0, 0, 0},
		{5, 5, 10, 25, 25, 10, 5, 5},
		{10, 10, 20, 30, 30, 20, 10, 10},
		{50, 50, 50, 50, 50, 50, 50, 50},
		{0, 0, 0, 0, 0, 0, 0, 0},
	}
	pawnPSTEnd = [8][8]Score{
		{0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
		{10, 10, 10, 10, 10, 10, 10, 10},
		{20, 20, 20, 20, 20, 20, 20, 20},
		{35, 35, 35, 35, 35, 35, 35, 35},
		{60, 60, 60, 60, 60, 60, 60, 60},
		{90, 90, 90, 90, 90, 90, 90, 90},
		{0, 0, 0, 0, 0, 0, 0, 0},
	}
	knightPST = [8][8]Score{
		{-50, -40, -30, -30, -30, -30, -40, -50},
		{-40, -20, 0, 5, 5, 0, -20, -40},
		{-30, 5, 10, 15, 15, 10, 5, -30},
		{-30, 0, 15, 20, 20, 15, 0, -30},
		{-30, 5, 15, 20, 20, 15, 5, -30},
		{-30, 0, 10, 15, 15, 10, 0, -30},
		{-40, -20, 0, 0, 0, 0, -20, -40},
		{-50, -40, -30, -30, -30, -30, -40, -50},
	}
	bishopPST = [8][8]Score{
		{-20, -10, -10, -10, -10, -10, -10, -20},
		{-10, 5, 0, 0, 0, 0, 5, -10},
		{-10, 10, 10, 10, 10, 10, 10, -10},
		{-10, 0, 10, 10, 10, 10, 0, -10},
		{-10, 5, 5, 10, 10, 5, 5, -10},
		{-10, 0, 5, 10, 10, 5, 0, -10},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-20, -10, -10, -10, -10, -10, -10, -20},
	}
	rookPST = [8][8]Score{
		{0, 0, 0, 5, 5, 0, 0, 0},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{-5, 0, 0, 0, 0, 0, 0, -5},
		{5, 10, 10, 10, 10, 10, 10, 5},
		{0, 0, 0, 0, 0, 0, 0, 0},
	}
	queenPST = [8][8]Score{
		{-20, -10, -10, -5, -5, -10, -10, -20},
		{-10, 0, 5, 0, 0, 0, 0, -10},
		{-10, 5, 5, 5, 5, 5, 0, -10},
		{0, 0, 5, 5, 5, 5, 0, -5},
		{-5, 0, 5, 5, 5, 5, 0, -5},
		{-10, 0, 5, 5, 5, 5, 0, -10},
		{-10, 0, 0, 0, 0, 0, 0, -10},
		{-20, -10, -10, -5, -5, -10, -10, -20},
	}
	kingPSTMid = [8][8]Score{
		{20, 30, 10, 0, 0, 10, 30, 20},
		{20, 20, 0, 0, 0, 0, 20, 20},
		{-10, -20, -20, -20, -20, -20, -20, -10},
		{-20, -30, -30, -40, -40, -30, -30, -20},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
		{-30, -40, -40, -50, -50, -40, -40, -30},
	}
	kingPSTEnd = [8][8]Score{
		{-50, -30, -30, -30, -30, -30, -30, -50},
		{-30, -30, 0, 0, 0, 0, -30, -30},
		{-30, -10, 20, 30, 30, 20, -10, -30},
		{-30, -10, 30, 40, 40, 30, -10, -30},
		{-30, -10, 30, 40, 40, 30, -10, -30},
		{-30, -10, 20, 30, 30, 20, -10, -30},
		{-30, -20, -10, 0, 0, -10, -20, -30},
		{-50, -40, -30, -20, -20, -30, -40, -50},
	}
)

// pstIndex returns the [rank][file] index for the given square, from the perspective of the
// given color: Black looks up the mirror rank, so a single White-oriented table serves both
// sides.
func pstIndex(c board.Color, sq board.Square) (int, int) {
	r := sq.Rank().V()
	if c == board.Black {
		r = 7 - r
	}
	return r, sq.File().V()
}

func pstValue(mid, end [8][8]Score, c board.Color, sq board.Square, phase Score) Score {
	r, f := pstIndex(c, sq)
	return taper(mid[r][f], end[r][f], phase)
}

// taper interpolates between the midgame and endgame value by phase, where phase is in
// [0;24]: 24 is the full starting material of minor/major pieces, 0 is king-and-pawns-only.
func taper(mid, end, phase Score) Score {
	return (mid*phase + end*(24-phase)) / 24
}

// nonPawnPhaseWeight gives the contribution of one piece towards the game phase, used to
// interpolate between midgame and endgame piece-square tables. Knights/bishops count 1,
// rooks 2, queens 4; 24 is the phase value of the full initial non-pawn, non-king material.
func nonPawnPhaseWeight(p board.Piece) Score {
	switch p {
	case board.Knight, board.Bishop:
		return 1
	case board.Rook:
		return 2
	case board.Queen:
		return 4
	default:
		return 0
	}
}
