package search

// Config collects the tunable constants governing pruning, reduction and extension decisions.
// Centralizing them as data -- rather than scattering magic numbers through the search code --
// lets a harness sweep them without touching search logic. The defaults reproduce the shape of
// standard alpha-beta pruning heuristics; the exact coefficients are empirical tuning artifacts,
// not load-bearing constants, and are not claimed to be optimal.
type Config struct {
	// RazorMargin disables Reverse Futility Pruning when zero; otherwise the per-ply margin
	// added to depth for the static-eval cutoff test near the leaves.
	RazorMargin int
	// NullMoveMinDepth is the shallowest depth at which Null-Move Pruning is attempted.
	NullMoveMinDepth int
	// NullMoveBaseReduction and NullMoveDepthDivisor compute the null-move search reduction
	// R = NullMoveBaseReduction + depth/NullMoveDepthDivisor.
	NullMoveBaseReduction int
	NullMoveDepthDivisor  int
	// InternalIterationMinDepth is the shallowest depth at which Internal Iterative Reduction
	// (searching the node one ply shallower) is applied when no hash move is available.
	InternalIterationMinDepth int
	// LateMovePruningBase and LateMovePruningFactor compute the quiet-move count threshold
	// beyond which remaining quiet moves are skipped: LateMovePruningBase + factor*depth*depth.
	LateMovePruningBase   int
	LateMovePruningFactor int
	// FutilityMargin is the per-ply margin added to depth for the futility-pruning cutoff test.
	FutilityMargin int
	FutilityMaxDepth int
	// LateMoveReductionMinDepth and LateMoveReductionMinMoveIndex gate when late move
	// reduction is attempted.
	LateMoveReductionMinDepth     int
	LateMoveReductionMinMoveIndex int
	// AspirationWindow is the starting half-width (in centi-pawns) of the aspiration window
	// around the previous iteration's score.
	AspirationWindow int

	// QuiescenceChecks enables generating quiet moves that give check inside quiescence search,
	// in addition to captures and promotions (evasions are searched whenever the side to move
	// is in check, regardless of this flag). Left disabled
	// by default: it widens the search meaningfully and the seed suite passes without it.
	QuiescenceChecks bool
}

// DefaultConfig returns the default tuning, reproducing standard textbook pruning shapes.
func DefaultConfig() Config {
	return Config{
		RazorMargin:                   120,
		NullMoveMinDepth:              3,
		NullMoveBaseReduction:         3,
		NullMoveDepthDivisor:          6,
		InternalIterationMinDepth:     4,
		LateMovePruningBase:           3,
		LateMovePruningFactor:         2,
		FutilityMargin:                90,
		FutilityMaxDepth:              6,
		LateMoveReductionMinDepth:     3,
		LateMoveReductionMinMoveIndex: 3,
		AspirationWindow:              15,
		QuiescenceChecks:              false,
	}
}
