package search

import (
	"context"

	"github.com/hardfiskur/hardfiskur/pkg/board"
	"github.com/hardfiskur/hardfiskur/pkg/eval"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// Negamax is a depth-limited principal variation search: negamax with alpha-beta pruning,
// reverse futility pruning, null-move pruning, internal iterative reduction, late move
// pruning, futility pruning and late move reductions, bottoming out in quiescence search at
// the horizon. Iterative deepening and aspiration windows are layered on top by searchctl.
//
// See: https://www.chessprogramming.org/Principal_Variation_Search.
type Negamax struct {
	Eval  eval.Evaluator
	Quiet QuietSearch
}

func (p Negamax) Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, []board.Move, error) {
	// Ponder forces the root search down a fixed initial line, e.g. to break down the score of
	// every legal move at the current position one at a time (see the console driver).
	pushed := 0
	for _, mv := range sctx.Ponder {
		if !b.PushMove(mv) {
			break
		}
		pushed++
	}
	defer func() {
		for i := 0; i < pushed; i++ {
			b.PopMove()
		}
	}()

	selDepth := sctx.SelDepth
	if selDepth == nil {
		selDepth = new(int)
	}
	bestMoveNodes := sctx.BestMoveNodes
	if bestMoveNodes == nil {
		bestMoveNodes = new(uint64)
	}
	*bestMoveNodes = 0
	rootMoveDone := new(bool) // flips true once the root's first legal move is fully scored
	run := &runNegamax{
		eval:          p.Eval,
		quiet:         p.Quiet,
		tt:            sctx.TT,
		noise:         sctx.Noise,
		config:        sctx.Config,
		killers:       sctx.Killers,
		history:       sctx.History,
		b:             b,
		rootPly:       b.Ply(),
		selDepth:      selDepth,
		bestMoveNodes: bestMoveNodes,
		rootMoveDone:  rootMoveDone,
	}
	if run.killers == nil {
		run.killers = NewKillerTable()
	}
	if run.history == nil {
		run.history = NewHistoryTable()
	}

	score, moves := run.search(ctx, depth, sctx.Alpha, sctx.Beta, true, true)
	if contextx.IsCancelled(ctx) && moves == nil {
		return run.nodes, 0, nil, ErrHalted
	}

	for i := 0; i < pushed; i++ {
		score = eval.IncrementMateDistance(score).Negate()
	}
	moves = append(append([]board.Move{}, sctx.Ponder[:pushed]...), moves...)
	return run.nodes, score, moves, nil
}

type runNegamax struct {
	eval    eval.Evaluator
	quiet   QuietSearch
	tt      TranspositionTable
	noise   eval.Random
	config  Config
	killers *KillerTable
	history *HistoryTable
	b             *board.Board
	rootPly       int
	nodes         uint64
	selDepth      *int
	bestMoveNodes *uint64

	// rootMoveDone starts false and flips true once the root's first legal move has been fully
	// scored; see search's cancellation check.
	rootMoveDone *bool

	// evals remembers the static eval last computed at each relative ply, so "improving" can
	// compare against the same side's position two plies ago without recomputing it.
	evals [eval.MaxPly]eval.Score
}

// cancelled reports whether ctx should abort the current node: a cancellation signal is
// honored everywhere except before the root's first legal move has completed, so that Search
// always has at least one fully-searched move to report even if stop arrives immediately.
func (m *runNegamax) cancelled(ctx context.Context) bool {
	return contextx.IsCancelled(ctx) && (m.rootMoveDone == nil || *m.rootMoveDone)
}

// search returns the score (from the side-to-move's perspective) and principal variation for
// the node. pv marks a principal-variation node (searched with a non-null window); allowNull
// is false immediately after a null move, so two null moves never run back to back.
func (m *runNegamax) search(ctx context.Context, depth int, alpha, beta eval.Score, pv, allowNull bool) (eval.Score, []board.Move) {
	if m.cancelled(ctx) {
		return eval.Zero, nil
	}

	ply := m.b.Ply() - m.rootPly
	if ply > *m.selDepth {
		*m.selDepth = ply
	}

	if ply == 0 {
		// The root itself may already be a real (three-fold) draw by the time Search is called,
		// e.g. a repetition made outside the search tree; honor it as-is.
		if m.b.Result().Outcome == board.Draw {
			return eval.Zero, nil
		}
	} else {
		// Fifty-move rule and insufficient material are facts of the current position, true
		// regardless of how it was reached. Repetition is scoped tighter here: an internal node
		// draws on its own two-fold repeat rather than waiting for Result's three-fold
		// adjudication, per "two-fold on internal nodes, three-fold at the root".
		if res := m.b.Result(); res.Outcome == board.Draw && res.Reason != board.Repetition3 && res.Reason != board.Repetition5 {
			return eval.Zero, nil
		}
		if m.b.RepetitionCount() >= 2 {
			return eval.Zero, nil
		}

		// Mate distance pruning: a mate found closer to the root always trumps one further
		// away, so the window can be tightened before doing any more work at this node.
		alpha = eval.Max(alpha, -eval.Mate+eval.Score(ply))
		beta = eval.Min(beta, eval.Mate-eval.Score(ply)-1)
		if alpha >= beta {
			return alpha, nil
		}
	}

	if depth <= 0 {
		sctx := &Context{Alpha: alpha, Beta: beta, TT: m.tt, Noise: m.noise, Config: m.config, Ply: ply, SelDepth: m.selDepth, RootMoveDone: m.rootMoveDone}
		nodes, score := m.quiet.QuietSearch(ctx, sctx, m.b)
		m.nodes += nodes
		return score, nil
	}

	m.nodes++

	pos := m.b.Position()
	turn := m.b.Turn()
	inCheck := pos.IsChecked(turn)

	var hashMove board.Move
	if bound, d, score, mv, ok := m.tt.Read(m.b.Hash()); ok {
		hashMove = mv
		if !pv && d >= depth {
			ttScore := score.FromTT(ply)
			switch {
			case bound == ExactBound:
				return ttScore, nil
			case bound == LowerBound && ttScore >= beta:
				return ttScore, nil
			case bound == UpperBound && ttScore <= alpha:
				return ttScore, nil
			}
		}
	}

	var staticEval eval.Score
	improving := false
	if !inCheck {
		staticEval = m.eval.Evaluate(ctx, m.b) + m.noise.Evaluate(ctx, m.b)
		if ply < len(m.evals) {
			m.evals[ply] = staticEval
			improving = ply >= 2 && staticEval > m.evals[ply-2]
		}
	}

	if !pv && !inCheck {
		if margin := m.config.RazorMargin; margin > 0 && depth <= 8 {
			if staticEval-eval.Score(margin*depth) >= beta {
				return staticEval, nil // Reverse Futility Pruning: fail-soft
			}
		}

		if allowNull && depth >= m.config.NullMoveMinDepth && staticEval >= beta && hasNonPawnMaterial(pos, turn) {
			r := m.config.NullMoveBaseReduction + depth/max(m.config.NullMoveDepthDivisor, 1)

			m.b.PushNullMove()
			score, _ := m.search(ctx, depth-1-r, beta.Negate(), beta.Negate()+1, false, false)
			score = score.Negate()
			m.b.PopNullMove()

			if score >= beta {
				if score.IsMate() {
					score = beta // null move cannot prove a mate; don't report one
				}
				return score, nil
			}
		}
	}

	if hashMove == board.NullMove && depth >= m.config.InternalIterationMinDepth {
		depth-- // Internal Iterative Reduction: no hash move to trust, search shallower first
	}

	killer1, killer2 := m.killers.Get(ply)
	picker := NewMovePicker(pos, turn, ply, m.killers, m.history)
	moves := board.NewMoveList(pos.PseudoLegalMoves(turn), board.First(hashMove, picker.Priority))

	var best board.Move
	var pvLine []board.Move
	var triedQuiets []board.Move
	bound := UpperBound
	legalCount := 0
	quietsTried := 0

	for {
		mv, ok := moves.Next()
		if !ok {
			break
		}
		isQuiet := mv.IsQuiet()

		if !pv && !inCheck && legalCount > 0 && isQuiet {
			if depth <= 8 {
				threshold := m.config.LateMovePruningBase + m.config.LateMovePruningFactor*depth*depth
				if !improving {
					threshold /= 2
				}
				if quietsTried >= threshold {
					continue // Late Move Pruning: remaining quiets unlikely to matter this deep
				}
			}
			if depth <= m.config.FutilityMaxDepth && staticEval+eval.Score(m.config.FutilityMargin*depth) <= alpha {
				continue // Futility Pruning
			}
		}

		moveNodesStart := m.nodes
		if !m.b.PushMove(mv) {
			continue // not legal
		}
		legalCount++
		if isQuiet {
			quietsTried++
			triedQuiets = append(triedQuiets, mv)
		}
		givesCheck := m.b.Position().IsChecked(m.b.Turn())

		var score eval.Score
		var rem []board.Move

		switch {
		case legalCount == 1:
			score, rem = m.search(ctx, depth-1, beta.Negate(), alpha.Negate(), pv, true)
			score = score.Negate()

		default:
			r := 0
			if isQuiet && !inCheck && !givesCheck && depth >= m.config.LateMoveReductionMinDepth && legalCount > m.config.LateMoveReductionMinMoveIndex {
				r = lmrReduction(depth, legalCount)
				if pv {
					r--
				}
				if !improving {
					r++
				}
				if killer1.Equals(mv) || killer2.Equals(mv) {
					r--
				}
				r = max(r, 0)
			}

			score, rem = m.search(ctx, depth-1-r, alpha.Negate()-1, alpha.Negate(), false, true)
			score = score.Negate()

			if score > alpha && r > 0 {
				score, rem = m.search(ctx, depth-1, alpha.Negate()-1, alpha.Negate(), false, true)
				score = score.Negate()
			}
			if score > alpha && pv {
				score, rem = m.search(ctx, depth-1, beta.Negate(), alpha.Negate(), true, true)
				score = score.Negate()
			}
		}

		m.b.PopMove()

		if ply == 0 && legalCount == 1 {
			// The root's first move has now been fully scored, however long it took: stop
			// shielding later moves (and their whole subtrees) from cancellation.
			*m.rootMoveDone = true
		} else if legalCount > 1 && contextx.IsCancelled(ctx) {
			// Aborted mid-flight: this move's score is only partial, so it must not be allowed
			// to become the new best. Keep whatever the previous move already established.
			break
		}

		if score > alpha {
			alpha = score
			best = mv
			pvLine = append([]board.Move{mv}, rem...)
			bound = ExactBound
			if ply == 0 {
				*m.bestMoveNodes = m.nodes - moveNodesStart
			}
		}
		if alpha >= beta {
			bound = LowerBound
			if isQuiet {
				m.killers.Add(ply, mv)
				m.history.Add(turn, mv, triedQuiets, depth)
			}
			break
		}
	}

	if legalCount == 0 {
		if inCheck {
			return -eval.Mate + eval.Score(ply), nil
		}
		return eval.Zero, nil
	}

	m.tt.Write(m.b.Hash(), bound, ply, depth, alpha, best)
	return alpha, pvLine
}

// lmrReduction is the late-move-reduction table: monotone increasing in both depth and move
// index, per the standard shape. Exact coefficients are a tuning artefact.
func lmrReduction(depth, moveIndex int) int {
	r := 1
	if depth >= 6 {
		r++
	}
	if moveIndex >= 12 {
		r++
	}
	return r
}

func hasNonPawnMaterial(pos *board.Position, c board.Color) bool {
	return pos.Piece(c, board.Knight) != 0 || pos.Piece(c, board.Bishop) != 0 ||
		pos.Piece(c, board.Rook) != 0 || pos.Piece(c, board.Queen) != 0
}
