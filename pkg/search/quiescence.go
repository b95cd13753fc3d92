package search

import (
	"context"

	"github.com/hardfiskur/hardfiskur/pkg/board"
	"github.com/hardfiskur/hardfiskur/pkg/eval"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// Quiescence extends the main search with a capture-only (plus check evasions) search until
// the position is "quiet", avoiding the horizon effect where a fixed-depth cutoff stops right
// before a winning or losing capture sequence.
type Quiescence struct {
	Eval eval.Evaluator
}

func (q Quiescence) QuietSearch(ctx context.Context, sctx *Context, b *board.Board) (uint64, eval.Score) {
	selDepth := sctx.SelDepth
	if selDepth == nil {
		selDepth = new(int)
	}
	run := &runQuiescence{eval: q.Eval, noise: sctx.Noise, tt: sctx.TT, config: sctx.Config, b: b, rootPly: b.Ply() - sctx.Ply, selDepth: selDepth, rootMoveDone: sctx.RootMoveDone}
	score := run.search(ctx, sctx.Alpha, sctx.Beta)
	return run.nodes, score
}

type runQuiescence struct {
	eval     eval.Evaluator
	noise    eval.Random
	tt       TranspositionTable
	config   Config
	b        *board.Board
	rootPly  int
	nodes    uint64
	selDepth *int

	// rootMoveDone mirrors runNegamax.rootMoveDone: shared by pointer across the main search and
	// quiescence so quiescence also shields the root's first move from cancellation.
	rootMoveDone *bool
}

func (r *runQuiescence) cancelled(ctx context.Context) bool {
	return contextx.IsCancelled(ctx) && (r.rootMoveDone == nil || *r.rootMoveDone)
}

func (r *runQuiescence) search(ctx context.Context, alpha, beta eval.Score) eval.Score {
	if r.cancelled(ctx) {
		return eval.Zero
	}

	r.nodes++
	ply := r.b.Ply() - r.rootPly
	if ply > *r.selDepth {
		*r.selDepth = ply
	}

	if ply == 0 {
		if r.b.Result().Outcome == board.Draw {
			return eval.Zero
		}
	} else {
		if res := r.b.Result(); res.Outcome == board.Draw && res.Reason != board.Repetition3 && res.Reason != board.Repetition5 {
			return eval.Zero
		}
		if r.b.RepetitionCount() >= 2 {
			return eval.Zero
		}
	}

	turn := r.b.Turn()
	pos := r.b.Position()
	inCheck := pos.IsChecked(turn)

	if bound, _, score, _, ok := r.tt.Read(r.b.Hash()); ok {
		ttScore := score.FromTT(ply)
		switch {
		case bound == ExactBound:
			return ttScore
		case bound == LowerBound && ttScore >= beta:
			return ttScore
		case bound == UpperBound && ttScore <= alpha:
			return ttScore
		}
	}

	var standPat eval.Score
	if !inCheck {
		standPat = r.eval.Evaluate(ctx, r.b) + r.noise.Evaluate(ctx, r.b)
		if standPat >= beta {
			r.tt.Write(r.b.Hash(), LowerBound, ply, 0, standPat, board.Move{})
			return standPat
		}
		alpha = eval.Max(alpha, standPat)
	}

	all := pos.PseudoLegalMoves(turn)
	picker := NewMovePicker(pos, turn, ply, nil, nil)

	moves := board.NewMoveList(candidates(pos, turn, all, inCheck, r.config), picker.Priority)

	hasLegalMove := false
	var best board.Move
	bound := UpperBound
	for {
		m, ok := moves.Next()
		if !ok {
			break
		}

		if !inCheck && m.IsCapture() && StaticExchange(pos, turn, m) < 0 {
			continue // losing capture: never improves a quiet position
		}

		if !r.b.PushMove(m) {
			continue // not legal
		}
		hasLegalMove = true

		score := r.search(ctx, beta.Negate(), alpha.Negate())
		score = score.Negate()
		r.b.PopMove()

		if score > alpha {
			alpha = score
			best = m
			bound = ExactBound
		}
		if alpha >= beta {
			bound = LowerBound
			break
		}
	}

	if inCheck && !hasLegalMove {
		if result := r.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return -eval.Mate + eval.Score(ply)
		}
		return eval.Zero
	}

	r.tt.Write(r.b.Hash(), bound, ply, 0, alpha, best)
	return alpha
}

// candidates restricts the quiescence move set to captures and promotions, widened to every
// evasion while in check (there is no quiet alternative to escaping check) and, if configured,
// to quiet moves that give check.
func candidates(pos *board.Position, turn board.Color, moves []board.Move, inCheck bool, config Config) []board.Move {
	if inCheck {
		return moves
	}

	ret := moves[:0:0]
	for _, m := range moves {
		switch {
		case m.IsCapture() || m.IsPromotion():
			ret = append(ret, m)
		case config.QuiescenceChecks && m.IsQuiet():
			if next, ok := pos.Move(m); ok && next.IsChecked(turn.Opponent()) {
				ret = append(ret, m)
			}
		}
	}
	return ret
}
