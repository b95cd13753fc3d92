package searchctl

import (
	"context"
	"github.com/hardfiskur/hardfiskur/pkg/board"
	"github.com/hardfiskur/hardfiskur/pkg/eval"
	"github.com/hardfiskur/hardfiskur/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"sync"
	"time"
)

// Iterative is a search harness for iterative deepening search with aspiration windows: each
// depth is first searched around the previous depth's score, widening and retrying on
// fail-low/fail-high, per spec of the coordinator.
type Iterative struct {
	Root   search.Search
	Config search.Config
}

func (i *Iterative) Launch(ctx context.Context, b *board.Board, tt search.TranspositionTable, noise eval.Random, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, i.Root, i.Config, b, tt, noise, opt, out)

	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

const aspirationMinDepth = 4

func (h *handle) process(ctx context.Context, root search.Search, config search.Config, b *board.Board, tt search.TranspositionTable, noise eval.Random, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	sctx := search.NewContext(tt, noise, config)
	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, b.Turn())

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	var prevScore eval.Score
	var prevBest board.Move
	var totalNodes uint64
	depth := 1
	begin := time.Now()
	for !h.quit.IsClosed() {
		start := time.Now()

		sctx.Alpha, sctx.Beta = aspirationWindow(depth, prevScore, config.AspirationWindow)
		*sctx.SelDepth = 0

		var nodes uint64
		var score eval.Score
		var moves []board.Move
		var err error
		for attempt := 0; ; attempt++ {
			nodes, score, moves, err = root.Search(wctx, sctx, b, depth)
			if err != nil {
				break
			}
			if score <= sctx.Alpha && sctx.Alpha > eval.NegInfScore {
				sctx.Beta = (sctx.Alpha + sctx.Beta) / 2
				sctx.Alpha = eval.Max(eval.NegInfScore, score-eval.Score(config.AspirationWindow<<uint(attempt+1)))
				continue // fail-low: widen downward and retry at the same depth
			}
			if score >= sctx.Beta && sctx.Beta < eval.InfScore {
				sctx.Beta = eval.Min(eval.InfScore, score+eval.Score(config.AspirationWindow<<uint(attempt+1)))
				continue // fail-high: widen upward and retry at the same depth
			}
			break // within window: accepted
		}
		if err != nil {
			if err == search.ErrHalted {
				return // Halt was called.
			}
			logw.Errorf(ctx, "Search failed on %v at depth=%v: %v", b, depth, err)
			return
		}
		prevScore = score
		totalNodes += nodes

		pv := search.PV{
			Depth:    depth,
			SelDepth: *sctx.SelDepth,
			Nodes:    nodes,
			Score:    score,
			Moves:    moves,
			Time:     time.Since(start),
		}
		if tt != nil {
			pv.Hash = tt.Used()
		}

		logw.Debugf(ctx, "Searched %v: %v", b.Position(), pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return // halt: reached max depth
		}
		if md, ok := score.MateDistance(); ok && int(md) <= depth {
			return // halt: forced mate found within full width search. Exact result.
		}
		if useSoft {
			if depth >= aspirationMinDepth && nodes > 0 {
				if best := pvMove(moves); !best.Equals(prevBest) {
					soft += soft * 3 / 10 // best move changed: extend up to 30%
				} else if fraction := float64(*sctx.BestMoveNodes) / float64(nodes); fraction >= 0.5 {
					soft -= soft * 4 / 10 // best move dominates the nodes: shrink up to 40%
				}
			}
			if soft < time.Since(begin) {
				return // halt: exceeded soft time limit. Do not start new search.
			}
		}
		if limit, ok := opt.NodeLimit.V(); ok && totalNodes >= limit {
			return // halt: reached node budget
		}
		prevBest = pvMove(moves)
		depth++
	}
}

// aspirationWindow returns the search window for the given depth: a full window below
// aspirationMinDepth or immediately after a mate score, otherwise a narrow window centered on
// the previous iteration's score.
func aspirationWindow(depth int, prevScore eval.Score, delta int) (eval.Score, eval.Score) {
	if depth < aspirationMinDepth || prevScore.IsMate() {
		return eval.NegInfScore, eval.InfScore
	}
	return prevScore - eval.Score(delta), prevScore + eval.Score(delta)
}

// pvMove returns the first move of a principal variation, or the zero move if empty.
func pvMove(moves []board.Move) board.Move {
	if len(moves) == 0 {
		return board.Move{}
	}
	return moves[0]
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
