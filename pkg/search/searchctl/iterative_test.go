package searchctl_test

import (
	"context"
	"testing"
	"time"

	"github.com/hardfiskur/hardfiskur/pkg/board"
	"github.com/hardfiskur/hardfiskur/pkg/board/fen"
	"github.com/hardfiskur/hardfiskur/pkg/eval"
	"github.com/hardfiskur/hardfiskur/pkg/search"
	"github.com/hardfiskur/hardfiskur/pkg/search/searchctl"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearch is a deterministic search.Search stand-in used to drive the iterative deepening
// harness without exercising the real negamax search: each depth "finds" the same move with a
// node count proportional to depth, so tests can assert on halting behavior in isolation.
type fakeSearch struct {
	move        board.Move
	nodesPerPly uint64
}

func (f *fakeSearch) Search(ctx context.Context, sctx *search.Context, b *board.Board, depth int) (uint64, eval.Score, []board.Move, error) {
	nodes := f.nodesPerPly * uint64(depth)
	*sctx.BestMoveNodes = nodes
	return nodes, eval.HeuristicScore(10), []board.Move{f.move}, nil
}

func newTestBoard(t *testing.T) *board.Board {
	t.Helper()
	pos, turn, np, fm, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	return board.NewBoard(board.NewZobristTable(0), pos, turn, np, fm)
}

func TestIterativeStopsAtDepthLimit(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t)

	it := &searchctl.Iterative{
		Root:   &fakeSearch{move: board.Move{From: board.E2, To: board.E4}, nodesPerPly: 100},
		Config: search.DefaultConfig(),
	}

	opt := searchctl.Options{DepthLimit: lang.Some(uint(3))}
	h, out := it.Launch(ctx, b, search.NoTranspositionTable{}, eval.Random{}, opt)

	var last search.PV
	for pv := range out {
		last = pv
	}
	assert.Equal(t, 3, last.Depth)

	final := h.Halt()
	assert.Equal(t, last.Depth, final.Depth)
}

func TestIterativeStopsAtNodeLimit(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t)

	it := &searchctl.Iterative{
		Root:   &fakeSearch{move: board.Move{From: board.E2, To: board.E4}, nodesPerPly: 1000},
		Config: search.DefaultConfig(),
	}

	opt := searchctl.Options{NodeLimit: lang.Some(uint64(2500))}
	_, out := it.Launch(ctx, b, search.NoTranspositionTable{}, eval.Random{}, opt)

	var total uint64
	for pv := range out {
		total += pv.Nodes
	}
	// Depth 1 contributes 1000 (not yet over budget), depth 2 contributes 2000 more, crossing
	// 2500 cumulative; the harness checks the budget at iteration boundaries, after depth 2 is
	// already reported, so it never searches depth 3.
	assert.GreaterOrEqual(t, total, uint64(2500))
	assert.Less(t, total, uint64(6000))
}

func TestIterativeHaltCancelsInFlightSearch(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t)

	it := &searchctl.Iterative{
		Root:   &fakeSearch{move: board.Move{From: board.E2, To: board.E4}, nodesPerPly: 1},
		Config: search.DefaultConfig(),
	}

	h, out := it.Launch(ctx, b, search.NoTranspositionTable{}, eval.Random{}, searchctl.Options{})

	// Drain at least one PV, then halt; Halt should return promptly and be idempotent.
	<-out
	pv := h.Halt()
	assert.GreaterOrEqual(t, pv.Depth, 1)

	done := make(chan struct{})
	go func() {
		h.Halt()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Halt did not return promptly on second call")
	}
}
