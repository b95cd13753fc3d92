package engine_test

import (
	"context"
	"testing"

	"github.com/hardfiskur/hardfiskur/pkg/board/fen"
	"github.com/hardfiskur/hardfiskur/pkg/engine"
	"github.com/hardfiskur/hardfiskur/pkg/eval"
	"github.com/hardfiskur/hardfiskur/pkg/search"
	"github.com/hardfiskur/hardfiskur/pkg/search/searchctl"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(ctx context.Context) *engine.Engine {
	root := &search.Negamax{Eval: eval.Standard{}, Quiet: search.Quiescence{Eval: eval.Standard{}}}
	return engine.New(ctx, "test-engine", "tester", root, engine.WithOptions(engine.Options{Depth: 3}))
}

func TestEngineResetAndPosition(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(ctx)

	assert.Equal(t, fen.Initial, e.Position())

	require.NoError(t, e.Reset(ctx, "4k3/8/8/8/8/8/8/4K3 w - - 0 1"))
	assert.Equal(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1", e.Position())

	assert.Error(t, e.Reset(ctx, "not a fen"))
}

func TestEngineMoveAndTakeBack(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(ctx)

	require.NoError(t, e.Move(ctx, "e2e4"))
	assert.NotEqual(t, fen.Initial, e.Position())

	assert.Error(t, e.Move(ctx, "e2e5")) // not even pseudo-legal from this position

	require.NoError(t, e.TakeBack(ctx))
	assert.Equal(t, fen.Initial, e.Position())

	assert.Error(t, e.TakeBack(ctx)) // nothing left to take back
}

func TestEngineAnalyzeRejectsConcurrentSearch(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(ctx)

	out, err := e.Analyze(ctx, searchctl.Options{DepthLimit: lang.Some(uint(2))})
	require.NoError(t, err)

	_, err = e.Analyze(ctx, searchctl.Options{DepthLimit: lang.Some(uint(2))})
	assert.Error(t, err)

	for range out {
		// drain to completion
	}
	pv, err := e.Halt(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, pv.Depth)

	_, err = e.Halt(ctx) // no longer active
	assert.Error(t, err)
}

func TestEngineAnalyzeProducesIncreasingDepths(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(ctx)

	out, err := e.Analyze(ctx, searchctl.Options{DepthLimit: lang.Some(uint(3))})
	require.NoError(t, err)

	var last int
	for pv := range out {
		assert.Greater(t, pv.Depth, last)
		last = pv.Depth
	}
	assert.Equal(t, 3, last)
}

func TestEngineClearHashIsSafeWithoutTable(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(ctx) // Hash=0, so tt is search.NoTranspositionTable{}
	e.ClearHash(ctx)        // must not panic
}

func TestEngineSetOverheadUpdatesOptions(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(ctx)
	e.SetOverhead(250)
	assert.Equal(t, uint(250), e.Options().Overhead)
}
