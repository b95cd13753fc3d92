// Package search contains move search functionality: transposition table, move ordering,
// static exchange evaluation and the negamax/PVS search itself.
package search

import (
	"context"
	"errors"

	"github.com/hardfiskur/hardfiskur/pkg/board"
	"github.com/hardfiskur/hardfiskur/pkg/eval"
)

// ErrHalted indicates the search was asked to stop mid-flight, via context cancellation.
var ErrHalted = errors.New("search halted")

// Context carries the per-call parameters of a single fixed-depth search: the alpha-beta
// window, the shared transposition table, evaluation noise, tunable search configuration and
// the killer/history move-ordering tables, which persist across the iterative deepening loop
// that calls Search at increasing depths. Distinct from context.Context, which carries
// cancellation.
type Context struct {
	Alpha, Beta eval.Score
	TT          TranspositionTable
	Noise       eval.Random
	Ponder      []board.Move
	Config      Config
	Killers     *KillerTable
	History     *HistoryTable
	// Ply is the relative search ply at which QuietSearch was entered, used to keep mate-score
	// TT normalization consistent between the main search and quiescence.
	Ply int
	// SelDepth tracks the deepest relative ply reached by this Context's search, including
	// quiescence. Shared by pointer across the Context values the main search and quiescence
	// construct for each other, so it survives the main-search/quiescence boundary.
	SelDepth *int
	// BestMoveNodes accumulates the node count spent on the current best root move, so the
	// Coordinator can shrink or extend the soft time bound based on its share of the iteration's
	// total nodes.
	BestMoveNodes *uint64
	// RootMoveDone is shared by pointer across the main search and quiescence for the lifetime
	// of one Search call. It starts false and flips to true once the root's first legal move has
	// been fully scored, so that a cancellation arriving before then is ignored: the root always
	// completes at least one move, guaranteeing a bestmove is producible at any depth.
	RootMoveDone *bool
}

// NewContext returns a Context with a full alpha-beta window and fresh move-ordering tables.
func NewContext(tt TranspositionTable, noise eval.Random, config Config) *Context {
	return &Context{
		Alpha:    eval.NegInfScore,
		Beta:     eval.InfScore,
		TT:       tt,
		Noise:    noise,
		Config:   config,
		Killers:       NewKillerTable(),
		History:       NewHistoryTable(),
		SelDepth:      new(int),
		BestMoveNodes: new(uint64),
	}
}

// Search is a fixed-depth searcher: iterative deepening is layered on top by searchctl.
type Search interface {
	// Search returns the node count, score and principal variation for the given depth. The
	// returned score and PV are from the perspective of the board's side to move.
	Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, []board.Move, error)
}

// QuietSearch extends a fixed-depth search past the horizon until the position is quiet,
// avoiding the horizon effect. Implemented by Quiescence.
type QuietSearch interface {
	QuietSearch(ctx context.Context, sctx *Context, b *board.Board) (uint64, eval.Score)
}
