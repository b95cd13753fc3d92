package search

import (
	"github.com/hardfiskur/hardfiskur/pkg/board"
	"github.com/hardfiskur/hardfiskur/pkg/eval"
)

// historyMax bounds the butterfly history score, so that a single move's score can never
// dominate move ordering outright, however often it has produced a cutoff.
const historyMax = 1 << 14

// KillerTable holds, per ply, the two most recent quiet moves that produced a beta cutoff.
// Killers are tried before other quiet moves: a move that refuted a sibling line is a good
// bet to refute this one too, since both arise from the same parent position.
type KillerTable struct {
	moves [eval.MaxPly][2]board.Move
}

// NewKillerTable returns an empty killer table.
func NewKillerTable() *KillerTable {
	return &KillerTable{}
}

// Add records a cutoff-causing quiet move at the given ply, displacing the older killer.
func (k *KillerTable) Add(ply int, m board.Move) {
	if ply < 0 || ply >= len(k.moves) {
		return
	}
	if k.moves[ply][0].Equals(m) {
		return
	}
	k.moves[ply][1] = k.moves[ply][0]
	k.moves[ply][0] = m
}

// Get returns the two killer moves for the given ply.
func (k *KillerTable) Get(ply int) (board.Move, board.Move) {
	if ply < 0 || ply >= len(k.moves) {
		return board.Move{}, board.Move{}
	}
	return k.moves[ply][0], k.moves[ply][1]
}

// HistoryTable is a butterfly table: a score per (color, from, to) pair, incremented when a
// quiet move causes a beta cutoff and used to order quiet moves that aren't killers.
type HistoryTable struct {
	score [2][64][64]int32
}

// NewHistoryTable returns an empty history table.
func NewHistoryTable() *HistoryTable {
	return &HistoryTable{}
}

// Add rewards a cutoff-causing quiet move proportionally to depth^2, and penalizes the quiet
// moves tried and rejected before it at this node, so history tracks moves that consistently
// outperform their alternatives rather than just the ones tried first.
func (h *HistoryTable) Add(c board.Color, best board.Move, tried []board.Move, depth int) {
	bonus := int32(depth * depth)

	h.bump(c, best, bonus)
	for _, m := range tried {
		if m.Equals(best) {
			continue
		}
		h.bump(c, m, -bonus)
	}
}

func (h *HistoryTable) bump(c board.Color, m board.Move, delta int32) {
	v := &h.score[c][m.From][m.To]
	*v += delta
	if *v > historyMax {
		*v = historyMax
	}
	if *v < -historyMax {
		*v = -historyMax
	}
}

// Get returns the current history score for a quiet move.
func (h *HistoryTable) Get(c board.Color, m board.Move) int32 {
	return h.score[c][m.From][m.To]
}
