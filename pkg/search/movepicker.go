package search

import (
	"github.com/hardfiskur/hardfiskur/pkg/board"
	"github.com/hardfiskur/hardfiskur/pkg/eval"
)

// Move ordering priority bands. Moves are scored into one of these bands and, within a band,
// by a secondary value (SEE gain or history score) clamped to stay inside the band. The hash
// move itself is not handled here: board.First overrides the priority of whichever move
// matches it to the maximum, ahead of every band.
const (
	winningCaptureBand board.MovePriority = 20000
	killer1Band        board.MovePriority = 15000
	killer2Band        board.MovePriority = 14000
	quietBand          board.MovePriority = 0
	losingCaptureBand  board.MovePriority = -20000
)

// MovePicker orders pseudo-legal moves for the main search: the hash move first, then
// captures/promotions winning or equal under static exchange evaluation (most valuable first),
// then the two killer moves for this ply, then quiet moves ordered by history score, then
// losing captures last. This mirrors the classic stage order (hash, winning captures, killers,
// quiets, losing captures) as a single priority function rather than separate generation
// phases, reusing board.MoveList's existing priority-queue move ordering.
type MovePicker struct {
	pos     *board.Position
	side    board.Color
	ply     int
	killers *KillerTable
	history *HistoryTable
}

func NewMovePicker(pos *board.Position, side board.Color, ply int, killers *KillerTable, history *HistoryTable) MovePicker {
	return MovePicker{pos: pos, side: side, ply: ply, killers: killers, history: history}
}

func (p MovePicker) Priority(m board.Move) board.MovePriority {
	if m.IsCapture() {
		see := StaticExchange(p.pos, p.side, m)
		if see >= 0 {
			return winningCaptureBand + clampPriority(see)
		}
		return losingCaptureBand + clampPriority(see)
	}
	if m.IsPromotion() {
		gain := eval.NominalValue(m.Promotion) - eval.NominalValue(board.Pawn)
		return winningCaptureBand + clampPriority(gain)
	}

	if p.killers != nil {
		k1, k2 := p.killers.Get(p.ply)
		if k1.Equals(m) {
			return killer1Band
		}
		if k2.Equals(m) {
			return killer2Band
		}
	}

	if p.history != nil {
		return quietBand + clampPriority(eval.Score(p.history.Get(p.side, m)))
	}
	return quietBand
}

// clampPriority keeps a secondary ordering value from spilling into a neighboring band: bands
// are at least 1000 apart, secondary values are clamped to +-900.
func clampPriority(v eval.Score) board.MovePriority {
	if v > 900 {
		v = 900
	}
	if v < -900 {
		v = -900
	}
	return board.MovePriority(v)
}
