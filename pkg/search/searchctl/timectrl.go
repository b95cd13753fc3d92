package searchctl

import (
	"context"
	"fmt"
	"github.com/hardfiskur/hardfiskur/pkg/board"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"time"
)

// TimeControl represents time control information.
type TimeControl struct {
	White, Black       time.Duration
	WhiteInc, BlackInc time.Duration
	Moves              int // 0 == rest of game
	Overhead           time.Duration
}

// Limits returns a soft and hard limit for making move with the given color. The
// interpretation is that after the soft limit, no new search should be conducted.
//
// target = remaining/movesToGo + 0.6*increment; hard = min(remaining-overhead, 3*target).
// We assume 40 moves to the end of the game if movestogo was not given.
func (t TimeControl) Limits(c board.Color) (time.Duration, time.Duration) {
	remainder := t.White
	inc := t.WhiteInc
	if c == board.Black {
		remainder = t.Black
		inc = t.BlackInc
	}

	moves := time.Duration(40)
	if t.Moves > 0 {
		moves = time.Duration(t.Moves)
	}

	target := remainder/moves + (inc*6)/10
	hard := 3 * target
	if bound := remainder - t.Overhead; bound < hard {
		hard = bound
	}
	if hard < 0 {
		hard = 0
	}
	return target, hard
}

func (t TimeControl) String() string {
	if t.Moves == 0 {
		return fmt.Sprintf("%.1f<>%.1f", t.White.Seconds(), t.Black.Seconds())
	}
	return fmt.Sprintf("%.1f<>%.1f[moves=%v]", t.White.Seconds(), t.Black.Seconds(), t.Moves)
}

// EnforceTimeControl enforces the time control limits, if any. Returns soft limit.
func EnforceTimeControl(ctx context.Context, h Handle, tc lang.Optional[TimeControl], turn board.Color) (time.Duration, bool) {
	c, ok := tc.V()
	if !ok {
		return 0, false
	}

	soft, hard := c.Limits(turn)
	time.AfterFunc(hard, func() {
		h.Halt()
	})

	logw.Debugf(ctx, "Time control limits for %v: [%v; %v]", c, soft, hard)
	return soft, true
}
