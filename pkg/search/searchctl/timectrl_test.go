package searchctl_test

import (
	"testing"
	"time"

	"github.com/hardfiskur/hardfiskur/pkg/board"
	"github.com/hardfiskur/hardfiskur/pkg/search/searchctl"
	"github.com/stretchr/testify/assert"
)

func TestTimeControlLimitsBasicFormula(t *testing.T) {
	tc := searchctl.TimeControl{
		White:    20 * time.Second,
		WhiteInc: 1 * time.Second,
		Moves:    20,
		Overhead: 100 * time.Millisecond,
	}

	soft, hard := tc.Limits(board.White)

	// target = 20s/20 + 0.6*1s = 1s + 0.6s = 1.6s
	assert.Equal(t, 1600*time.Millisecond, soft)
	// hard = min(20s-100ms, 3*1.6s) = min(19.9s, 4.8s) = 4.8s
	assert.Equal(t, 4800*time.Millisecond, hard)
}

func TestTimeControlLimitsHardCappedByRemainder(t *testing.T) {
	tc := searchctl.TimeControl{
		White:    3 * time.Second,
		WhiteInc: 0,
		Moves:    1,
		Overhead: 200 * time.Millisecond,
	}

	soft, hard := tc.Limits(board.White)

	// target = 3s/1 = 3s; 3*target = 9s, but only 3s-200ms is actually left.
	assert.Equal(t, 3*time.Second, soft)
	assert.Equal(t, 2800*time.Millisecond, hard)
}

func TestTimeControlLimitsDefaultsTo40MovesWhenUnspecified(t *testing.T) {
	tc := searchctl.TimeControl{White: 40 * time.Second}

	soft, _ := tc.Limits(board.White)
	assert.Equal(t, 1*time.Second, soft)
}

func TestTimeControlLimitsPicksSideToMove(t *testing.T) {
	tc := searchctl.TimeControl{
		White: 10 * time.Second,
		Black: 30 * time.Second,
		Moves: 10,
	}

	whiteSoft, _ := tc.Limits(board.White)
	blackSoft, _ := tc.Limits(board.Black)

	assert.Equal(t, 1*time.Second, whiteSoft)
	assert.Equal(t, 3*time.Second, blackSoft)
}

func TestTimeControlLimitsNeverNegative(t *testing.T) {
	tc := searchctl.TimeControl{
		White:    500 * time.Millisecond,
		Overhead: 2 * time.Second,
		Moves:    1,
	}

	_, hard := tc.Limits(board.White)
	assert.GreaterOrEqual(t, hard, time.Duration(0))
}
