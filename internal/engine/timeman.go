package engine

import (
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// TimeControl is the clock state sent by a controller.
type TimeControl struct {
	WTime, BTime time.Duration // remaining time
	WInc, BInc   time.Duration // increment per move
	MovesToGo    int           // moves until the next control, 0 = sudden death
}

const (
	minMoveTime = 10 * time.Millisecond
	// The budget never takes more than this share of the remaining clock.
	maxClockShareNum = 9
	maxClockShareDen = 10
)

// Allocate turns the clock of the side to move into a budget for one
// move: an even share of the remaining time plus most of the increment.
// Without a moves-to-go count the game length is estimated from the
// pieces left on the board.
func Allocate(tc TimeControl, pos *board.Position) time.Duration {
	remaining, inc := tc.WTime, tc.WInc
	if pos.SideToMove == board.Black {
		remaining, inc = tc.BTime, tc.BInc
	}
	if remaining <= 0 {
		return minMoveTime
	}

	mtg := tc.MovesToGo
	if mtg <= 0 {
		// 32 pieces: about 36 moves left; bare kings: about 20.
		mtg = 20 + pos.All.PopCount()/2
	}

	budget := remaining/time.Duration(mtg) + inc*9/10
	budget = min(budget, remaining*maxClockShareNum/maxClockShareDen)
	return max(budget, minMoveTime)
}

// TimeManager tracks the clock of one search.
type TimeManager struct {
	start  time.Time
	budget time.Duration // 0 = no time limit
}

// Start begins timing a search with the given budget.
func (tm *TimeManager) Start(budget time.Duration) {
	tm.start = time.Now()
	tm.budget = budget
}

// Elapsed returns the time since Start.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.start)
}

// Expired reports whether the budget has run out.
func (tm *TimeManager) Expired() bool {
	return tm.budget > 0 && tm.Elapsed() >= tm.budget
}

// StartNextDepth reports whether another iteration is worth starting.
// Each depth costs several times the previous one, so once a third of the
// budget is gone the next one is unlikely to finish.
func (tm *TimeManager) StartNextDepth() bool {
	return tm.budget == 0 || tm.Elapsed() < tm.budget/3
}
