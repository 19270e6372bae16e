package engine

import (
	"testing"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

func TestAllocate(t *testing.T) {
	start := board.NewPosition()
	ending := mustFEN(t, "4k3/8/8/8/8/8/8/4K3 b - - 0 60")

	tests := []struct {
		name string
		tc   TimeControl
		pos  *board.Position
		want time.Duration
	}{
		{"moves to go", TimeControl{WTime: 60 * time.Second, MovesToGo: 30}, start, 2 * time.Second},
		{"increment", TimeControl{WTime: 60 * time.Second, WInc: time.Second, MovesToGo: 30}, start, 2*time.Second + 900*time.Millisecond},
		{"full board estimate", TimeControl{WTime: 36 * time.Second}, start, time.Second},
		{"bare kings estimate", TimeControl{BTime: 21 * time.Second}, ending, time.Second},
		{"uses black clock", TimeControl{WTime: time.Hour, BTime: 21 * time.Second}, ending, time.Second},
		{"capped by clock", TimeControl{WTime: time.Second, WInc: 10 * time.Second, MovesToGo: 1}, start, 900 * time.Millisecond},
		{"floor", TimeControl{WTime: 5 * time.Millisecond, MovesToGo: 40}, start, minMoveTime},
		{"no clock", TimeControl{}, start, minMoveTime},
	}
	for _, tc := range tests {
		if got := Allocate(tc.tc, tc.pos); got != tc.want {
			t.Errorf("%s: Allocate = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTimeManager(t *testing.T) {
	var tm TimeManager
	tm.Start(0)
	if tm.Expired() || !tm.StartNextDepth() {
		t.Errorf("unbounded search reported a time limit")
	}

	tm.Start(30 * time.Millisecond)
	if tm.Expired() {
		t.Errorf("fresh budget already expired")
	}
	time.Sleep(40 * time.Millisecond)
	if !tm.Expired() || tm.StartNextDepth() {
		t.Errorf("budget of 30ms not expired after 40ms")
	}
}
