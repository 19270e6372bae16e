package engine

import (
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func quiet(from, to board.Square) board.Move {
	return board.NewMove(from, to, board.WhiteKnight, board.NoPiece, board.SpecialNone)
}

func TestKillerShiftInsert(t *testing.T) {
	mo := NewMoveOrderer(false)
	a, b, c := quiet(board.G1, board.F3), quiet(board.B1, board.C3), quiet(board.G1, board.H3)

	mo.UpdateKillers(a, 5)
	mo.UpdateKillers(a, 5)
	if k := mo.Killers(5); k[0] != a || k[1] != board.NoMove {
		t.Fatalf("repeated insert duplicated the killer: %v", k)
	}
	mo.UpdateKillers(b, 5)
	mo.UpdateKillers(c, 5)
	if k := mo.Killers(5); k[0] != c || k[1] != b {
		t.Errorf("killers = %v, want [%v %v]", k, c, b)
	}
}

func TestScoreQuiets(t *testing.T) {
	pos := board.NewPosition()
	var ml board.MoveList
	pos.GenerateMoves(&ml)

	mo := NewMoveOrderer(false)
	k0, k1 := quiet(board.G1, board.F3), quiet(board.B1, board.C3)
	g0 := board.NewMove(board.E2, board.E4, board.WhitePawn, board.NoPiece, board.SpecialNone)
	g1 := board.NewMove(board.D2, board.D4, board.WhitePawn, board.NoPiece, board.SpecialNone)
	mo.UpdateKillers(k1, 4)
	mo.UpdateKillers(k0, 4)
	mo.UpdateKillers(g1, 2)
	mo.UpdateKillers(g0, 2)

	mo.ScoreQuiets(&ml, 4)
	want := map[board.Move]int{
		k0: board.KillerScore,
		k1: board.KillerScore - 1,
		g0: board.KillerScore - 2,
		g1: board.KillerScore - 3,
	}
	for i := 0; i < ml.Len(); i++ {
		sm := ml.At(i)
		if sm.Score != want[sm.Move] {
			t.Errorf("%v scored %d, want %d", sm.Move, sm.Score, want[sm.Move])
		}
	}

	if !MarkHashMove(&ml, g1) {
		t.Fatal("hash move not found")
	}
	if first := ml.PickNext(0); first.Move != g1 {
		t.Errorf("first pick %v, want hash move %v", first.Move, g1)
	}
	if MarkHashMove(&ml, quiet(board.A1, board.A8)) {
		t.Errorf("MarkHashMove accepted a move not in the list")
	}
}

func TestHistoryOnlyWhenEnabled(t *testing.T) {
	pos := board.NewPosition()
	m := quiet(board.G1, board.F3)
	for _, enabled := range []bool{false, true} {
		mo := NewMoveOrderer(enabled)
		mo.UpdateHistory(m, 6)
		var ml board.MoveList
		pos.GenerateMoves(&ml)
		mo.ScoreQuiets(&ml, 0)
		for i := 0; i < ml.Len(); i++ {
			if ml.Move(i) != m {
				continue
			}
			want := 0
			if enabled {
				want = 36
			}
			if got := ml.At(i).Score; got != want {
				t.Errorf("history enabled=%v: score %d, want %d", enabled, got, want)
			}
		}
	}
}

func TestHistoryHalvesAtCeiling(t *testing.T) {
	mo := NewMoveOrderer(true)
	m, other := quiet(board.G1, board.F3), quiet(board.B1, board.C3)
	mo.UpdateHistory(other, 10)
	for mo.HistoryScore(m) <= historyCeiling/2 {
		mo.UpdateHistory(m, 60)
	}
	before := mo.HistoryScore(other)
	for i := 0; i < 200; i++ {
		mo.UpdateHistory(m, 60)
	}
	if mo.HistoryScore(m) > historyCeiling {
		t.Errorf("history %d above ceiling", mo.HistoryScore(m))
	}
	if mo.HistoryScore(other) >= before {
		t.Errorf("other entries were not scaled down")
	}
}
