package board

import "testing"

func TestPickNextOrdersByScore(t *testing.T) {
	var ml MoveList
	scores := []int{5, 40, -3, 40, 0, 17}
	for i, s := range scores {
		ml.Add(NewMove(Square(i), Square(i+8), WhitePawn, NoPiece, SpecialNone), s)
	}
	prev := 1 << 30
	for i := 0; i < ml.Len(); i++ {
		sm := ml.PickNext(i)
		if sm.Score > prev {
			t.Fatalf("pick %d scored %d after %d", i, sm.Score, prev)
		}
		prev = sm.Score
	}
	if ml.Len() != len(scores) {
		t.Errorf("Len = %d, want %d", ml.Len(), len(scores))
	}
}

func TestContainsIgnoresScore(t *testing.T) {
	var ml MoveList
	m := NewMove(E2, E4, WhitePawn, NoPiece, SpecialNone)
	ml.Add(m, 12)
	ml.SetScore(0, HashMoveScore)
	if !ml.Contains(m) {
		t.Errorf("Contains lost the move after rescoring")
	}
	if ml.Contains(NewMove(E2, E3, WhitePawn, NoPiece, SpecialNone)) {
		t.Errorf("Contains matched a different move")
	}
	ml.Clear()
	if ml.Contains(m) || ml.Len() != 0 {
		t.Errorf("Clear left entries behind")
	}
}
