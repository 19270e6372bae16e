package engine

import (
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

var (
	moveA = board.NewMove(board.E2, board.E4, board.WhitePawn, board.NoPiece, board.SpecialNone)
	moveB = board.NewMove(board.G1, board.F3, board.WhiteKnight, board.NoPiece, board.SpecialNone)
)

func TestTTStoreProbe(t *testing.T) {
	tt := NewTranspositionTable(1)
	const hash = 0x1234_5678_9abc_def0

	if _, ok := tt.Probe(hash); ok {
		t.Fatal("empty table reported a hit")
	}
	tt.Store(hash, 5, 42, BoundExact, moveA, 0)
	e, ok := tt.Probe(hash)
	if !ok {
		t.Fatal("stored entry not found")
	}
	if e.Move != moveA || e.Score != 42 || e.Depth != 5 || e.Bound != BoundExact {
		t.Errorf("entry = %+v", e)
	}
	if _, ok := tt.Probe(hash + uint64(tt.Size())); ok {
		t.Errorf("a different position in the same slot reported a hit")
	}

	tt.Remove(hash)
	if _, ok := tt.Probe(hash); ok {
		t.Errorf("entry survived Remove")
	}
}

func TestTTReplacement(t *testing.T) {
	tests := []struct {
		name      string
		oldDepth  int
		oldAge    int
		newDepth  int
		newAge    int
		wantNewer bool
	}{
		{"deeper fresh entry kept", 8, 3, 4, 3, false},
		{"deeper entry within tolerance kept", 8, 3, 4, 3 + AgeTolerance, false},
		{"deeper stale entry replaced", 8, 3, 4, 3 + AgeTolerance + 1, true},
		{"equal depth replaced", 6, 3, 6, 3, true},
		{"shallower entry replaced", 2, 3, 6, 3, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tt := NewTranspositionTable(1)
			h1 := uint64(777)
			h2 := h1 + uint64(tt.Size()) // same slot
			tt.Store(h1, tc.oldDepth, 10, BoundLower, moveA, tc.oldAge)
			tt.Store(h2, tc.newDepth, 20, BoundUpper, moveB, tc.newAge)

			_, oldOK := tt.Probe(h1)
			_, newOK := tt.Probe(h2)
			if newOK != tc.wantNewer || oldOK == tc.wantNewer {
				t.Errorf("old hit %v, new hit %v; want new=%v", oldOK, newOK, tc.wantNewer)
			}
		})
	}
}

func TestTTClearResizeHashFull(t *testing.T) {
	tt := NewTranspositionTable(1)
	if tt.HashFull() != 0 {
		t.Fatalf("new table HashFull = %d", tt.HashFull())
	}
	for i := uint64(0); i < 500; i++ {
		tt.Store(i, 1, 0, BoundExact, board.NoMove, 0)
	}
	if got := tt.HashFull(); got != 500 {
		t.Errorf("HashFull = %d, want 500", got)
	}

	tt.Clear()
	if _, ok := tt.Probe(3); ok || tt.HashFull() != 0 {
		t.Errorf("Clear left entries behind")
	}

	tt.Store(3, 1, 0, BoundExact, board.NoMove, 0)
	tt.Resize(2)
	if tt.Size() != 2*1024*1024/ttEntrySize {
		t.Errorf("Resize(2) size %d", tt.Size())
	}
	if _, ok := tt.Probe(3); ok {
		t.Errorf("Resize kept an entry")
	}
}

func TestMateScoreAdjustment(t *testing.T) {
	for _, score := range []int{MateScore - 3, -MateScore + 6, 150, -90, 0} {
		for _, ply := range []int{0, 1, 7, 30} {
			if got := AdjustScoreFromTT(AdjustScoreToTT(score, ply), ply); got != score {
				t.Errorf("score %d at ply %d came back as %d", score, ply, got)
			}
		}
	}
	// Mate 3 plies below a node at ply 4 is stored as mate in 3 from the
	// node and read back as mate in 5 from a root one ply closer.
	stored := AdjustScoreToTT(MateScore-7, 4)
	if stored != MateScore-3 {
		t.Errorf("stored %d, want %d", stored, MateScore-3)
	}
	if got := AdjustScoreFromTT(stored, 2); got != MateScore-5 {
		t.Errorf("read back %d, want %d", got, MateScore-5)
	}
}

func TestHitRate(t *testing.T) {
	tt := NewTranspositionTable(1)
	if got := tt.HitRate(); got != 0 {
		t.Errorf("fresh table hit rate %v, want 0", got)
	}

	tt.Store(0x1234, 3, 10, BoundExact, board.NoMove, 0)
	tt.Probe(0x1234)
	tt.Probe(0x1234)
	tt.Probe(0x9999)
	tt.Probe(0x1234 + uint64(tt.Size())) // same slot, other position
	if got := tt.HitRate(); got != 50 {
		t.Errorf("hit rate %v, want 50", got)
	}

	tt.Clear()
	if got := tt.HitRate(); got != 0 {
		t.Errorf("hit rate after Clear %v, want 0", got)
	}
}
