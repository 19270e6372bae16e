package board

import "testing"

// Reference counts from the standard perft suite.
var perftCases = []struct {
	name   string
	fen    string
	counts []uint64 // counts[i] is perft(i+1)
	slow   int      // depths above this are skipped with -short
}{
	{"start", StartFEN, []uint64{20, 400, 8902, 197281}, 3},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", []uint64{48, 2039, 97862}, 2},
	{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []uint64{14, 191, 2812, 43238}, 3},
	{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []uint64{6, 264, 9467}, 2},
	{"position4 mirrored", "r2q1rk1/pP1p2pp/Q4n2/bbp1p3/Np6/1B3NBn/pPPP1PPP/R3K2R b KQ - 0 1", []uint64{6, 264, 9467}, 2},
	{"position5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []uint64{44, 1486, 62379}, 2},
	{"en passant pin", "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", []uint64{6, 94}, 2},
}

func TestPerft(t *testing.T) {
	for _, tc := range perftCases {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			for i, want := range tc.counts {
				depth := i + 1
				if testing.Short() && depth > tc.slow {
					t.Skipf("skipping depth %d in short mode", depth)
				}
				if got := pos.Perft(depth); got != want {
					t.Errorf("perft(%d) = %d, want %d", depth, got, want)
				}
			}
			if pos.Plies() != 0 {
				t.Errorf("undo stack not empty after perft: %d", pos.Plies())
			}
		})
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	pos, err := ParseFEN(perftCases[1].fen)
	if err != nil {
		t.Fatal(err)
	}
	div := pos.Divide(2)
	if len(div) != 48 {
		t.Fatalf("divide has %d root moves, want 48", len(div))
	}
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if sum != 2039 {
		t.Errorf("divide sums to %d, want 2039", sum)
	}
}
