package board

import "testing"

func TestGameEndDetection(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		checkmate bool
		stalemate bool
	}{
		{"back rank mate", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", true, false},
		{"king takes checker", "6Rk/8/8/8/8/8/8/K7 b - - 0 1", false, false},
		{"fool's mate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", true, false},
		{"queen stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", false, true},
		{"pawn stalemate", "8/8/8/8/8/5k2/5p2/5K2 w - - 0 1", false, true},
		{"start", StartFEN, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			if got := pos.IsCheckmate(); got != tc.checkmate {
				t.Errorf("IsCheckmate = %v, want %v\n%s", got, tc.checkmate, pos)
			}
			if got := pos.IsStalemate(); got != tc.stalemate {
				t.Errorf("IsStalemate = %v, want %v\n%s", got, tc.stalemate, pos)
			}
		})
	}
}

func TestCastlingThroughCheck(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		move  string
		legal bool
	}{
		{"free", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", true},
		{"free queenside", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", true},
		{"in check", "r3k2r/8/8/8/4r3/8/8/R3K2R w KQkq - 0 1", "e1g1", false},
		{"through f1", "r3k2r/8/8/8/5r2/8/8/R3K2R w KQkq - 0 1", "e1g1", false},
		{"into g1", "r3k2r/8/8/8/6r1/8/8/R3K2R w KQkq - 0 1", "e1g1", false},
		{"b1 attacked is fine", "r3k2r/8/8/8/1r6/8/8/R3K2R w KQkq - 0 1", "e1c1", true},
		{"black through d8", "r3k2r/8/8/3R4/8/8/8/4K3 b kq - 0 1", "e8c8", false},
		{"black kingside", "r3k2r/8/8/3R4/8/8/8/4K3 b kq - 0 1", "e8g8", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			var ml MoveList
			pos.GenerateMoves(&ml)
			var castle Move
			for i := 0; i < ml.Len(); i++ {
				if m := ml.Move(i); m.IsCastle() && m.String() == tc.move {
					castle = m
				}
			}
			if castle == NoMove {
				t.Fatalf("castle %s not generated", tc.move)
			}
			before := pos.Hash
			got := pos.Apply(castle)
			if got != tc.legal {
				t.Fatalf("Apply(%s) = %v, want %v", tc.move, got, tc.legal)
			}
			if got {
				pos.Revert()
			}
			if pos.Hash != before || pos.Plies() != 0 {
				t.Errorf("position not restored after %s", tc.move)
			}
		})
	}
}

func TestAttackersOf(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/q7/8/3n4/3p4/4K2r w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	king := pos.KingSquare(White)

	want := SquareBB(D3) | SquareBB(D2) | SquareBB(H1)
	if got := pos.AttackersOf(king, Black, pos.All); got != want {
		t.Errorf("attackers of e1:\n%v\nwant\n%v", got, want)
	}

	// With the pawn lifted the queen on a5 sees e1 as well.
	occ := pos.All &^ SquareBB(D2)
	if got := pos.AttackersOf(king, Black, occ); got&SquareBB(A5) == 0 {
		t.Errorf("queen x-ray through d2 not found: %v", got)
	}
	if got := pos.AttackersOf(king, White, pos.All); got != 0 {
		t.Errorf("white attackers of its own king square: %v", got)
	}
}
