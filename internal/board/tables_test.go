package board

import (
	"math/rand"
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

func TestMailboxMapping(t *testing.T) {
	tab := DefaultTables()
	onBoard := 0
	for s120 := 0; s120 < Board120; s120++ {
		if sq := tab.To64[s120]; sq != NoSquare {
			onBoard++
			if int(tab.To120[sq]) != s120 {
				t.Errorf("To120[To64[%d]] = %d", s120, tab.To120[sq])
			}
		}
	}
	if onBoard != 64 {
		t.Errorf("%d padded squares map on board, want 64", onBoard)
	}
	if got := tab.To120[A1]; got != 21 {
		t.Errorf("To120[a1] = %d, want 21", got)
	}
	if got := tab.To120[H8]; got != 98 {
		t.Errorf("To120[h8] = %d, want 98", got)
	}
	if _, ok := tab.Step(H4, 1); ok {
		t.Errorf("stepping east from h4 stayed on board")
	}
	if to, ok := tab.Step(G1, 19); !ok || to != H3 {
		t.Errorf("Step(g1, 19) = %v, %v; want h3, true", to, ok)
	}
}

func TestLeaperTables(t *testing.T) {
	tab := DefaultTables()
	tests := []struct {
		name string
		got  Bitboard
		want int
	}{
		{"knight a1", tab.KnightAttacks(A1), 2},
		{"knight d4", tab.KnightAttacks(D4), 8},
		{"knight h5", tab.KnightAttacks(H5), 4},
		{"king a1", tab.KingAttacks(A1), 3},
		{"king e4", tab.KingAttacks(E4), 8},
		{"white pawn a2", tab.PawnAttacks(White, A2), 1},
		{"black pawn d7", tab.PawnAttacks(Black, D7), 2},
	}
	for _, tc := range tests {
		if n := tc.got.PopCount(); n != tc.want {
			t.Errorf("%s attacks %d squares, want %d\n%s", tc.name, n, tc.want, tc.got)
		}
	}
	if !tab.PawnAttacks(Black, D7).IsSet(C6) || !tab.PawnAttacks(Black, D7).IsSet(E6) {
		t.Errorf("black pawn on d7 should attack c6 and e6")
	}
}

// TestSliderAttacks compares the magic lookups with a plain ray walk and
// with an independent generator over random occupancies.
func TestSliderAttacks(t *testing.T) {
	tab := DefaultTables()
	rng := rand.New(rand.NewSource(1))
	for sq := A1; sq <= H8; sq++ {
		for i := 0; i < 200; i++ {
			occ := Bitboard(rng.Uint64() & rng.Uint64())
			if got, want := tab.BishopAttacks(sq, occ), slidingAttacks(sq, occ, bishopDirs); got != want {
				t.Fatalf("bishop %v occ %016x:\n%s\nwant\n%s", sq, uint64(occ), got, want)
			}
			if got, want := tab.RookAttacks(sq, occ), slidingAttacks(sq, occ, rookDirs); got != want {
				t.Fatalf("rook %v occ %016x:\n%s\nwant\n%s", sq, uint64(occ), got, want)
			}
			// dragontoothmg excludes nothing and uses the same square numbering.
			if got, want := uint64(tab.BishopAttacks(sq, occ)), dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), uint64(occ)); got != want {
				t.Fatalf("bishop %v disagrees with reference: %016x vs %016x", sq, got, want)
			}
			if got, want := uint64(tab.RookAttacks(sq, occ)), dragontoothmg.CalculateRookMoveBitboard(uint8(sq), uint64(occ)); got != want {
				t.Fatalf("rook %v disagrees with reference: %016x vs %016x", sq, got, want)
			}
		}
	}
}

func TestTablesAreDeterministic(t *testing.T) {
	a, b := NewTables(), NewTables()
	if a.Zobrist != b.Zobrist {
		t.Errorf("zobrist keys differ between builds")
	}
	if a.Bishop != b.Bishop || a.Rook != b.Rook {
		t.Errorf("magic entries differ between builds")
	}
}
