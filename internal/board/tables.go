package board

import "sync"

// Mailbox offsets in the padded space.
var (
	knightOffsets = [8]int{-21, -19, -12, -8, 8, 12, 19, 21}
	kingOffsets   = [8]int{-11, -10, -9, -1, 1, 9, 10, 11}
)

// Tables is the read-only lookup data shared by every position: coordinate
// mapping, attack sets, magic slider tables, hash keys and piece-square
// values. Build it once with NewTables (or use DefaultTables) and hand the
// pointer to positions; nothing mutates it afterwards.
type Tables struct {
	To120 [64]Square120
	To64  [Board120]Square // NoSquare on border squares

	Knight [64]Bitboard
	King   [64]Bitboard
	Pawn   [2][64]Bitboard // squares attacked by a pawn of that colour

	Bishop [64]Magic
	Rook   [64]Magic

	bishopAttacks []Bitboard
	rookAttacks   []Bitboard

	Zobrist ZobristKeys

	// Signed piece-square values from white's point of view, indexed by
	// coloured piece: black entries are mirrored and negated.
	PSTMid [12][64]int
	PSTEnd [12][64]int
}

var (
	defaultTables     *Tables
	defaultTablesOnce sync.Once
)

// DefaultTables returns the process-wide tables, building them on first use.
func DefaultTables() *Tables {
	defaultTablesOnce.Do(func() {
		defaultTables = NewTables()
	})
	return defaultTables
}

// NewTables builds a fresh, fully initialised set of tables.
func NewTables() *Tables {
	t := &Tables{
		bishopAttacks: make([]Bitboard, bishopTableSize),
		rookAttacks:   make([]Bitboard, rookTableSize),
	}
	rng := newPRNG(zobristSeed)

	t.initMailbox()
	t.initLeapers()
	t.Zobrist = newZobristKeys(rng)
	buildMagics(&t.Bishop, t.bishopAttacks, &bishopMagicCandidates, bishopDirs, rng)
	buildMagics(&t.Rook, t.rookAttacks, &rookMagicCandidates, rookDirs, rng)
	t.initPST()
	return t
}

func (t *Tables) initMailbox() {
	for i := range t.To64 {
		t.To64[i] = NoSquare
	}
	for sq := A1; sq <= H8; sq++ {
		s120 := mailboxIndex(sq)
		t.To120[sq] = s120
		t.To64[s120] = sq
	}
}

// initLeapers derives knight and king sets by stepping through the padded
// board, so edge handling comes from the sentinel border alone.
func (t *Tables) initLeapers() {
	for sq := A1; sq <= H8; sq++ {
		from := int(t.To120[sq])
		for i := 0; i < 8; i++ {
			if to := t.To64[from+knightOffsets[i]]; to != NoSquare {
				t.Knight[sq] |= SquareBB(to)
			}
			if to := t.To64[from+kingOffsets[i]]; to != NoSquare {
				t.King[sq] |= SquareBB(to)
			}
		}
		bb := SquareBB(sq)
		t.Pawn[White][sq] = bb.NorthEast() | bb.NorthWest()
		t.Pawn[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

// Step returns the compact square reached from sq by a mailbox offset, and
// false when that step leaves the board.
func (t *Tables) Step(sq Square, offset int) (Square, bool) {
	to := t.To64[int(t.To120[sq])+offset]
	return to, to != NoSquare
}
