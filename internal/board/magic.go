package board

// Fancy magic bitboards for sliding pieces. Each square owns a slice of a
// shared attack array; the slice index is ((occ & mask) * magic) >> shift.

// Magic is the lookup entry for one slider on one square.
type Magic struct {
	Mask   Bitboard
	Magic  uint64
	Shift  uint8
	Offset uint32
}

func (m *Magic) index(occ Bitboard) uint32 {
	return m.Offset + uint32((uint64(occ&m.Mask)*m.Magic)>>m.Shift)
}

const (
	bishopTableSize = 5248
	rookTableSize   = 102400
)

// Precomputed multipliers. A candidate that fails verification during table
// construction is replaced by a searched one, so the tables never depend on
// these being perfect.
var bishopMagicCandidates = [64]uint64{
	0x0002020202020200, 0x0002020202020000, 0x0004010202000000, 0x0004040080000000,
	0x0001104000000000, 0x0000821040000000, 0x0000410410400000, 0x0000104104104000,
	0x0000040404040400, 0x0000020202020200, 0x0000040102020000, 0x0000040400800000,
	0x0000011040000000, 0x0000008210400000, 0x0000004104104000, 0x0000002082082000,
	0x0004000808080800, 0x0002000404040400, 0x0001000202020200, 0x0000800802004000,
	0x0000800400A00000, 0x0000200100884000, 0x0000400082082000, 0x0000200041041000,
	0x0002080010101000, 0x0001040008080800, 0x0000208004010400, 0x0000404004010200,
	0x0000840000802000, 0x0000404002011000, 0x0000808001041000, 0x0000404000820800,
	0x0001041000202000, 0x0000820800101000, 0x0000104400080800, 0x0000020080080080,
	0x0000404040040100, 0x0000808100020100, 0x0001010100020800, 0x0000808080010400,
	0x0000820820004000, 0x0000410410002000, 0x0000082088001000, 0x0000002011000800,
	0x0000080100400400, 0x0001010101000200, 0x0002020202000400, 0x0001010101000200,
	0x0000410410400000, 0x0000208208200000, 0x0000002084100000, 0x0000000020880000,
	0x0000001002020000, 0x0000040408020000, 0x0004040404040000, 0x0002020202020000,
	0x0000104104104000, 0x0000002082082000, 0x0000000020841000, 0x0000000000208800,
	0x0000000010020200, 0x0000000404080200, 0x0000040404040400, 0x0002020202020200,
}

var rookMagicCandidates = [64]uint64{
	0x0080001020400080, 0x0040001000200040, 0x0080081000200080, 0x0080040800100080,
	0x0080020400080080, 0x0080010200040080, 0x0080008001000200, 0x0080002040800100,
	0x0000800020400080, 0x0000400020005000, 0x0000801000200080, 0x0000800800100080,
	0x0000800400080080, 0x0000800200040080, 0x0000800100020080, 0x0000800040800100,
	0x0000208000400080, 0x0000404000201000, 0x0000808010002000, 0x0000808008001000,
	0x0000808004000800, 0x0000808002000400, 0x0000010100020004, 0x0000020000408104,
	0x0000208080004000, 0x0000200040005000, 0x0000100080200080, 0x0000080080100080,
	0x0000040080080080, 0x0000020080040080, 0x0000010080800200, 0x0000800080004100,
	0x0000204000800080, 0x0000200040401000, 0x0000100080802000, 0x0000080080801000,
	0x0000040080800800, 0x0000020080800400, 0x0000020001010004, 0x0000800040800100,
	0x0000204000808000, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000010002008080, 0x0000004081020004,
	0x0000204000800080, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000800100020080, 0x0000800041000080,
	0x00FFFCDDFCED714A, 0x007FFCDDFCED714A, 0x003FFFCDFFD88096, 0x0000040810002101,
	0x0001000204080011, 0x0001000204000801, 0x0001000082000401, 0x0001FFFAABFAD1A2,
}

var (
	bishopDirs = [4][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	rookDirs   = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

// slidingAttacks walks each ray from sq until it leaves the board or hits
// an occupied square (which is included).
func slidingAttacks(sq Square, occ Bitboard, dirs [4][2]int) Bitboard {
	var attacks Bitboard
	for _, d := range dirs {
		f, r := sq.File()+d[0], sq.Rank()+d[1]
		for f >= 0 && f <= 7 && r >= 0 && r <= 7 {
			s := NewSquare(f, r)
			attacks |= SquareBB(s)
			if occ.IsSet(s) {
				break
			}
			f, r = f+d[0], r+d[1]
		}
	}
	return attacks
}

// relevantMask is the set of squares whose occupancy can change the
// slider's attacks: the empty-board rays minus each ray's final square.
func relevantMask(sq Square, dirs [4][2]int) Bitboard {
	var mask Bitboard
	for _, d := range dirs {
		f, r := sq.File()+d[0], sq.Rank()+d[1]
		for f+d[0] >= 0 && f+d[0] <= 7 && r+d[1] >= 0 && r+d[1] <= 7 {
			mask |= SquareBB(NewSquare(f, r))
			f, r = f+d[0], r+d[1]
		}
	}
	return mask
}

// subsetOf maps index's bits onto the set bits of mask.
func subsetOf(index int, mask Bitboard) Bitboard {
	var occ Bitboard
	for i := 0; mask != 0; i++ {
		sq := mask.PopLSB()
		if index&(1<<i) != 0 {
			occ |= SquareBB(sq)
		}
	}
	return occ
}

// buildMagics fills table and magics for one slider kind. Candidates are
// verified against the ray walk; a colliding candidate is replaced by a
// search driven by rng.
func buildMagics(magics *[64]Magic, table []Bitboard, candidates *[64]uint64, dirs [4][2]int, rng *prng) {
	var offset uint32
	occs := make([]Bitboard, 4096)
	refs := make([]Bitboard, 4096)
	used := make([]int, 4096)
	epoch := 0

	for sq := A1; sq <= H8; sq++ {
		mask := relevantMask(sq, dirs)
		bits := mask.PopCount()
		n := 1 << bits
		for i := 0; i < n; i++ {
			occs[i] = subsetOf(i, mask)
			refs[i] = slidingAttacks(sq, occs[i], dirs)
		}

		m := Magic{Mask: mask, Shift: uint8(64 - bits), Offset: offset}
		slots := table[offset : offset+uint32(n)]

		try := func(magic uint64) bool {
			epoch++
			m.Magic = magic
			for i := 0; i < n; i++ {
				idx := (uint64(occs[i]) * magic) >> m.Shift
				if used[idx] != epoch {
					used[idx] = epoch
					slots[idx] = refs[i]
				} else if slots[idx] != refs[i] {
					return false
				}
			}
			return true
		}

		if !try(candidates[sq]) {
			for {
				magic := rng.sparse()
				if Bitboard((uint64(mask)*magic)>>56).PopCount() < 6 {
					continue
				}
				if try(magic) {
					break
				}
			}
		}
		magics[sq] = m
		offset += uint32(n)
	}
}
