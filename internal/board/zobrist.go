package board

// zobristSeed fixes the key set so hashes are stable across runs.
const zobristSeed = 0x98F107A2BEEF1234

// ZobristKeys is one random 64-bit key per hashed feature of a position.
type ZobristKeys struct {
	Piece     [12][64]uint64
	Castling  [4]uint64 // one per rights bit
	EnPassant [8]uint64 // one per file
	Side      uint64    // xored in when black is to move
}

// prng is xorshift64*.
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// sparse returns a value with few bits set, the usual shape of a magic.
func (p *prng) sparse() uint64 {
	return p.next() & p.next() & p.next()
}

func newZobristKeys(rng *prng) ZobristKeys {
	var z ZobristKeys
	for pc := WhitePawn; pc < NoPiece; pc++ {
		for sq := A1; sq <= H8; sq++ {
			z.Piece[pc][sq] = rng.next()
		}
	}
	for i := range z.Castling {
		z.Castling[i] = rng.next()
	}
	for i := range z.EnPassant {
		z.EnPassant[i] = rng.next()
	}
	z.Side = rng.next()
	return z
}

// castling returns the combined key of every set rights bit.
func (z *ZobristKeys) castling(cr CastlingRights) uint64 {
	var h uint64
	for i := range z.Castling {
		if cr&(1<<i) != 0 {
			h ^= z.Castling[i]
		}
	}
	return h
}

// ComputeHash rebuilds the position key from scratch. Apply and Revert keep
// Hash up to date incrementally; this is the reference they must agree with.
func (p *Position) ComputeHash() uint64 {
	z := &p.tab.Zobrist
	var h uint64
	for sq := A1; sq <= H8; sq++ {
		if pc := p.PieceAt(sq); pc < NoPiece {
			h ^= z.Piece[pc][sq]
		}
	}
	h ^= z.castling(p.Castling)
	if p.EnPassant != NoSquare {
		h ^= z.EnPassant[p.EnPassant.File()]
	}
	if p.SideToMove == Black {
		h ^= z.Side
	}
	return h
}

// ComputePawnHash rebuilds the pawn-only key from scratch.
func (p *Position) ComputePawnHash() uint64 {
	z := &p.tab.Zobrist
	var h uint64
	for c := White; c <= Black; c++ {
		pc := NewPiece(Pawn, c)
		p.Pieces[c][Pawn].ForEach(func(sq Square) {
			h ^= z.Piece[pc][sq]
		})
	}
	return h
}
