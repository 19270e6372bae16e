package board

func (t *Tables) KnightAttacks(sq Square) Bitboard { return t.Knight[sq] }
func (t *Tables) KingAttacks(sq Square) Bitboard   { return t.King[sq] }

// PawnAttacks returns the squares a pawn of colour c on sq attacks.
func (t *Tables) PawnAttacks(c Color, sq Square) Bitboard { return t.Pawn[c][sq] }

// BishopAttacks looks up diagonal attacks for the given occupancy.
func (t *Tables) BishopAttacks(sq Square, occ Bitboard) Bitboard {
	return t.bishopAttacks[t.Bishop[sq].index(occ)]
}

// RookAttacks looks up orthogonal attacks for the given occupancy.
func (t *Tables) RookAttacks(sq Square, occ Bitboard) Bitboard {
	return t.rookAttacks[t.Rook[sq].index(occ)]
}

func (t *Tables) QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return t.BishopAttacks(sq, occ) | t.RookAttacks(sq, occ)
}

// AttackersOf returns every piece of colour by that attacks sq, given occ.
func (p *Position) AttackersOf(sq Square, by Color, occ Bitboard) Bitboard {
	t := p.tab
	pc := &p.Pieces[by]
	queens := pc[Queen]
	return t.Pawn[by.Other()][sq]&pc[Pawn] |
		t.Knight[sq]&pc[Knight] |
		t.King[sq]&pc[King] |
		t.BishopAttacks(sq, occ)&(pc[Bishop]|queens) |
		t.RookAttacks(sq, occ)&(pc[Rook]|queens)
}

// IsSquareAttacked reports whether any piece of colour by attacks sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	t := p.tab
	pc := &p.Pieces[by]
	if t.Pawn[by.Other()][sq]&pc[Pawn] != 0 ||
		t.Knight[sq]&pc[Knight] != 0 ||
		t.King[sq]&pc[King] != 0 {
		return true
	}
	queens := pc[Queen]
	if t.BishopAttacks(sq, p.All)&(pc[Bishop]|queens) != 0 {
		return true
	}
	return t.RookAttacks(sq, p.All)&(pc[Rook]|queens) != 0
}

// KingSquare returns the square of c's king.
func (p *Position) KingSquare(c Color) Square {
	return p.Pieces[c][King].LSB()
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	us := p.SideToMove
	return p.IsSquareAttacked(p.KingSquare(us), us.Other())
}
