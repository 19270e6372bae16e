package board

// epVictim returns the square of the pawn taken by an en-passant capture
// landing on to.
func epVictim(us Color, to Square) Square {
	if us == White {
		return to - 8
	}
	return to + 8
}

// Apply plays m, which must come from the generator for this position.
// It returns false, leaving the position untouched, when the move would
// leave the mover's king attacked or castle out of or through check.
// Every successful Apply must be paired with exactly one Revert.
func (p *Position) Apply(m Move) bool {
	us, them := p.SideToMove, p.SideToMove.Other()
	from, to := m.From(), m.To()

	if m.IsCastle() {
		// The destination is covered by the king-safety test below.
		r := castleRuleFor(us, m.Special())
		if p.IsSquareAttacked(r.kingFrom, them) || p.IsSquareAttacked(r.transit, them) {
			return false
		}
	}

	p.undo[p.undoLen] = Undo{
		Move:          m,
		Castling:      p.Castling,
		EnPassant:     p.EnPassant,
		HalfMoveClock: p.HalfMoveClock,
		GamePly:       p.GamePly,
		Age:           p.Age,
		Hash:          p.Hash,
		PawnHash:      p.PawnHash,
	}
	p.undoLen++

	z := &p.tab.Zobrist
	if p.EnPassant != NoSquare {
		p.Hash ^= z.EnPassant[p.EnPassant.File()]
		p.EnPassant = NoSquare
	}
	p.Hash ^= z.castling(p.Castling)
	p.HalfMoveClock++

	switch {
	case m.IsEnPassant():
		p.removePiece(epVictim(us, to))
	case m.IsCapture():
		p.removePiece(to)
	}

	if m.IsPromotion() {
		p.removePiece(from)
		p.addPiece(NewPiece(m.Promotion(), us), to)
	} else {
		p.movePiece(from, to)
	}

	if m.IsCastle() {
		r := castleRuleFor(us, m.Special())
		p.movePiece(r.rookFrom, r.rookTo)
	}

	if m.Piece().Type() == Pawn {
		p.HalfMoveClock = 0
		// The target is only recorded when a capture is possible, so
		// positions that differ in nothing else hash the same.
		if to == from+16 || from == to+16 {
			if ep := (from + to) / 2; p.tab.Pawn[us][ep]&p.Pieces[them][Pawn] != 0 {
				p.EnPassant = ep
				p.Hash ^= z.EnPassant[ep.File()]
			}
		}
	}
	if m.IsCapture() {
		p.HalfMoveClock = 0
	}
	if p.HalfMoveClock == 0 {
		p.Age++
	}

	p.Castling &= castleKeep[from] & castleKeep[to]
	p.Hash ^= z.castling(p.Castling)

	p.SideToMove = them
	p.Hash ^= z.Side
	p.GamePly++

	if p.IsSquareAttacked(p.KingSquare(us), them) {
		p.Revert()
		return false
	}
	if Debug {
		p.mustBeConsistent("apply " + m.String())
	}
	return true
}

// Revert takes back the most recent Apply or ApplyNull.
func (p *Position) Revert() {
	p.undoLen--
	u := &p.undo[p.undoLen]
	m := u.Move

	p.SideToMove = p.SideToMove.Other()
	if m != NoMove {
		us := p.SideToMove
		from, to := m.From(), m.To()

		if m.IsCastle() {
			r := castleRuleFor(us, m.Special())
			p.movePiece(r.rookTo, r.rookFrom)
		}
		if m.IsPromotion() {
			p.removePiece(to)
			p.addPiece(m.Piece(), from)
		} else {
			p.movePiece(to, from)
		}
		switch {
		case m.IsEnPassant():
			p.addPiece(m.Captured(), epVictim(us, to))
		case m.IsCapture():
			p.addPiece(m.Captured(), to)
		}
	}

	p.Castling = u.Castling
	p.EnPassant = u.EnPassant
	p.HalfMoveClock = u.HalfMoveClock
	p.GamePly = u.GamePly
	p.Age = u.Age
	p.Hash = u.Hash
	p.PawnHash = u.PawnHash

	if Debug {
		p.mustBeConsistent("revert " + m.String())
	}
}

// ApplyNull passes the turn. It must not be used while in check. The
// half-move clock restarts so repetition scans never reach across it.
func (p *Position) ApplyNull() {
	if Debug && p.InCheck() {
		panic("board: null move while in check")
	}
	p.undo[p.undoLen] = Undo{
		Move:          NoMove,
		Castling:      p.Castling,
		EnPassant:     p.EnPassant,
		HalfMoveClock: p.HalfMoveClock,
		GamePly:       p.GamePly,
		Age:           p.Age,
		Hash:          p.Hash,
		PawnHash:      p.PawnHash,
	}
	p.undoLen++

	z := &p.tab.Zobrist
	if p.EnPassant != NoSquare {
		p.Hash ^= z.EnPassant[p.EnPassant.File()]
		p.EnPassant = NoSquare
	}
	p.SideToMove = p.SideToMove.Other()
	p.Hash ^= z.Side
	p.HalfMoveClock = 0
	p.GamePly++
}

// RevertNull takes back ApplyNull.
func (p *Position) RevertNull() {
	p.Revert()
}
