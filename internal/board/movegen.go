package board

// mvvLva orders captures by victim first, then by cheapest attacker.
func mvvLva(attacker, victim Piece) int {
	return TacticalScore + int(victim.Type())*10 + 5 - int(attacker.Type())
}

// promotionScore keeps promotions in the tactical band, queen first.
func promotionScore(pt PieceType, captured Piece) int {
	s := TacticalScore + 50 + PieceValue[pt]/100
	if captured != NoPiece {
		s += int(captured.Type()) * 10
	}
	return s
}

var promotionOrder = [4]PieceType{Queen, Rook, Bishop, Knight}

// GenerateMoves appends every pseudo-legal move of the side to move.
// Captures and promotions are scored for ordering; quiet moves score 0.
func (p *Position) GenerateMoves(ml *MoveList) {
	p.generate(ml, false)
}

// GenerateTactical appends only captures and promotions.
func (p *Position) GenerateTactical(ml *MoveList) {
	p.generate(ml, true)
}

func (p *Position) generate(ml *MoveList, tacticalOnly bool) {
	us := p.SideToMove
	p.genPawns(ml, us, tacticalOnly)
	p.genLeaper(ml, NewPiece(Knight, us), knightOffsets[:], tacticalOnly)
	p.genSlider(ml, NewPiece(Bishop, us), tacticalOnly)
	p.genSlider(ml, NewPiece(Rook, us), tacticalOnly)
	p.genSlider(ml, NewPiece(Queen, us), tacticalOnly)
	p.genLeaper(ml, NewPiece(King, us), kingOffsets[:], tacticalOnly)
	if !tacticalOnly {
		p.genCastling(ml, us)
	}
}

// genPawns handles both colours with one code path; only the push
// direction and the home and promotion ranks depend on the colour.
func (p *Position) genPawns(ml *MoveList, us Color, tacticalOnly bool) {
	pc := NewPiece(Pawn, us)
	them := us.Other()
	push := 8
	if us == Black {
		push = -8
	}

	for i := 0; i < p.pieceCount[pc]; i++ {
		from := p.pieceList[pc][i]
		to := Square(int(from) + push)

		if p.PieceAt(to) == NoPiece {
			if to.RelativeRank(us) == 7 {
				p.addPromotions(ml, pc, from, to, NoPiece)
			} else if !tacticalOnly {
				ml.Add(NewMove(from, to, pc, NoPiece, SpecialNone), 0)
				if from.RelativeRank(us) == 1 {
					to2 := Square(int(to) + push)
					if p.PieceAt(to2) == NoPiece {
						ml.Add(NewMove(from, to2, pc, NoPiece, SpecialNone), 0)
					}
				}
			}
		}

		attacks := p.tab.Pawn[us][from]
		targets := attacks & p.Occupied[them]
		for targets != 0 {
			to := targets.PopLSB()
			victim := p.PieceAt(to)
			if to.RelativeRank(us) == 7 {
				p.addPromotions(ml, pc, from, to, victim)
			} else {
				ml.Add(NewMove(from, to, pc, victim, SpecialNone), mvvLva(pc, victim))
			}
		}

		if p.EnPassant != NoSquare && attacks.IsSet(p.EnPassant) {
			victim := NewPiece(Pawn, them)
			ml.Add(NewMove(from, p.EnPassant, pc, victim, SpecialEnPassant), mvvLva(pc, victim))
		}
	}
}

func (p *Position) addPromotions(ml *MoveList, pc Piece, from, to Square, captured Piece) {
	for _, pt := range promotionOrder {
		ml.Add(NewMove(from, to, pc, captured, promotionSpecial(pt)), promotionScore(pt, captured))
	}
}

// genLeaper walks the mailbox offsets from each instance of pc. Border
// squares hold OffBoard, which ends the step without a range check.
func (p *Position) genLeaper(ml *MoveList, pc Piece, offsets []int, tacticalOnly bool) {
	them := pc.Color().Other()
	for i := 0; i < p.pieceCount[pc]; i++ {
		from := p.pieceList[pc][i]
		from120 := int(p.tab.To120[from])
		for _, off := range offsets {
			target := p.mailbox[from120+off]
			switch {
			case target == OffBoard:
			case target == NoPiece:
				if !tacticalOnly {
					to := p.tab.To64[from120+off]
					ml.Add(NewMove(from, to, pc, NoPiece, SpecialNone), 0)
				}
			case target.Color() == them:
				to := p.tab.To64[from120+off]
				ml.Add(NewMove(from, to, pc, target, SpecialNone), mvvLva(pc, target))
			}
		}
	}
}

func (p *Position) genSlider(ml *MoveList, pc Piece, tacticalOnly bool) {
	us := pc.Color()
	enemies := p.Occupied[us.Other()]
	for i := 0; i < p.pieceCount[pc]; i++ {
		from := p.pieceList[pc][i]
		var attacks Bitboard
		switch pc.Type() {
		case Bishop:
			attacks = p.tab.BishopAttacks(from, p.All)
		case Rook:
			attacks = p.tab.RookAttacks(from, p.All)
		default:
			attacks = p.tab.QueenAttacks(from, p.All)
		}

		captures := attacks & enemies
		for captures != 0 {
			to := captures.PopLSB()
			victim := p.PieceAt(to)
			ml.Add(NewMove(from, to, pc, victim, SpecialNone), mvvLva(pc, victim))
		}
		if tacticalOnly {
			continue
		}
		quiets := attacks &^ p.All
		for quiets != 0 {
			ml.Add(NewMove(from, quiets.PopLSB(), pc, NoPiece, SpecialNone), 0)
		}
	}
}

// genCastling only checks rights and empty squares. Whether the king
// starts in, passes through or lands in check is decided by Apply.
func (p *Position) genCastling(ml *MoveList, us Color) {
	king := NewPiece(King, us)
	for i := range castleRules[us] {
		r := &castleRules[us][i]
		if p.Castling&r.right != 0 && p.All&r.mustBeEmpty == 0 {
			ml.Add(NewMove(r.kingFrom, r.kingTo, king, NoPiece, r.special), 0)
		}
	}
}

// LegalMoves returns the legal moves in generation order.
func (p *Position) LegalMoves() []Move {
	var ml MoveList
	p.GenerateMoves(&ml)
	legal := make([]Move, 0, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		m := ml.Move(i)
		if p.Apply(m) {
			p.Revert()
			legal = append(legal, m)
		}
	}
	return legal
}

// HasLegalMove reports whether the side to move has any legal move.
func (p *Position) HasLegalMove() bool {
	var ml MoveList
	p.GenerateMoves(&ml)
	for i := 0; i < ml.Len(); i++ {
		if p.Apply(ml.Move(i)) {
			p.Revert()
			return true
		}
	}
	return false
}

// IsCheckmate reports that the side to move is in check with no legal move.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMove()
}

// IsStalemate reports that the side to move is not in check but cannot move.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMove()
}
