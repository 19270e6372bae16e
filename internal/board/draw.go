package board

// IsFiftyMoveDraw reports a half-move clock of 100 plies or more.
func (p *Position) IsFiftyMoveDraw() bool {
	return p.HalfMoveClock >= 100
}

// repetitions counts earlier occurrences of the current position. Only
// positions with the same side to move since the last irreversible move
// are compared. inTree counts the occurrences at or after undo depth root.
func (p *Position) repetitions(root int) (total, inTree int) {
	stop := p.undoLen - p.HalfMoveClock
	if stop < 0 {
		stop = 0
	}
	for i := p.undoLen - 2; i >= stop; i -= 2 {
		if p.undo[i].Hash == p.Hash {
			total++
			if i >= root {
				inTree++
			}
		}
	}
	return total, inTree
}

// IsRepetition reports a threefold repetition of the current position.
func (p *Position) IsRepetition() bool {
	total, _ := p.repetitions(p.undoLen)
	return total >= 2
}

// IsRepetitionSince is the search's repetition test: threefold over the
// whole game, or a single repeat of a position first seen at or after
// undo depth root. Repeating once inside the tree can always be forced
// again, so it scores as the draw it would become.
func (p *Position) IsRepetitionSince(root int) bool {
	total, inTree := p.repetitions(root)
	return total >= 2 || inTree >= 1
}

// IsInsufficientMaterial reports positions where neither side can mate:
// bare kings, a single minor piece, or only bishops all on one colour.
func (p *Position) IsInsufficientMaterial() bool {
	if p.Pawns[Both] != 0 {
		return false
	}
	var heavy, knights, bishops Bitboard
	for c := White; c <= Black; c++ {
		heavy |= p.Pieces[c][Rook] | p.Pieces[c][Queen]
		knights |= p.Pieces[c][Knight]
		bishops |= p.Pieces[c][Bishop]
	}
	if heavy != 0 {
		return false
	}
	minors := knights.PopCount() + bishops.PopCount()
	if minors <= 1 {
		return true
	}
	return knights == 0 && (bishops&LightSquares == 0 || bishops&DarkSquares == 0)
}

// IsDraw combines the fifty-move rule, repetition (as judged by
// IsRepetitionSince) and insufficient material.
func (p *Position) IsDraw(root int) bool {
	return p.IsFiftyMoveDraw() || p.IsRepetitionSince(root) || p.IsInsufficientMaterial()
}
