package board

import (
	"errors"
	"fmt"
)

// Move packs everything needed to apply and revert a move:
//
//	bits 0-5   origin square
//	bits 6-11  destination square
//	bits 12-15 moving piece
//	bits 16-19 captured piece (NoPiece for none)
//	bits 20-22 special tag
//
// Ordering scores are kept beside the move (see ScoredMove), never inside.
type Move uint32

// Special distinguishes moves that do more than relocate one piece.
type Special uint8

const (
	SpecialNone Special = iota
	SpecialCastleKing
	SpecialCastleQueen
	SpecialEnPassant
	SpecialPromoteQueen
	SpecialPromoteRook
	SpecialPromoteBishop
	SpecialPromoteKnight
)

// NoMove is the zero move; it never matches a generated move.
const NoMove Move = 0

// ErrIllegalMove is returned when a move string does not name a legal move.
var ErrIllegalMove = errors.New("illegal move")

// NewMove packs a move. Use NoPiece as captured for non-captures.
func NewMove(from, to Square, piece, captured Piece, special Special) Move {
	return Move(from) | Move(to)<<6 | Move(piece)<<12 | Move(captured)<<16 | Move(special)<<20
}

func (m Move) From() Square      { return Square(m & 0x3F) }
func (m Move) To() Square        { return Square((m >> 6) & 0x3F) }
func (m Move) Piece() Piece      { return Piece((m >> 12) & 0xF) }
func (m Move) Captured() Piece   { return Piece((m >> 16) & 0xF) }
func (m Move) Special() Special  { return Special((m >> 20) & 0x7) }
func (m Move) IsCapture() bool   { return m.Captured() != NoPiece }
func (m Move) IsEnPassant() bool { return m.Special() == SpecialEnPassant }

// IsCastle reports either castling move. The move itself is the king's.
func (m Move) IsCastle() bool {
	s := m.Special()
	return s == SpecialCastleKing || s == SpecialCastleQueen
}

func (m Move) IsPromotion() bool {
	return m.Special() >= SpecialPromoteQueen
}

// Promotion returns the piece type a pawn becomes, NoPieceType otherwise.
func (m Move) Promotion() PieceType {
	switch m.Special() {
	case SpecialPromoteQueen:
		return Queen
	case SpecialPromoteRook:
		return Rook
	case SpecialPromoteBishop:
		return Bishop
	case SpecialPromoteKnight:
		return Knight
	}
	return NoPieceType
}

// IsTactical reports captures and promotions, the moves quiescence searches.
func (m Move) IsTactical() bool {
	return m.IsCapture() || m.IsPromotion()
}

func promotionSpecial(pt PieceType) Special {
	switch pt {
	case Queen:
		return SpecialPromoteQueen
	case Rook:
		return SpecialPromoteRook
	case Bishop:
		return SpecialPromoteBishop
	}
	return SpecialPromoteKnight
}

// String renders the move in the long algebraic form controllers expect,
// e.g. "e2e4" or "e7e8q". NoMove renders as "0000".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// ParseMove finds the legal move of p written as s in long algebraic form.
func (p *Position) ParseMove(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	for _, m := range p.LegalMoves() {
		if m.String() == s {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
}
