package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN wraps every FEN parsing failure.
var ErrInvalidFEN = errors.New("invalid FEN")

// ParseFEN builds a position from FEN using the process-wide tables.
func ParseFEN(fen string) (*Position, error) {
	return ParseFENWith(DefaultTables(), fen)
}

// ParseFENWith builds a position from FEN on the given tables. The
// half-move clock and full-move number are optional.
func ParseFENWith(t *Tables, fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: need at least 4 fields, got %d", ErrInvalidFEN, len(fields))
	}

	p := newEmptyPosition(t)
	if err := p.parsePlacement(fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		p.SideToMove = White
	case "b":
		p.SideToMove = Black
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	if err := p.parseCastling(fields[2]); err != nil {
		return nil, err
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant: %v", ErrInvalidFEN, err)
		}
		if r := sq.RelativeRank(p.SideToMove); r != 5 {
			return nil, fmt.Errorf("%w: en passant square %v on wrong rank", ErrInvalidFEN, sq)
		}
		if p.tab.Pawn[p.SideToMove.Other()][sq]&p.Pieces[p.SideToMove][Pawn] != 0 {
			p.EnPassant = sq
		}
	}

	fullMove := 1
	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: half-move clock %q", ErrInvalidFEN, fields[4])
		}
		p.HalfMoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: full-move number %q", ErrInvalidFEN, fields[5])
		}
		fullMove = n
	}
	p.GamePly = (fullMove-1)*2 + int(p.SideToMove)

	for c := White; c <= Black; c++ {
		if p.pieceCount[NewPiece(King, c)] != 1 {
			return nil, fmt.Errorf("%w: %v must have exactly one king", ErrInvalidFEN, c)
		}
	}
	if (p.Pawns[Both] & (Rank1 | Rank8)) != 0 {
		return nil, fmt.Errorf("%w: pawn on first or last rank", ErrInvalidFEN)
	}
	if p.IsSquareAttacked(p.KingSquare(p.SideToMove.Other()), p.SideToMove) {
		return nil, fmt.Errorf("%w: side not to move is in check", ErrInvalidFEN)
	}

	// addPiece already folded the pieces in; the remaining state keys
	// are added here.
	z := &t.Zobrist
	p.Hash ^= z.castling(p.Castling)
	if p.EnPassant != NoSquare {
		p.Hash ^= z.EnPassant[p.EnPassant.File()]
	}
	if p.SideToMove == Black {
		p.Hash ^= z.Side
	}
	return p, nil
}

func (p *Position) parsePlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			pc := PieceFromChar(c)
			if pc == NoPiece {
				return fmt.Errorf("%w: piece %q", ErrInvalidFEN, c)
			}
			if file > 7 {
				return fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, rank+1)
			}
			if p.pieceCount[pc] == maxPieceInstances {
				return fmt.Errorf("%w: too many %v", ErrInvalidFEN, pc)
			}
			p.addPiece(pc, NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, rank+1, file)
		}
	}
	return nil
}

// parseCastling reads the castling field, dropping any right whose king or
// rook is not on its home square.
func (p *Position) parseCastling(field string) error {
	if field == "-" {
		return nil
	}
	for i := 0; i < len(field); i++ {
		idx := strings.IndexByte("KQkq", field[i])
		if idx < 0 {
			return fmt.Errorf("%w: castling %q", ErrInvalidFEN, field)
		}
		p.Castling |= 1 << idx
	}
	for c := White; c <= Black; c++ {
		for i := range castleRules[c] {
			r := &castleRules[c][i]
			if p.PieceAt(r.kingFrom) != NewPiece(King, c) || p.PieceAt(r.rookFrom) != NewPiece(Rook, c) {
				p.Castling &^= r.right
			}
		}
	}
	return nil
}

// FEN renders the position.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.PieceAt(NewSquare(file, rank))
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(pc.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	side := "w"
	if p.SideToMove == Black {
		side = "b"
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d", side, p.Castling, p.EnPassant, p.HalfMoveClock, p.GamePly/2+1)
	return sb.String()
}
