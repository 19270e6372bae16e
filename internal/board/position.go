package board

import (
	"fmt"
	"strings"
)

// Debug turns on a full consistency check after every Apply and Revert.
// A failed check panics: it means the position is corrupt.
var Debug = false

// MaxGamePly bounds the undo stack: moves played in the game plus the
// deepest line the search can explore from it.
const MaxGamePly = 2048

// Both indexes the combined entry of Position.Pawns.
const Both = NoColor

// maxPieceInstances bounds one piece kind on the board (two originals plus
// eight promotions).
const maxPieceInstances = 10

// CastlingRights is a set of four independent castling flags.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide
	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// String returns the FEN castling field.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, c := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// castleRule describes one castling move.
type castleRule struct {
	right            CastlingRights
	special          Special
	kingFrom, kingTo Square
	rookFrom, rookTo Square
	transit          Square
	mustBeEmpty      Bitboard
}

var castleRules = [2][2]castleRule{
	White: {
		{WhiteKingSide, SpecialCastleKing, E1, G1, H1, F1, F1, SquareBB(F1) | SquareBB(G1)},
		{WhiteQueenSide, SpecialCastleQueen, E1, C1, A1, D1, D1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1)},
	},
	Black: {
		{BlackKingSide, SpecialCastleKing, E8, G8, H8, F8, F8, SquareBB(F8) | SquareBB(G8)},
		{BlackQueenSide, SpecialCastleQueen, E8, C8, A8, D8, D8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8)},
	},
}

func castleRuleFor(c Color, s Special) *castleRule {
	if s == SpecialCastleKing {
		return &castleRules[c][0]
	}
	return &castleRules[c][1]
}

// castleKeep[sq] is the set of rights that survive a move touching sq.
var castleKeep = func() [64]CastlingRights {
	var keep [64]CastlingRights
	for i := range keep {
		keep[i] = AllCastling
	}
	keep[E1] &^= WhiteKingSide | WhiteQueenSide
	keep[H1] &^= WhiteKingSide
	keep[A1] &^= WhiteQueenSide
	keep[E8] &^= BlackKingSide | BlackQueenSide
	keep[H8] &^= BlackKingSide
	keep[A8] &^= BlackQueenSide
	return keep
}()

// Undo is everything a move cannot reconstruct by itself.
type Undo struct {
	Move          Move // NoMove for a null move
	Castling      CastlingRights
	EnPassant     Square
	HalfMoveClock int
	GamePly       int
	Age           int
	Hash          uint64
	PawnHash      uint64
}

// Position is a chess position together with its move history.
//
// Placement is stored twice, as a padded mailbox and as bitboards, and
// several running totals are derived from it. Only addPiece, removePiece
// and movePiece touch any of these, and only Apply, Revert and FEN setup
// call them, so every view always agrees with the others.
type Position struct {
	tab *Tables

	mailbox [Board120]Piece

	Pieces   [2][6]Bitboard
	Occupied [2]Bitboard
	All      Bitboard
	Pawns    [3]Bitboard // White, Black, Both

	pieceCount [12]int
	pieceList  [12][maxPieceInstances]Square
	listIndex  [64]uint8

	SideToMove    Color
	Castling      CastlingRights
	EnPassant     Square
	HalfMoveClock int
	GamePly       int // plies since the game start, derived from the FEN move number

	BigMaterial  [2]int // knights, bishops, rooks, queens
	PawnMaterial [2]int
	PSTMid       int // white minus black
	PSTEnd       int

	Hash     uint64
	PawnHash uint64
	Age      int // bumped by every irreversible move

	undo    [MaxGamePly]Undo
	undoLen int
}

func newEmptyPosition(t *Tables) *Position {
	p := &Position{tab: t, EnPassant: NoSquare}
	for i := range p.mailbox {
		p.mailbox[i] = OffBoard
	}
	for sq := A1; sq <= H8; sq++ {
		p.mailbox[t.To120[sq]] = NoPiece
	}
	return p
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	p, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// Copy returns an independent copy, history included.
func (p *Position) Copy() *Position {
	c := *p
	return &c
}

// Tables returns the lookup tables the position was built with.
func (p *Position) Tables() *Tables {
	return p.tab
}

// PieceAt returns the piece on sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	return p.mailbox[p.tab.To120[sq]]
}

// PieceCount returns how many pc are on the board.
func (p *Position) PieceCount(pc Piece) int {
	return p.pieceCount[pc]
}

// Plies returns the depth of the undo stack.
func (p *Position) Plies() int {
	return p.undoLen
}

// LastMove returns the most recent move on the undo stack, NoMove if none
// or if it was a null move.
func (p *Position) LastMove() Move {
	if p.undoLen == 0 {
		return NoMove
	}
	return p.undo[p.undoLen-1].Move
}

// TotalBigMaterial is the non-pawn material of both sides.
func (p *Position) TotalBigMaterial() int {
	return p.BigMaterial[White] + p.BigMaterial[Black]
}

// HasNonPawnMaterial reports whether c has anything besides king and pawns.
func (p *Position) HasNonPawnMaterial(c Color) bool {
	return p.BigMaterial[c] > 0
}

func (p *Position) addPiece(pc Piece, sq Square) {
	c, pt := pc.Color(), pc.Type()
	bb := SquareBB(sq)

	p.mailbox[p.tab.To120[sq]] = pc
	p.Pieces[c][pt] |= bb
	p.Occupied[c] |= bb
	p.All |= bb

	p.listIndex[sq] = uint8(p.pieceCount[pc])
	p.pieceList[pc][p.pieceCount[pc]] = sq
	p.pieceCount[pc]++

	p.PSTMid += p.tab.PSTMid[pc][sq]
	p.PSTEnd += p.tab.PSTEnd[pc][sq]
	key := p.tab.Zobrist.Piece[pc][sq]
	p.Hash ^= key

	switch pt {
	case Pawn:
		p.Pawns[c] |= bb
		p.Pawns[Both] |= bb
		p.PawnMaterial[c] += PieceValue[Pawn]
		p.PawnHash ^= key
	case King:
	default:
		p.BigMaterial[c] += PieceValue[pt]
	}
}

func (p *Position) removePiece(sq Square) Piece {
	s120 := p.tab.To120[sq]
	pc := p.mailbox[s120]
	c, pt := pc.Color(), pc.Type()
	bb := SquareBB(sq)

	p.mailbox[s120] = NoPiece
	p.Pieces[c][pt] &^= bb
	p.Occupied[c] &^= bb
	p.All &^= bb

	// Swap the last instance into the freed list slot.
	p.pieceCount[pc]--
	idx := p.listIndex[sq]
	last := p.pieceList[pc][p.pieceCount[pc]]
	p.pieceList[pc][idx] = last
	p.listIndex[last] = idx

	p.PSTMid -= p.tab.PSTMid[pc][sq]
	p.PSTEnd -= p.tab.PSTEnd[pc][sq]
	key := p.tab.Zobrist.Piece[pc][sq]
	p.Hash ^= key

	switch pt {
	case Pawn:
		p.Pawns[c] &^= bb
		p.Pawns[Both] &^= bb
		p.PawnMaterial[c] -= PieceValue[Pawn]
		p.PawnHash ^= key
	case King:
	default:
		p.BigMaterial[c] -= PieceValue[pt]
	}
	return pc
}

func (p *Position) movePiece(from, to Square) {
	f120, t120 := p.tab.To120[from], p.tab.To120[to]
	pc := p.mailbox[f120]
	c, pt := pc.Color(), pc.Type()
	move := SquareBB(from) | SquareBB(to)

	p.mailbox[f120] = NoPiece
	p.mailbox[t120] = pc
	p.Pieces[c][pt] ^= move
	p.Occupied[c] ^= move
	p.All ^= move

	idx := p.listIndex[from]
	p.pieceList[pc][idx] = to
	p.listIndex[to] = idx

	p.PSTMid += p.tab.PSTMid[pc][to] - p.tab.PSTMid[pc][from]
	p.PSTEnd += p.tab.PSTEnd[pc][to] - p.tab.PSTEnd[pc][from]
	key := p.tab.Zobrist.Piece[pc][from] ^ p.tab.Zobrist.Piece[pc][to]
	p.Hash ^= key

	if pt == Pawn {
		p.Pawns[c] ^= move
		p.Pawns[Both] ^= move
		p.PawnHash ^= key
	}
}

// Validate rebuilds every derived view from the mailbox and returns the
// first disagreement it finds.
func (p *Position) Validate() error {
	ref := newEmptyPosition(p.tab)
	for sq := A1; sq <= H8; sq++ {
		if pc := p.PieceAt(sq); pc < NoPiece {
			ref.addPiece(pc, sq)
		}
	}
	for s120 := 0; s120 < Board120; s120++ {
		if p.tab.To64[s120] == NoSquare && p.mailbox[s120] != OffBoard {
			return fmt.Errorf("border square %d holds %v", s120, p.mailbox[s120])
		}
	}
	switch {
	case ref.Pieces != p.Pieces:
		return fmt.Errorf("piece bitboards disagree with mailbox")
	case ref.Occupied != p.Occupied || ref.All != p.All:
		return fmt.Errorf("occupancy bitboards disagree with mailbox")
	case ref.Pawns != p.Pawns:
		return fmt.Errorf("pawn bitboards disagree with mailbox")
	case ref.pieceCount != p.pieceCount:
		return fmt.Errorf("piece counts disagree with mailbox")
	case ref.BigMaterial != p.BigMaterial || ref.PawnMaterial != p.PawnMaterial:
		return fmt.Errorf("material %v/%v, want %v/%v", p.BigMaterial, p.PawnMaterial, ref.BigMaterial, ref.PawnMaterial)
	case ref.PSTMid != p.PSTMid || ref.PSTEnd != p.PSTEnd:
		return fmt.Errorf("piece-square totals %d/%d, want %d/%d", p.PSTMid, p.PSTEnd, ref.PSTMid, ref.PSTEnd)
	}
	for pc := WhitePawn; pc < NoPiece; pc++ {
		for i := 0; i < p.pieceCount[pc]; i++ {
			sq := p.pieceList[pc][i]
			if p.PieceAt(sq) != pc || int(p.listIndex[sq]) != i {
				return fmt.Errorf("piece list of %v is stale at %v", pc, sq)
			}
		}
	}
	if h := p.ComputeHash(); h != p.Hash {
		return fmt.Errorf("hash %016x, want %016x", p.Hash, h)
	}
	if h := p.ComputePawnHash(); h != p.PawnHash {
		return fmt.Errorf("pawn hash %016x, want %016x", p.PawnHash, h)
	}
	return nil
}

func (p *Position) mustBeConsistent(op string) {
	if err := p.Validate(); err != nil {
		panic(fmt.Sprintf("board: %s left position inconsistent: %v", op, err))
	}
}

// String draws the board with rank 8 on top, followed by the FEN.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteString(fmt.Sprintf("%d ", rank+1))
		for file := 0; file < 8; file++ {
			pc := p.PieceAt(NewSquare(file, rank))
			if pc == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(pc.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	sb.WriteString(p.FEN())
	return sb.String()
}
