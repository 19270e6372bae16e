// Package engine implements the search: iterative deepening over a
// negamax alpha-beta core with a transposition table, null-move pruning,
// principal variation search and a capture-only quiescence search.
package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Evaluator scores a position in centipawns from the side to move's point
// of view. It must be deterministic and must not modify the position.
type Evaluator func(pos *board.Position) int

// startPhase is the non-pawn material of both sides in the initial
// position; the piece-square score tapers from middlegame to endgame as it
// comes off the board.
const startPhase = 2 * (2*320 + 2*330 + 2*500 + 900)

// Pawn structure terms, middlegame and endgame.
const (
	doubledPawnMg  = -15
	doubledPawnEg  = -20
	isolatedPawnMg = -15
	isolatedPawnEg = -20
)

// Passed pawn bonuses by relative rank.
var (
	passedPawnMg = [8]int{0, 5, 10, 15, 25, 40, 60, 0}
	passedPawnEg = [8]int{0, 10, 20, 35, 60, 100, 150, 0}
)

var (
	fileMask      [8]board.Bitboard
	adjacentFiles [8]board.Bitboard
	// passedMask[c][sq] holds the squares in front of sq, on its own and
	// the adjacent files, that enemy pawns must not occupy.
	passedMask [2][64]board.Bitboard
)

func init() {
	for f := 0; f < 8; f++ {
		fileMask[f] = board.FileA << f
	}
	for f := 0; f < 8; f++ {
		if f > 0 {
			adjacentFiles[f] |= fileMask[f-1]
		}
		if f < 7 {
			adjacentFiles[f] |= fileMask[f+1]
		}
	}
	for sq := board.A1; sq <= board.H8; sq++ {
		span := fileMask[sq.File()] | adjacentFiles[sq.File()]
		for r := sq.Rank() + 1; r < 8; r++ {
			passedMask[board.White][sq] |= span & (board.Rank1 << (8 * r))
		}
		for r := sq.Rank() - 1; r >= 0; r-- {
			passedMask[board.Black][sq] |= span & (board.Rank1 << (8 * r))
		}
	}
}

// Evaluate is the default evaluator: material, phase-tapered piece-square
// tables and pawn structure.
func Evaluate(pos *board.Position) int {
	return EvaluateWithPawnTable(pos, nil)
}

// EvaluateWithPawnTable is Evaluate with the pawn structure term cached
// by pawn hash. A nil table computes it every time.
func EvaluateWithPawnTable(pos *board.Position, pt *PawnTable) int {
	material := pos.BigMaterial[board.White] + pos.PawnMaterial[board.White] -
		pos.BigMaterial[board.Black] - pos.PawnMaterial[board.Black]

	mg, eg := pos.PSTMid, pos.PSTEnd
	psMg, psEg := evaluatePawnStructureWithCache(pos, pt)
	mg += psMg
	eg += psEg

	phase := min(pos.TotalBigMaterial(), startPhase)
	score := material + (mg*phase+eg*(startPhase-phase))/startPhase

	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

// EvaluateMaterial returns just the material balance.
func EvaluateMaterial(pos *board.Position) int {
	us, them := pos.SideToMove, pos.SideToMove.Other()
	return pos.BigMaterial[us] + pos.PawnMaterial[us] - pos.BigMaterial[them] - pos.PawnMaterial[them]
}

// evaluatePawnStructure scores doubled, isolated and passed pawns, white
// minus black.
func evaluatePawnStructure(pos *board.Position) (mg, eg int) {
	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		own := pos.Pieces[c][board.Pawn]
		enemy := pos.Pieces[c.Other()][board.Pawn]

		for f := 0; f < 8; f++ {
			if n := (own & fileMask[f]).PopCount(); n > 1 {
				mg += sign * doubledPawnMg * (n - 1)
				eg += sign * doubledPawnEg * (n - 1)
			}
		}

		for bb := own; bb != 0; {
			sq := bb.PopLSB()
			if own&adjacentFiles[sq.File()] == 0 {
				mg += sign * isolatedPawnMg
				eg += sign * isolatedPawnEg
			}
			// Only the front pawn of a doubled pair can be passed.
			front := passedMask[c][sq]
			if enemy&front == 0 && own&front&fileMask[sq.File()] == 0 {
				r := sq.RelativeRank(c)
				mg += sign * passedPawnMg[r]
				eg += sign * passedPawnEg[r]
			}
		}
	}
	return mg, eg
}

func evaluatePawnStructureWithCache(pos *board.Position, pt *PawnTable) (mg, eg int) {
	if pt == nil {
		return evaluatePawnStructure(pos)
	}
	if mg, eg, found := pt.Probe(pos.PawnHash); found {
		return mg, eg
	}
	mg, eg = evaluatePawnStructure(pos)
	pt.Store(pos.PawnHash, mg, eg)
	return mg, eg
}
