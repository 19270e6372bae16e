package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// historyCeiling triggers halving of the whole history table.
const historyCeiling = 400000

// MoveOrderer holds the killer and history tables. Captures and
// promotions are already scored by the generator; the orderer only
// touches quiet moves.
type MoveOrderer struct {
	// Quiet moves that caused a beta cutoff, newest first.
	killers [MaxPly][2]board.Move

	// Cutoff counts indexed by [from][to].
	history [64][64]int

	useHistory bool
}

// NewMoveOrderer creates a move orderer. History scores only reach the
// move list when useHistory is set.
func NewMoveOrderer(useHistory bool) *MoveOrderer {
	return &MoveOrderer{useHistory: useHistory}
}

// Clear forgets all killers and history.
func (mo *MoveOrderer) Clear() {
	mo.killers = [MaxPly][2]board.Move{}
	mo.history = [64][64]int{}
}

// ScoreQuiets overwrites the scores of quiet moves: killers of this ply
// and of the grandparent ply sit just below the captures, everything else
// gets its history score or 0.
func (mo *MoveOrderer) ScoreQuiets(ml *board.MoveList, ply int) {
	for i := 0; i < ml.Len(); i++ {
		m := ml.Move(i)
		if m.IsTactical() {
			continue
		}
		score := 0
		if mo.useHistory {
			score = min(mo.history[m.From()][m.To()], board.KillerScore-4)
		}
		switch {
		case m == mo.killers[ply][0]:
			score = board.KillerScore
		case m == mo.killers[ply][1]:
			score = board.KillerScore - 1
		case ply >= 2 && m == mo.killers[ply-2][0]:
			score = board.KillerScore - 2
		case ply >= 2 && m == mo.killers[ply-2][1]:
			score = board.KillerScore - 3
		}
		ml.SetScore(i, score)
	}
}

// MarkHashMove puts m first. It reports false when m is not in the list,
// which is how a stale or colliding table move is rejected.
func MarkHashMove(ml *board.MoveList, m board.Move) bool {
	for i := 0; i < ml.Len(); i++ {
		if ml.Move(i) == m {
			ml.SetScore(i, board.HashMoveScore)
			return true
		}
	}
	return false
}

// UpdateKillers records a quiet cutoff move at ply.
func (mo *MoveOrderer) UpdateKillers(m board.Move, ply int) {
	if ply >= MaxPly || mo.killers[ply][0] == m {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// Killers returns the two killers stored for ply.
func (mo *MoveOrderer) Killers(ply int) [2]board.Move {
	return mo.killers[ply]
}

// UpdateHistory rewards a quiet cutoff move by depth squared.
func (mo *MoveOrderer) UpdateHistory(m board.Move, depth int) {
	h := &mo.history[m.From()][m.To()]
	*h += depth * depth
	if *h > historyCeiling {
		for i := range mo.history {
			for j := range mo.history[i] {
				mo.history[i][j] /= 2
			}
		}
	}
}

// HistoryScore returns the history count of m.
func (mo *MoveOrderer) HistoryScore(m board.Move) int {
	return mo.history[m.From()][m.To()]
}
