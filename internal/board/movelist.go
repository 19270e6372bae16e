package board

// MaxMoves bounds the pseudo-legal moves of any reachable position.
const MaxMoves = 256

// Generation-time ordering scores. Captures and promotions sit above
// TacticalScore so a caller can stop at the first quiet move.
const (
	HashMoveScore = 2_000_000
	TacticalScore = 1_000_000
	KillerScore   = 900_000
)

// ScoredMove pairs a move with its transient ordering score.
type ScoredMove struct {
	Move  Move
	Score int
}

// MoveList is a fixed-capacity list filled by the generator.
type MoveList struct {
	moves [MaxMoves]ScoredMove
	n     int
}

// Add appends m with the given score.
func (ml *MoveList) Add(m Move, score int) {
	ml.moves[ml.n] = ScoredMove{Move: m, Score: score}
	ml.n++
}

func (ml *MoveList) Len() int            { return ml.n }
func (ml *MoveList) Clear()              { ml.n = 0 }
func (ml *MoveList) At(i int) ScoredMove { return ml.moves[i] }
func (ml *MoveList) Move(i int) Move     { return ml.moves[i].Move }

// SetScore overwrites the ordering score of entry i.
func (ml *MoveList) SetScore(i, score int) {
	ml.moves[i].Score = score
}

// Contains compares moves by identity only; scores are ignored.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.n; i++ {
		if ml.moves[i].Move == m {
			return true
		}
	}
	return false
}

// PickNext moves the highest-scored entry among i..Len()-1 to position i
// and returns it. Calling it for i = 0, 1, 2, ... yields the list in
// descending score order without sorting entries that are never reached.
func (ml *MoveList) PickNext(i int) ScoredMove {
	best := i
	for j := i + 1; j < ml.n; j++ {
		if ml.moves[j].Score > ml.moves[best].Score {
			best = j
		}
	}
	ml.moves[i], ml.moves[best] = ml.moves[best], ml.moves[i]
	return ml.moves[i]
}
