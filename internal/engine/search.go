package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

const (
	// pollInterval is how many nodes pass between clock checks.
	pollInterval = 5000

	nullMinDepth = 4
	// The null-move search runs at depth - nullReduction.
	nullReduction = 3
	// Below this much non-pawn material on the board zugzwang is too
	// likely for null-move pruning.
	nullMinMaterial = 2000
)

// PVTable stores the principal variation, one triangular row per ply.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

func (pv *PVTable) update(ply int, m board.Move) {
	pv.moves[ply][ply] = m
	for j := ply + 1; j < pv.length[ply+1]; j++ {
		pv.moves[ply][j] = pv.moves[ply+1][j]
	}
	pv.length[ply] = pv.length[ply+1]
}

// line returns a copy of the root variation.
func (pv *PVTable) line() []board.Move {
	return append([]board.Move(nil), pv.moves[0][:pv.length[0]]...)
}

// IsMateScore reports whether score encodes a forced mate for either side.
func IsMateScore(score int) bool {
	return score > MateScore-MaxPly || score < -MateScore+MaxPly
}

// visit counts a node and polls the clock and node limit every
// pollInterval nodes. It reports whether the search must unwind.
func (e *Engine) visit() bool {
	e.nodes++
	if e.nodes%pollInterval == 0 {
		if e.tm.Expired() || (e.nodeLimit > 0 && e.nodes >= e.nodeLimit) {
			e.stop.Store(true)
		}
	}
	return e.stop.Load()
}

// negamax searches the current position to depth plies and returns its
// score from the side to move's point of view. nullOK is false anywhere
// below a null move.
func (e *Engine) negamax(depth, ply, alpha, beta int, nullOK bool) int {
	pos := e.pos
	e.pv.length[ply] = ply

	if e.visit() {
		return 0
	}
	if ply > 0 && pos.IsDraw(e.root) {
		return 0
	}
	if ply >= MaxPly-1 {
		return e.evaluate(pos)
	}

	inCheck := pos.InCheck()
	if inCheck {
		depth++
	}
	if depth <= 0 {
		return e.quiescence(ply, alpha, beta)
	}

	pvNode := beta-alpha > 1
	origAlpha := alpha

	var hashMove board.Move
	if e.opts.UseTT {
		if entry, ok := e.tt.Probe(pos.Hash); ok {
			hashMove = entry.Move
			if ply > 0 && int(entry.Depth) >= depth {
				if hashMove != board.NoMove && e.repeatsIntoDraw(hashMove) {
					e.tt.Remove(pos.Hash)
					hashMove = board.NoMove
				} else {
					score := AdjustScoreFromTT(int(entry.Score), ply)
					lo, hi := alpha, beta
					switch {
					case entry.Bound == BoundExact:
						return score
					case entry.Bound == BoundLower && !pvNode:
						lo = max(lo, score)
					case entry.Bound == BoundUpper && !pvNode:
						hi = min(hi, score)
					}
					if lo >= hi {
						return score
					}
				}
			}
		}
	}

	if e.opts.UseNullMove && nullOK && ply > 0 && !pvNode && !inCheck && depth >= nullMinDepth &&
		pos.TotalBigMaterial() >= nullMinMaterial && pos.HasNonPawnMaterial(pos.SideToMove) {
		pos.ApplyNull()
		score := -e.negamax(depth-nullReduction, ply+1, -beta, -beta+1, false)
		pos.RevertNull()
		if e.stop.Load() {
			return 0
		}
		if score >= beta {
			if IsMateScore(score) {
				return beta
			}
			return score
		}
	}

	var ml board.MoveList
	pos.GenerateMoves(&ml)
	e.orderer.ScoreQuiets(&ml, ply)
	if hashMove != board.NoMove {
		MarkHashMove(&ml, hashMove)
	}

	bestScore, bestMove := -Infinity, board.NoMove
	legal := 0
	for i := 0; i < ml.Len(); i++ {
		m := ml.PickNext(i).Move
		if !pos.Apply(m) {
			continue
		}
		legal++

		var score int
		if legal == 1 {
			score = -e.negamax(depth-1, ply+1, -beta, -alpha, nullOK)
		} else {
			score = -e.negamax(depth-1, ply+1, -alpha-1, -alpha, nullOK)
			if score > alpha && score < beta {
				score = -e.negamax(depth-1, ply+1, -beta, -alpha, nullOK)
			}
		}
		pos.Revert()

		if e.stop.Load() {
			return 0
		}

		if score > bestScore {
			bestScore, bestMove = score, m
			if score > alpha {
				alpha = score
				e.pv.update(ply, m)
			}
		}
		if score >= beta {
			e.store(depth, ply, score, BoundLower, m)
			if !m.IsTactical() {
				e.orderer.UpdateKillers(m, ply)
				e.orderer.UpdateHistory(m, depth)
			}
			return score
		}
	}

	if legal == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	bound := BoundUpper
	if bestScore > origAlpha {
		bound = BoundExact
	}
	e.store(depth, ply, bestScore, bound, bestMove)
	return bestScore
}

// quiescence resolves captures and promotions below the horizon, starting
// from the static evaluation as a lower bound.
func (e *Engine) quiescence(ply, alpha, beta int) int {
	pos := e.pos
	e.pv.length[ply] = ply

	if e.visit() {
		return 0
	}

	standPat := e.evaluate(pos)
	if ply >= MaxPly-1 || standPat >= beta {
		return standPat
	}
	alpha = max(alpha, standPat)

	var ml board.MoveList
	pos.GenerateTactical(&ml)

	best := standPat
	for i := 0; i < ml.Len(); i++ {
		m := ml.PickNext(i).Move
		if !pos.Apply(m) {
			continue
		}
		score := -e.quiescence(ply+1, -beta, -alpha)
		pos.Revert()

		if e.stop.Load() {
			return 0
		}
		if score > best {
			best = score
		}
		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
			e.pv.update(ply, m)
		}
	}
	return best
}

func (e *Engine) store(depth, ply, score int, bound Bound, m board.Move) {
	if e.opts.UseTT {
		e.tt.Store(e.pos.Hash, depth, AdjustScoreToTT(score, ply), bound, m, e.age)
	}
}

// repeatsIntoDraw plays a table move and reports whether it, or any reply
// to it, completes a draw by repetition or the fifty-move rule. Such an
// entry was stored along a different path and its score cannot be trusted
// here. A move the generator does not produce is rejected as well.
func (e *Engine) repeatsIntoDraw(m board.Move) bool {
	pos := e.pos
	var ml board.MoveList
	pos.GenerateMoves(&ml)
	if !ml.Contains(m) || !pos.Apply(m) {
		return true
	}
	defer pos.Revert()

	if pos.IsFiftyMoveDraw() || pos.IsRepetitionSince(e.root) {
		return true
	}
	var replies board.MoveList
	pos.GenerateMoves(&replies)
	for i := 0; i < replies.Len(); i++ {
		if !pos.Apply(replies.Move(i)) {
			continue
		}
		draw := pos.IsFiftyMoveDraw() || pos.IsRepetitionSince(e.root)
		pos.Revert()
		if draw {
			return true
		}
	}
	return false
}
