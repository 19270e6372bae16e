package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// SearchInfo describes one completed iteration.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // permille of hash table used
}

// Limits bounds a search. With no limit set the search runs until Stop
// or until maxSearchDepth is reached.
type Limits struct {
	Depth    int           // maximum depth, 0 = no limit
	MoveTime time.Duration // time for this move, 0 = no limit
	Nodes    uint64        // approximate node limit, checked every pollInterval nodes
	Infinite bool          // ignore MoveTime and search until stopped
}

// Result is the outcome of a search: the best move and score of the last
// completed depth.
type Result struct {
	Move    board.Move // NoMove when the side to move has no legal move
	Score   int
	Depth   int
	Nodes   uint64
	PV      []board.Move
	Elapsed time.Duration
}

const maxSearchDepth = 64

// Options configures an engine.
type Options struct {
	HashMB      int
	UseTT       bool
	UseNullMove bool
	UseHistory  bool
	// Evaluator replaces the built-in evaluation when set.
	Evaluator Evaluator
}

// DefaultOptions returns the standard configuration.
func DefaultOptions() Options {
	return Options{
		HashMB:      16,
		UseTT:       true,
		UseNullMove: true,
	}
}

// Engine is a single-threaded searcher. The transposition table persists
// across searches until Clear; killers and history start empty on every
// search.
type Engine struct {
	opts    Options
	tt      *TranspositionTable
	pawns   *PawnTable
	orderer *MoveOrderer
	eval    Evaluator

	// Per-search state.
	pos       *board.Position
	root      int
	age       int
	nodes     uint64
	nodeLimit uint64
	tm        TimeManager
	pv        PVTable
	stop      atomic.Bool

	// OnInfo, when set, is called after every completed depth.
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine. A zero HashMB takes the default size.
func NewEngine(opts Options) *Engine {
	if opts.HashMB <= 0 {
		opts.HashMB = DefaultOptions().HashMB
	}
	e := &Engine{
		opts:    opts,
		tt:      NewTranspositionTable(opts.HashMB),
		pawns:   NewPawnTable(1),
		orderer: NewMoveOrderer(opts.UseHistory),
		eval:    opts.Evaluator,
	}
	if e.eval == nil {
		e.eval = func(pos *board.Position) int {
			return EvaluateWithPawnTable(pos, e.pawns)
		}
	}
	return e
}

// Options returns the engine's current configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// SetHashSize resizes, and thereby clears, the transposition table.
func (e *Engine) SetHashSize(mb int) {
	e.opts.HashMB = mb
	e.tt.Resize(mb)
}

// SetNullMove turns null-move pruning on or off.
func (e *Engine) SetNullMove(on bool) {
	e.opts.UseNullMove = on
}

func (e *Engine) evaluate(pos *board.Position) int {
	return e.eval(pos)
}

// Evaluate returns the static evaluation of pos.
func (e *Engine) Evaluate(pos *board.Position) int {
	return e.eval(pos)
}

// Search finds the best move for pos by iterative deepening. pos itself is
// not modified. A depth that is cut short by Stop or a limit is
// discarded; the result always comes from the deepest completed one.
func (e *Engine) Search(pos *board.Position, limits Limits) Result {
	e.pos = pos.Copy()
	e.root = e.pos.Plies()
	e.age = e.pos.Age
	e.nodes = 0
	e.nodeLimit = limits.Nodes
	e.stop.Store(false)
	e.orderer.Clear()
	e.pv = PVTable{}

	budget := limits.MoveTime
	if limits.Infinite {
		budget = 0
	}
	e.tm.Start(budget)

	var res Result
	legal := e.pos.LegalMoves()
	if len(legal) == 0 {
		if e.pos.InCheck() {
			res.Score = -MateScore
		}
		return res
	}
	// Something to play even if the first iteration never completes.
	res.Move = legal[0]

	maxDepth := maxSearchDepth
	if limits.Depth > 0 {
		maxDepth = min(limits.Depth, maxSearchDepth)
	}

	for depth := 1; depth <= maxDepth; depth++ {
		score := e.negamax(depth, 0, -Infinity, Infinity, true)
		if e.stop.Load() {
			break
		}

		pv := e.pv.line()
		if len(pv) > 0 {
			res.Move = pv[0]
		}
		res.Score, res.Depth, res.PV = score, depth, pv

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:    depth,
				Score:    score,
				Nodes:    e.nodes,
				Time:     e.tm.Elapsed(),
				PV:       pv,
				HashFull: e.tt.HashFull(),
			})
		}

		if IsMateScore(score) || !e.tm.StartNextDepth() {
			break
		}
	}

	res.Nodes = e.nodes
	res.Elapsed = e.tm.Elapsed()
	return res
}

// Stop asks a running search to unwind. It is safe to call from another
// goroutine.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// Clear empties the transposition and pawn tables and the move ordering
// state.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.pawns.Clear()
	e.orderer.Clear()
}

// HashFull returns the permille of the transposition table in use.
func (e *Engine) HashFull() int {
	return e.tt.HashFull()
}

// HitRate returns the percentage of table probes that found their
// position since the table was last cleared.
func (e *Engine) HitRate() float64 {
	return e.tt.HitRate()
}

// Perft counts leaf nodes of the legal move tree below pos.
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	return pos.Copy().Perft(depth)
}

// MateIn converts a mate score to full moves, negative when the side to
// move is being mated. ok is false for ordinary scores.
func MateIn(score int) (moves int, ok bool) {
	switch {
	case score > MateScore-MaxPly:
		return (MateScore - score + 1) / 2, true
	case score < -MateScore+MaxPly:
		return -(MateScore + score) / 2, true
	}
	return 0, false
}

// ScoreToString renders a score for people: pawns with two decimals, or
// the mate distance.
func ScoreToString(score int) string {
	if n, ok := MateIn(score); ok {
		if n > 0 {
			return fmt.Sprintf("Mate in %d", n)
		}
		return fmt.Sprintf("Mated in %d", -n)
	}
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}
