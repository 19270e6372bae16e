package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Bound indicates how a stored score relates to the true value.
type Bound uint8

const (
	BoundNone  Bound = iota // empty slot
	BoundExact              // score is exact
	BoundLower              // failed high (beta cutoff)
	BoundUpper              // failed low
)

func (b Bound) String() string {
	switch b {
	case BoundExact:
		return "exact"
	case BoundLower:
		return "lower"
	case BoundUpper:
		return "upper"
	}
	return "none"
}

// AgeTolerance is how many ages an entry may lag the current search before
// a shallower result is allowed to overwrite it.
const AgeTolerance = 1

// ttEntrySize is the in-memory size of a TTEntry, used to turn megabytes
// into a capacity.
const ttEntrySize = 24

// TTEntry is one slot of the transposition table.
type TTEntry struct {
	Key   uint64     // full Zobrist hash of the stored position
	Move  board.Move // best or refuting move, NoMove if none
	Score int32      // ply-independent, see AdjustScoreToTT
	Age   int32
	Depth int16
	Bound Bound
}

// TranspositionTable is a fixed-capacity table with one entry per index,
// indexed by hash modulo capacity. It is owned by a single search and is
// not safe for concurrent use.
type TranspositionTable struct {
	entries []TTEntry

	hits   uint64
	probes uint64
}

// NewTranspositionTable creates a table of about sizeMB megabytes.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	return &TranspositionTable{entries: make([]TTEntry, capacityFor(sizeMB))}
}

func capacityFor(sizeMB int) int {
	if sizeMB < 1 {
		sizeMB = 1
	}
	return sizeMB * 1024 * 1024 / ttEntrySize
}

func (tt *TranspositionTable) index(hash uint64) uint64 {
	return hash % uint64(len(tt.entries))
}

// Probe looks up hash. A slot holding a different position is a miss.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++
	e := tt.entries[tt.index(hash)]
	if e.Bound == BoundNone || e.Key != hash {
		return TTEntry{}, false
	}
	tt.hits++
	return e, true
}

// Store writes a result for hash. The write is dropped when the slot holds
// a deeper entry that is not yet stale; otherwise the last write wins.
func (tt *TranspositionTable) Store(hash uint64, depth, score int, bound Bound, move board.Move, age int) {
	e := &tt.entries[tt.index(hash)]
	if e.Bound != BoundNone && int(e.Depth) > depth && age-int(e.Age) <= AgeTolerance {
		return
	}
	*e = TTEntry{
		Key:   hash,
		Move:  move,
		Score: int32(score),
		Age:   int32(age),
		Depth: int16(depth),
		Bound: bound,
	}
}

// Remove empties the slot for hash if it holds that position.
func (tt *TranspositionTable) Remove(hash uint64) {
	e := &tt.entries[tt.index(hash)]
	if e.Key == hash {
		*e = TTEntry{}
	}
}

// Clear empties every slot and resets the statistics.
func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
	tt.hits, tt.probes = 0, 0
}

// Resize replaces the table with an empty one of about sizeMB megabytes.
func (tt *TranspositionTable) Resize(sizeMB int) {
	tt.entries = make([]TTEntry, capacityFor(sizeMB))
	tt.hits, tt.probes = 0, 0
}

// HashFull returns the permille of used slots, sampled over the first
// thousand.
func (tt *TranspositionTable) HashFull() int {
	n := min(1000, len(tt.entries))
	used := 0
	for i := 0; i < n; i++ {
		if tt.entries[i].Bound != BoundNone {
			used++
		}
	}
	return used * 1000 / n
}

// HitRate returns the share of probes that found their position, in percent.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Size returns the number of entries in the table.
func (tt *TranspositionTable) Size() int {
	return len(tt.entries)
}

// AdjustScoreFromTT converts a stored mate score back to distance from
// the current root.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT converts a mate score to distance from the stored node.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
