package engine

const pawnEntrySize = 16

// PawnEntry caches the pawn structure score of one pawn placement.
type PawnEntry struct {
	Key uint64
	Mg  int32
	Eg  int32
}

// PawnTable caches pawn structure scores by pawn hash. Pawn placements
// repeat far more often than whole positions, so even a small table hits
// most of the time.
type PawnTable struct {
	entries []PawnEntry
	mask    uint64
}

// NewPawnTable creates a pawn table of about sizeMB megabytes, rounded
// down to a power of two entries.
func NewPawnTable(sizeMB int) *PawnTable {
	n := max(sizeMB, 1) * 1024 * 1024 / pawnEntrySize
	size := 1
	for size*2 <= n {
		size *= 2
	}
	return &PawnTable{
		entries: make([]PawnEntry, size),
		mask:    uint64(size - 1),
	}
}

// Probe returns the cached scores for key.
func (pt *PawnTable) Probe(key uint64) (mg, eg int, found bool) {
	e := &pt.entries[key&pt.mask]
	if e.Key != key {
		return 0, 0, false
	}
	return int(e.Mg), int(e.Eg), true
}

// Store caches the scores for key, replacing whatever shared its slot.
func (pt *PawnTable) Store(key uint64, mg, eg int) {
	pt.entries[key&pt.mask] = PawnEntry{Key: key, Mg: int32(mg), Eg: int32(eg)}
}

// Clear empties the table.
func (pt *PawnTable) Clear() {
	clear(pt.entries)
}
