// Package storage persists engine options, finished analyses and perft
// counts in a badger key-value store.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
)

// Key layout
const (
	keyOptions     = "options"
	prefixAnalysis = "analysis/"
	prefixPerft    = "perft/"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("storage: not found")

// EngineOptions are the settings restored when the engine starts.
type EngineOptions struct {
	HashMB      int  `json:"hash_mb"`
	NullMove    bool `json:"null_move"`
	AnalysisLog bool `json:"analysis_log"`
}

// DefaultEngineOptions returns the settings used before anything is saved.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		HashMB:      16,
		NullMove:    true,
		AnalysisLog: true,
	}
}

// Analysis is the outcome of one finished search.
type Analysis struct {
	Hash     uint64    `json:"hash"`
	FEN      string    `json:"fen"`
	Depth    int       `json:"depth"`
	Score    int       `json:"score"`
	BestMove string    `json:"best_move"`
	PV       []string  `json:"pv"` // SAN
	Nodes    uint64    `json:"nodes"`
	Elapsed  int64     `json:"elapsed_ms"`
	SavedAt  time.Time `json:"saved_at"`
}

type perftRecord struct {
	FEN   string `json:"fen"`
	Depth int    `json:"depth"`
	Nodes uint64 `json:"nodes"`
}

// Storage wraps a badger database.
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens or creates a database in dir.
func Open(dir string) (*Storage, error) {
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Storage, error) {
	opts.Logger = nil // badger logs to stderr otherwise
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) putJSON(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// getJSON decodes the value at key into v, or returns ErrNotFound.
func (s *Storage) getJSON(key []byte, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// SaveOptions stores the engine options.
func (s *Storage) SaveOptions(opts EngineOptions) error {
	return s.putJSON([]byte(keyOptions), opts)
}

// LoadOptions returns the saved options, or the defaults if none were
// saved.
func (s *Storage) LoadOptions() (EngineOptions, error) {
	opts := DefaultEngineOptions()
	err := s.getJSON([]byte(keyOptions), &opts)
	if errors.Is(err, ErrNotFound) {
		return DefaultEngineOptions(), nil
	}
	return opts, err
}

func analysisKey(hash uint64) []byte {
	key := make([]byte, len(prefixAnalysis)+8)
	copy(key, prefixAnalysis)
	binary.BigEndian.PutUint64(key[len(prefixAnalysis):], hash)
	return key
}

// SaveAnalysis stores a, replacing any earlier analysis of the same
// position unless that one went deeper.
func (s *Storage) SaveAnalysis(a Analysis) error {
	prev, err := s.LoadAnalysis(a.Hash)
	switch {
	case err == nil && prev.FEN == a.FEN && prev.Depth > a.Depth:
		return nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return err
	}
	if a.SavedAt.IsZero() {
		a.SavedAt = time.Now()
	}
	return s.putJSON(analysisKey(a.Hash), a)
}

// LoadAnalysis returns the stored analysis of the position with the given
// Zobrist hash.
func (s *Storage) LoadAnalysis(hash uint64) (Analysis, error) {
	var a Analysis
	err := s.getJSON(analysisKey(hash), &a)
	return a, err
}

// ListAnalyses returns up to limit stored analyses in key order; limit <= 0
// returns all of them.
func (s *Storage) ListAnalyses(limit int) ([]Analysis, error) {
	var out []Analysis
	prefix := []byte(prefixAnalysis)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var a Analysis
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &a)
			}); err != nil {
				return err
			}
			out = append(out, a)
			if limit > 0 && len(out) == limit {
				break
			}
		}
		return nil
	})
	return out, err
}

func perftKey(fen string, depth int) []byte {
	d := xxhash.New()
	d.WriteString(fen)
	d.WriteString("\x00")
	d.WriteString(strconv.Itoa(depth))
	key := make([]byte, len(prefixPerft)+8)
	copy(key, prefixPerft)
	binary.BigEndian.PutUint64(key[len(prefixPerft):], d.Sum64())
	return key
}

// SavePerft caches a perft count.
func (s *Storage) SavePerft(fen string, depth int, nodes uint64) error {
	return s.putJSON(perftKey(fen, depth), perftRecord{FEN: fen, Depth: depth, Nodes: nodes})
}

// LoadPerft returns a cached perft count. A record for a different
// position that happens to share the key is reported as ErrNotFound.
func (s *Storage) LoadPerft(fen string, depth int) (uint64, error) {
	var rec perftRecord
	if err := s.getJSON(perftKey(fen, depth), &rec); err != nil {
		return 0, err
	}
	if rec.FEN != fen || rec.Depth != depth {
		return 0, ErrNotFound
	}
	return rec.Nodes, nil
}
