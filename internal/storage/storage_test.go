package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOptions(t *testing.T) {
	s := openTest(t)

	opts, err := s.LoadOptions()
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if opts != DefaultEngineOptions() {
		t.Errorf("fresh store options = %+v, want defaults", opts)
	}

	want := EngineOptions{HashMB: 64, NullMove: false, AnalysisLog: true}
	if err := s.SaveOptions(want); err != nil {
		t.Fatalf("SaveOptions: %v", err)
	}
	got, err := s.LoadOptions()
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if got != want {
		t.Errorf("options = %+v, want %+v", got, want)
	}
}

func TestAnalysis(t *testing.T) {
	s := openTest(t)

	if _, err := s.LoadAnalysis(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing analysis error = %v, want ErrNotFound", err)
	}

	deep := Analysis{Hash: 42, FEN: "fen", Depth: 9, Score: 31, BestMove: "e2e4", PV: []string{"e4", "e5"}}
	if err := s.SaveAnalysis(deep); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}
	shallow := deep
	shallow.Depth, shallow.BestMove = 4, "d2d4"
	if err := s.SaveAnalysis(shallow); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}

	got, err := s.LoadAnalysis(42)
	if err != nil {
		t.Fatalf("LoadAnalysis: %v", err)
	}
	if got.Depth != 9 || got.BestMove != "e2e4" || len(got.PV) != 2 || got.SavedAt.IsZero() {
		t.Errorf("analysis = %+v; the deeper one should be kept", got)
	}

	if err := s.SaveAnalysis(Analysis{Hash: 7, FEN: "other", Depth: 1}); err != nil {
		t.Fatal(err)
	}
	all, err := s.ListAnalyses(0)
	if err != nil {
		t.Fatalf("ListAnalyses: %v", err)
	}
	if len(all) != 2 || all[0].Hash != 7 || all[1].Hash != 42 {
		t.Errorf("ListAnalyses = %+v", all)
	}
	if one, _ := s.ListAnalyses(1); len(one) != 1 {
		t.Errorf("ListAnalyses(1) returned %d entries", len(one))
	}
}

func TestPerftCache(t *testing.T) {
	s := openTest(t)
	const fen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

	if _, err := s.LoadPerft(fen, 4); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing perft error = %v, want ErrNotFound", err)
	}
	if err := s.SavePerft(fen, 4, 197281); err != nil {
		t.Fatalf("SavePerft: %v", err)
	}
	n, err := s.LoadPerft(fen, 4)
	if err != nil || n != 197281 {
		t.Errorf("LoadPerft = %d, %v", n, err)
	}
	if _, err := s.LoadPerft(fen, 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("depth 3 should not hit the depth 4 record: %v", err)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SavePerft("x", 1, 5); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if n, err := s.LoadPerft("x", 1); err != nil || n != 5 {
		t.Errorf("after reopen LoadPerft = %d, %v", n, err)
	}
}

func TestDatabaseDirHonoursOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CHESSCORE_HOME", home)

	dir, err := DatabaseDir()
	if err != nil {
		t.Fatalf("DatabaseDir: %v", err)
	}
	if want := filepath.Join(home, "db"); dir != want {
		t.Errorf("DatabaseDir = %q, want %q", dir, want)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Errorf("database directory not created: %v", err)
	}
}
