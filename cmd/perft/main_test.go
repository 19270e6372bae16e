package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/storage"
)

func TestRunCountsAndCaches(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	if code := run([]string{"-depth", "3", "-cache", dir}, &out); code != 0 {
		t.Fatalf("exit code %d:\n%s", code, out.String())
	}
	if !strings.Contains(out.String(), "Nodes: 8,902\n") {
		t.Fatalf("perft 3 output:\n%s", out.String())
	}

	out.Reset()
	if code := run([]string{"-depth", "3", "-cache", dir}, &out); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(out.String(), "Nodes: 8,902 (cached)") {
		t.Errorf("second run not served from cache:\n%s", out.String())
	}
}

func TestVerifyAgainstReference(t *testing.T) {
	var out bytes.Buffer
	args := []string{"-depth", "2", "-verify", "-fen", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"}
	if code := run(args, &out); code != 0 {
		t.Fatalf("exit code %d:\n%s", code, out.String())
	}
	if !strings.Contains(out.String(), "All root moves match the reference") ||
		!strings.Contains(out.String(), "Nodes: 2,039\n") {
		t.Errorf("verify output:\n%s", out.String())
	}
}

// A disagreement exits non-zero and still releases the cache directory.
func TestVerifyMismatchClosesCache(t *testing.T) {
	saved := referenceDivide
	defer func() { referenceDivide = saved }()
	referenceDivide = func(fen string, depth int) map[string]uint64 {
		ref := saved(fen, depth)
		ref["e2e4"]++
		return ref
	}

	dir := t.TempDir()
	var out bytes.Buffer
	if code := run([]string{"-depth", "2", "-verify", "-cache", dir}, &out); code != 1 {
		t.Fatalf("exit code %d, want 1:\n%s", code, out.String())
	}
	if !strings.Contains(out.String(), "e2e4: 20  (reference 21)") {
		t.Errorf("mismatch not reported:\n%s", out.String())
	}

	store, err := storage.Open(dir)
	if err != nil {
		t.Fatalf("cache left open after a failed verify: %v", err)
	}
	defer store.Close()
	if _, err := store.LoadPerft(board.StartFEN, 2); err == nil {
		t.Errorf("a disagreeing count was cached")
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"-fen", "not a fen"}, &out); code != 2 {
		t.Errorf("bad FEN exit code %d, want 2", code)
	}
	if code := run([]string{"-bogus"}, &out); code != 2 {
		t.Errorf("unknown flag exit code %d, want 2", code)
	}
}
