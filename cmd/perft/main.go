// Command perft counts move-generation leaf nodes, optionally checking the
// count against an independent generator.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dylhunn/dragontoothmg"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/storage"
)

// referenceDivide is the independent count used by -verify.
var referenceDivide = dragontoothDivide

type config struct {
	fen    string
	depth  int
	divide bool
	verify bool
	cache  string
}

func main() {
	log.SetFlags(0)
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes the command and returns the process exit code: 0 on
// success, 1 when -verify finds a disagreement, 2 on bad input.
func run(args []string, out io.Writer) int {
	var cfg config
	fs := flag.NewFlagSet("perft", flag.ContinueOnError)
	fs.StringVar(&cfg.fen, "fen", board.StartFEN, "position to count from")
	fs.IntVar(&cfg.depth, "depth", 5, "search depth in plies")
	fs.BoolVar(&cfg.divide, "divide", false, "print the count below every root move")
	fs.BoolVar(&cfg.verify, "verify", false, "cross-check every root move against dragontoothmg")
	fs.StringVar(&cfg.cache, "cache", "", "perft cache directory (empty = no cache)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	pos, err := board.ParseFEN(cfg.fen)
	if err != nil {
		log.Print(err)
		return 2
	}

	var store *storage.Storage
	if cfg.cache != "" {
		store, err = storage.Open(cfg.cache)
		if err != nil {
			log.Print(err)
			return 2
		}
		defer store.Close()
	}

	if store != nil && !cfg.divide && !cfg.verify {
		nodes, err := store.LoadPerft(pos.FEN(), cfg.depth)
		if err == nil {
			fmt.Fprintf(out, "Nodes: %s (cached)\n", humanize.Comma(int64(nodes)))
			return 0
		}
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("cache: %v", err)
		}
	}

	start := time.Now()
	var (
		nodes uint64
		ok    = true
	)
	if cfg.divide || cfg.verify {
		nodes, ok = runDivide(out, pos, cfg)
	} else {
		nodes = pos.Perft(cfg.depth)
	}
	elapsed := time.Since(start)

	fmt.Fprintf(out, "Nodes: %s\n", humanize.Comma(int64(nodes)))
	fmt.Fprintf(out, "Time:  %v\n", elapsed.Round(time.Millisecond))
	if elapsed > 0 {
		fmt.Fprintf(out, "NPS:   %s\n", humanize.SIWithDigits(float64(nodes)/elapsed.Seconds(), 2, "nps"))
	}

	if !ok {
		return 1
	}
	if store != nil {
		if err := store.SavePerft(pos.FEN(), cfg.depth, nodes); err != nil {
			log.Printf("cache: %v", err)
		}
	}
	return 0
}

// runDivide counts below every root move and, with -verify, compares each
// count with the reference. ok is false on any disagreement.
func runDivide(out io.Writer, pos *board.Position, cfg config) (total uint64, ok bool) {
	counts := pos.Divide(cfg.depth)
	var ref map[string]uint64
	if cfg.verify {
		ref = referenceDivide(pos.FEN(), cfg.depth)
	}

	keys := make([]string, 0, len(counts))
	byName := make(map[string]uint64, len(counts))
	for m, n := range counts {
		keys = append(keys, m.String())
		byName[m.String()] = n
	}
	slices.Sort(keys)

	mismatches := 0
	for _, k := range keys {
		n := byName[k]
		total += n
		if cfg.divide || (ref != nil && ref[k] != n) {
			line := fmt.Sprintf("%s: %d", k, n)
			if ref != nil && ref[k] != n {
				line += fmt.Sprintf("  (reference %d)", ref[k])
				mismatches++
			}
			fmt.Fprintln(out, line)
		}
	}
	if ref != nil {
		for k, n := range ref {
			if _, ok := byName[k]; !ok {
				fmt.Fprintf(out, "%s: missing  (reference %d)\n", k, n)
				mismatches++
			}
		}
		if mismatches > 0 {
			fmt.Fprintf(out, "%d root moves disagree with the reference\n", mismatches)
		} else {
			fmt.Fprintln(out, "All root moves match the reference")
		}
	}
	return total, mismatches == 0
}

// dragontoothDivide runs the same divide with dragontoothmg.
func dragontoothDivide(fen string, depth int) map[string]uint64 {
	b := dragontoothmg.ParseFen(fen)
	out := make(map[string]uint64)
	for _, m := range b.GenerateLegalMoves() {
		unapply := b.Apply(m)
		out[strings.ToLower(m.String())] = referencePerft(&b, depth-1)
		unapply()
	}
	return out
}

func referencePerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var n uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		n += referencePerft(b, depth-1)
		unapply()
	}
	return n
}
