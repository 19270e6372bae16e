package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	hashMB     = flag.Int("hash", 0, "transposition table size in MB (default: saved option)")
	dbDir      = flag.String("db", "", "database directory (default: platform data dir)")
	noDB       = flag.Bool("nodb", false, "run without persistent storage")
	listLimit  = flag.Int("analyses", -1, "print up to N stored analyses and exit (0 = all)")
)

func main() {
	flag.Parse()
	// UCI owns stdout.
	log.SetOutput(os.Stderr)

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if *listLimit >= 0 {
		if store == nil {
			log.Fatal("no database to list analyses from")
		}
		listAnalyses(store, *listLimit)
		return
	}

	saved := storage.DefaultEngineOptions()
	if store != nil {
		opts, err := store.LoadOptions()
		if err != nil {
			log.Printf("Warning: could not load options: %v", err)
		} else {
			saved = opts
		}
	}

	opts := engine.DefaultOptions()
	opts.HashMB = saved.HashMB
	opts.UseNullMove = saved.NullMove
	if mb := hashFromEnv(); mb > 0 {
		opts.HashMB = mb
	}
	if *hashMB > 0 {
		opts.HashMB = *hashMB
	}
	eng := engine.NewEngine(opts)

	protocol := uci.New(eng, store, os.Stdout)
	protocol.SetAnalysisLog(store != nil && saved.AnalysisLog)
	if err := protocol.Run(os.Stdin); err != nil {
		log.Printf("input: %v", err)
	}
}

// openStore opens the database named by -db or CHESSCORE_DB, falling back
// to the platform data directory. Failure only disables persistence.
func openStore() *storage.Storage {
	if *noDB {
		return nil
	}
	dir := *dbDir
	if dir == "" {
		dir = os.Getenv("CHESSCORE_DB")
	}

	var (
		store *storage.Storage
		err   error
	)
	if dir != "" {
		store, err = storage.Open(dir)
	} else {
		store, err = storage.NewStorage()
	}
	if err != nil {
		log.Printf("Warning: storage disabled: %v", err)
		return nil
	}
	return store
}

func hashFromEnv() int {
	v := os.Getenv("CHESSCORE_HASH")
	if v == "" {
		return 0
	}
	mb, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: ignoring CHESSCORE_HASH=%q", v)
		return 0
	}
	return mb
}

func listAnalyses(store *storage.Storage, limit int) {
	analyses, err := store.ListAnalyses(limit)
	if err != nil {
		log.Fatal(err)
	}
	for _, a := range analyses {
		fmt.Printf("%s\n  depth %d  score %s  best %s  nodes %s  %s\n",
			a.FEN, a.Depth, engine.ScoreToString(a.Score), a.BestMove,
			humanize.Comma(int64(a.Nodes)), humanize.Time(a.SavedAt))
		if len(a.PV) > 0 {
			fmt.Printf("  pv %v\n", a.PV)
		}
	}
	fmt.Printf("%d analyses\n", len(analyses))
}
