// Package uci drives the engine over the Universal Chess Interface
// protocol.
package uci

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

const (
	engineName   = "ChessCore"
	engineAuthor = "ChessCore Team"

	minHashMB = 1
	maxHashMB = 4096

	// maxGamePlies leaves room on the undo stack for the deepest search.
	maxGamePlies = board.MaxGamePly - engine.MaxPly - 8
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Position
	store    *storage.Storage // nil disables persistence

	analysisLog bool

	out   io.Writer
	outMu sync.Mutex

	// Search state
	searching  bool
	searchDone chan struct{}
}

// New creates a protocol handler writing to out. store may be nil.
func New(eng *engine.Engine, store *storage.Storage, out io.Writer) *UCI {
	return &UCI{
		engine:      eng,
		position:    board.NewPosition(),
		store:       store,
		analysisLog: store != nil,
		out:         out,
	}
}

// SetAnalysisLog turns recording of finished searches on or off.
func (u *UCI) SetAnalysisLog(on bool) {
	u.analysisLog = on
}

// Run reads commands from r until "quit" or end of input. A search still
// running at end of input is stopped.
func (u *UCI) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if !u.Execute(scanner.Text()) {
			return nil
		}
	}
	u.handleStop()
	return scanner.Err()
}

// Execute handles one command line and reports whether the session should
// continue.
func (u *UCI) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "uci":
		u.handleUCI()
	case "isready":
		u.println("readyok")
	case "ucinewgame":
		u.handleNewGame()
	case "position":
		u.handleStop()
		u.handlePosition(args)
	case "go":
		u.handleGo(args)
	case "stop":
		u.handleStop()
	case "quit":
		u.handleStop()
		return false
	case "setoption":
		u.handleSetOption(args)
	case "debug":
		u.handleStop()
		board.Debug = len(args) > 0 && args[0] == "on"
	// Debug commands
	case "d":
		u.handleDisplay()
	case "eval":
		u.handleStop()
		u.handleEval()
	case "perft":
		u.handlePerft(args)
	case "divide":
		u.handleDivide(args)
	default:
		u.printf("info string Unknown command: %s\n", cmd)
	}
	return true
}

// Wait blocks until the current search, if any, has reported its move.
func (u *UCI) Wait() {
	if u.searching {
		<-u.searchDone
		u.searching = false
	}
}

func (u *UCI) printf(format string, args ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

func (u *UCI) println(s string) {
	u.printf("%s\n", s)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	opts := u.engine.Options()
	u.printf("id name %s\n", engineName)
	u.printf("id author %s\n", engineAuthor)
	u.println("")
	u.printf("option name Hash type spin default %d min %d max %d\n", opts.HashMB, minHashMB, maxHashMB)
	u.printf("option name NullMove type check default %t\n", opts.UseNullMove)
	u.printf("option name AnalysisLog type check default %t\n", u.analysisLog)
	u.println("option name Clear Hash type button")
	u.println("uciok")
}

// handleNewGame resets the engine for a new game.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.engine.Clear()
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// Moves are played through the position's history, so repetitions before
// the search root count.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := slices.Index(args, "moves")
	setup := args
	if movesAt >= 0 {
		setup = args[:movesAt]
	}
	if len(setup) == 0 {
		return
	}

	var pos *board.Position
	switch setup[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		p, err := board.ParseFEN(strings.Join(setup[1:], " "))
		if err != nil {
			u.printf("info string Invalid FEN: %v\n", err)
			return
		}
		pos = p
	default:
		return
	}
	u.position = pos

	if movesAt < 0 {
		return
	}
	for i, s := range args[movesAt+1:] {
		if pos.Plies() >= maxGamePlies {
			u.printf("info string Game too long, ignoring the last %d moves\n", len(args)-movesAt-1-i)
			return
		}
		m, err := pos.ParseMove(s)
		if err != nil {
			u.printf("info string Invalid move: %s\n", s)
			return
		}
		pos.Apply(m)
	}
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

// ParseGoOptions parses "go" command arguments. Unknown tokens and
// malformed numbers are ignored.
func ParseGoOptions(args []string) GoOptions {
	var opts GoOptions

	millis := func(s string) time.Duration {
		ms, _ := strconv.Atoi(s)
		return time.Duration(ms) * time.Millisecond
	}

	for i := 0; i < len(args); i++ {
		if args[i] == "infinite" {
			opts.Infinite = true
			continue
		}
		if i+1 >= len(args) {
			break
		}
		v := args[i+1]
		switch args[i] {
		case "depth":
			opts.Depth, _ = strconv.Atoi(v)
		case "nodes":
			opts.Nodes, _ = strconv.ParseUint(v, 10, 64)
		case "movetime":
			opts.MoveTime = millis(v)
		case "wtime":
			opts.WTime = millis(v)
		case "btime":
			opts.BTime = millis(v)
		case "winc":
			opts.WInc = millis(v)
		case "binc":
			opts.BInc = millis(v)
		case "movestogo":
			opts.MovesToGo, _ = strconv.Atoi(v)
		default:
			continue
		}
		i++
	}
	return opts
}

// Limits converts the options to search limits for pos. A clock is only
// consulted when no explicit move time is given.
func (o GoOptions) Limits(pos *board.Position) engine.Limits {
	limits := engine.Limits{
		Depth:    o.Depth,
		Nodes:    o.Nodes,
		MoveTime: o.MoveTime,
		Infinite: o.Infinite,
	}
	if !o.Infinite && o.MoveTime == 0 && (o.WTime > 0 || o.BTime > 0) {
		limits.MoveTime = engine.Allocate(engine.TimeControl{
			WTime:     o.WTime,
			BTime:     o.BTime,
			WInc:      o.WInc,
			BInc:      o.BInc,
			MovesToGo: o.MovesToGo,
		}, pos)
	}
	return limits
}

// handleGo starts a search with the given parameters.
func (u *UCI) handleGo(args []string) {
	if u.searching {
		select {
		case <-u.searchDone:
			u.searching = false
		default:
			u.println("info string Search already running")
			return
		}
	}

	opts := ParseGoOptions(args)
	pos := u.position.Copy()
	limits := opts.Limits(pos)
	if limits.MoveTime > 0 && opts.MoveTime == 0 {
		u.printf("info string time_allocated=%dms\n", limits.MoveTime.Milliseconds())
	}

	u.engine.OnInfo = func(info engine.SearchInfo) {
		u.sendInfo(info)
	}

	u.searching = true
	u.searchDone = make(chan struct{})

	go func() {
		defer close(u.searchDone)

		res := u.engine.Search(pos, limits)
		if res.Move == board.NoMove {
			// Checkmate or stalemate
			u.println("bestmove 0000")
			return
		}
		u.recordAnalysis(pos, res)
		u.printf("info string hash hitrate %.1f%%\n", u.engine.HitRate())
		u.printf("bestmove %s\n", res.Move)
	}()
}

// FormatScore renders a score the way "info" lines carry it.
func FormatScore(score int) string {
	if n, ok := engine.MateIn(score); ok {
		return fmt.Sprintf("mate %d", n)
	}
	return fmt.Sprintf("cp %d", score)
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		"score " + FormatScore(info.Score),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}
	if info.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %d", uint64(float64(info.Nodes)/info.Time.Seconds())))
	}
	if info.HashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))
	}
	if len(info.PV) > 0 {
		pv := make([]string, len(info.PV))
		for i, m := range info.PV {
			pv[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(pv, " "))
	}
	u.printf("info %s\n", strings.Join(parts, " "))
}

func (u *UCI) recordAnalysis(pos *board.Position, res engine.Result) {
	if u.store == nil || !u.analysisLog || res.Depth == 0 {
		return
	}
	err := u.store.SaveAnalysis(storage.Analysis{
		Hash:     pos.Hash,
		FEN:      pos.FEN(),
		Depth:    res.Depth,
		Score:    res.Score,
		BestMove: res.Move.String(),
		PV:       pos.MovesToSAN(res.PV),
		Nodes:    res.Nodes,
		Elapsed:  res.Elapsed.Milliseconds(),
	})
	if err != nil {
		u.printf("info string Failed to record analysis: %v\n", err)
	}
}

// handleStop stops the current search and waits for its bestmove.
func (u *UCI) handleStop() {
	if u.searching {
		u.engine.Stop()
		u.Wait()
	}
}

// handleSetOption processes "setoption name <name> [value <value>]".
func (u *UCI) handleSetOption(args []string) {
	var name, value []string
	target := &name
	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			*target = append(*target, arg)
		}
	}

	u.handleStop()

	switch v := strings.Join(value, " "); strings.ToLower(strings.Join(name, " ")) {
	case "hash":
		mb, err := strconv.Atoi(v)
		if err != nil || mb < minHashMB || mb > maxHashMB {
			u.printf("info string Invalid Hash value: %s\n", v)
			return
		}
		u.engine.SetHashSize(mb)
	case "nullmove":
		u.engine.SetNullMove(strings.EqualFold(v, "true"))
	case "analysislog":
		u.analysisLog = strings.EqualFold(v, "true")
	case "clear hash":
		u.engine.Clear()
		return
	default:
		u.printf("info string Unknown option: %s\n", strings.Join(name, " "))
		return
	}
	u.saveOptions()
}

func (u *UCI) saveOptions() {
	if u.store == nil {
		return
	}
	opts := u.engine.Options()
	err := u.store.SaveOptions(storage.EngineOptions{
		HashMB:      opts.HashMB,
		NullMove:    opts.UseNullMove,
		AnalysisLog: u.analysisLog,
	})
	if err != nil {
		u.printf("info string Failed to save options: %v\n", err)
	}
}

func (u *UCI) handleDisplay() {
	pos := u.position
	u.printf("%s\n", pos)
	u.printf("Key: %016X\n", pos.Hash)
	if m := pos.LastMove(); m != board.NoMove {
		u.printf("Last move: %s\n", m)
	}
	us := pos.SideToMove
	var checkers []string
	for bb := pos.AttackersOf(pos.KingSquare(us), us.Other(), pos.All); bb != 0; {
		checkers = append(checkers, bb.PopLSB().String())
	}
	u.printf("Checkers: %s\n", strings.Join(checkers, " "))
	if a, err := u.lookupAnalysis(); err == nil {
		u.printf("Stored: depth %d score %s best %s pv %s\n",
			a.Depth, engine.ScoreToString(a.Score), a.BestMove, strings.Join(a.PV, " "))
	}
}

func (u *UCI) handleEval() {
	pos := u.position
	u.printf("Material:   %s\n", engine.ScoreToString(engine.EvaluateMaterial(pos)))
	u.printf("Evaluation: %s (side to move)\n", engine.ScoreToString(u.engine.Evaluate(pos)))
}

func (u *UCI) lookupAnalysis() (storage.Analysis, error) {
	if u.store == nil {
		return storage.Analysis{}, storage.ErrNotFound
	}
	a, err := u.store.LoadAnalysis(u.position.Hash)
	if err == nil && a.FEN != u.position.FEN() {
		return storage.Analysis{}, storage.ErrNotFound
	}
	return a, err
}

func parseDepth(args []string, def int) int {
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d >= 0 {
			return d
		}
	}
	return def
}

// handlePerft counts the leaves of the legal move tree, consulting the
// perft cache first.
func (u *UCI) handlePerft(args []string) {
	depth := parseDepth(args, 5)
	fen := u.position.FEN()

	if u.store != nil {
		nodes, err := u.store.LoadPerft(fen, depth)
		if err == nil {
			u.printf("Nodes: %s (cached)\n", humanize.Comma(int64(nodes)))
			return
		}
		if !errors.Is(err, storage.ErrNotFound) {
			u.printf("info string Perft cache: %v\n", err)
		}
	}

	start := time.Now()
	nodes := u.engine.Perft(u.position, depth)
	elapsed := time.Since(start)

	u.printf("Nodes: %s\n", humanize.Comma(int64(nodes)))
	u.printf("Time: %v\n", elapsed.Round(time.Millisecond))
	if elapsed > 0 {
		u.printf("NPS: %s\n", humanize.Comma(int64(float64(nodes)/elapsed.Seconds())))
	}

	if u.store != nil {
		if err := u.store.SavePerft(fen, depth, nodes); err != nil {
			u.printf("info string Perft cache: %v\n", err)
		}
	}
}

// handleDivide prints the perft count below every root move.
func (u *UCI) handleDivide(args []string) {
	depth := parseDepth(args, 1)
	if depth < 1 {
		depth = 1
	}
	counts := u.position.Copy().Divide(depth)

	moves := make([]board.Move, 0, len(counts))
	for m := range counts {
		moves = append(moves, m)
	}
	slices.SortFunc(moves, func(a, b board.Move) int {
		return strings.Compare(a.String(), b.String())
	})

	var total uint64
	for _, m := range moves {
		u.printf("%s: %d\n", m, counts[m])
		total += counts[m]
	}
	u.printf("\nMoves: %d\nNodes: %s\n", len(moves), humanize.Comma(int64(total)))
}
