// reversi - Reversi engine and console game
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/schollz/progressbar/v3"

	"github.com/yourusername/reversi/pkg/engine"
	"github.com/yourusername/reversi/pkg/match"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "play":
		cmdPlay(args)
	case "eval":
		cmdEval(args)
	case "moves":
		cmdMoves(args)
	case "best":
		cmdBest(args)
	case "selfplay":
		cmdSelfPlay(args)
	case "replay":
		cmdReplay(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`reversi - Reversi Engine

Usage: reversi <command> [options]

Commands:
  play      Play a game against the engine
  eval      Evaluate a position
  moves     List legal moves
  best      Search for the best move
  selfplay  Play the engine against itself
  replay    Summarise a saved transcript

Use "reversi <command> -h" for command-specific help.

Positions:
  A position is given either as a position ID (-position/-p), e.g.
  "AAAAAAAAAkABgAAAAAAAAA:b" for the starting position, or as a move list
  from the start (-moves/-m), e.g. "c4c3d3".`)
}

// positionFlags registers the position input flags shared by most commands.
type positionFlags struct {
	position, positionShort *string
	moves, movesShort       *string
}

func addPositionFlags(fs *flag.FlagSet) *positionFlags {
	return &positionFlags{
		position:      fs.String("position", "", "Position ID"),
		positionShort: fs.String("p", "", "Position ID (short form)"),
		moves:         fs.String("moves", "", "Moves from the starting position (e.g. c4c3d3)"),
		movesShort:    fs.String("m", "", "Moves (short form)"),
	}
}

// board resolves the flags to a position, defaulting to the starting position.
func (p *positionFlags) board() (engine.Board, error) {
	pos := *p.position
	if pos == "" {
		pos = *p.positionShort
	}
	moves := *p.moves
	if moves == "" {
		moves = *p.movesShort
	}

	switch {
	case pos != "":
		b, err := engine.BoardFromPositionID(pos)
		if err != nil {
			return engine.Board{}, fmt.Errorf("invalid position ID: %w", err)
		}
		return b, nil
	case moves != "":
		b, err := match.BoardFromMoves(moves)
		if err != nil {
			return engine.Board{}, fmt.Errorf("invalid move list: %w", err)
		}
		return b, nil
	}
	return engine.NewGame(), nil
}

func createEngine(depth int) (*engine.Engine, error) {
	e, err := engine.NewEngine(engine.EngineOptions{Depth: depth})
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return e, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func colorName(c engine.Color) string {
	if c == engine.ColorBlack {
		return "Black (B)"
	}
	return "White (W)"
}

func formatSquares(squares []engine.Square) string {
	parts := make([]string, len(squares))
	for i, sq := range squares {
		parts[i] = sq.String()
	}
	return strings.Join(parts, " ")
}

func printOutcome(w io.Writer, b engine.Board) {
	black, white := b.Count(engine.Black), b.Count(engine.White)
	switch b.Winner() {
	case engine.Black:
		fmt.Fprintln(w, aurora.Green(fmt.Sprintf("Black wins! (%d-%d)", black, white)))
	case engine.White:
		fmt.Fprintln(w, aurora.Green(fmt.Sprintf("White wins! (%d-%d)", black, white)))
	default:
		fmt.Fprintln(w, aurora.Yellow(fmt.Sprintf("Tie! (%d-%d)", black, white)))
	}
	fmt.Fprint(w, b)
}

func cmdPlay(args []string) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	depth := fs.Int("depth", engine.DefaultDepth, "Engine search depth in plies")
	colorFlag := fs.String("color", "black", "Your color (black moves first)")
	fs.Parse(args)

	human, err := engine.ParseColor(*colorFlag)
	if err != nil {
		fatal(err)
	}
	e, err := createEngine(*depth)
	if err != nil {
		fatal(err)
	}

	playGame(os.Stdin, os.Stdout, e, human)
}

// playGame runs the console loop until the side to move is stuck or input
// ends.
func playGame(in io.Reader, out io.Writer, e *engine.Engine, human engine.Color) {
	b := engine.NewGame()
	scanner := bufio.NewScanner(in)

	for {
		if b.IsTerminal(b.Current()) {
			printOutcome(out, b)
			return
		}

		if b.Current() != human {
			start := time.Now()
			sq, err := e.BestMove(b)
			if err != nil {
				fatal(err)
			}
			b.Play(sq)
			fmt.Fprintf(out, "%s plays %s (%.1fs)\n",
				colorName(human.Opponent()), aurora.Cyan(sq.String()), time.Since(start).Seconds())
			continue
		}

		fmt.Fprintf(out, "\n%s to move:\n", colorName(human))
		fmt.Fprint(out, b)
		fmt.Fprintf(out, "Legal moves: %s\n", formatSquares(b.LegalMoves(human)))
		fmt.Fprint(out, "Enter a move (e.g. c4): ")

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "quit" || input == "q" {
			return
		}

		sq, err := engine.ParseSquare(input)
		if err != nil || !b.Play(sq) {
			fmt.Fprintln(out, aurora.Red("Invalid move!"))
		}
	}
}

func cmdEval(args []string) {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	pos := addPositionFlags(fs)
	colorFlag := fs.String("color", "", "Side to evaluate for (default: side to move)")
	fs.Parse(args)

	b, err := pos.board()
	if err != nil {
		fatal(err)
	}
	c := b.Current()
	if *colorFlag != "" {
		if c, err = engine.ParseColor(*colorFlag); err != nil {
			fatal(err)
		}
	}

	bd := engine.EvaluateBreakdown(b, c)
	fmt.Print(b)
	fmt.Printf("Evaluation for %s: %.3f\n", c, bd.Score)
	if bd.Terminal {
		fmt.Println("  (no legal moves: terminal score)")
		return
	}
	fmt.Printf("  Piece:            %+8.3f\n", bd.Piece)
	fmt.Printf("  Corner occupancy: %+8.3f\n", bd.CornerOccupancy)
	fmt.Printf("  Corner closeness: %+8.3f\n", bd.CornerCloseness)
	fmt.Printf("  Mobility:         %+8.3f\n", bd.Mobility)
	fmt.Printf("  Frontier:         %+8.3f\n", bd.Frontier)
	fmt.Printf("  Positional:       %+8.3f\n", bd.Positional)
}

func cmdMoves(args []string) {
	fs := flag.NewFlagSet("moves", flag.ExitOnError)
	pos := addPositionFlags(fs)
	fs.Parse(args)

	b, err := pos.board()
	if err != nil {
		fatal(err)
	}

	c := b.Current()
	legal := b.LegalMoves(c)
	if len(legal) == 0 {
		fmt.Printf("No legal moves for %s (game over)\n", c)
		return
	}
	fmt.Printf("Legal moves for %s:\n", c)
	for _, sq := range legal {
		fmt.Printf("  %s  flips %d\n", sq, len(b.Flips(sq.Col, sq.Row, c)))
	}
}

func cmdBest(args []string) {
	fs := flag.NewFlagSet("best", flag.ExitOnError)
	pos := addPositionFlags(fs)
	depth := fs.Int("depth", engine.DefaultDepth, "Search depth in plies")
	numMoves := fs.Int("n", 5, "Number of moves to show")
	fs.Parse(args)

	b, err := pos.board()
	if err != nil {
		fatal(err)
	}
	e, err := createEngine(*depth)
	if err != nil {
		fatal(err)
	}

	start := time.Now()
	res, err := e.Analyze(b)
	if err != nil {
		fatal(err)
	}
	elapsed := time.Since(start)

	fmt.Printf("Best move for %s: %s (depth %d, %d nodes, %.2fs)\n",
		b.Current(), aurora.Bold(res.BestMove.String()), res.Depth, res.Nodes, elapsed.Seconds())
	for i, m := range res.Ranked() {
		if i >= *numMoves {
			break
		}
		fmt.Printf("  %d. %-4s  Score: %+14.3f  Flips: %d\n", i+1, m.Move, m.Score, m.Flips)
	}
}

func newProgressBar(total int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        aurora.Yellow("█").String(),
			SaucerHead:    aurora.Yellow("█").String(),
			SaucerPadding: " ",
			BarStart:      "|",
			BarEnd:        "|",
		}))
}

func cmdSelfPlay(args []string) {
	def := engine.DefaultSelfPlayOptions()
	fs := flag.NewFlagSet("selfplay", flag.ExitOnError)
	games := fs.Int("games", def.Games, "Number of games")
	blackDepth := fs.Int("black-depth", 4, "Search depth for Black")
	whiteDepth := fs.Int("white-depth", 4, "Search depth for White")
	random := fs.Int("random", def.RandomOpening, "Random opening plies")
	workers := fs.Int("workers", 0, "Number of worker goroutines (0 = auto)")
	seed := fs.Int64("seed", 0, "Random seed (0 = random)")
	out := fs.String("out", "", "Write the games to this transcript file")
	quiet := fs.Bool("q", false, "Hide the progress bar")
	fs.Parse(args)

	opts := engine.SelfPlayOptions{
		Games:         *games,
		BlackDepth:    *blackDepth,
		WhiteDepth:    *whiteDepth,
		RandomOpening: *random,
		Workers:       *workers,
		Seed:          *seed,
	}

	var callback engine.ProgressCallback
	if !*quiet && opts.Games > 0 {
		bar := newProgressBar(opts.Games, "selfplay")
		callback = func(p engine.SelfPlayProgress) {
			bar.Set(p.GamesCompleted)
			bar.Describe(fmt.Sprintf("selfplay %d-%d-%d", p.BlackWins, p.WhiteWins, p.Draws))
		}
		defer bar.Close()
	}

	start := time.Now()
	res, err := engine.SelfPlay(opts, callback)
	if err != nil {
		fatal(err)
	}
	elapsed := time.Since(start)
	fmt.Println()

	n := len(res.Games)
	fmt.Printf("Self-play (%d games, depth %d vs %d, seed %d, %.1fs):\n",
		n, res.Options.BlackDepth, res.Options.WhiteDepth, res.Seed, elapsed.Seconds())
	fmt.Printf("  Black wins: %d (%.1f%%)\n", res.BlackWins, percent(res.BlackWins, n))
	fmt.Printf("  White wins: %d (%.1f%%)\n", res.WhiteWins, percent(res.WhiteWins, n))
	fmt.Printf("  Draws:      %d (%.1f%%)\n", res.Draws, percent(res.Draws, n))
	fmt.Printf("  Margin:     %+.2f ± %.2f discs\n", res.MeanMargin, res.StdDevMargin)

	if *out != "" {
		if err := writeTranscript(*out, match.FromSelfPlay(res)); err != nil {
			fatal(err)
		}
		fmt.Printf("Transcript written to %s\n", *out)
	}
}

func percent(k, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(k) * 100 / float64(n)
}

func writeTranscript(path string, m *match.Match) error {
	m.Date = time.Now().Format("2006-01-02")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create transcript: %w", err)
	}
	if err := match.Export(f, m); err != nil {
		f.Close()
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return f.Close()
}

func cmdReplay(args []string) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	in := fs.String("in", "", "Transcript file")
	showBoards := fs.Bool("boards", false, "Print each final position")
	fs.Parse(args)

	if *in == "" {
		fmt.Fprintln(os.Stderr, "Error: transcript required")
		fmt.Fprintln(os.Stderr, "Usage: reversi replay -in <file>")
		os.Exit(1)
	}

	f, err := os.Open(*in)
	if err != nil {
		fatal(err)
	}
	defer f.Close()

	m, err := match.Import(f)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("%s vs %s", m.Black, m.White)
	if m.Event != "" {
		fmt.Printf(" (%s)", m.Event)
	}
	fmt.Printf(": %d games\n", len(m.Games))
	for _, g := range m.Games {
		black, white := g.Score()
		fmt.Printf("  Game %3d  %-7s  %2d-%-2d  %d moves\n", g.Number, g.Result, black, white, len(g.Moves))
		if *showBoards {
			fmt.Print(g.Final)
		}
	}
}
