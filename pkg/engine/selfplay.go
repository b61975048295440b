package engine

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// SelfPlayOptions controls an engine-versus-engine match
type SelfPlayOptions struct {
	Games         int   // Number of games (default 10)
	BlackDepth    int   // Search depth for Black (default DefaultDepth)
	WhiteDepth    int   // Search depth for White (default DefaultDepth)
	RandomOpening int   // Random plies played before the engines take over (default 4)
	Workers       int   // Games played concurrently (default GOMAXPROCS)
	Seed          int64 // Random seed (0 = random)
}

// SelfPlayProgress reports progress during a match
type SelfPlayProgress struct {
	GamesCompleted int
	GamesTotal     int
	BlackWins      int
	WhiteWins      int
	Draws          int
}

// ProgressCallback is called each time a game finishes
type ProgressCallback func(progress SelfPlayProgress)

// GameRecord is the outcome of one game
type GameRecord struct {
	Moves  []Square
	Final  Board
	Winner Cell
	Margin int // Black discs minus White discs
}

// SelfPlayResult contains the aggregated match results
type SelfPlayResult struct {
	Games        []GameRecord
	BlackWins    int
	WhiteWins    int
	Draws        int
	MeanMargin   float64         // Mean of Black minus White discs
	StdDevMargin float64
	Seed         int64
	Options      SelfPlayOptions // Options after defaults were applied
}

// DefaultSelfPlayOptions returns sensible defaults for self-play
func DefaultSelfPlayOptions() SelfPlayOptions {
	return SelfPlayOptions{
		Games:         10,
		BlackDepth:    DefaultDepth,
		WhiteDepth:    DefaultDepth,
		RandomOpening: 4,
		Workers:       runtime.GOMAXPROCS(0),
	}
}

// SelfPlay plays a match between two search depths. Each game runs on a
// single goroutine; Workers only controls how many games run at once.
func SelfPlay(opts SelfPlayOptions, callback ProgressCallback) (*SelfPlayResult, error) {
	if opts.Games <= 0 {
		opts.Games = 10
	}
	if opts.BlackDepth < 0 || opts.WhiteDepth < 0 {
		return nil, fmt.Errorf("%w: black %d, white %d", ErrInvalidDepth, opts.BlackDepth, opts.WhiteDepth)
	}
	if opts.BlackDepth == 0 {
		opts.BlackDepth = DefaultDepth
	}
	if opts.WhiteDepth == 0 {
		opts.WhiteDepth = DefaultDepth
	}
	if opts.RandomOpening < 0 {
		opts.RandomOpening = 0
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Workers > opts.Games {
		opts.Workers = opts.Games
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Int63()
	}

	type gameResult struct {
		index  int
		record GameRecord
	}

	jobs := make(chan int)
	results := make(chan gameResult, opts.Workers)
	var wg sync.WaitGroup

	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Seeding per game keeps results independent of scheduling.
				rng := rand.New(rand.NewSource(opts.Seed + int64(i)*1000003))
				results <- gameResult{index: i, record: playGame(opts, rng)}
			}
		}()
	}

	go func() {
		for i := 0; i < opts.Games; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	res := &SelfPlayResult{
		Games:   make([]GameRecord, opts.Games),
		Seed:    opts.Seed,
		Options: opts,
	}
	completed := 0
	for r := range results {
		res.Games[r.index] = r.record
		switch r.record.Winner {
		case Black:
			res.BlackWins++
		case White:
			res.WhiteWins++
		default:
			res.Draws++
		}
		completed++

		if callback != nil {
			callback(SelfPlayProgress{
				GamesCompleted: completed,
				GamesTotal:     opts.Games,
				BlackWins:      res.BlackWins,
				WhiteWins:      res.WhiteWins,
				Draws:          res.Draws,
			})
		}
	}

	margins := make([]float64, len(res.Games))
	for i, g := range res.Games {
		margins[i] = float64(g.Margin)
	}
	res.MeanMargin, res.StdDevMargin = stat.MeanStdDev(margins, nil)
	if len(margins) < 2 {
		res.StdDevMargin = 0
	}

	return res, nil
}

// playGame plays one game to the end. The game stops as soon as the side to
// move has no legal move.
func playGame(opts SelfPlayOptions, rng *rand.Rand) GameRecord {
	b := NewGame()
	var moves []Square

	for ply := 0; !b.IsTerminal(b.Current()); ply++ {
		var mv Square
		if ply < opts.RandomOpening {
			legal := b.LegalMoves(b.Current())
			mv = legal[rng.Intn(len(legal))]
		} else {
			depth := opts.BlackDepth
			if b.Current() == ColorWhite {
				depth = opts.WhiteDepth
			}
			mv = BestMove(b, depth)
		}

		b.Play(mv)
		moves = append(moves, mv)
	}

	return GameRecord{
		Moves:  moves,
		Final:  b,
		Winner: b.Winner(),
		Margin: b.Count(Black) - b.Count(White),
	}
}
