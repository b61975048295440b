// Package match reads and writes reversi game transcripts.
// A match is a series of games between two players, typically two engine
// configurations in a self-play run.
package match

import (
	"errors"
	"fmt"

	"github.com/yourusername/reversi/pkg/engine"
)

var (
	// ErrIllegalMove is returned when a transcript contains a move that is
	// not legal in the replayed position.
	ErrIllegalMove = errors.New("match: illegal move")
	// ErrInvalidTranscript is returned for malformed transcript text.
	ErrInvalidTranscript = errors.New("match: invalid transcript")
)

// Match represents a series of games.
type Match struct {
	Black string // Black player (name or engine settings)
	White string // White player
	Event string
	Date  string // YYYY-MM-DD
	Seed  int64  // Self-play seed, 0 if unknown
	Games []*Game
}

// Game represents a single game within a match.
type Game struct {
	Number int             // Game number (1-indexed)
	Moves  []engine.Square // Moves in the order played, Black first
	Final  engine.Board    // Position after the last move
	Result GameResult
}

// GameResult indicates how a game ended.
type GameResult int

const (
	ResultInProgress GameResult = iota // Side to move still has a legal move
	ResultBlackWins
	ResultWhiteWins
	ResultDraw
)

func (r GameResult) String() string {
	switch r {
	case ResultBlackWins:
		return "1-0"
	case ResultWhiteWins:
		return "0-1"
	case ResultDraw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

func parseResult(s string) (GameResult, error) {
	for _, r := range []GameResult{ResultInProgress, ResultBlackWins, ResultWhiteWins, ResultDraw} {
		if s == r.String() {
			return r, nil
		}
	}
	return ResultInProgress, fmt.Errorf("%w: unknown result %q", ErrInvalidTranscript, s)
}

// NewMatch creates a new empty match.
func NewMatch(black, white string) *Match {
	return &Match{
		Black: black,
		White: white,
		Games: make([]*Game, 0),
	}
}

// NewGame creates a game at the starting position.
func NewGame(number int) *Game {
	return &Game{
		Number: number,
		Moves:  make([]engine.Square, 0, 60),
		Final:  engine.NewGame(),
		Result: ResultInProgress,
	}
}

// AddMove plays sq for the side to move and records it.
func (g *Game) AddMove(sq engine.Square) error {
	if g.Result != ResultInProgress {
		return fmt.Errorf("%w: %v after the game ended", ErrIllegalMove, sq)
	}
	side := g.Final.Current()
	if !g.Final.Play(sq) {
		return fmt.Errorf("%w: %v for %v at move %d", ErrIllegalMove, sq, side, len(g.Moves)+1)
	}
	g.Moves = append(g.Moves, sq)
	g.updateResult()
	return nil
}

func (g *Game) updateResult() {
	if !g.Final.IsTerminal(g.Final.Current()) {
		g.Result = ResultInProgress
		return
	}
	switch g.Final.Winner() {
	case engine.Black:
		g.Result = ResultBlackWins
	case engine.White:
		g.Result = ResultWhiteWins
	default:
		g.Result = ResultDraw
	}
}

// Score returns the disc counts of the final position.
func (g *Game) Score() (black, white int) {
	return g.Final.Count(engine.Black), g.Final.Count(engine.White)
}

// FromSelfPlay builds a match from a self-play run.
// Players are labelled with the depths the games were actually played at.
func FromSelfPlay(res *engine.SelfPlayResult) *Match {
	opts := res.Options
	m := NewMatch(fmt.Sprintf("depth %d", opts.BlackDepth), fmt.Sprintf("depth %d", opts.WhiteDepth))
	m.Event = "selfplay"
	m.Seed = res.Seed

	for i, rec := range res.Games {
		g := &Game{
			Number: i + 1,
			Moves:  append([]engine.Square(nil), rec.Moves...),
			Final:  rec.Final,
		}
		g.updateResult()
		m.Games = append(m.Games, g)
	}
	return m
}
