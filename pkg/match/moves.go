package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yourusername/reversi/pkg/engine"
)

// separatorRE matches the characters allowed between moves in a move list.
var separatorRE = regexp.MustCompile(`[\s,;-]+`)

// FormatMoves writes moves in compact notation, e.g. "c4c3d3".
func FormatMoves(moves []engine.Square) string {
	var sb strings.Builder
	for _, mv := range moves {
		sb.WriteString(mv.String())
	}
	return sb.String()
}

// ParseMoves parses a move list in compact ("c4c3d3") or separated
// ("c4 c3, d3") notation. Moves are not checked for legality.
func ParseMoves(s string) ([]engine.Square, error) {
	s = separatorRE.ReplaceAllString(s, "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length move list %q", ErrInvalidTranscript, s)
	}

	moves := make([]engine.Square, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		sq, err := engine.ParseSquare(s[i : i+2])
		if err != nil {
			return nil, fmt.Errorf("%w: move %d: %v", ErrInvalidTranscript, i/2+1, err)
		}
		moves = append(moves, sq)
	}
	return moves, nil
}

// Replay plays moves from the starting position and returns the game.
func Replay(moves []engine.Square) (*Game, error) {
	g := NewGame(1)
	for _, mv := range moves {
		if err := g.AddMove(mv); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// BoardFromMoves parses and replays a move list, returning the final board.
func BoardFromMoves(s string) (engine.Board, error) {
	moves, err := ParseMoves(s)
	if err != nil {
		return engine.Board{}, err
	}
	g, err := Replay(moves)
	if err != nil {
		return engine.Board{}, err
	}
	return g.Final, nil
}
