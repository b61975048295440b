package match

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/yourusername/reversi/pkg/engine"
)

// Transcript format, modelled on the Jellyfish match format:
//
//	; [Event "selfplay"]
//	; [Black "depth 4"]
//	; [White "depth 6"]
//	; [Seed "42"]
//
//	Game 1
//	  1) c4 c3
//	  2) d3 c5
//	Result: 1-0 (40-24)
//
// Each numbered line holds Black's move then White's.

var (
	tagRE        = regexp.MustCompile(`\[(\w+)\s+("(?:[^"\\]|\\.)*")\]`)
	gameHeaderRE = regexp.MustCompile(`^Game\s+(\d+)$`)
	moveLineRE   = regexp.MustCompile(`^(\d+)\)\s*(.*)$`)
	resultRE     = regexp.MustCompile(`^Result:\s*(\S+)`)
)

// Export writes a match as a transcript.
func Export(w io.Writer, m *Match) error {
	bw := bufio.NewWriter(w)

	if m.Event != "" {
		fmt.Fprintf(bw, " ; [Event %q]\n", m.Event)
	}
	if m.Date != "" {
		fmt.Fprintf(bw, " ; [Date %q]\n", m.Date)
	}
	fmt.Fprintf(bw, " ; [Black %q]\n", m.Black)
	fmt.Fprintf(bw, " ; [White %q]\n", m.White)
	if m.Seed != 0 {
		fmt.Fprintf(bw, " ; [Seed \"%d\"]\n", m.Seed)
	}
	fmt.Fprintln(bw)

	for _, g := range m.Games {
		exportGame(bw, g)
	}
	return bw.Flush()
}

func exportGame(w io.Writer, g *Game) {
	fmt.Fprintf(w, " Game %d\n", g.Number)
	for i := 0; i < len(g.Moves); i += 2 {
		fmt.Fprintf(w, "%3d) %s", i/2+1, g.Moves[i])
		if i+1 < len(g.Moves) {
			fmt.Fprintf(w, " %s", g.Moves[i+1])
		}
		fmt.Fprintln(w)
	}
	black, white := g.Score()
	fmt.Fprintf(w, " Result: %s (%d-%d)\n\n", g.Result, black, white)
}

// Import reads a transcript, replaying every game to validate the moves.
// A declared result that disagrees with the replayed position is an error.
func Import(r io.Reader) (*Match, error) {
	scanner := bufio.NewScanner(r)
	m := NewMatch("", "")
	var current *Game
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ";") {
			if t := tagRE.FindStringSubmatch(line); t != nil {
				value, err := strconv.Unquote(t[2])
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: tag %s: %v", ErrInvalidTranscript, lineNo, t[1], err)
				}
				if err := applyTag(m, t[1], value); err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
			}
			continue
		}

		if h := gameHeaderRE.FindStringSubmatch(line); h != nil {
			n, _ := strconv.Atoi(h[1])
			current = NewGame(n)
			m.Games = append(m.Games, current)
			continue
		}

		if current == nil {
			return nil, fmt.Errorf("%w: line %d: %q outside a game", ErrInvalidTranscript, lineNo, line)
		}

		if mv := moveLineRE.FindStringSubmatch(line); mv != nil {
			for _, tok := range strings.Fields(mv[2]) {
				sq, err := engine.ParseSquare(tok)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidTranscript, lineNo, err)
				}
				if err := current.AddMove(sq); err != nil {
					return nil, fmt.Errorf("game %d: %w", current.Number, err)
				}
			}
			continue
		}

		if res := resultRE.FindStringSubmatch(line); res != nil {
			declared, err := parseResult(res[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if declared != current.Result {
				return nil, fmt.Errorf("%w: game %d declares %s, moves give %s",
					ErrInvalidTranscript, current.Number, declared, current.Result)
			}
			continue
		}

		return nil, fmt.Errorf("%w: line %d: unrecognised %q", ErrInvalidTranscript, lineNo, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}
	return m, nil
}

func applyTag(m *Match, key, value string) error {
	switch strings.ToLower(key) {
	case "event":
		m.Event = value
	case "date":
		m.Date = value
	case "black":
		m.Black = value
	case "white":
		m.White = value
	case "seed":
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: seed %q", ErrInvalidTranscript, value)
		}
		m.Seed = seed
	}
	return nil
}
