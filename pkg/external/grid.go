package external

import (
	"fmt"
	"strings"

	"github.com/yourusername/reversi/pkg/engine"
)

// GridBoard is a position in grid notation:
//
//	board:<64 cells>:<side>
//
// Cells run row by row from a1 to h8, one character each: 'B' or 'X' for
// Black, 'W' or 'O' for White, '-' or '.' for empty. The side is 'b' or 'w'.
type GridBoard struct {
	Cells  [engine.BoardSize][engine.BoardSize]engine.Cell
	ToMove engine.Color
}

const gridCells = engine.BoardSize * engine.BoardSize

// ParseGridBoard parses a grid board string.
func ParseGridBoard(s string) (*GridBoard, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "board:")

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid grid board: expected cells:side, got %d fields", len(parts))
	}
	if len(parts[0]) != gridCells {
		return nil, fmt.Errorf("invalid grid board: expected %d cells, got %d", gridCells, len(parts[0]))
	}

	gb := &GridBoard{}
	for i := 0; i < gridCells; i++ {
		var c engine.Cell
		switch parts[0][i] {
		case 'B', 'b', 'X', 'x':
			c = engine.Black
		case 'W', 'w', 'O', 'o':
			c = engine.White
		case '-', '.':
			c = engine.Empty
		default:
			return nil, fmt.Errorf("invalid grid board: bad cell %q at %d", parts[0][i], i)
		}
		gb.Cells[i/engine.BoardSize][i%engine.BoardSize] = c
	}

	side, err := engine.ParseColor(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid grid board: %w", err)
	}
	gb.ToMove = side

	return gb, nil
}

// Board converts the grid to an engine board.
func (gb *GridBoard) Board() engine.Board {
	return engine.NewBoard(gb.Cells, gb.ToMove)
}

// FormatGridBoard renders b in grid notation.
func FormatGridBoard(b engine.Board) string {
	var sb strings.Builder
	sb.WriteString("board:")
	cells := b.Cells()
	for row := 0; row < engine.BoardSize; row++ {
		for col := 0; col < engine.BoardSize; col++ {
			switch cells[row][col] {
			case engine.Black:
				sb.WriteByte('B')
			case engine.White:
				sb.WriteByte('W')
			default:
				sb.WriteByte('-')
			}
		}
	}
	sb.WriteByte(':')
	sb.WriteByte(b.Current().String()[0])
	return sb.String()
}
