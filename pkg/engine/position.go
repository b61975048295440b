// Package engine provides the public API for the Reversi engine.
package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// BoardSize is the number of rows and columns on the board.
const BoardSize = 8

// Cell is the content of a single square.
type Cell uint8

const (
	Empty Cell = iota
	Black
	White
)

// String returns the single character used when rendering a board.
func (c Cell) String() string {
	switch c {
	case Black:
		return "B"
	case White:
		return "W"
	default:
		return " "
	}
}

// Color is a side. Unlike Cell it has no empty state.
type Color uint8

const (
	ColorBlack Color = iota
	ColorWhite
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	return 1 - c
}

// Cell returns the cell state occupied by this color.
func (c Color) Cell() Cell {
	if c == ColorWhite {
		return White
	}
	return Black
}

// String returns "black" or "white".
func (c Color) String() string {
	if c == ColorWhite {
		return "white"
	}
	return "black"
}

// ParseColor accepts "black", "white", "b" or "w" (any case).
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b":
		return ColorBlack, nil
	case "white", "w":
		return ColorWhite, nil
	}
	return ColorBlack, fmt.Errorf("unknown color %q", s)
}

// Square identifies a board square by column and row, both 0-7.
type Square struct {
	Col int
	Row int
}

// Valid reports whether the square lies on the board.
func (s Square) Valid() bool {
	return s.Col >= 0 && s.Col < BoardSize && s.Row >= 0 && s.Row < BoardSize
}

// String renders the square in algebraic form, e.g. column 2 row 3 is "c4".
func (s Square) String() string {
	if !s.Valid() {
		return "??"
	}
	return string(rune('a'+s.Col)) + strconv.Itoa(s.Row+1)
}

// ParseSquare parses "c4", "2,3" or "2 3" (column first, 0-indexed for the
// numeric forms).
func ParseSquare(s string) (Square, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) == 2 && s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8' {
		return Square{Col: int(s[0] - 'a'), Row: int(s[1] - '1')}, nil
	}

	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) != 2 {
		return Square{}, fmt.Errorf("invalid square %q", s)
	}
	col, err1 := strconv.Atoi(fields[0])
	row, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return Square{}, fmt.Errorf("invalid square %q", s)
	}
	sq := Square{Col: col, Row: row}
	if !sq.Valid() {
		return Square{}, fmt.Errorf("square %q is off the board", s)
	}
	return sq, nil
}

// Board is a complete game position. It is a value type: assigning or passing
// a Board copies it, and the copy shares nothing with the original.
type Board struct {
	cells    [BoardSize][BoardSize]Cell // [row][col]
	current  Color
	lastMove Square
	hasLast  bool
	turn     int
}

// NewGame returns the standard starting position with Black to move.
func NewGame() Board {
	var b Board
	mid := BoardSize / 2
	b.cells[mid-1][mid-1] = White
	b.cells[mid][mid] = White
	b.cells[mid-1][mid] = Black
	b.cells[mid][mid-1] = Black
	b.current = ColorBlack
	return b
}

// NewBoard builds an arbitrary position. The turn counter starts at zero and
// there is no last move.
func NewBoard(cells [BoardSize][BoardSize]Cell, toMove Color) Board {
	return Board{cells: cells, current: toMove}
}

// At returns the cell at the given column and row. Off-board squares read as
// Empty.
func (b Board) At(col, row int) Cell {
	if col < 0 || col >= BoardSize || row < 0 || row >= BoardSize {
		return Empty
	}
	return b.cells[row][col]
}

// Cells returns a copy of the grid, indexed [row][col].
func (b Board) Cells() [BoardSize][BoardSize]Cell {
	return b.cells
}

// Current returns the side to move.
func (b Board) Current() Color {
	return b.current
}

// LastMove returns the most recently applied move, if any.
func (b Board) LastMove() (Square, bool) {
	return b.lastMove, b.hasLast
}

// Turn returns the number of moves applied since the board was created.
func (b Board) Turn() int {
	return b.turn
}

// Count returns the number of cells holding the given state.
func (b Board) Count(c Cell) int {
	n := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b.cells[row][col] == c {
				n++
			}
		}
	}
	return n
}

// Winner returns the color with more pieces, or Empty on a tie.
func (b Board) Winner() Cell {
	black := b.Count(Black)
	white := b.Count(White)
	switch {
	case black > white:
		return Black
	case white > black:
		return White
	}
	return Empty
}

// String renders the board as a bordered grid, one row per line.
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("  +----------------+\n")
	for row := 0; row < BoardSize; row++ {
		fmt.Fprintf(&sb, "%d |", row+1)
		for col := 0; col < BoardSize; col++ {
			sb.WriteString(b.cells[row][col].String())
			sb.WriteByte(' ')
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("  +----------------+\n")
	return sb.String()
}

// EqualBoards reports whether two boards hold the same pieces and side to move.
func EqualBoards(b1, b2 Board) bool {
	return b1.cells == b2.cells && b1.current == b2.current
}
