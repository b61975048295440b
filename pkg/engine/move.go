package engine

// directions are the eight compass offsets as (dCol, dRow).
var directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// bracketLength returns how many opponent pieces lie between (col, row) and
// the first piece of color c along (dc, dr), or 0 if the run is not closed by
// c before an empty cell or the edge.
func (b *Board) bracketLength(col, row, dc, dr int, c Cell) int {
	opp := White
	if c == White {
		opp = Black
	}

	x, y := col+dc, row+dr
	if x < 0 || x >= BoardSize || y < 0 || y >= BoardSize || b.cells[y][x] != opp {
		return 0
	}

	for n := 1; ; n++ {
		x += dc
		y += dr
		if x < 0 || x >= BoardSize || y < 0 || y >= BoardSize {
			return 0
		}
		switch b.cells[y][x] {
		case Empty:
			return 0
		case c:
			return n
		}
	}
}

// IsLegal reports whether color c may place a piece at (col, row).
func (b Board) IsLegal(col, row int, c Color) bool {
	if col < 0 || col >= BoardSize || row < 0 || row >= BoardSize {
		return false
	}
	if b.cells[row][col] != Empty {
		return false
	}

	for _, d := range directions {
		if b.bracketLength(col, row, d[0], d[1], c.Cell()) > 0 {
			return true
		}
	}
	return false
}

// Flips returns the squares that would change color if c played (col, row).
// The result is empty for an illegal move.
func (b Board) Flips(col, row int, c Color) []Square {
	if !b.IsLegal(col, row, c) {
		return nil
	}

	var flips []Square
	for _, d := range directions {
		n := b.bracketLength(col, row, d[0], d[1], c.Cell())
		for i := 1; i <= n; i++ {
			flips = append(flips, Square{Col: col + i*d[0], Row: row + i*d[1]})
		}
	}
	return flips
}

// AttemptMove plays (col, row) for the side to move. It returns false and
// leaves the board untouched when the move is illegal. This is the only
// operation that mutates a Board.
func (b *Board) AttemptMove(col, row int) bool {
	c := b.current
	if !b.IsLegal(col, row, c) {
		return false
	}

	piece := c.Cell()
	b.cells[row][col] = piece
	for _, d := range directions {
		n := b.bracketLength(col, row, d[0], d[1], piece)
		for i := 1; i <= n; i++ {
			b.cells[row+i*d[1]][col+i*d[0]] = piece
		}
	}

	b.turn++
	b.current = c.Opponent()
	b.lastMove = Square{Col: col, Row: row}
	b.hasLast = true
	return true
}

// Play is AttemptMove for a Square.
func (b *Board) Play(sq Square) bool {
	return b.AttemptMove(sq.Col, sq.Row)
}

// LegalMoves returns every legal move for c. Squares are scanned column by
// column, rows ascending within a column, and returned in that order.
func (b Board) LegalMoves(c Color) []Square {
	var moves []Square
	for col := 0; col < BoardSize; col++ {
		for row := 0; row < BoardSize; row++ {
			if b.IsLegal(col, row, c) {
				moves = append(moves, Square{Col: col, Row: row})
			}
		}
	}
	return moves
}

// countMoves is LegalMoves without the allocation.
func (b Board) countMoves(c Color) int {
	n := 0
	for col := 0; col < BoardSize; col++ {
		for row := 0; row < BoardSize; row++ {
			if b.IsLegal(col, row, c) {
				n++
			}
		}
	}
	return n
}

// IsTerminal reports whether c has no legal move. The game is treated as over
// as soon as the side to move is stuck, even if the other side could still
// play.
func (b Board) IsTerminal(c Color) bool {
	return b.countMoves(c) == 0
}

// Children returns one board per legal move of the side to move, in
// LegalMoves order, each with that move applied.
func (b Board) Children() []Board {
	moves := b.LegalMoves(b.current)
	children := make([]Board, 0, len(moves))
	for _, m := range moves {
		child := b
		child.AttemptMove(m.Col, m.Row)
		children = append(children, child)
	}
	return children
}
