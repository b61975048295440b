package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Scores returned for positions where the evaluated side cannot move.
const (
	WinScore  = math.MaxFloat32
	LossScore = -math.MaxFloat32
)

// weightTable holds the positional value of each square, indexed [row][col].
var weightTable = [BoardSize][BoardSize]float64{
	{20, -3, 11, 8, 8, 11, -3, 20},
	{-3, -7, -4, 1, 1, -4, -7, -3},
	{11, -4, 2, 2, 2, 2, -4, 11},
	{8, 1, 2, -3, -3, 2, 1, 8},
	{8, 1, 2, -3, -3, 2, 1, 8},
	{11, -4, 2, 2, 2, 2, -4, 11},
	{-3, -7, -4, 1, 1, -4, -7, -3},
	{20, -3, 11, 8, 8, 11, -3, 20},
}

// Neighbour offsets used for frontier detection, as (dRow, dCol) pairs split
// into two tables.
var (
	neighbourRow = [8]int{-1, -1, 0, 1, 1, 1, 0, -1}
	neighbourCol = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
)

// corners lists each corner with the three squares touching it.
var corners = [4]struct {
	corner Square
	near   [3]Square
}{
	{Square{0, 0}, [3]Square{{1, 0}, {1, 1}, {0, 1}}},
	{Square{7, 0}, [3]Square{{6, 0}, {6, 1}, {7, 1}}},
	{Square{0, 7}, [3]Square{{0, 6}, {1, 6}, {1, 7}}},
	{Square{7, 7}, [3]Square{{7, 6}, {6, 6}, {6, 7}}},
}

// Feature weights, in Breakdown.features order.
var featureWeights = []float64{
	10,      // piece
	801.724, // corner occupancy
	382.026, // corner closeness
	78.922,  // mobility
	74.396,  // frontier
	10,      // positional
}

// Breakdown holds the individual terms of an evaluation.
type Breakdown struct {
	Piece           float64 // Disc count share, signed toward the leader
	CornerOccupancy float64 // 25 per corner advantage
	CornerCloseness float64 // Penalty for pieces next to empty corners
	Mobility        float64 // Legal move share, signed toward the leader
	Frontier        float64 // Penalty for having more frontier pieces
	Positional      float64 // Sum of square weights
	Score           float64 // Weighted total
	Terminal        bool    // Side had no legal move; Score is WinScore, LossScore or 0
}

func (bd *Breakdown) features() []float64 {
	return []float64{bd.Piece, bd.CornerOccupancy, bd.CornerCloseness, bd.Mobility, bd.Frontier, bd.Positional}
}

// Evaluate scores the board from c's point of view. Higher is better for c.
func Evaluate(b Board, c Color) float64 {
	return EvaluateBreakdown(b, c).Score
}

// EvaluateBreakdown is Evaluate with the individual terms exposed.
func EvaluateBreakdown(b Board, c Color) Breakdown {
	if b.IsTerminal(c) {
		return terminalBreakdown(b, c)
	}

	var bd Breakdown
	bd.Positional, bd.Piece, bd.Frontier = pieceScores(&b, c)
	bd.CornerOccupancy = cornerOccupancy(&b, c)
	bd.CornerCloseness = cornerCloseness(&b, c)
	bd.Mobility = share(b.countMoves(c), b.countMoves(c.Opponent()))
	bd.Score = floats.Dot(featureWeights, bd.features())
	return bd
}

func terminalBreakdown(b Board, c Color) Breakdown {
	mine := b.Count(c.Cell())
	theirs := b.Count(c.Opponent().Cell())

	bd := Breakdown{Terminal: true}
	switch {
	case mine > theirs:
		bd.Score = WinScore
	case mine < theirs:
		bd.Score = LossScore
	}
	return bd
}

// share returns 100*larger/total, negative when the opponent's count is the
// larger one, and 0 when they are equal.
func share(mine, theirs int) float64 {
	total := float64(mine + theirs)
	switch {
	case mine > theirs:
		return 100 * float64(mine) / total
	case theirs > mine:
		return -100 * float64(theirs) / total
	}
	return 0
}

// pieceScores computes the positional, piece and frontier terms in one pass.
func pieceScores(b *Board, c Color) (positional, piece, frontier float64) {
	me, opp := c.Cell(), c.Opponent().Cell()
	var mine, theirs, myFront, oppFront int

	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			cell := b.cells[row][col]
			switch cell {
			case me:
				positional += weightTable[row][col]
				mine++
			case opp:
				positional -= weightTable[row][col]
				theirs++
			default:
				continue
			}

			if !isFrontier(b, row, col) {
				continue
			}
			if cell == me {
				myFront++
			} else {
				oppFront++
			}
		}
	}

	piece = share(mine, theirs)
	// More frontier pieces is worse, so the sign is reversed.
	frontier = -share(myFront, oppFront)
	return positional, piece, frontier
}

// isFrontier reports whether any neighbour of (row, col) is occupied.
func isFrontier(b *Board, row, col int) bool {
	for k := 0; k < 8; k++ {
		r, cl := row+neighbourRow[k], col+neighbourCol[k]
		if r < 0 || r >= BoardSize || cl < 0 || cl >= BoardSize {
			continue
		}
		if b.cells[r][cl] != Empty {
			return true
		}
	}
	return false
}

func cornerOccupancy(b *Board, c Color) float64 {
	me, opp := c.Cell(), c.Opponent().Cell()
	diff := 0
	for _, cn := range corners {
		switch b.cells[cn.corner.Row][cn.corner.Col] {
		case me:
			diff++
		case opp:
			diff--
		}
	}
	return float64(25 * diff)
}

func cornerCloseness(b *Board, c Color) float64 {
	me, opp := c.Cell(), c.Opponent().Cell()
	diff := 0
	for _, cn := range corners {
		if b.cells[cn.corner.Row][cn.corner.Col] != Empty {
			continue
		}
		for _, sq := range cn.near {
			switch b.cells[sq.Row][sq.Col] {
			case me:
				diff++
			case opp:
				diff--
			}
		}
	}
	return -12.5 * float64(diff)
}
