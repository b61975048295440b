package engine

import (
	"math/rand"
	"reflect"
	"testing"
)

// randomBoards plays random games from the starting position and returns
// every position reached, starting position included.
func randomBoards(seed int64, games int) []Board {
	rng := rand.New(rand.NewSource(seed))
	var boards []Board
	for g := 0; g < games; g++ {
		b := NewGame()
		boards = append(boards, b)
		for !b.IsTerminal(b.Current()) {
			moves := b.LegalMoves(b.Current())
			mv := moves[rng.Intn(len(moves))]
			b.Play(mv)
			boards = append(boards, b)
		}
	}
	return boards
}

func TestNewGame(t *testing.T) {
	b := NewGame()

	if b.Current() != ColorBlack {
		t.Errorf("Current = %v, want black", b.Current())
	}
	if b.Turn() != 0 {
		t.Errorf("Turn = %d, want 0", b.Turn())
	}
	if _, ok := b.LastMove(); ok {
		t.Error("Expected no last move on a new game")
	}

	want := map[Square]Cell{
		{3, 3}: White, {4, 4}: White,
		{4, 3}: Black, {3, 4}: Black,
	}
	for sq, c := range want {
		if got := b.At(sq.Col, sq.Row); got != c {
			t.Errorf("At(%d,%d) = %v, want %v", sq.Col, sq.Row, got, c)
		}
	}
	if b.Count(Empty) != 60 {
		t.Errorf("Count(Empty) = %d, want 60", b.Count(Empty))
	}
}

func TestLegalMovesStartingPosition(t *testing.T) {
	b := NewGame()

	got := b.LegalMoves(ColorBlack)
	want := []Square{{2, 3}, {3, 2}, {4, 5}, {5, 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LegalMoves(black) = %v, want %v", got, want)
	}

	got = b.LegalMoves(ColorWhite)
	want = []Square{{2, 4}, {3, 5}, {4, 2}, {5, 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LegalMoves(white) = %v, want %v", got, want)
	}
}

func TestIsLegalRejects(t *testing.T) {
	b := NewGame()

	tests := []struct {
		name     string
		col, row int
	}{
		{"occupied", 3, 3},
		{"negative column", -1, 3},
		{"column too large", 8, 3},
		{"row too large", 2, 8},
		{"no adjacent opponent", 0, 0},
		{"adjacent but not bracketed", 2, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if b.IsLegal(tc.col, tc.row, ColorBlack) {
				t.Errorf("IsLegal(%d,%d) = true, want false", tc.col, tc.row)
			}
		})
	}
}

func TestAttemptMoveFlips(t *testing.T) {
	b := NewGame()

	if !b.AttemptMove(2, 3) {
		t.Fatal("AttemptMove(2,3) failed from the starting position")
	}

	if b.At(2, 3) != Black {
		t.Errorf("At(2,3) = %v, want B", b.At(2, 3))
	}
	if b.At(3, 3) != Black {
		t.Errorf("At(3,3) = %v, want B (flipped)", b.At(3, 3))
	}
	if b.At(4, 4) != White {
		t.Errorf("At(4,4) = %v, want W (untouched)", b.At(4, 4))
	}

	if b.Count(Black) != 4 || b.Count(White) != 1 || b.Count(Empty) != 59 {
		t.Errorf("Counts = %d/%d/%d, want 4/1/59",
			b.Count(Black), b.Count(White), b.Count(Empty))
	}
	if b.Current() != ColorWhite {
		t.Errorf("Current = %v, want white", b.Current())
	}
	if b.Turn() != 1 {
		t.Errorf("Turn = %d, want 1", b.Turn())
	}
	if last, ok := b.LastMove(); !ok || last != (Square{2, 3}) {
		t.Errorf("LastMove = %v, %v, want (2,3), true", last, ok)
	}
}

func TestAttemptMoveMultipleDirections(t *testing.T) {
	var cells [BoardSize][BoardSize]Cell
	// Black at the ends of three lines through (3,3), White in between.
	cells[3][1] = Black
	cells[3][2] = White
	cells[1][3] = Black
	cells[2][3] = White
	cells[1][1] = Black
	cells[2][2] = White
	// An unbracketed White piece that must not flip.
	cells[4][4] = White
	b := NewBoard(cells, ColorBlack)

	flips := b.Flips(3, 3, ColorBlack)
	if len(flips) != 3 {
		t.Fatalf("Flips = %v, want 3 squares", flips)
	}

	if !b.AttemptMove(3, 3) {
		t.Fatal("AttemptMove(3,3) failed")
	}
	for _, sq := range []Square{{2, 3}, {3, 2}, {2, 2}} {
		if b.At(sq.Col, sq.Row) != Black {
			t.Errorf("At(%v) = %v, want B", sq, b.At(sq.Col, sq.Row))
		}
	}
	if b.At(4, 4) != White {
		t.Errorf("At(4,4) = %v, want W", b.At(4, 4))
	}
}

func TestAttemptMoveIllegalLeavesBoard(t *testing.T) {
	for _, b := range randomBoards(1, 3) {
		for col := -1; col <= BoardSize; col++ {
			for row := -1; row <= BoardSize; row++ {
				if b.IsLegal(col, row, b.Current()) {
					continue
				}
				before := b
				if b.AttemptMove(col, row) {
					t.Fatalf("AttemptMove(%d,%d) succeeded on an illegal move", col, row)
				}
				if b != before {
					t.Fatalf("AttemptMove(%d,%d) mutated the board on failure", col, row)
				}
			}
		}
	}
}

func TestLegalMovesMatchAttemptMove(t *testing.T) {
	for _, b := range randomBoards(2, 3) {
		legal := make(map[Square]bool)
		for _, sq := range b.LegalMoves(b.Current()) {
			legal[sq] = true
		}

		for col := 0; col < BoardSize; col++ {
			for row := 0; row < BoardSize; row++ {
				trial := b
				ok := trial.AttemptMove(col, row)
				if ok != legal[Square{col, row}] {
					t.Fatalf("AttemptMove(%d,%d) = %v, LegalMoves says %v", col, row, ok, legal[Square{col, row}])
				}
				if ok {
					if trial.Current() == b.Current() {
						t.Fatal("Current did not change after a successful move")
					}
					if last, _ := trial.LastMove(); last != (Square{col, row}) {
						t.Fatalf("LastMove = %v, want (%d,%d)", last, col, row)
					}
				}
			}
		}

		if (len(legal) == 0) != b.IsTerminal(b.Current()) {
			t.Fatalf("IsTerminal = %v with %d legal moves", b.IsTerminal(b.Current()), len(legal))
		}
	}
}

func TestCellCountsAlwaysSum(t *testing.T) {
	for _, b := range randomBoards(3, 5) {
		total := b.Count(Empty) + b.Count(Black) + b.Count(White)
		if total != BoardSize*BoardSize {
			t.Fatalf("cell counts sum to %d, want 64", total)
		}
	}
}

func TestChildrenAreIndependentCopies(t *testing.T) {
	b := NewGame()
	before := b

	children := b.Children()
	if len(children) != 4 {
		t.Fatalf("Children = %d boards, want 4", len(children))
	}
	if b != before {
		t.Fatal("Children mutated the parent board")
	}

	moves := b.LegalMoves(b.Current())
	for i, child := range children {
		last, ok := child.LastMove()
		if !ok || last != moves[i] {
			t.Errorf("child %d LastMove = %v, want %v", i, last, moves[i])
		}
		if child.Current() != ColorWhite {
			t.Errorf("child %d Current = %v, want white", i, child.Current())
		}
	}

	children[0].cells[2][2] = Black
	if children[1].At(2, 2) != Empty || b.At(2, 2) != Empty {
		t.Error("Mutating one child affected another board")
	}
}

func TestTerminalPosition(t *testing.T) {
	var cells [BoardSize][BoardSize]Cell
	cells[0][0] = Black
	cells[0][1] = Black
	b := NewBoard(cells, ColorWhite)

	if !b.IsTerminal(ColorWhite) {
		t.Error("Expected IsTerminal(white) with no white pieces")
	}
	if moves := b.LegalMoves(ColorWhite); len(moves) != 0 {
		t.Errorf("LegalMoves(white) = %v, want none", moves)
	}
	if len(b.Children()) != 0 {
		t.Error("Expected no children for a terminal board")
	}
	if b.Winner() != Black {
		t.Errorf("Winner = %v, want B", b.Winner())
	}
}

func TestWinner(t *testing.T) {
	if w := NewGame().Winner(); w != Empty {
		t.Errorf("Winner of starting position = %v, want tie", w)
	}

	var cells [BoardSize][BoardSize]Cell
	cells[0][0] = White
	cells[5][5] = White
	cells[7][7] = Black
	if w := NewBoard(cells, ColorBlack).Winner(); w != White {
		t.Errorf("Winner = %v, want W", w)
	}
}
