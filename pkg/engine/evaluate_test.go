package engine

import (
	"math"
	"testing"
)

func TestEvaluateStartingPosition(t *testing.T) {
	b := NewGame()

	for _, c := range []Color{ColorBlack, ColorWhite} {
		bd := EvaluateBreakdown(b, c)
		if bd.Terminal {
			t.Fatalf("starting position reported terminal for %v", c)
		}
		// Everything is balanced in the opening position.
		if bd.Score != 0 {
			t.Errorf("Evaluate(start, %v) = %f, want 0", c, bd.Score)
		}
	}
}

func TestEvaluateCornerPosition(t *testing.T) {
	var cells [BoardSize][BoardSize]Cell
	cells[0][0] = Black
	cells[0][1] = White
	b := NewBoard(cells, ColorBlack)

	bd := EvaluateBreakdown(b, ColorBlack)
	if bd.Terminal {
		t.Fatal("Expected a non-terminal evaluation for black")
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"Positional", bd.Positional, 23},
		{"Piece", bd.Piece, 0},
		{"Frontier", bd.Frontier, 0},
		{"CornerOccupancy", bd.CornerOccupancy, 25},
		{"CornerCloseness", bd.CornerCloseness, 0},
		{"Mobility", bd.Mobility, 100},
		{"Score", bd.Score, 801.724*25 + 78.922*100 + 10*23},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-6 {
			t.Errorf("%s = %f, want %f", c.name, c.got, c.want)
		}
	}

	// White cannot move and the pieces are level.
	wb := EvaluateBreakdown(b, ColorWhite)
	if !wb.Terminal || wb.Score != 0 {
		t.Errorf("Evaluate(white) = %+v, want terminal tie score 0", wb)
	}
}

func TestEvaluateCornerCloseness(t *testing.T) {
	var cells [BoardSize][BoardSize]Cell
	cells[1][1] = Black
	cells[2][2] = White
	b := NewBoard(cells, ColorBlack)

	black := EvaluateBreakdown(b, ColorBlack)
	if black.CornerCloseness != -12.5 {
		t.Errorf("CornerCloseness(black) = %f, want -12.5", black.CornerCloseness)
	}
	white := EvaluateBreakdown(b, ColorWhite)
	if white.CornerCloseness != 12.5 {
		t.Errorf("CornerCloseness(white) = %f, want 12.5", white.CornerCloseness)
	}
}

func TestEvaluateFrontierAndPieces(t *testing.T) {
	var cells [BoardSize][BoardSize]Cell
	// Three connected black pieces, one isolated white piece that brackets
	// nothing and one white piece touching the black group.
	cells[3][3] = Black
	cells[3][4] = Black
	cells[3][5] = Black
	cells[3][6] = White
	cells[7][0] = White
	b := NewBoard(cells, ColorWhite)

	bd := EvaluateBreakdown(b, ColorWhite)
	if bd.Terminal {
		t.Fatal("Expected white to have a legal move")
	}

	// Black 3 pieces, White 2: black leads, so white sees -100*3/5.
	if math.Abs(bd.Piece-(-60)) > 1e-9 {
		t.Errorf("Piece = %f, want -60", bd.Piece)
	}
	// Frontier: all 3 black pieces, 1 white piece. Black has more, so
	// white gets +100*3/4.
	if math.Abs(bd.Frontier-75) > 1e-9 {
		t.Errorf("Frontier = %f, want 75", bd.Frontier)
	}
}

func TestEvaluateTerminalScores(t *testing.T) {
	var cells [BoardSize][BoardSize]Cell
	cells[0][0] = Black
	cells[0][1] = Black
	cells[7][7] = White
	b := NewBoard(cells, ColorBlack)

	if got := Evaluate(b, ColorBlack); got != WinScore {
		t.Errorf("Evaluate(black) = %g, want WinScore", got)
	}
	if got := Evaluate(b, ColorWhite); got != LossScore {
		t.Errorf("Evaluate(white) = %g, want LossScore", got)
	}
	if WinScore != -LossScore {
		t.Error("WinScore and LossScore should be symmetric")
	}
}

func TestEvaluateSymmetry(t *testing.T) {
	checked := 0
	for _, b := range randomBoards(5, 4) {
		if b.IsTerminal(ColorBlack) || b.IsTerminal(ColorWhite) {
			continue
		}
		black := Evaluate(b, ColorBlack)
		white := Evaluate(b, ColorWhite)
		if black != -white {
			t.Fatalf("Evaluate(black) = %f, Evaluate(white) = %f; want negatives\n%s", black, white, b)
		}
		checked++
	}
	if checked == 0 {
		t.Fatal("no non-terminal positions checked")
	}
	t.Logf("checked %d positions", checked)
}

func TestEvaluateColorSwapMirror(t *testing.T) {
	for _, b := range randomBoards(6, 2) {
		var swapped [BoardSize][BoardSize]Cell
		for row := 0; row < BoardSize; row++ {
			for col := 0; col < BoardSize; col++ {
				switch b.At(col, row) {
				case Black:
					swapped[row][col] = White
				case White:
					swapped[row][col] = Black
				}
			}
		}
		mirror := NewBoard(swapped, b.Current().Opponent())

		if Evaluate(b, ColorBlack) != Evaluate(mirror, ColorWhite) {
			t.Fatalf("swapping colors changed the evaluation\n%s", b)
		}
	}
}

func TestEvaluateDoesNotMutate(t *testing.T) {
	b := NewGame()
	b.AttemptMove(2, 3)
	before := b
	_ = Evaluate(b, ColorWhite)
	_ = EvaluateBreakdown(b, ColorBlack)
	if b != before {
		t.Error("Evaluate mutated the board")
	}
}

func BenchmarkEvaluate(b *testing.B) {
	board := NewGame()
	board.AttemptMove(2, 3)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Evaluate(board, ColorWhite)
	}
}
