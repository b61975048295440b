package engine

import (
	"errors"
	"fmt"

	"github.com/yourusername/reversi/internal/positionid"
)

// ErrInvalidDepth is returned for a negative search depth.
var ErrInvalidDepth = errors.New("engine: invalid search depth")

// Engine bundles a search configuration with the board operations. It holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	depth int
}

// EngineOptions configures the engine
type EngineOptions struct {
	Depth int // Search depth in plies (0 = DefaultDepth)
}

// NewEngine creates a new engine with the given options
func NewEngine(opts EngineOptions) (*Engine, error) {
	if opts.Depth < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, opts.Depth)
	}
	depth := opts.Depth
	if depth == 0 {
		depth = DefaultDepth
	}
	return &Engine{depth: depth}, nil
}

// Depth returns the configured search depth.
func (e *Engine) Depth() int {
	return e.depth
}

// Evaluate returns the evaluation breakdown of b from c's point of view.
func (e *Engine) Evaluate(b Board, c Color) Breakdown {
	return EvaluateBreakdown(b, c)
}

// BestMove searches b at the configured depth. Unlike the package-level
// BestMove it reports ErrNoLegalMoves instead of panicking.
func (e *Engine) BestMove(b Board) (Square, error) {
	return e.BestMoveAtDepth(b, e.depth)
}

// BestMoveAtDepth is BestMove with an explicit depth.
func (e *Engine) BestMoveAtDepth(b Board, depth int) (Square, error) {
	res, err := e.AnalyzeAtDepth(b, depth, nil)
	if err != nil {
		return Square{}, err
	}
	return res.BestMove, nil
}

// Analyze scores every root move at the configured depth.
func (e *Engine) Analyze(b Board) (*AnalysisResult, error) {
	return e.AnalyzeAtDepth(b, e.depth, nil)
}

// AnalyzeAtDepth scores every root move at the given depth, reporting
// progress to callback when it is not nil.
func (e *Engine) AnalyzeAtDepth(b Board, depth int, callback AnalysisCallback) (*AnalysisResult, error) {
	if depth < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	if depth == 0 {
		depth = e.depth
	}
	if b.IsTerminal(b.Current()) {
		return nil, fmt.Errorf("%s to move: %w", b.Current(), ErrNoLegalMoves)
	}
	return AnalyzeWithProgress(b, depth, callback), nil
}

// PositionID returns the position ID of the board and side to move.
func (b Board) PositionID() string {
	var pb positionid.Board
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			pb[row][col] = uint8(b.cells[row][col])
		}
	}
	side := positionid.SideBlack
	if b.current == ColorWhite {
		side = positionid.SideWhite
	}
	return positionid.PositionID(pb, side)
}

// BoardFromPositionID decodes a position ID produced by Board.PositionID.
func BoardFromPositionID(id string) (Board, error) {
	pb, side, err := positionid.BoardFromPositionID(id)
	if err != nil {
		return Board{}, fmt.Errorf("invalid position ID %q: %w", id, err)
	}

	var cells [BoardSize][BoardSize]Cell
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			cells[row][col] = Cell(pb[row][col])
		}
	}
	toMove := ColorBlack
	if side == positionid.SideWhite {
		toMove = ColorWhite
	}
	return NewBoard(cells, toMove), nil
}
