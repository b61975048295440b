// Package api provides an HTTP/JSON REST API for the reversi engine.
package api

import "github.com/yourusername/reversi/pkg/engine"

// ============================================================================
// Request Types
// ============================================================================

// Every request identifies a position either by Position (a position ID) or
// by Moves (a move list replayed from the start). Position wins when both
// are set.

// EvaluateRequest is the request body for position evaluation.
type EvaluateRequest struct {
	Position string `json:"position,omitempty"` // Position ID
	Moves    string `json:"moves,omitempty"`    // Move list, e.g. "c4c3"
	Color    string `json:"color,omitempty"`    // Perspective (default: side to move)
}

// MovesRequest is the request body for listing legal moves.
type MovesRequest struct {
	Position string `json:"position,omitempty"`
	Moves    string `json:"moves,omitempty"`
	Color    string `json:"color,omitempty"` // Side to list moves for (default: side to move)
}

// PlayRequest is the request body for applying a move.
type PlayRequest struct {
	Position string `json:"position,omitempty"`
	Moves    string `json:"moves,omitempty"`
	Move     string `json:"move"` // Square to play, e.g. "c4" or "2,3"
}

// BestRequest is the request body for finding the best move.
type BestRequest struct {
	Position string `json:"position,omitempty"`
	Moves    string `json:"moves,omitempty"`
	Depth    int    `json:"depth,omitempty"` // Search depth (0 = server default)
}

// AnalyzeRequest is the request body for ranking every legal move.
type AnalyzeRequest struct {
	Position string `json:"position,omitempty"`
	Moves    string `json:"moves,omitempty"`
	Depth    int    `json:"depth,omitempty"`     // Search depth (0 = server default)
	NumMoves int    `json:"num_moves,omitempty"` // Max moves to return (0 = all)
}

// ============================================================================
// Response Types
// ============================================================================

// PositionResponse describes a position.
type PositionResponse struct {
	Position string `json:"position"` // Position ID
	Board    string `json:"board"`    // Text rendering
	ToMove   string `json:"to_move"`  // "black" or "white"
	Black    int    `json:"black"`    // Black disc count
	White    int    `json:"white"`    // White disc count
	GameOver bool   `json:"game_over"`
	Winner   string `json:"winner,omitempty"` // "black", "white" or "draw" when GameOver
}

// EvaluateResponse is the response for position evaluation.
type EvaluateResponse struct {
	Color           string  `json:"color"`
	Score           float64 `json:"score"`
	Terminal        bool    `json:"terminal"` // Color had no legal move
	Piece           float64 `json:"piece"`
	CornerOccupancy float64 `json:"corner_occupancy"`
	CornerCloseness float64 `json:"corner_closeness"`
	Mobility        float64 `json:"mobility"`
	Frontier        float64 `json:"frontier"`
	Positional      float64 `json:"positional"`
}

// MoveResponse is a single move in a response.
type MoveResponse struct {
	Move  string  `json:"move"`            // Algebraic square, e.g. "c4"
	Col   int     `json:"col"`             // 0-7
	Row   int     `json:"row"`             // 0-7
	Flips int     `json:"flips"`           // Discs captured
	Score float64 `json:"score,omitempty"` // Search score (analysis only)
}

// MovesResponse is the response for legal moves.
type MovesResponse struct {
	Position string         `json:"position"`
	Color    string         `json:"color"`
	Moves    []MoveResponse `json:"moves"`
	NumLegal int            `json:"num_legal"`
	GameOver bool           `json:"game_over"` // Color has no legal move
}

// PlayResponse is the response for a played move.
type PlayResponse struct {
	Move    string           `json:"move"`
	Flipped []string         `json:"flipped"`
	Result  PositionResponse `json:"result"`
}

// BestResponse is the response for the best move.
type BestResponse struct {
	Position string  `json:"position"`
	Move     string  `json:"move"`
	Col      int     `json:"col"`
	Row      int     `json:"row"`
	Score    float64 `json:"score"`
	Depth    int     `json:"depth"`
	Nodes    uint64  `json:"nodes"`
}

// AnalyzeResponse is the response for a full root analysis.
type AnalyzeResponse struct {
	Position  string         `json:"position"`
	Moves     []MoveResponse `json:"moves"` // Ranked moves (best first)
	NumLegal  int            `json:"num_legal"`
	BestMove  string         `json:"best_move"`
	BestScore float64        `json:"best_score"`
	Depth     int            `json:"depth"`
	Nodes     uint64         `json:"nodes"`
}

// ErrorResponse is returned when an error occurs.
type ErrorResponse struct {
	Error   string `json:"error"`             // Error message
	Code    string `json:"code,omitempty"`    // Error code
	Details string `json:"details,omitempty"` // Additional details
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status   string     `json:"status"`         // "ok" or "error"
	Version  string     `json:"version"`        // Engine version
	Ready    bool       `json:"ready"`          // Whether an engine is attached
	Depth    int        `json:"depth"`          // Default search depth
	MaxDepth int        `json:"max_depth"`      // Largest depth a request may ask for
	Pool     *PoolStats `json:"pool,omitempty"` // Worker pool statistics
}

// ============================================================================
// Helper Functions
// ============================================================================

// PositionToResponse describes b.
func PositionToResponse(b engine.Board) PositionResponse {
	resp := PositionResponse{
		Position: b.PositionID(),
		Board:    b.String(),
		ToMove:   b.Current().String(),
		Black:    b.Count(engine.Black),
		White:    b.Count(engine.White),
		GameOver: b.IsTerminal(b.Current()),
	}
	if resp.GameOver {
		switch b.Winner() {
		case engine.Black:
			resp.Winner = "black"
		case engine.White:
			resp.Winner = "white"
		default:
			resp.Winner = "draw"
		}
	}
	return resp
}

// BreakdownToResponse converts an evaluation breakdown to an API response.
func BreakdownToResponse(bd engine.Breakdown, c engine.Color) *EvaluateResponse {
	return &EvaluateResponse{
		Color:           c.String(),
		Score:           bd.Score,
		Terminal:        bd.Terminal,
		Piece:           bd.Piece,
		CornerOccupancy: bd.CornerOccupancy,
		CornerCloseness: bd.CornerCloseness,
		Mobility:        bd.Mobility,
		Frontier:        bd.Frontier,
		Positional:      bd.Positional,
	}
}

// ScoredMoveToResponse converts a searched root move.
func ScoredMoveToResponse(sm engine.ScoredMove) MoveResponse {
	return MoveResponse{
		Move:  sm.Move.String(),
		Col:   sm.Move.Col,
		Row:   sm.Move.Row,
		Flips: sm.Flips,
		Score: sm.Score,
	}
}

// AnalysisToResponse converts an analysis result, keeping at most numMoves
// ranked moves (0 = all).
func AnalysisToResponse(position string, res *engine.AnalysisResult, numMoves int) *AnalyzeResponse {
	ranked := res.Ranked()
	if numMoves <= 0 || numMoves > len(ranked) {
		numMoves = len(ranked)
	}
	moves := make([]MoveResponse, numMoves)
	for i := 0; i < numMoves; i++ {
		moves[i] = ScoredMoveToResponse(ranked[i])
	}
	return &AnalyzeResponse{
		Position:  position,
		Moves:     moves,
		NumLegal:  len(res.Moves),
		BestMove:  res.BestMove.String(),
		BestScore: res.BestScore,
		Depth:     res.Depth,
		Nodes:     res.Nodes,
	}
}
