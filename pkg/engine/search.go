package engine

import (
	"errors"
	"math"
	"sort"
)

// DefaultDepth is the search depth, in plies, used when none is configured.
const DefaultDepth = 8

// ErrNoLegalMoves is the panic value of BestMove, and the error returned by
// Engine methods, when the side to move cannot play.
var ErrNoLegalMoves = errors.New("engine: no legal moves")

// AlphaBeta returns the minimax value of b searched to depth plies.
//
// Leaves are scored with Evaluate from the point of view of the side to move
// at the leaf. Cutoffs use strict comparisons: a maximizing node stops only
// once its value exceeds beta, a minimizing node once it falls below alpha.
func AlphaBeta(b Board, depth int, alpha, beta float64, maximizing bool) float64 {
	var s searcher
	return s.alphaBeta(b, depth, alpha, beta, maximizing)
}

// searcher carries per-search counters. It is not shared between goroutines.
type searcher struct {
	nodes uint64
}

func (s *searcher) alphaBeta(b Board, depth int, alpha, beta float64, maximizing bool) float64 {
	s.nodes++

	if depth <= 0 || b.IsTerminal(b.current) {
		return Evaluate(b, b.current)
	}

	if maximizing {
		value := math.Inf(-1)
		for _, child := range b.Children() {
			value = math.Max(value, s.alphaBeta(child, depth-1, alpha, beta, false))
			if value > beta {
				break
			}
			alpha = math.Max(alpha, value)
		}
		return value
	}

	value := math.Inf(1)
	for _, child := range b.Children() {
		value = math.Min(value, s.alphaBeta(child, depth-1, alpha, beta, true))
		if value < alpha {
			break
		}
		beta = math.Min(beta, value)
	}
	return value
}

// BestMove returns the move for the side to move whose subtree scores
// highest, ties going to the earliest move in LegalMoves order.
//
// The board must have at least one legal move for the side to move; BestMove
// panics with ErrNoLegalMoves otherwise. Callers check IsTerminal first.
func BestMove(b Board, depth int) Square {
	res := Analyze(b, depth)
	if len(res.Moves) == 0 {
		panic(ErrNoLegalMoves)
	}
	return res.BestMove
}

// ScoredMove is a root move together with its search score.
type ScoredMove struct {
	Move  Square
	Score float64
	Flips int // Number of pieces the move captures
}

// AnalysisResult contains the scores of every root move.
type AnalysisResult struct {
	Moves     []ScoredMove // Root moves in LegalMoves order
	BestMove  Square       // Highest score, earliest on ties
	BestScore float64
	Depth     int
	Nodes     uint64 // Positions visited, root children included
}

// Ranked returns the root moves sorted best first. Equal scores keep
// LegalMoves order.
func (r *AnalysisResult) Ranked() []ScoredMove {
	ranked := make([]ScoredMove, len(r.Moves))
	copy(ranked, r.Moves)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// AnalysisProgress is reported after each root move has been searched.
type AnalysisProgress struct {
	Done  int
	Total int
	Last  ScoredMove
	Best  ScoredMove
}

// AnalysisCallback receives progress during AnalyzeWithProgress.
type AnalysisCallback func(p AnalysisProgress)

// Analyze searches every root move the same way BestMove does and returns
// all of their scores. A board without legal moves yields an empty result.
func Analyze(b Board, depth int) *AnalysisResult {
	return AnalyzeWithProgress(b, depth, nil)
}

// AnalyzeWithProgress is Analyze with a callback invoked after every root
// move. The callback may be nil. Depths below 1 are searched as 1.
func AnalyzeWithProgress(b Board, depth int, callback AnalysisCallback) *AnalysisResult {
	if depth < 1 {
		depth = 1
	}

	var s searcher
	children := b.Children()

	res := &AnalysisResult{
		Moves:     make([]ScoredMove, 0, len(children)),
		BestScore: math.Inf(-1),
		Depth:     depth,
	}

	var best ScoredMove
	for i, child := range children {
		// The child already has the opponent to move.
		score := s.alphaBeta(child, depth-1, math.Inf(-1), math.Inf(1), false)
		mv, _ := child.LastMove()
		sm := ScoredMove{
			Move:  mv,
			Score: score,
			Flips: child.Count(b.current.Cell()) - b.Count(b.current.Cell()) - 1,
		}
		res.Moves = append(res.Moves, sm)

		if i == 0 || score > res.BestScore {
			res.BestScore = score
			res.BestMove = mv
			best = sm
		}

		if callback != nil {
			callback(AnalysisProgress{Done: i + 1, Total: len(children), Last: sm, Best: best})
		}
	}

	res.Nodes = s.nodes
	return res
}
