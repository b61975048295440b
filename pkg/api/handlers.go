package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/yourusername/reversi/pkg/engine"
	"github.com/yourusername/reversi/pkg/match"
)

// MaxDepth is the default limit on the search depth a request may ask for.
const MaxDepth = 10

var (
	errMissingPosition = errors.New("position or moves is required")
	errInvalidDepth    = errors.New("depth must not be negative")
	errMissingMove     = errors.New("move is required")
)

// Handlers holds the HTTP handlers and engine reference.
type Handlers struct {
	engine   *engine.Engine
	version  string
	pool     *WorkerPool
	maxDepth int
}

// NewHandlers creates a new Handlers instance without a worker pool.
func NewHandlers(e *engine.Engine, version string) *Handlers {
	return &Handlers{
		engine:   e,
		version:  version,
		pool:     nil,
		maxDepth: MaxDepth,
	}
}

// NewHandlersWithPool creates a new Handlers instance with a worker pool.
func NewHandlersWithPool(e *engine.Engine, version string, pool *WorkerPool) *Handlers {
	return &Handlers{
		engine:   e,
		version:  version,
		pool:     pool,
		maxDepth: MaxDepth,
	}
}

// SetMaxDepth changes the depth limit. Values below 1 restore MaxDepth.
func (h *Handlers) SetMaxDepth(depth int) {
	if depth < 1 {
		depth = MaxDepth
	}
	h.maxDepth = depth
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	sonic.ConfigDefault.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// decodeJSON decodes the request body into v, writing an error response on
// failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return false
	}
	return true
}

// parsePosition resolves a request's position from a position ID or, when
// that is empty, from a move list.
func parsePosition(position, moves string) (engine.Board, error) {
	switch {
	case position != "":
		return engine.BoardFromPositionID(position)
	case moves != "":
		b, err := match.BoardFromMoves(moves)
		if err != nil {
			return engine.Board{}, fmt.Errorf("invalid move list: %w", err)
		}
		return b, nil
	}
	return engine.Board{}, errMissingPosition
}

// writePositionError maps a parsePosition error to a response.
func writePositionError(w http.ResponseWriter, err error) {
	if errors.Is(err, errMissingPosition) {
		writeError(w, http.StatusBadRequest, err.Error(), "MISSING_POSITION")
		return
	}
	writeError(w, http.StatusBadRequest, err.Error(), "INVALID_POSITION")
}

// parseColor returns the requested color, defaulting to the side to move.
func parseColor(s string, b engine.Board) (engine.Color, error) {
	if s == "" {
		return b.Current(), nil
	}
	return engine.ParseColor(s)
}

// searchDepth resolves a requested depth: 0 picks the engine default, and
// anything above the limit is clamped to it.
func (h *Handlers) searchDepth(requested int) (int, error) {
	if requested < 0 {
		return 0, errInvalidDepth
	}
	depth := requested
	if depth == 0 {
		depth = h.engine.Depth()
	}
	if depth > h.maxDepth {
		depth = h.maxDepth
	}
	return depth, nil
}

// acquireFast takes a fast worker slot if a pool is configured. The returned
// release func is never nil.
func (h *Handlers) acquireFast(w http.ResponseWriter, r *http.Request) (func(), bool) {
	if h.pool == nil {
		return func() {}, true
	}
	if err := h.pool.AcquireFast(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
		return nil, false
	}
	return h.pool.ReleaseFast, true
}

// acquireSlow takes a search worker slot if a pool is configured.
func (h *Handlers) acquireSlow(w http.ResponseWriter, r *http.Request) (func(), bool) {
	if h.pool == nil {
		return func() {}, true
	}
	if err := h.pool.AcquireSlow(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
		return nil, false
	}
	return h.pool.ReleaseSlow, true
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Version:  h.version,
		Ready:    h.engine != nil,
		MaxDepth: h.maxDepth,
	}
	if h.engine != nil {
		resp.Depth = h.engine.Depth()
	}

	// Include pool stats if available
	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}

	writeJSON(w, http.StatusOK, resp)
}

// NewGame handles GET /api/new
func (h *Handlers) NewGame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PositionToResponse(engine.NewGame()))
}

// Evaluate handles POST /api/evaluate
func (h *Handlers) Evaluate(w http.ResponseWriter, r *http.Request) {
	release, ok := h.acquireFast(w, r)
	if !ok {
		return
	}
	defer release()

	var req EvaluateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := parsePosition(req.Position, req.Moves)
	if err != nil {
		writePositionError(w, err)
		return
	}
	c, err := parseColor(req.Color, b)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_COLOR")
		return
	}

	writeJSON(w, http.StatusOK, BreakdownToResponse(h.engine.Evaluate(b, c), c))
}

// Moves handles POST /api/moves
func (h *Handlers) Moves(w http.ResponseWriter, r *http.Request) {
	release, ok := h.acquireFast(w, r)
	if !ok {
		return
	}
	defer release()

	var req MovesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := parsePosition(req.Position, req.Moves)
	if err != nil {
		writePositionError(w, err)
		return
	}
	c, err := parseColor(req.Color, b)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_COLOR")
		return
	}

	writeJSON(w, http.StatusOK, movesResponse(b, c))
}

// Play handles POST /api/play
func (h *Handlers) Play(w http.ResponseWriter, r *http.Request) {
	release, ok := h.acquireFast(w, r)
	if !ok {
		return
	}
	defer release()

	var req PlayRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := parsePosition(req.Position, req.Moves)
	if err != nil {
		writePositionError(w, err)
		return
	}
	resp, err := playMove(b, req.Move)
	if err != nil {
		code := "INVALID_MOVE"
		if errors.Is(err, errMissingMove) {
			code = "MISSING_MOVE"
		}
		writeError(w, http.StatusBadRequest, err.Error(), code)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// movesResponse lists c's legal moves in b.
func movesResponse(b engine.Board, c engine.Color) MovesResponse {
	legal := b.LegalMoves(c)
	moves := make([]MoveResponse, len(legal))
	for i, sq := range legal {
		moves[i] = MoveResponse{
			Move:  sq.String(),
			Col:   sq.Col,
			Row:   sq.Row,
			Flips: len(b.Flips(sq.Col, sq.Row, c)),
		}
	}

	return MovesResponse{
		Position: b.PositionID(),
		Color:    c.String(),
		Moves:    moves,
		NumLegal: len(legal),
		GameOver: len(legal) == 0,
	}
}

// playMove plays move for the side to move in b.
func playMove(b engine.Board, move string) (*PlayResponse, error) {
	if move == "" {
		return nil, errMissingMove
	}
	sq, err := engine.ParseSquare(move)
	if err != nil {
		return nil, err
	}

	side := b.Current()
	flips := b.Flips(sq.Col, sq.Row, side)
	if !b.Play(sq) {
		return nil, fmt.Errorf("%s is not a legal move for %s", sq, side)
	}

	flipped := make([]string, len(flips))
	for i, f := range flips {
		flipped[i] = f.String()
	}
	return &PlayResponse{
		Move:    sq.String(),
		Flipped: flipped,
		Result:  PositionToResponse(b),
	}, nil
}

// Best handles POST /api/best
func (h *Handlers) Best(w http.ResponseWriter, r *http.Request) {
	release, ok := h.acquireSlow(w, r)
	if !ok {
		return
	}
	defer release()

	var req BestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, ok := h.analyze(w, req.Position, req.Moves, req.Depth)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, BestResponse{
		Position: res.position,
		Move:     res.BestMove.String(),
		Col:      res.BestMove.Col,
		Row:      res.BestMove.Row,
		Score:    res.BestScore,
		Depth:    res.Depth,
		Nodes:    res.Nodes,
	})
}

// Analyze handles POST /api/analyze
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	release, ok := h.acquireSlow(w, r)
	if !ok {
		return
	}
	defer release()

	var req AnalyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, ok := h.analyze(w, req.Position, req.Moves, req.Depth)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, AnalysisToResponse(res.position, res.AnalysisResult, req.NumMoves))
}

type positionAnalysis struct {
	*engine.AnalysisResult
	position string
}

// analyze runs a root analysis for a request, writing an error response and
// returning false when the request cannot be served.
func (h *Handlers) analyze(w http.ResponseWriter, position, moves string, requested int) (*positionAnalysis, bool) {
	b, err := parsePosition(position, moves)
	if err != nil {
		writePositionError(w, err)
		return nil, false
	}
	depth, err := h.searchDepth(requested)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_DEPTH")
		return nil, false
	}

	res, err := h.engine.AnalyzeAtDepth(b, depth, nil)
	if err != nil {
		if errors.Is(err, engine.ErrNoLegalMoves) {
			writeError(w, http.StatusUnprocessableEntity, err.Error(), "NO_LEGAL_MOVES")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, err.Error(), "SEARCH_ERROR")
		return nil, false
	}
	return &positionAnalysis{AnalysisResult: res, position: b.PositionID()}, true
}
