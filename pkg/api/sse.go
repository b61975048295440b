package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"

	"github.com/yourusername/reversi/pkg/engine"
)

// SSEAnalysisProgress is sent after each root move has been searched.
type SSEAnalysisProgress struct {
	Done      int     `json:"done"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
	Move      string  `json:"move"`       // Move just searched
	Score     float64 `json:"score"`      // Its score
	BestMove  string  `json:"best_move"`  // Best so far
	BestScore float64 `json:"best_score"` // Best score so far
}

// AnalyzeSSE handles Server-Sent Events for streaming analysis progress.
// GET /api/analyze/stream?position=...&depth=...&num_moves=...
func (h *Handlers) AnalyzeSSE(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Parse query parameters
	query := r.URL.Query()
	b, err := parsePosition(query.Get("position"), query.Get("moves"))
	if err != nil {
		writeSSEError(w, err.Error())
		return
	}

	depth, err := h.searchDepth(parseIntParam(query.Get("depth"), 0))
	if err != nil {
		writeSSEError(w, err.Error())
		return
	}
	numMoves := parseIntParam(query.Get("num_moves"), 0)

	// Flush function for streaming
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeSSEError(w, "streaming not supported")
		return
	}

	if h.pool != nil {
		if err := h.pool.AcquireSlow(r.Context()); err != nil {
			writeSSEError(w, "server busy")
			return
		}
		defer h.pool.ReleaseSlow()
	}

	// Progress callback sends SSE events
	callback := func(p engine.AnalysisProgress) {
		writeSSEEvent(w, "progress", SSEAnalysisProgress{
			Done:      p.Done,
			Total:     p.Total,
			Percent:   100 * float64(p.Done) / float64(p.Total),
			Move:      p.Last.Move.String(),
			Score:     p.Last.Score,
			BestMove:  p.Best.Move.String(),
			BestScore: p.Best.Score,
		})
		flusher.Flush()
	}

	res, err := h.engine.AnalyzeAtDepth(b, depth, callback)
	if err != nil {
		writeSSEError(w, "analysis failed: "+err.Error())
		return
	}

	// Send final result
	writeSSEEvent(w, "result", AnalysisToResponse(b.PositionID(), res, numMoves))
	flusher.Flush()

	// Send done event to signal completion
	writeSSEEvent(w, "done", nil)
	flusher.Flush()
}

// writeSSEEvent writes a Server-Sent Event to the response.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := sonic.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}

// writeSSEError writes an error event and closes the stream.
func writeSSEError(w http.ResponseWriter, message string) {
	writeSSEEvent(w, "error", map[string]string{"error": message})
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// parseIntParam parses an integer from a string with a default value.
func parseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}
