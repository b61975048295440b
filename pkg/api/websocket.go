package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/yourusername/reversi/pkg/engine"
)

const (
	wsPingInterval     = 30 * time.Second
	wsWriteWait        = 10 * time.Second
	slowAcquireTimeout = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins - configure properly in production
	},
}

// WSMessage is a generic WebSocket message.
type WSMessage struct {
	Type    string          `json:"type"`    // Message type: "evaluate", "moves", "play", "best", "ping"
	ID      string          `json:"id"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload"` // Type-specific payload
}

// WSResponse is a generic WebSocket response.
type WSResponse struct {
	Type    string      `json:"type"`              // Response type: "result", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	id       string
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
}

// WebSocket handles WebSocket connections for real-time analysis.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	client := &WSClient{
		id:       uuid.NewString(),
		conn:     conn,
		handlers: h,
		sendChan: make(chan WSResponse, 256),
	}
	log.Printf("WebSocket %s connected from %s", client.id, r.RemoteAddr)
	go client.writePump()
	client.readPump()
	log.Printf("WebSocket %s disconnected", client.id)
}

func (c *WSClient) writePump() {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.sendChan:
			if !ok {
				return
			}
			data, err := sonic.Marshal(msg)
			if err != nil {
				log.Printf("WebSocket %s: encoding %s response: %v", c.id, msg.Type, err)
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

func (c *WSClient) readPump() {
	defer func() { close(c.sendChan); c.conn.Close() }()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			c.sendError("", "invalid message")
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "evaluate":
		c.handleEvaluate(msg)
	case "moves":
		c.handleMoves(msg)
	case "play":
		c.handlePlay(msg)
	case "best":
		c.handleBest(msg)
	case "ping":
		c.sendChan <- WSResponse{Type: "pong", ID: msg.ID, Payload: map[string]string{"conn": c.id}}
	default:
		c.sendError(msg.ID, "unknown message type")
	}
}

func (c *WSClient) sendError(id, message string) {
	c.sendChan <- WSResponse{Type: "error", ID: id, Error: message}
}

func (c *WSClient) sendResult(id string, payload interface{}) {
	c.sendChan <- WSResponse{Type: "result", ID: id, Payload: payload}
}

// decode unmarshals a payload and resolves its position.
func (c *WSClient) decode(msg WSMessage, req interface{}, position, moves *string) (engine.Board, bool) {
	if err := sonic.Unmarshal(msg.Payload, req); err != nil {
		c.sendError(msg.ID, "invalid payload")
		return engine.Board{}, false
	}
	b, err := parsePosition(*position, *moves)
	if err != nil {
		c.sendError(msg.ID, "invalid position: "+err.Error())
		return engine.Board{}, false
	}
	return b, true
}

func (c *WSClient) handleEvaluate(msg WSMessage) {
	var req EvaluateRequest
	b, ok := c.decode(msg, &req, &req.Position, &req.Moves)
	if !ok {
		return
	}
	color, err := parseColor(req.Color, b)
	if err != nil {
		c.sendError(msg.ID, "invalid color")
		return
	}
	c.sendResult(msg.ID, BreakdownToResponse(c.handlers.engine.Evaluate(b, color), color))
}

func (c *WSClient) handleMoves(msg WSMessage) {
	var req MovesRequest
	b, ok := c.decode(msg, &req, &req.Position, &req.Moves)
	if !ok {
		return
	}
	color, err := parseColor(req.Color, b)
	if err != nil {
		c.sendError(msg.ID, "invalid color")
		return
	}
	c.sendResult(msg.ID, movesResponse(b, color))
}

func (c *WSClient) handlePlay(msg WSMessage) {
	var req PlayRequest
	b, ok := c.decode(msg, &req, &req.Position, &req.Moves)
	if !ok {
		return
	}
	resp, err := playMove(b, req.Move)
	if err != nil {
		c.sendError(msg.ID, err.Error())
		return
	}
	c.sendResult(msg.ID, resp)
}

func (c *WSClient) handleBest(msg WSMessage) {
	var req AnalyzeRequest
	b, ok := c.decode(msg, &req, &req.Position, &req.Moves)
	if !ok {
		return
	}
	depth, err := c.handlers.searchDepth(req.Depth)
	if err != nil {
		c.sendError(msg.ID, err.Error())
		return
	}

	if pool := c.handlers.pool; pool != nil {
		if err := pool.AcquireSlowWithTimeout(slowAcquireTimeout); err != nil {
			c.sendError(msg.ID, "server busy")
			return
		}
		defer pool.ReleaseSlow()
	}

	res, err := c.handlers.engine.AnalyzeAtDepth(b, depth, nil)
	if err != nil {
		c.sendError(msg.ID, err.Error())
		return
	}
	c.sendResult(msg.ID, AnalysisToResponse(b.PositionID(), res, req.NumMoves))
}
