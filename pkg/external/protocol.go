// Package external implements a line-based external player protocol.
// This allows other programs to drive the engine over a TCP socket.
//
// Protocol overview:
// - Server listens on a TCP port
// - Client connects and sends one command per line
// - Each connection holds its own current position, starting from the
//   initial position
// - Positions can be loaded as position IDs, move lists or grid boards
// - Responses are single lines, except help and show
package external

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/yourusername/reversi/pkg/engine"
	"github.com/yourusername/reversi/pkg/match"
)

// Server implements the external player protocol server.
type Server struct {
	engine   *engine.Engine
	listener net.Listener
	mu       sync.Mutex
	running  bool
	options  ServerOptions
}

// ServerOptions configures the external player server.
type ServerOptions struct {
	Port          int  // TCP port to listen on (0 picks a free port)
	Depth         int  // Search depth (0 = engine default)
	MaxDepth      int  // Largest depth "set depth" accepts
	PromptEnabled bool // Send prompts after responses
}

// DefaultServerOptions returns sensible defaults.
func DefaultServerOptions() ServerOptions {
	return ServerOptions{
		Port:          1234,
		Depth:         0,
		MaxDepth:      10,
		PromptEnabled: true,
	}
}

// NewServer creates a new external player server.
func NewServer(eng *engine.Engine, opts ServerOptions) *Server {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultServerOptions().MaxDepth
	}
	return &Server{
		engine:  eng,
		options: opts,
	}
}

// Start begins listening for connections.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	addr := fmt.Sprintf(":%d", s.options.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.listener = listener
	s.running = true

	go s.acceptLoop()

	return nil
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop stops the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// acceptLoop accepts incoming connections.
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return // Server stopped
			}
			continue
		}

		go s.handleConnection(conn)
	}
}

// session is the per-connection state.
type session struct {
	server *Server
	board  engine.Board
	depth  int
	prompt bool
}

func (s *Server) newSession() *session {
	depth := s.options.Depth
	if depth <= 0 {
		depth = s.engine.Depth()
	}
	return &session{
		server: s,
		board:  engine.NewGame(),
		depth:  depth,
		prompt: s.options.PromptEnabled,
	}
}

// handleConnection handles a single client connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	s.serve(conn, conn)
}

// serve runs the command loop for one client until exit or EOF.
func (s *Server) serve(r io.Reader, w io.Writer) {
	sess := s.newSession()
	reader := bufio.NewReader(r)

	if sess.prompt {
		io.WriteString(w, "> ")
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Printf("external: read error: %v", err)
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		response := sess.processCommand(line)
		io.WriteString(w, response)

		// Check for exit command
		if cmd := strings.ToLower(line); cmd == "exit" || cmd == "quit" {
			return
		}

		if sess.prompt {
			io.WriteString(w, "> ")
		}
	}
}

// processCommand processes a single command and returns the response.
func (sess *session) processCommand(cmd string) string {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return "Error: empty command\n"
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "version":
		return "reversi external player protocol 1.0\n"

	case "help":
		return helpResponse()

	case "exit", "quit":
		return "Goodbye\n"

	case "set":
		return sess.handleSet(args)

	case "new":
		sess.board = engine.NewGame()
		return "ok\n"

	case "position":
		return sess.handlePosition(args)

	case "show":
		return fmt.Sprintf("%s%s to move, %s\n", sess.board, sess.board.Current(), FormatGridBoard(sess.board))

	case "moves":
		return sess.handleMoves()

	case "play":
		return sess.handlePlay(args)

	case "evaluation", "eval":
		return sess.handleEvaluation(args)

	case "best", "go":
		return sess.handleBest(args)

	default:
		// Try to parse as a grid board directly
		if strings.HasPrefix(cmd, "board:") {
			return sess.handleBest(parts)
		}
		return fmt.Sprintf("Error: unknown command '%s'\n", command)
	}
}

// helpResponse returns help text.
func helpResponse() string {
	return `Available commands:
  version            - Show version information
  help               - Show this help
  set <opt> <value>  - Set option (depth, prompt)
  new                - Reset to the initial position
  position <pos>     - Load a position ID, move list or grid board
  show               - Print the current position
  moves              - List legal moves
  play <move>        - Play a move for the side to move
  evaluation [board] - Evaluate the current position or a grid board
  best [board]       - Best move for the current position or a grid board
  exit               - Close connection
`
}

// handleSet handles the set command.
func (sess *session) handleSet(args []string) string {
	if len(args) < 2 {
		return "Error: set requires option and value\n"
	}

	option := strings.ToLower(args[0])
	value := args[1]

	switch option {
	case "depth", "plies":
		maxDepth := sess.server.options.MaxDepth
		depth, err := strconv.Atoi(value)
		if err != nil || depth < 1 || depth > maxDepth {
			return fmt.Sprintf("Error: depth must be 1-%d\n", maxDepth)
		}
		sess.depth = depth
		return fmt.Sprintf("depth set to %d\n", depth)

	case "prompt":
		sess.prompt = value == "on" || value == "true" || value == "1"
		return fmt.Sprintf("prompt set to %v\n", sess.prompt)

	default:
		return fmt.Sprintf("Error: unknown option '%s'\n", option)
	}
}

// parseAnyPosition accepts a grid board, a position ID or a move list.
func parseAnyPosition(s string) (engine.Board, error) {
	if strings.HasPrefix(s, "board:") {
		gb, err := ParseGridBoard(s)
		if err != nil {
			return engine.Board{}, err
		}
		return gb.Board(), nil
	}
	if strings.Contains(s, ":") {
		return engine.BoardFromPositionID(s)
	}
	// A bare 22-character string can be either; move lists win.
	if b, err := match.BoardFromMoves(s); err == nil {
		return b, nil
	}
	if b, err := engine.BoardFromPositionID(s); err == nil {
		return b, nil
	}
	return engine.Board{}, fmt.Errorf("not a position ID, move list or grid board: %q", s)
}

// handlePosition replaces the session position.
func (sess *session) handlePosition(args []string) string {
	if len(args) == 0 {
		return "Error: no position specified\n"
	}
	b, err := parseAnyPosition(strings.Join(args, ""))
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}
	sess.board = b
	return "ok\n"
}

// target returns the board a query applies to: an inline grid board when
// given, otherwise the session position.
func (sess *session) target(args []string) (engine.Board, error) {
	if len(args) == 0 {
		return sess.board, nil
	}
	gb, err := ParseGridBoard(args[0])
	if err != nil {
		return engine.Board{}, err
	}
	return gb.Board(), nil
}

// handleMoves lists the legal moves of the side to move.
func (sess *session) handleMoves() string {
	legal := sess.board.LegalMoves(sess.board.Current())
	if len(legal) == 0 {
		return "none\n"
	}
	parts := make([]string, len(legal))
	for i, sq := range legal {
		parts[i] = sq.String()
	}
	return strings.Join(parts, " ") + "\n"
}

// handlePlay applies a move to the session position.
func (sess *session) handlePlay(args []string) string {
	if len(args) == 0 {
		return "Error: no move specified\n"
	}
	sq, err := engine.ParseSquare(strings.Join(args, " "))
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}
	if !sess.board.Play(sq) {
		return fmt.Sprintf("Error: illegal move %s\n", sq)
	}
	if sess.board.IsTerminal(sess.board.Current()) {
		return fmt.Sprintf("ok game over %d-%d\n", sess.board.Count(engine.Black), sess.board.Count(engine.White))
	}
	return "ok\n"
}

// handleEvaluation handles the evaluation command.
// Returns the score followed by the six feature values.
func (sess *session) handleEvaluation(args []string) string {
	b, err := sess.target(args)
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}

	bd := sess.server.engine.Evaluate(b, b.Current())

	// Format response
	return fmt.Sprintf("%.6f %.6f %.6f %.6f %.6f %.6f %.6f\n",
		bd.Score, bd.Piece, bd.CornerOccupancy, bd.CornerCloseness, bd.Mobility, bd.Frontier, bd.Positional)
}

// handleBest returns the best move for a position.
func (sess *session) handleBest(args []string) string {
	b, err := sess.target(args)
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}

	if b.IsTerminal(b.Current()) {
		return "cannot move\n"
	}

	sq, err := sess.server.engine.BestMoveAtDepth(b, sess.depth)
	if err != nil {
		return fmt.Sprintf("Error: %v\n", err)
	}
	return sq.String() + "\n"
}
