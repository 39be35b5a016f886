// Package server exposes sessions over HTTP and WebSocket: REST endpoints
// for session and seat operations, and a per-session WebSocket feed pushing
// redacted state to every viewer.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/liveholdem/internal/session"
)

// Server serves the REST API and WebSocket feeds
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	coordinator *session.Coordinator
	logger      *log.Logger

	mu          sync.Mutex
	connections map[*Connection]struct{}

	httpServer *http.Server
}

// NewServer creates a server around a session coordinator
func NewServer(addr string, coordinator *session.Coordinator, logger *log.Logger) *Server {
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Browser clients are served from other origins in development
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		coordinator: coordinator,
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]struct{}),
	}
}

// Handler returns the route table. Split out so tests can drive the server
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /create_game", s.handleCreateGame)
	mux.HandleFunc("POST /join_seat/{id}", s.handleJoinSeat)
	mux.HandleFunc("POST /leave_seat/{id}", s.handleLeaveSeat)
	mux.HandleFunc("POST /add_ai_player/{id}", s.handleAddAIPlayer)
	mux.HandleFunc("POST /start_hand/{id}", s.handleStartHand)
	mux.HandleFunc("POST /action/{id}", s.handleAction)
	mux.HandleFunc("GET /state/{id}", s.handleState)
	mux.HandleFunc("DELETE /game/{id}", s.handleDeleteGame)
	mux.HandleFunc("GET /ws/{id}", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}

// ListenAndServe runs the server until the context is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{Addr: s.addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		s.closeConnections()
		return s.httpServer.Shutdown(context.Background())
	}
}

func (s *Server) closeConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.connections {
		_ = conn.Close()
	}
}

func (s *Server) track(conn *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[conn] = struct{}{}
}

func (s *Server) untrack(conn *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, conn)
}

// handleWebSocket upgrades a viewer connection and attaches it to a session.
// Viewers start as spectators; they upgrade to players over the socket.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, err := s.coordinator.Session(id)
	if err != nil {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	conn := newConnection(ws, sess, s.logger)
	s.track(conn)
	sess.Registry().Attach(conn)
	conn.Start()

	// Initial snapshot so the viewer renders without waiting for an event
	state := sess.Snapshot(conn.Perspective())
	conn.Send(stateMessage(&state))

	go func() {
		<-conn.Done()
		sess.Registry().Detach(conn)
		s.untrack(conn)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
