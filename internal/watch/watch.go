// Package watch broadcasts live chunk-boundary progress over WebSocket
// while a BoundedStreamer works through a trace, for the `serve` CLI
// surface. It only observes progress the streamer already produces; the
// streamer itself remains synchronous and deterministic.
package watch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Progress is one chunk-boundary snapshot sent to every connected client.
type Progress struct {
	RunID        string   `json:"run_id"`
	Processed    uint64   `json:"processed"`
	LivingCount  uint64   `json:"living_count"`
	ChunkSize    uint64   `json:"chunk_size"`
	Duplicates   int64    `json:"duplicates"`
	Done         bool     `json:"done"`
	SuccessSoFar []uint64 `json:"success_so_far,omitempty"`
}

// Server broadcasts Progress snapshots to every connected WebSocket
// client.
type Server struct {
	runID    string
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*websocket.Conn
}

// NewServer constructs a Server for one run, identified by a generated
// run ID.
func NewServer() *Server {
	return &Server{
		runID: uuid.NewString(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*websocket.Conn),
	}
}

// RunID returns this server's generated run identifier.
func (s *Server) RunID() string { return s.runID }

// Handler upgrades incoming HTTP connections to WebSocket and registers
// them as broadcast targets.
func (s *Server) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		id := fmt.Sprintf("client_%d", time.Now().UnixNano())
		s.mu.Lock()
		s.clients[id] = conn
		s.mu.Unlock()

		go s.drainClient(id, conn)
	}
}

// drainClient discards incoming messages (clients only receive progress)
// and deregisters the client once it disconnects.
func (s *Server) drainClient(id string, conn *websocket.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.clients, id)
		s.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends p to every currently connected client, dropping any
// client whose write fails.
func (s *Server) Broadcast(p Progress) error {
	p.RunID = s.runID
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("watch: marshaling progress: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var lastErr error
	for id, conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			lastErr = err
			conn.Close()
			delete(s.clients, id)
		}
	}
	return lastErr
}

// ClientCount reports the number of currently connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
