package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/pipeline"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local-only server
	},
}

// StateHandler broadcasts per-frame pipeline status to WebSocket clients.
// The processing loop pushes into it via Publish; clients only listen.
type StateHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewStateHandler creates a StateHandler with no clients.
func NewStateHandler() *StateHandler {
	return &StateHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the connection and keeps it registered until the
// client goes away.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Drain incoming messages to detect disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish sends a status snapshot to all connected clients. Slow clients
// whose writes fail are dropped on their next read.
func (h *StateHandler) Publish(status pipeline.Status) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(status)
	if err != nil {
		return
	}

	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}

// ClientCount returns the number of connected clients.
func (h *StateHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
