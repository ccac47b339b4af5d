package websocket

import (
	"log/slog"
	"sync"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/notepad/internal/model"
)

// Message is sent to an editor after each patch it submits.
type Message struct {
	Type  string      `json:"type"`
	Seq   int64       `json:"seq,omitempty"`
	ID    int64       `json:"id"`
	Note  *model.Note `json:"note,omitempty"`
	Error string      `json:"error,omitempty"`
}

const (
	TypeSaved   = "note_saved"
	TypeMissing = "note_missing"
	TypeError   = "error"
)

// Hub tracks open editor connections so they can be closed together on
// shutdown. It never relays messages between connections: each editor only
// hears about its own edits.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("editor connected", "note_id", c.noteID)
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.logger.Debug("editor disconnected", "note_id", c.noteID)
	}
}

// ClientCount returns the number of connected editors.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAll closes every open editor connection with StatusGoingAway.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := make([]*ws.Conn, 0, len(h.clients))
	for c := range h.clients {
		if c.conn != nil {
			conns = append(conns, c.conn)
		}
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close(ws.StatusGoingAway, "server shutting down")
	}
}
