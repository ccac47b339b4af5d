package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/notepad/internal/model"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
	readLimit      = 1 << 20
)

// Notes is the part of the note store an editor connection uses.
type Notes interface {
	Get(id int64) (model.Note, bool)
	Update(id int64, patch model.NotePatch) (model.Note, bool, error)
}

// Patch is one edit sent by the editor. Seq is echoed back so the page can
// match acknowledgements to keystrokes.
type Patch struct {
	Seq int64 `json:"seq"`
	model.NotePatch
}

// Client is one open editor bound to a single note.
type Client struct {
	hub    *Hub
	conn   *ws.Conn
	noteID int64
	notes  Notes
	send   chan Message
	logger *slog.Logger
}

// NewClient creates a Client editing noteID over conn.
func NewClient(hub *Hub, conn *ws.Conn, noteID int64, notes Notes, logger *slog.Logger) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		noteID: noteID,
		notes:  notes,
		send:   make(chan Message, sendBufferSize),
		logger: logger,
	}
}

// Run registers the client, starts the write pump, and runs the read pump.
// It blocks until the connection is closed, then unregisters.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.conn.SetReadLimit(readLimit)
	go c.writePump(ctx)
	c.readPump(ctx)
}

// readPump applies each incoming patch and queues the reply. It returns on
// error (connection close), which triggers cleanup.
func (c *Client) readPump(ctx context.Context) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}

		reply := c.handle(data)
		select {
		case c.send <- reply:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) handle(data []byte) Message {
	var p Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return Message{Type: TypeError, ID: c.noteID, Error: "invalid JSON"}
	}

	note, ok, err := c.notes.Update(c.noteID, p.NotePatch)
	if err != nil {
		c.logger.Error("apply editor patch", "note_id", c.noteID, "error", err)
		return Message{Type: TypeError, Seq: p.Seq, ID: c.noteID, Error: "failed to save note"}
	}
	if !ok {
		return Message{Type: TypeMissing, Seq: p.Seq, ID: c.noteID}
	}
	return Message{Type: TypeSaved, Seq: p.Seq, ID: c.noteID, Note: &note}
}

// writePump drains the send channel and writes messages to the WebSocket.
// It also sends periodic pings to detect stale connections.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				c.logger.Error("marshal editor reply", "error", err)
				continue
			}
			if err := c.conn.Write(ctx, ws.MessageText, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
