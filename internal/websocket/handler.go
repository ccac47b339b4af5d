package websocket

import (
	"log/slog"
	"net/http"
	"strconv"

	ws "github.com/coder/websocket"
)

// HandleEditor returns an HTTP handler that upgrades GET /ws/notes/{id} to a
// WebSocket carrying live edits for that note. Browsers may connect from the
// app's own host or from an origin host matching one of originPatterns.
func HandleEditor(hub *Hub, notes Notes, originPatterns []string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		if _, ok := notes.Get(id); !ok {
			http.Error(w, "note not found", http.StatusNotFound)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}
		defer conn.CloseNow()

		NewClient(hub, conn, id, notes, logger).Run(r.Context())
	}
}
