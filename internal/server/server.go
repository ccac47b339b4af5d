package server

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/notepad/internal/handler"
	"github.com/dukerupert/notepad/internal/middleware"
	"github.com/dukerupert/notepad/internal/store"
	ws "github.com/dukerupert/notepad/internal/websocket"
	"github.com/dukerupert/notepad/web"
)

// Restore attempts allowed per client IP per minute.
const restoreLimit = 5

type Server struct {
	trustProxy      bool
	originPatterns  []string
	noteStore       *store.NoteStore
	hub             *ws.Hub
	noteH           *handler.NoteHandler
	backupH         *handler.BackupHandler
	templateHandler *handler.TemplateHandler
	rateLimiter     *middleware.RateLimiter
	logger          *slog.Logger
}

type Option func(*Server)

// WithTrustProxy keys the restore rate limit on X-Forwarded-For. Enable it
// only behind a reverse proxy that sets the header.
func WithTrustProxy(trust bool) Option {
	return func(s *Server) { s.trustProxy = trust }
}

// WithOriginPatterns allows editor websockets from other origin hosts, in
// addition to the app's own host.
func WithOriginPatterns(patterns []string) Option {
	return func(s *Server) { s.originPatterns = patterns }
}

func New(noteStore *store.NoteStore, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		noteStore:       noteStore,
		hub:             ws.NewHub(logger.With("component", "websocket")),
		noteH:           handler.NewNoteHandler(noteStore, logger.With("component", "note")),
		backupH:         handler.NewBackupHandler(noteStore, logger.With("component", "backup")),
		templateHandler: handler.NewTemplateHandler(noteStore, logger.With("component", "template")),
		rateLimiter:     middleware.NewRateLimiter(restoreLimit, time.Minute),
		logger:          logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hub returns the editor connection hub so open editors can be closed on shutdown.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	static, _ := fs.Sub(web.Static, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	mux.HandleFunc("GET /health", s.healthHandler)

	// Notes API routes
	mux.HandleFunc("GET /api/notes", s.noteH.List)
	mux.HandleFunc("POST /api/notes", s.noteH.Create)
	mux.HandleFunc("GET /api/notes/{id}", s.noteH.Get)
	mux.HandleFunc("PATCH /api/notes/{id}", s.noteH.Update)
	mux.HandleFunc("POST /api/notes/{id}/star", s.noteH.ToggleStar)
	mux.HandleFunc("DELETE /api/notes/{id}", s.noteH.Delete)

	// Backup API routes
	mux.HandleFunc("POST /api/backup", s.backupH.Export)
	mux.Handle("POST /api/restore", middleware.RateLimit(s.rateLimiter, middleware.ClientIP(s.trustProxy))(http.HandlerFunc(s.backupH.Restore)))

	// Page routes, full layout
	mux.HandleFunc("GET /{$}", s.templateHandler.Dashboard)
	mux.HandleFunc("GET /notes/{id}", s.templateHandler.Editor)
	mux.HandleFunc("DELETE /notes/{id}", s.templateHandler.EditorDelete)

	// Notes partials (HTMX)
	mux.HandleFunc("GET /partials/notes/list", s.templateHandler.NoteList)
	mux.HandleFunc("POST /partials/notes", s.templateHandler.NoteCreate)
	mux.HandleFunc("PUT /partials/notes/{id}", s.templateHandler.EditorSave)
	mux.HandleFunc("POST /partials/notes/{id}/star", s.templateHandler.NoteToggleStar)
	mux.HandleFunc("DELETE /partials/notes/{id}", s.templateHandler.NoteDelete)

	// Live editor channel
	mux.HandleFunc("GET /ws/notes/{id}", ws.HandleEditor(s.hub, s.noteStore, s.originPatterns, s.logger.With("component", "editor")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"notes":   len(s.noteStore.List()),
		"editors": s.hub.ClientCount(),
	})
}
