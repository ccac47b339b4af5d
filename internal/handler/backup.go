package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/notepad/internal/backup"
	"github.com/dukerupert/notepad/internal/store"
)

const maxBackupSize = 32 << 20

type BackupHandler struct {
	noteStore *store.NoteStore
	logger    *slog.Logger
}

func NewBackupHandler(ns *store.NoteStore, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{noteStore: ns, logger: logger}
}

// Export answers with the sealed note sequence as a file download.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	passphrase := r.FormValue("passphrase")
	if passphrase == "" {
		writeError(w, http.StatusBadRequest, "passphrase is required")
		return
	}

	sealed, err := backup.Export(h.noteStore, passphrase)
	if err != nil {
		h.logger.Error("failed to export notes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export notes")
		return
	}

	name := fmt.Sprintf("notes-%s.bak", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(sealed)
}

// Restore replaces every note with the contents of an uploaded backup.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBackupSize)
	if err := r.ParseMultipartForm(maxBackupSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload")
		return
	}

	passphrase := r.FormValue("passphrase")
	if passphrase == "" {
		writeError(w, http.StatusBadRequest, "passphrase is required")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "backup file is required")
		return
	}
	defer file.Close()

	sealed, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read backup file")
		return
	}

	n, err := backup.Import(h.noteStore, sealed, passphrase)
	switch {
	case errors.Is(err, backup.ErrDecrypt):
		writeError(w, http.StatusUnprocessableEntity, "wrong passphrase or corrupted backup")
		return
	case errors.Is(err, store.ErrDuplicateID):
		writeError(w, http.StatusUnprocessableEntity, "backup contains duplicate note ids")
		return
	case err != nil:
		h.logger.Error("failed to restore notes", "error", err)
		writeError(w, http.StatusUnprocessableEntity, "backup could not be restored")
		return
	}

	h.logger.Info("notes restored from backup", "count", n)
	writeJSON(w, http.StatusOK, map[string]int{"restored": n})
}
