package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dukerupert/notepad/internal/model"
	"github.com/dukerupert/notepad/internal/store"
)

// NoteHandler serves the JSON API. Mutations on an unknown id are silent
// no-ops answered with 204; only GET reports 404.
type NoteHandler struct {
	noteStore *store.NoteStore
	logger    *slog.Logger
}

func NewNoteHandler(ns *store.NoteStore, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{noteStore: ns, logger: logger}
}

type deleteResponse struct {
	Deleted  bool        `json:"deleted"`
	Fallback *model.Note `json:"fallback"`
}

// decodePatch reads an optional JSON patch body. An empty body is an empty patch.
func decodePatch(r *http.Request) (model.NotePatch, error) {
	var patch model.NotePatch
	err := json.NewDecoder(r.Body).Decode(&patch)
	if errors.Is(err, io.EOF) {
		return model.NotePatch{}, nil
	}
	return patch, err
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.noteStore.Search(r.URL.Query().Get("q")))
}

// Create adds a default note. A JSON patch body, if any, overrides the
// defaults.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	patch, err := decodePatch(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	note, err := h.noteStore.CreateWith(patch)
	if err != nil {
		h.logger.Error("failed to create note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create note")
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	note, ok := h.noteStore.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	patch, err := decodePatch(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	note, ok, err := h.noteStore.Update(id, patch)
	if err != nil {
		h.logger.Error("failed to update note", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update note")
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) ToggleStar(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	note, ok, err := h.noteStore.ToggleStar(id)
	if err != nil {
		h.logger.Error("failed to toggle star", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle star")
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Delete removes a note and reports which note a client showing it should
// fall back to (null when no notes remain).
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	deleted, err := h.noteStore.Delete(id)
	if err != nil {
		h.logger.Error("failed to delete note", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete note")
		return
	}

	resp := deleteResponse{Deleted: deleted}
	if next, ok := h.noteStore.Select(id); ok {
		resp.Fallback = &next
	}
	writeJSON(w, http.StatusOK, resp)
}
