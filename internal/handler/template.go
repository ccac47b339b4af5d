package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dukerupert/notepad/internal/model"
	"github.com/dukerupert/notepad/internal/store"
	"github.com/dukerupert/notepad/web"
)

// TemplateHandler serves the dashboard and editor pages and their HTMX
// partials.
type TemplateHandler struct {
	noteStore *store.NoteStore
	templates *template.Template
	logger    *slog.Logger
}

func NewTemplateHandler(ns *store.NoteStore, logger *slog.Logger) *TemplateHandler {
	tmpl := template.Must(template.ParseFS(web.Templates, "templates/*.html"))
	return &TemplateHandler{
		noteStore: ns,
		templates: tmpl,
		logger:    logger,
	}
}

type listData struct {
	Title string
	Query string
	Notes []model.Note
}

type editorData struct {
	Title string
	Note  model.Note
}

func (h *TemplateHandler) listFor(r *http.Request) listData {
	q := r.FormValue("q")
	return listData{Title: "Notes", Query: q, Notes: h.noteStore.Search(q)}
}

func (h *TemplateHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, "dashboard", h.listFor(r))
}

func (h *TemplateHandler) NoteList(w http.ResponseWriter, r *http.Request) {
	h.renderPartial(w, "note-list", h.listFor(r))
}

func (h *TemplateHandler) NoteCreate(w http.ResponseWriter, r *http.Request) {
	if _, err := h.noteStore.Create(); err != nil {
		h.logger.Error("failed to create note", "error", err)
		http.Error(w, "failed to create note", http.StatusInternalServerError)
		return
	}
	h.renderPartial(w, "note-list", h.listFor(r))
}

// NoteToggleStar flips the star from either view. With view=editor it answers
// with the editor's star button, otherwise with the dashboard list.
func (h *TemplateHandler) NoteToggleStar(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	note, ok, err := h.noteStore.ToggleStar(id)
	if err != nil {
		h.logger.Error("failed to toggle star", "id", id, "error", err)
		http.Error(w, "failed to toggle star", http.StatusInternalServerError)
		return
	}

	if r.FormValue("view") == "editor" {
		if !ok {
			w.Header().Set("HX-Redirect", "/")
			return
		}
		h.renderPartial(w, "star-button", note)
		return
	}
	h.renderPartial(w, "note-list", h.listFor(r))
}

func (h *TemplateHandler) NoteDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if _, err := h.noteStore.Delete(id); err != nil {
		h.logger.Error("failed to delete note", "id", id, "error", err)
		http.Error(w, "failed to delete note", http.StatusInternalServerError)
		return
	}
	h.renderPartial(w, "note-list", h.listFor(r))
}

// Editor renders one note. An unknown id falls back to the dashboard.
func (h *TemplateHandler) Editor(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	note, ok := h.noteStore.Get(id)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, "editor", editorData{Title: note.Title + " - Notes", Note: note})
}

// EditorSave applies the title and content fields present in the form.
func (h *TemplateHandler) EditorSave(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	var patch model.NotePatch
	if _, ok := r.PostForm["title"]; ok {
		title := r.PostForm.Get("title")
		patch.Title = &title
	}
	if _, ok := r.PostForm["content"]; ok {
		content := r.PostForm.Get("content")
		patch.Content = &content
	}

	_, ok, err := h.noteStore.Update(id, patch)
	if err != nil {
		h.logger.Error("failed to save note", "id", id, "error", err)
		http.Error(w, "failed to save note", http.StatusInternalServerError)
		return
	}
	if !ok {
		w.Header().Set("HX-Redirect", "/")
		return
	}
	h.renderPartial(w, "save-status", nil)
}

// EditorDelete deletes the open note and sends the browser back to the
// dashboard, which shows the remaining notes or the empty state.
func (h *TemplateHandler) EditorDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if _, err := h.noteStore.Delete(id); err != nil {
		h.logger.Error("failed to delete note", "id", id, "error", err)
		http.Error(w, "failed to delete note", http.StatusInternalServerError)
		return
	}
	w.Header().Set("HX-Redirect", "/")
	w.WriteHeader(http.StatusOK)
}

func (h *TemplateHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template error", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (h *TemplateHandler) renderPartial(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template error", "template", name, "error", err)
		fmt.Fprintf(w, `<div class="alert alert-error">Template error</div>`)
	}
}
