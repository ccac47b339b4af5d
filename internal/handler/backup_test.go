package handler

import (
	"bytes"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/notepad/internal/model"
	"github.com/dukerupert/notepad/internal/store"
)

func setupBackupHandler(t *testing.T, initial []model.Note) (*http.ServeMux, *store.NoteStore) {
	t.Helper()
	ns := store.NewNoteStore(store.NewMemoryNoteRepository(initial))
	_, err := ns.Load()
	require.NoError(t, err)

	h := NewBackupHandler(ns, slog.Default())
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/backup", h.Export)
	mux.HandleFunc("POST /api/restore", h.Restore)
	return mux, ns
}

func restoreRequest(t *testing.T, sealed []byte, passphrase string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("passphrase", passphrase))
	fw, err := mw.CreateFormFile("file", "notes.bak")
	require.NoError(t, err)
	_, err = fw.Write(sealed)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/restore", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestBackupExportRestore(t *testing.T) {
	src, _ := setupBackupHandler(t, store.SeedNotes())

	rec := doForm(src, http.MethodPost, "/api/backup", url.Values{"passphrase": {"s3cret"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	sealed := rec.Body.Bytes()
	assert.NotContains(t, string(sealed), "Meeting Notes")

	dst, ns := setupBackupHandler(t, nil)

	rec = httptest.NewRecorder()
	dst.ServeHTTP(rec, restoreRequest(t, sealed, "wrong"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, ns.List())

	rec = httptest.NewRecorder()
	dst.ServeHTTP(rec, restoreRequest(t, sealed, "s3cret"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"restored":3}`, rec.Body.String())
	assert.Equal(t, store.SeedNotes(), ns.List())
}

func TestBackupRequiresPassphrase(t *testing.T) {
	mux, _ := setupBackupHandler(t, nil)

	rec := doForm(mux, http.MethodPost, "/api/backup", url.Values{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, restoreRequest(t, []byte("x"), ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
