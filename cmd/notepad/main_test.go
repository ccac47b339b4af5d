package main

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/notepad/internal/model"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), "notepad %s", strings.Join(args, " "))
	return out.String()
}

func listNotes(t *testing.T) []model.Note {
	t.Helper()
	var notes []model.Note
	require.NoError(t, json.Unmarshal([]byte(run(t, "list", "--json")), &notes))
	return notes
}

func TestCLIWorkflow(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("NOTEPAD_DB_PATH", filepath.Join(dir, "notes.db"))
	t.Setenv("NOTEPAD_LOG_LEVEL", "error")
	t.Setenv("NOTEPAD_BACKUP_PASSPHRASE", "pw")

	id := strings.TrimSpace(run(t, "add", "--title", "Groceries"))
	assert.Contains(t, run(t, "star", id), "starred=true")

	notes := listNotes(t)
	require.Len(t, notes, 1)
	assert.Equal(t, "Groceries", notes[0].Title)
	assert.Equal(t, model.DefaultNoteContent, notes[0].Content)
	assert.True(t, notes[0].Starred)

	backupFile := filepath.Join(dir, "notes.bak")
	run(t, "backup", "export", backupFile)

	run(t, "delete", id)
	assert.Contains(t, run(t, "list", "--json=false"), "No notes yet")

	run(t, "backup", "import", backupFile)
	restored := listNotes(t)
	assert.Equal(t, notes, restored)
}

func TestCLISeededDemoMode(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("NOTEPAD_MODE", "seeded-demo")
	t.Setenv("NOTEPAD_LOG_LEVEL", "error")

	out := run(t, "list", "--json=false", "--query", "idea")
	assert.Contains(t, out, "Ideas")
	assert.NotContains(t, out, "Meeting Notes")
	run(t, "list", "--query", "")
}
