// Package backup exports the note sequence as a passphrase-encrypted blob
// and restores it.
package backup

import (
	"fmt"

	"github.com/dukerupert/notepad/internal/model"
	"github.com/dukerupert/notepad/internal/store"
)

// Notes is the part of the note store a backup needs.
type Notes interface {
	List() []model.Note
	Replace(notes []model.Note) error
}

// Export seals the current sequence in its stored JSON layout.
func Export(notes Notes, passphrase string) ([]byte, error) {
	data, err := store.EncodeNotes(notes.List())
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	sealed, err := Seal(data, passphrase)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return sealed, nil
}

// Import opens a sealed backup and replaces the sequence with its contents,
// returning how many notes were restored. Unlike a startup load, unreadable
// contents are an error: nothing is replaced.
func Import(notes Notes, sealed []byte, passphrase string) (int, error) {
	data, err := Open(sealed, passphrase)
	if err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	restored, err := store.DecodeNotes(data)
	if err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	if err := notes.Replace(restored); err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	return len(restored), nil
}
