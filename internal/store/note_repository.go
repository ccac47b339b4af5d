package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dukerupert/notepad/internal/model"
)

// NotesSlotKey is the slot holding the JSON-encoded note sequence.
const NotesSlotKey = "notes"

// NoteRepository loads and saves the whole note sequence at once.
type NoteRepository interface {
	Load() ([]model.Note, error)
	Save(notes []model.Note) error
}

// SlotNoteRepository keeps the sequence as a JSON array in one slot.
type SlotNoteRepository struct {
	slots  *SlotStore
	key    string
	logger *slog.Logger
}

func NewSlotNoteRepository(slots *SlotStore, logger *slog.Logger) *SlotNoteRepository {
	return &SlotNoteRepository{slots: slots, key: NotesSlotKey, logger: logger}
}

// Load returns the stored sequence. A missing or unreadable slot is an empty
// sequence, never an error; only database failures are returned.
func (r *SlotNoteRepository) Load() ([]model.Note, error) {
	slot, err := r.slots.Get(r.key)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	if slot == nil {
		return []model.Note{}, nil
	}

	notes, err := DecodeNotes([]byte(slot.Value))
	if err != nil {
		r.logger.Warn("discarding unreadable notes slot", "key", r.key, "error", err)
		return []model.Note{}, nil
	}
	return notes, nil
}

func (r *SlotNoteRepository) Save(notes []model.Note) error {
	data, err := EncodeNotes(notes)
	if err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
	if err := r.slots.Set(r.key, string(data)); err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
	return nil
}

// EncodeNotes renders the sequence in the stored layout. A nil sequence
// encodes as an empty array.
func EncodeNotes(notes []model.Note) ([]byte, error) {
	if notes == nil {
		notes = []model.Note{}
	}
	return json.Marshal(notes)
}

// DecodeNotes parses the stored layout leniently. The top-level value must
// be an array (or null). Elements that are not objects are dropped; fields
// that are missing or of the wrong type are left at their zero value.
func DecodeNotes(data []byte) ([]model.Note, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}

	notes := make([]model.Note, 0, len(raw))
	for _, elem := range raw {
		if !bytes.HasPrefix(bytes.TrimSpace(elem), []byte("{")) {
			continue
		}
		var n model.Note
		err := json.Unmarshal(elem, &n)
		var typeErr *json.UnmarshalTypeError
		if err != nil && !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("decode note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// MemoryNoteRepository holds the sequence in memory. It backs the
// seeded-demo mode and tests.
type MemoryNoteRepository struct {
	mu    sync.Mutex
	notes []model.Note
	saves int
}

func NewMemoryNoteRepository(initial []model.Note) *MemoryNoteRepository {
	return &MemoryNoteRepository{notes: cloneNotes(initial)}
}

func (r *MemoryNoteRepository) Load() ([]model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneNotes(r.notes), nil
}

func (r *MemoryNoteRepository) Save(notes []model.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = cloneNotes(notes)
	r.saves++
	return nil
}

// Saves returns how many times Save has been called.
func (r *MemoryNoteRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func cloneNotes(notes []model.Note) []model.Note {
	out := make([]model.Note, len(notes))
	copy(out, notes)
	return out
}
