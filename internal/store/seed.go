package store

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukerupert/notepad/internal/model"
)

// Mode selects where the note sequence comes from at startup.
type Mode string

const (
	// ModePersisted reads and writes the notes slot in SQLite.
	ModePersisted Mode = "persisted"
	// ModeSeededDemo starts from SeedNotes and keeps everything in memory.
	ModeSeededDemo Mode = "seeded-demo"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModePersisted:
		return ModePersisted, nil
	case ModeSeededDemo:
		return ModeSeededDemo, nil
	default:
		return "", fmt.Errorf("unknown mode %q: want %q or %q", s, ModePersisted, ModeSeededDemo)
	}
}

// SeedNotes returns the fixed demo sequence, most recent first.
func SeedNotes() []model.Note {
	return []model.Note{
		{
			ID:      1,
			Title:   "Meeting Notes",
			Content: "Discuss the project roadmap and assign owners for each milestone.",
			Date:    "2024-01-15",
			Starred: true,
		},
		{
			ID:      2,
			Title:   "Ideas",
			Content: "A reading list app that tracks quotes alongside the books they came from.",
			Date:    "2024-01-14",
			Starred: false,
		},
		{
			ID:      3,
			Title:   "Shopping List",
			Content: "Milk, eggs, bread, coffee beans.",
			Date:    "2024-01-13",
			Starred: false,
		},
	}
}

// NewNoteRepository returns the repository backing the given mode. slots
// may be nil in ModeSeededDemo.
func NewNoteRepository(mode Mode, slots *SlotStore, logger *slog.Logger) (NoteRepository, error) {
	switch mode {
	case ModePersisted:
		if slots == nil {
			return nil, fmt.Errorf("mode %q needs a slot store", mode)
		}
		return NewSlotNoteRepository(slots, logger), nil
	case ModeSeededDemo:
		return NewMemoryNoteRepository(SeedNotes()), nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}
