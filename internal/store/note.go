package store

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dukerupert/notepad/internal/model"
)

// ErrDuplicateID is returned by Replace when two notes share an id.
var ErrDuplicateID = errors.New("duplicate note id")

// NoteStore owns the ordered note sequence and writes it through to its
// repository after every mutation. A failed write leaves the in-memory
// sequence unchanged.
type NoteStore struct {
	mu     sync.Mutex
	repo   NoteRepository
	notes  []model.Note
	ids    *IDGenerator
	now    func() time.Time
	loc    *time.Location
	logger *slog.Logger
}

type NoteStoreOption func(*NoteStore)

// WithClock replaces time.Now for id generation and note dates.
func WithClock(now func() time.Time) NoteStoreOption {
	return func(s *NoteStore) { s.now = now }
}

// WithLocation sets the zone whose calendar day becomes a new note's date.
func WithLocation(loc *time.Location) NoteStoreOption {
	return func(s *NoteStore) { s.loc = loc }
}

func WithLogger(logger *slog.Logger) NoteStoreOption {
	return func(s *NoteStore) { s.logger = logger }
}

func NewNoteStore(repo NoteRepository, opts ...NoteStoreOption) *NoteStore {
	s := &NoteStore{
		repo:   repo,
		notes:  []model.Note{},
		now:    time.Now,
		loc:    time.Local,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ids = NewIDGenerator(s.now)
	return s
}

// Load replaces the in-memory sequence with the repository's contents.
func (s *NoteStore) Load() ([]model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.repo.Load()
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []model.Note{}
	}
	if dup, ok := firstDuplicate(notes); ok {
		s.logger.Warn("stored notes contain a duplicate id", "id", dup)
	}
	s.notes = notes
	s.logger.Debug("notes loaded", "count", len(notes))
	return cloneNotes(s.notes), nil
}

// List returns a copy of the current sequence.
func (s *NoteStore) List() []model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneNotes(s.notes)
}

func (s *NoteStore) Get(id int64) (model.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.notes[i], true
	}
	return model.Note{}, false
}

// Create prepends a note with default fields and persists the sequence.
func (s *NoteStore) Create() (model.Note, error) {
	return s.CreateWith(model.NotePatch{})
}

// CreateWith is Create with patch applied to the defaults before the single
// write, so a failed write leaves no half-made note behind.
func (s *NoteStore) CreateWith(patch model.NotePatch) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note := patch.Apply(model.NewNote(s.ids.Next(s.notes), s.now().In(s.loc)))

	next := make([]model.Note, 0, len(s.notes)+1)
	next = append(next, note)
	next = append(next, s.notes...)
	if err := s.commit(next); err != nil {
		return model.Note{}, fmt.Errorf("create note: %w", err)
	}

	s.logger.Info("note created", "id", note.ID)
	return note, nil
}

// Update applies patch to the note with the given id. An unknown id changes
// nothing and is not an error; the sequence is persisted either way.
func (s *NoteStore) Update(id int64, patch model.NotePatch) (model.Note, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(id, func(model.Note) model.NotePatch { return patch })
}

// ToggleStar flips the starred flag of the note with the given id.
func (s *NoteStore) ToggleStar(id int64) (model.Note, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(id, func(n model.Note) model.NotePatch {
		starred := !n.Starred
		return model.NotePatch{Starred: &starred}
	})
}

func (s *NoteStore) update(id int64, patchFor func(model.Note) model.NotePatch) (model.Note, bool, error) {
	next := cloneNotes(s.notes)
	i := s.indexOf(id)
	if i >= 0 {
		next[i] = patchFor(next[i]).Apply(next[i])
	}
	if err := s.commit(next); err != nil {
		return model.Note{}, false, fmt.Errorf("update note %d: %w", id, err)
	}
	if i < 0 {
		s.logger.Debug("update of unknown note ignored", "id", id)
		return model.Note{}, false, nil
	}
	return next[i], true, nil
}

// Delete removes the note with the given id, reporting whether one was
// removed. The sequence is persisted either way.
func (s *NoteStore) Delete(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	next := make([]model.Note, 0, len(s.notes))
	next = append(next, s.notes...)
	if i >= 0 {
		next = append(next[:i], next[i+1:]...)
	}
	if err := s.commit(next); err != nil {
		return false, fmt.Errorf("delete note %d: %w", id, err)
	}
	if i >= 0 {
		s.logger.Info("note deleted", "id", id)
	}
	return i >= 0, nil
}

// Select returns the note a view should display given the id it was showing:
// that note if it still exists, otherwise the first note. ok is false when
// the sequence is empty.
func (s *NoteStore) Select(current int64) (model.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(current); i >= 0 {
		return s.notes[i], true
	}
	if len(s.notes) == 0 {
		return model.Note{}, false
	}
	return s.notes[0], true
}

// Search returns the notes whose title or content contains query, ignoring
// case, in sequence order. An empty query matches everything.
func (s *NoteStore) Search(query string) []model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterNotes(s.notes, query)
}

// Replace swaps in a whole new sequence, as a backup restore does.
func (s *NoteStore) Replace(notes []model.Note) error {
	if dup, ok := firstDuplicate(notes); ok {
		return fmt.Errorf("replace notes: %w: %d", ErrDuplicateID, dup)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(cloneNotes(notes)); err != nil {
		return fmt.Errorf("replace notes: %w", err)
	}
	s.logger.Info("notes replaced", "count", len(notes))
	return nil
}

// FilterNotes is the matching rule behind Search.
func FilterNotes(notes []model.Note, query string) []model.Note {
	out := make([]model.Note, 0, len(notes))
	q := strings.ToLower(query)
	for _, n := range notes {
		if q == "" ||
			strings.Contains(strings.ToLower(n.Title), q) ||
			strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	return out
}

func (s *NoteStore) commit(next []model.Note) error {
	if err := s.repo.Save(next); err != nil {
		return err
	}
	s.notes = next
	return nil
}

func (s *NoteStore) indexOf(id int64) int {
	for i, n := range s.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func firstDuplicate(notes []model.Note) (int64, bool) {
	seen := make(map[int64]struct{}, len(notes))
	for _, n := range notes {
		if _, ok := seen[n.ID]; ok {
			return n.ID, true
		}
		seen[n.ID] = struct{}{}
	}
	return 0, false
}
