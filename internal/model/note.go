package model

import (
	"strings"
	"time"
)

const (
	DefaultNoteTitle   = "New Note"
	DefaultNoteContent = "Start writing..."

	// DateLayout is the calendar-day format of Note.Date.
	DateLayout = "2006-01-02"
)

// Note is the single persisted record. The JSON field names are the stored
// layout and must not change.
type Note struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
	Starred bool   `json:"starred"`
}

// NewNote builds a note with the default title and content, dated on the
// calendar day of now in now's location.
func NewNote(id int64, now time.Time) Note {
	return Note{
		ID:      id,
		Title:   DefaultNoteTitle,
		Content: DefaultNoteContent,
		Date:    now.Format(DateLayout),
		Starred: false,
	}
}

// NotePatch is a partial field change. Nil fields are left untouched.
type NotePatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Starred *bool   `json:"starred,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Starred == nil
}

// Apply returns a copy of n with the patch applied. ID and Date never change.
// Invalid UTF-8 in text fields becomes U+FFFD, as it would once encoded.
func (p NotePatch) Apply(n Note) Note {
	if p.Title != nil {
		n.Title = validText(*p.Title)
	}
	if p.Content != nil {
		n.Content = validText(*p.Content)
	}
	if p.Starred != nil {
		n.Starred = *p.Starred
	}
	return n
}

func validText(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}
