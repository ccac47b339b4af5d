package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/notepad/internal/model"
)

// SlotStore is a single-writer key/value table. Each key holds one opaque
// string value that is replaced wholesale on every write.
type SlotStore struct {
	db *sql.DB
}

func NewSlotStore(db *sql.DB) *SlotStore {
	return &SlotStore{db: db}
}

// Get returns the slot stored under key, or nil if the key was never written.
func (s *SlotStore) Get(key string) (*model.Slot, error) {
	var slot model.Slot
	err := s.db.QueryRow(`SELECT key, value, updated_at FROM slots WHERE key = ?`, key).
		Scan(&slot.Key, &slot.Value, &slot.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %q: %w", key, err)
	}
	return &slot, nil
}

func (s *SlotStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set slot %q: %w", key, err)
	}
	return nil
}

func (s *SlotStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM slots WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete slot %q: %w", key, err)
	}
	return nil
}
