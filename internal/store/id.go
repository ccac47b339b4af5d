package store

import (
	"time"

	"github.com/dukerupert/notepad/internal/model"
)

// IDGenerator issues note ids from the wall clock in milliseconds. Ids are
// strictly increasing across calls and never collide with an id already in
// the sequence, even when the clock stalls or steps backwards.
type IDGenerator struct {
	now  func() time.Time
	last int64
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh id not present in existing.
func (g *IDGenerator) Next(existing []model.Note) int64 {
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}

	taken := make(map[int64]struct{}, len(existing))
	for _, n := range existing {
		taken[n.ID] = struct{}{}
	}
	for {
		if _, ok := taken[id]; !ok {
			break
		}
		id++
	}

	g.last = id
	return id
}
