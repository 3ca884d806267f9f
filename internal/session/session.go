package session

import (
	"github.com/google/uuid"
)

// Filter records one applied restriction: a character number and the raw
// value text the user supplied for it.
type Filter struct {
	Character int    `json:"character"`
	Value     string `json:"value"`
}

// Session is an ordered filter history identified by a stable ID. The
// filter list is the sole source of truth for identification state; the
// set of remaining items is always recomputed from it, never stored.
type Session struct {
	ID      string   `json:"session_id"`
	Filters []Filter `json:"filters"`
}

// New creates an empty session with a fresh identifier.
func New() *Session {
	return &Session{ID: uuid.NewString()}
}

// Apply appends a filter to the history.
func (s *Session) Apply(f Filter) {
	s.Filters = append(s.Filters, f)
}

// Undo removes the most recent filter. It reports false when the history
// is already empty.
func (s *Session) Undo() bool {
	if len(s.Filters) == 0 {
		return false
	}
	s.Filters = s.Filters[:len(s.Filters)-1]
	return true
}

// Reset clears the filter history, keeping the session ID.
func (s *Session) Reset() {
	s.Filters = nil
}

// Clone returns a deep copy so callers can hand sessions across goroutine
// boundaries without sharing the filter slice.
func (s *Session) Clone() *Session {
	out := &Session{ID: s.ID}
	if len(s.Filters) > 0 {
		out.Filters = make([]Filter, len(s.Filters))
		copy(out.Filters, s.Filters)
	}
	return out
}
