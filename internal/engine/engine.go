package engine

import (
	"fmt"
	"log/slog"

	"deltakey/internal/dataset"
	"deltakey/internal/delta"
	"deltakey/internal/logging"
	"deltakey/internal/session"
)

// Engine evaluates filter sessions against a shared dataset index. It holds
// no mutable state of its own; every operation recomputes the remaining
// item set by replaying the session's filter history, so undo and reset
// can never drift from the history.
type Engine struct {
	idx    *dataset.Index
	logger *slog.Logger
}

// New creates an engine over an index. A nil logger is replaced with a
// no-op logger.
func New(idx *dataset.Index, logger *slog.Logger) *Engine {
	return &Engine{
		idx:    idx,
		logger: logging.NewComponentLogger(logger, "engine"),
	}
}

// Index exposes the dataset the engine evaluates against.
func (e *Engine) Index() *dataset.Index {
	return e.idx
}

// Item looks up one taxon by number.
func (e *Engine) Item(number int) (*delta.Item, error) {
	it, ok := e.idx.Item(number)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrItemNotFound, number)
	}
	return it, nil
}

// resolveFilter validates a filter's character number and parses its value
// text against the character's declared type.
func (e *Engine) resolveFilter(f session.Filter) (*delta.Character, delta.Value, error) {
	char, ok := e.idx.Character(f.Character)
	if !ok {
		return nil, delta.Value{}, fmt.Errorf("%w: %d", ErrCharacterNotFound, f.Character)
	}
	value, err := delta.ParseValue(f.Value, char.Type)
	if err != nil {
		return nil, delta.Value{}, fmt.Errorf("%w: character %d: %v", ErrInvalidValue, f.Character, err)
	}
	return char, value, nil
}

// matchesFilter decides whether an item survives one filter. Missing,
// Unknown, and Variable codings never rule an item out; NotApplicable
// always does; concrete shapes are compared by value.
func (e *Engine) matchesFilter(item int, char *delta.Character, filter delta.Value) bool {
	attr, ok := e.idx.Attribute(item, char.Number)
	if !ok {
		return true
	}
	if attr.IsPseudo() {
		return attr.Pseudo() != delta.PseudoNotApplicable
	}
	return attr.Matches(filter)
}

// Remaining replays the session's filter history and returns the numbers
// of the items consistent with every filter, in ascending order.
func (e *Engine) Remaining(s *session.Session) ([]int, error) {
	remaining := e.idx.ItemNumbers()
	for _, f := range s.Filters {
		char, value, err := e.resolveFilter(f)
		if err != nil {
			return nil, err
		}
		kept := remaining[:0]
		for _, item := range remaining {
			if e.matchesFilter(item, char, value) {
				kept = append(kept, item)
			}
		}
		remaining = kept
	}
	return remaining, nil
}

// ApplyFilter validates and appends a filter to the session, then returns
// the new remaining-item numbers. The session is left untouched when
// validation fails.
func (e *Engine) ApplyFilter(s *session.Session, character int, value string) ([]int, error) {
	f := session.Filter{Character: character, Value: value}
	if _, _, err := e.resolveFilter(f); err != nil {
		return nil, err
	}
	s.Apply(f)
	remaining, err := e.Remaining(s)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("filter applied",
		logging.Int(logging.FieldCharacter, character),
		logging.String("value", value),
		logging.Int(logging.FieldRemaining, len(remaining)))
	return remaining, nil
}

// Undo removes the session's most recent filter and returns the restored
// remaining-item numbers. Undoing an empty history is a no-op.
func (e *Engine) Undo(s *session.Session) ([]int, error) {
	s.Undo()
	return e.Remaining(s)
}

// Reset clears the session's history and returns the full item set.
func (e *Engine) Reset(s *session.Session) ([]int, error) {
	s.Reset()
	return e.Remaining(s)
}
