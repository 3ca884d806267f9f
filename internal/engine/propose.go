package engine

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"deltakey/internal/delta"
	"deltakey/internal/logging"
	"deltakey/internal/session"
)

// ValueCount pairs one distinct attribute value with the number of
// remaining items coded with it.
type ValueCount struct {
	Value delta.Value
	Count int
}

// Proposal names the next character worth asking about, with its distinct
// value breakdown over the remaining items.
type Proposal struct {
	Character      *delta.Character
	DistinctValues int
	Selectivity    float64
	RemainingItems int
	Values         []ValueCount
}

var textCollator = collate.New(language.English, collate.Loose)

// Propose computes the eligible character pool for the session and selects
// the most discriminating character: highest distinct-value count, ties
// broken by lowest character number. A nil proposal with a nil error is
// the deliberate "nothing to ask" outcome, returned when fewer than two
// items remain or no eligible character discriminates.
func (e *Engine) Propose(s *session.Session, exclude []int) (*Proposal, error) {
	remaining, err := e.Remaining(s)
	if err != nil {
		return nil, err
	}
	if len(remaining) <= 1 {
		return nil, nil
	}

	applied := make(map[int]bool, len(s.Filters))
	for _, f := range s.Filters {
		applied[f.Character] = true
	}
	excluded := make(map[int]bool, len(exclude))
	for _, n := range exclude {
		excluded[n] = true
	}

	var best *Proposal
	for _, char := range e.idx.Characters() {
		if char.OmitFromKey || applied[char.Number] || excluded[char.Number] {
			continue
		}
		if !e.dependencySatisfied(char.Number, applied, remaining) {
			continue
		}
		values := e.enumerateValues(char, remaining)
		if len(values) == 0 {
			continue
		}
		if best != nil && len(values) <= best.DistinctValues {
			continue
		}
		best = &Proposal{
			Character:      char,
			DistinctValues: len(values),
			Selectivity:    float64(len(values)),
			RemainingItems: len(remaining),
			Values:         values,
		}
	}

	if best != nil {
		e.logger.Debug("proposal computed",
			logging.Int(logging.FieldCharacter, best.Character.Number),
			logging.Int("distinct_values", best.DistinctValues),
			logging.Int(logging.FieldRemaining, best.RemainingItems))
	}
	return best, nil
}

// dependencySatisfied gates characters controlled by dependency edges. A
// character with no edges is always applicable. Otherwise at least one
// controlling (parent, state) pair must hold: either the parent has not
// been filtered yet, or every remaining item's parent coding carries the
// required state.
func (e *Engine) dependencySatisfied(character int, applied map[int]bool, remaining []int) bool {
	edges := e.idx.ControllingDependencies(character)
	if len(edges) == 0 {
		return true
	}
	for _, edge := range edges {
		if !applied[edge.ParentCharacter] {
			return true
		}
		satisfied := true
		for _, item := range remaining {
			attr, ok := e.idx.Attribute(item, edge.ParentCharacter)
			if !ok || !attr.HasState(edge.ParentState) {
				satisfied = false
				break
			}
		}
		if satisfied {
			return true
		}
	}
	return false
}

// enumerateValues collects the distinct concrete values the remaining
// items take for a character, each with its item count. Pseudo codings
// never contribute. Values are ordered ascending: numerically where the
// shape allows, collated text otherwise.
func (e *Engine) enumerateValues(char *delta.Character, remaining []int) []ValueCount {
	counts := make(map[string]*ValueCount)
	order := make([]string, 0, 4)
	for _, item := range remaining {
		attr, ok := e.idx.Attribute(item, char.Number)
		if !ok || attr.IsPseudo() {
			continue
		}
		key := attr.String()
		vc, seen := counts[key]
		if !seen {
			vc = &ValueCount{Value: attr}
			counts[key] = vc
			order = append(order, key)
		}
		vc.Count++
	}

	out := make([]ValueCount, 0, len(order))
	for _, key := range order {
		out = append(out, *counts[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		ki, iNum := out[i].Value.SortKey()
		kj, jNum := out[j].Value.SortKey()
		switch {
		case iNum && jNum:
			if ki != kj {
				return ki < kj
			}
			return out[i].Value.String() < out[j].Value.String()
		case iNum:
			return true
		case jNum:
			return false
		}
		return textCollator.CompareString(out[i].Value.String(), out[j].Value.String()) < 0
	})
	return out
}

// CharacterValues returns the distinct-value breakdown for one character
// against the session's remaining items, whether or not the character
// would be proposed.
func (e *Engine) CharacterValues(s *session.Session, character int) ([]ValueCount, error) {
	char, ok := e.idx.Character(character)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrCharacterNotFound, character)
	}
	remaining, err := e.Remaining(s)
	if err != nil {
		return nil, err
	}
	return e.enumerateValues(char, remaining), nil
}
