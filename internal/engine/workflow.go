package engine

import (
	"fmt"

	"deltakey/internal/logging"
	"deltakey/internal/session"
)

// AutoStep records one round of the automated identification loop.
type AutoStep struct {
	Character int
	Value     string
	Remaining int
}

// RunAuto drives the identification loop without user input: propose,
// take the first listed value, apply it, repeat. The loop stops when no
// proposal is available, the remaining set is down to one item or fewer,
// or maxSteps filters have been applied.
func (e *Engine) RunAuto(s *session.Session, maxSteps int) ([]AutoStep, error) {
	if maxSteps <= 0 {
		return nil, fmt.Errorf("max steps must be positive, got %d", maxSteps)
	}

	var steps []AutoStep
	for len(steps) < maxSteps {
		proposal, err := e.Propose(s, nil)
		if err != nil {
			return steps, err
		}
		if proposal == nil {
			break
		}

		value := proposal.Values[0].Value.String()
		remaining, err := e.ApplyFilter(s, proposal.Character.Number, value)
		if err != nil {
			return steps, err
		}
		steps = append(steps, AutoStep{
			Character: proposal.Character.Number,
			Value:     value,
			Remaining: len(remaining),
		})
		if len(remaining) <= 1 {
			break
		}
	}

	e.logger.Info("automated identification finished",
		logging.Int("steps", len(steps)),
		logging.String(logging.FieldSessionID, s.ID))
	return steps, nil
}
