package api

import (
	"log/slog"

	"deltakey/internal/engine"
	"deltakey/internal/logging"
	"deltakey/internal/session"
)

// KeyService exposes identification operations over DTOs so transports
// stay free of engine and session internals. Session mutations run inside
// the manager's per-session update lock, so concurrent requests against
// one session serialize instead of clobbering each other's history.
type KeyService struct {
	eng      *engine.Engine
	sessions *session.Manager
	logger   *slog.Logger
}

// NewKeyService builds a service over an engine and a session manager.
func NewKeyService(eng *engine.Engine, sessions *session.Manager, logger *slog.Logger) *KeyService {
	return &KeyService{
		eng:      eng,
		sessions: sessions,
		logger:   logging.NewComponentLogger(logger, "api"),
	}
}

// NewSession creates and persists an empty session.
func (s *KeyService) NewSession() (SessionState, error) {
	sess, err := s.sessions.Create()
	if err != nil {
		return SessionState{}, err
	}
	s.logger.Info("session created", logging.String(logging.FieldSessionID, sess.ID))
	return s.stateOf(sess)
}

// State returns the stored history and recomputed remaining items for a session.
func (s *KeyService) State(id string) (SessionState, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return SessionState{}, err
	}
	return s.stateOf(sess)
}

// ApplyFilter appends one filter to the session history. The history is
// untouched when the filter fails validation.
func (s *KeyService) ApplyFilter(id string, character int, value string) (FilterResult, error) {
	var remaining []int
	sess, err := s.sessions.Update(id, func(sess *session.Session) error {
		var applyErr error
		remaining, applyErr = s.eng.ApplyFilter(sess, character, value)
		return applyErr
	})
	if err != nil {
		return FilterResult{}, err
	}
	s.logger.Info("filter applied",
		logging.String(logging.FieldSessionID, id),
		logging.Int(logging.FieldCharacter, character),
		logging.String("value", value),
		logging.Int(logging.FieldRemaining, len(remaining)))
	return FilterResult{SessionID: sess.ID, FilterCount: len(sess.Filters), RemainingCount: len(remaining)}, nil
}

// Undo removes the most recent filter. Undo on an empty history is a no-op.
func (s *KeyService) Undo(id string) (FilterResult, error) {
	var remaining []int
	sess, err := s.sessions.Update(id, func(sess *session.Session) error {
		var undoErr error
		remaining, undoErr = s.eng.Undo(sess)
		return undoErr
	})
	if err != nil {
		return FilterResult{}, err
	}
	return FilterResult{SessionID: sess.ID, FilterCount: len(sess.Filters), RemainingCount: len(remaining)}, nil
}

// Reset clears the session history.
func (s *KeyService) Reset(id string) (FilterResult, error) {
	var remaining []int
	sess, err := s.sessions.Update(id, func(sess *session.Session) error {
		var resetErr error
		remaining, resetErr = s.eng.Reset(sess)
		return resetErr
	})
	if err != nil {
		return FilterResult{}, err
	}
	return FilterResult{SessionID: sess.ID, FilterCount: len(sess.Filters), RemainingCount: len(remaining)}, nil
}

// Propose returns the most discriminating unapplied character, or the
// no-candidate response when identification cannot be narrowed further.
func (s *KeyService) Propose(id string, exclude []int) (ProposalResponse, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return ProposalResponse{}, err
	}
	proposal, err := s.eng.Propose(sess, exclude)
	if err != nil {
		return ProposalResponse{}, err
	}
	return FromProposal(proposal), nil
}

// Values reports the distinct value breakdown of one character across the
// session's remaining items.
func (s *KeyService) Values(id string, character int) (ValuesResponse, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return ValuesResponse{}, err
	}
	values, err := s.eng.CharacterValues(sess, character)
	if err != nil {
		return ValuesResponse{}, err
	}
	remaining, err := s.eng.Remaining(sess)
	if err != nil {
		return ValuesResponse{}, err
	}
	char, _ := s.eng.Index().Character(character)
	return ValuesResponse{
		Character:      FromCharacter(char),
		RemainingItems: len(remaining),
		Values:         FromValueCounts(values),
	}, nil
}

// Identify runs the automated loop, persisting each accepted filter, and
// reports the steps taken plus the final remaining items.
func (s *KeyService) Identify(id string, maxSteps int) (IdentifyResult, error) {
	var steps []engine.AutoStep
	sess, err := s.sessions.Update(id, func(sess *session.Session) error {
		var runErr error
		steps, runErr = s.eng.RunAuto(sess, maxSteps)
		return runErr
	})
	if err != nil {
		return IdentifyResult{}, err
	}

	remaining, err := s.eng.Remaining(sess)
	if err != nil {
		return IdentifyResult{}, err
	}
	out := IdentifyResult{
		SessionID:      sess.ID,
		Steps:          make([]IdentifyStep, 0, len(steps)),
		RemainingItems: itemSummaries(s.eng.Index(), remaining),
	}
	for _, step := range steps {
		out.Steps = append(out.Steps, IdentifyStep{
			Character: step.Character,
			Value:     step.Value,
			Remaining: step.Remaining,
		})
	}
	s.logger.Info("automatic identification finished",
		logging.String(logging.FieldSessionID, id),
		logging.Int("steps", len(out.Steps)),
		logging.Int(logging.FieldRemaining, len(remaining)))
	return out, nil
}

// Sessions lists stored session identifiers.
func (s *KeyService) Sessions() (SessionListResponse, error) {
	ids, err := s.sessions.List()
	if err != nil {
		return SessionListResponse{}, err
	}
	return SessionListResponse{Sessions: ids}, nil
}

// DeleteSession removes a stored session.
func (s *KeyService) DeleteSession(id string) error {
	return s.sessions.Delete(id)
}

// Characters lists every character in the loaded dataset.
func (s *KeyService) Characters() []CharacterSummary {
	idx := s.eng.Index()
	out := make([]CharacterSummary, 0, len(idx.CharacterNumbers()))
	for _, n := range idx.CharacterNumbers() {
		if c, ok := idx.Character(n); ok {
			out = append(out, FromCharacter(c))
		}
	}
	return out
}

// Items lists every item in the loaded dataset.
func (s *KeyService) Items() []ItemSummary {
	idx := s.eng.Index()
	return itemSummaries(idx, idx.ItemNumbers())
}

// Item describes one taxon by number.
func (s *KeyService) Item(number int) (ItemSummary, error) {
	it, err := s.eng.Item(number)
	if err != nil {
		return ItemSummary{}, err
	}
	return FromItem(it), nil
}

// Stats summarizes the loaded dataset.
func (s *KeyService) Stats() StatsResponse {
	return FromStats(s.eng.Index().Stats())
}

func (s *KeyService) stateOf(sess *session.Session) (SessionState, error) {
	remaining, err := s.eng.Remaining(sess)
	if err != nil {
		return SessionState{}, err
	}
	return SessionState{
		SessionID:      sess.ID,
		Filters:        FromFilters(sess.Filters),
		RemainingCount: len(remaining),
		RemainingItems: itemSummaries(s.eng.Index(), remaining),
	}, nil
}
