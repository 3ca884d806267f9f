package api_test

import (
	"errors"
	"testing"

	"deltakey/internal/api"
	"deltakey/internal/engine"
	"deltakey/internal/session"
	"deltakey/internal/testsupport"
)

func newService(t *testing.T) *api.KeyService {
	t.Helper()

	store, err := session.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("session.NewStore: %v", err)
	}
	eng := engine.New(testsupport.BuildIndex(t), nil)
	return api.NewKeyService(eng, session.NewManager(store), nil)
}

func TestNewSessionState(t *testing.T) {
	svc := newService(t)

	state, err := svc.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if state.SessionID == "" {
		t.Fatal("expected generated session id")
	}
	if len(state.Filters) != 0 || state.RemainingCount != 3 {
		t.Fatalf("fresh state: %+v", state)
	}
	if len(state.RemainingItems) != 3 || state.RemainingItems[0].Name != "Agonum sexpunctatum" {
		t.Fatalf("remaining items: %+v", state.RemainingItems)
	}
}

func TestApplyFilterPersistsAcrossLookups(t *testing.T) {
	svc := newService(t)
	state, err := svc.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	result, err := svc.ApplyFilter(state.SessionID, 2, "2")
	if err != nil {
		t.Fatalf("ApplyFilter: %v", err)
	}
	if result.FilterCount != 1 || result.RemainingCount != 2 {
		t.Fatalf("filter result: %+v", result)
	}

	reloaded, err := svc.State(state.SessionID)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if len(reloaded.Filters) != 1 || reloaded.Filters[0] != (api.FilterEntry{Character: 2, Value: "2"}) {
		t.Fatalf("reloaded filters: %+v", reloaded.Filters)
	}
	if reloaded.RemainingCount != 2 {
		t.Fatalf("reloaded remaining: %d", reloaded.RemainingCount)
	}
}

func TestApplyFilterRejectsInvalidValue(t *testing.T) {
	svc := newService(t)
	state, err := svc.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if _, err := svc.ApplyFilter(state.SessionID, 2, "9"); !errors.Is(err, engine.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}

	reloaded, err := svc.State(state.SessionID)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if len(reloaded.Filters) != 0 {
		t.Fatalf("rejected filter was persisted: %+v", reloaded.Filters)
	}
}

func TestUnknownSessionID(t *testing.T) {
	svc := newService(t)

	if _, err := svc.State("no-such-session"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProposeReturnsBreakdown(t *testing.T) {
	svc := newService(t)
	state, err := svc.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	resp, err := svc.Propose(state.SessionID, nil)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if resp.NoCandidate || resp.Proposal == nil {
		t.Fatalf("expected proposal, got %+v", resp)
	}
	if resp.Proposal.Character.Number != 2 || resp.Proposal.DistinctValues != 3 {
		t.Fatalf("proposal: %+v", resp.Proposal)
	}
	if resp.Proposal.Character.Description != "pronotum colour" {
		t.Fatalf("character description: %q", resp.Proposal.Character.Description)
	}
	want := []api.ValueOption{{Value: "1", Count: 1}, {Value: "2", Count: 1}, {Value: "2&3", Count: 1}}
	if len(resp.Proposal.Values) != len(want) {
		t.Fatalf("values: %+v", resp.Proposal.Values)
	}
	for i, v := range want {
		if resp.Proposal.Values[i] != v {
			t.Fatalf("value %d: got %+v, want %+v", i, resp.Proposal.Values[i], v)
		}
	}
}

func TestProposeNoCandidateWhenNarrowed(t *testing.T) {
	svc := newService(t)
	state, err := svc.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if _, err := svc.ApplyFilter(state.SessionID, 2, "1"); err != nil {
		t.Fatalf("ApplyFilter: %v", err)
	}

	resp, err := svc.Propose(state.SessionID, nil)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if !resp.NoCandidate || resp.Proposal != nil {
		t.Fatalf("expected no candidate, got %+v", resp)
	}
}

func TestValuesBreakdown(t *testing.T) {
	svc := newService(t)
	state, err := svc.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	resp, err := svc.Values(state.SessionID, 3)
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	if resp.Character.Number != 3 || resp.Character.Units != "mm" {
		t.Fatalf("character: %+v", resp.Character)
	}
	if resp.RemainingItems != 3 || len(resp.Values) != 3 {
		t.Fatalf("breakdown: %+v", resp)
	}
	if resp.Values[0].Value != "6-8.5" {
		t.Fatalf("values not in ascending order: %+v", resp.Values)
	}
}

func TestUndoAndReset(t *testing.T) {
	svc := newService(t)
	state, err := svc.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if _, err := svc.ApplyFilter(state.SessionID, 2, "2"); err != nil {
		t.Fatalf("ApplyFilter: %v", err)
	}
	if _, err := svc.ApplyFilter(state.SessionID, 4, "1"); err != nil {
		t.Fatalf("ApplyFilter: %v", err)
	}

	result, err := svc.Undo(state.SessionID)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if result.FilterCount != 1 || result.RemainingCount != 2 {
		t.Fatalf("after undo: %+v", result)
	}

	result, err = svc.Reset(state.SessionID)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if result.FilterCount != 0 || result.RemainingCount != 3 {
		t.Fatalf("after reset: %+v", result)
	}
}

func TestIdentifyNarrowsToOneItem(t *testing.T) {
	svc := newService(t)
	state, err := svc.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	result, err := svc.Identify(state.SessionID, 10)
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if len(result.Steps) != 1 {
		t.Fatalf("steps: %+v", result.Steps)
	}
	if result.Steps[0] != (api.IdentifyStep{Character: 2, Value: "1", Remaining: 1}) {
		t.Fatalf("first step: %+v", result.Steps[0])
	}
	if len(result.RemainingItems) != 1 || result.RemainingItems[0].Name != "Pterostichus niger" {
		t.Fatalf("remaining items: %+v", result.RemainingItems)
	}

	reloaded, err := svc.State(state.SessionID)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if len(reloaded.Filters) != 1 {
		t.Fatalf("identify steps not persisted: %+v", reloaded.Filters)
	}
}

func TestSessionListAndDelete(t *testing.T) {
	svc := newService(t)
	state, err := svc.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	list, err := svc.Sessions()
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(list.Sessions) != 1 || list.Sessions[0] != state.SessionID {
		t.Fatalf("session list: %+v", list)
	}

	if err := svc.DeleteSession(state.SessionID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := svc.State(state.SessionID); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDatasetCatalog(t *testing.T) {
	svc := newService(t)

	chars := svc.Characters()
	if len(chars) != 6 {
		t.Fatalf("characters: %d", len(chars))
	}
	if !chars[1].Mandatory || chars[1].TypeLabel != "unordered multistate" {
		t.Fatalf("character 2: %+v", chars[1])
	}
	if !chars[5].OmitFromKey {
		t.Fatalf("character 6: %+v", chars[5])
	}

	items := svc.Items()
	if len(items) != 3 || items[2].Name != "Amara aenea" {
		t.Fatalf("items: %+v", items)
	}

	item, err := svc.Item(2)
	if err != nil || item.Name != "Pterostichus niger" {
		t.Fatalf("item 2: %+v err=%v", item, err)
	}
	if _, err := svc.Item(99); !errors.Is(err, engine.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}

	stats := svc.Stats()
	if stats.Characters != 6 || stats.Items != 3 || stats.Dependencies != 1 {
		t.Fatalf("stats: %+v", stats)
	}
}
