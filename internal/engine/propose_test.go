package engine_test

import (
	"testing"

	"deltakey/internal/dataset"
	"deltakey/internal/delta"
	"deltakey/internal/engine"
	"deltakey/internal/session"
)

func TestProposePicksMostDiscriminatingCharacter(t *testing.T) {
	e := newEngine(t)

	proposal, err := e.Propose(session.New(), nil)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if proposal == nil {
		t.Fatal("expected a proposal")
	}
	// Characters 2 and 3 both split the full set three ways; the tie goes
	// to the lower number.
	if proposal.Character.Number != 2 {
		t.Fatalf("proposed character %d", proposal.Character.Number)
	}
	if proposal.DistinctValues != 3 || proposal.Selectivity != 3 {
		t.Fatalf("selectivity: %+v", proposal)
	}
	if proposal.RemainingItems != 3 {
		t.Fatalf("remaining items: %d", proposal.RemainingItems)
	}

	got := make([]string, 0, len(proposal.Values))
	for _, vc := range proposal.Values {
		if vc.Count != 1 {
			t.Fatalf("value count: %+v", vc)
		}
		got = append(got, vc.Value.String())
	}
	want := []string{"1", "2", "2&3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("value order: %v, want %v", got, want)
		}
	}
}

func TestProposeSkipsAppliedAndExcluded(t *testing.T) {
	e := newEngine(t)
	s := session.New()
	apply(t, e, s, 2, "2")

	proposal, err := e.Propose(s, nil)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if proposal == nil || proposal.Character.Number != 3 {
		t.Fatalf("expected character 3, got %+v", proposal)
	}

	proposal, err = e.Propose(s, []int{3})
	if err != nil {
		t.Fatalf("Propose with exclusion: %v", err)
	}
	if proposal == nil || proposal.Character.Number == 3 {
		t.Fatalf("exclusion ignored: %+v", proposal)
	}
}

func TestProposeNeverReturnsOmittedCharacter(t *testing.T) {
	e := newEngine(t)
	s := session.New()

	// Character 6 splits all three items but is flagged omit-from-key.
	for i := 0; i < 4; i++ {
		proposal, err := e.Propose(s, nil)
		if err != nil {
			t.Fatalf("Propose: %v", err)
		}
		if proposal == nil {
			break
		}
		if proposal.Character.Number == 6 {
			t.Fatal("omit-from-key character proposed")
		}
		s.Apply(session.Filter{Character: proposal.Character.Number, Value: proposal.Values[0].Value.String()})
	}
}

func TestProposeNoCandidateWhenNarrowed(t *testing.T) {
	e := newEngine(t)
	s := session.New()
	apply(t, e, s, 2, "1")

	proposal, err := e.Propose(s, nil)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if proposal != nil {
		t.Fatalf("expected no candidate with one item left, got %+v", proposal)
	}
}

func TestDependencyGating(t *testing.T) {
	e := newEngine(t)
	s := session.New()

	// Parent unfiltered: the dependent venation character stays eligible.
	proposal, err := e.Propose(s, []int{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if proposal == nil || proposal.Character.Number != 5 {
		t.Fatalf("expected venation while parent unfiltered, got %+v", proposal)
	}

	// Parent filtered to the controlling state: still eligible.
	apply(t, e, s, 4, "1")
	proposal, err = e.Propose(s, []int{1, 2, 3})
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if proposal == nil || proposal.Character.Number != 5 {
		t.Fatalf("expected venation with satisfied dependency, got %+v", proposal)
	}
}

// buildGatedIndex constructs a dataset where the controlling parent has
// been filtered but one surviving item codes the parent as Unknown, so the
// dependency can no longer be shown to hold for every remaining item.
func buildGatedIndex(t *testing.T) *dataset.Index {
	t.Helper()
	chars := `#1. forewing development/
    1. macropterous/
    2. brachypterous/
#2. forewing venation/
    1. complete/
    2. reduced/
`
	specs := `*CHARACTER TYPES 1,UM 2,UM
*DEPENDENT CHARACTERS 1,1:2
`
	items := `# Alpha/
1 1,1 2,1

# Beta/
2 1,U 2,2

# Gamma/
3 1,2
`
	db, err := delta.Parse(chars, specs, items)
	if err != nil {
		t.Fatalf("parse gated dataset: %v", err)
	}
	return dataset.New(db)
}

func TestDependencySuppressedWhenUnprovable(t *testing.T) {
	e := engine.New(buildGatedIndex(t), nil)
	s := session.New()

	remaining := apply(t, e, s, 1, "1")
	if len(remaining) != 2 {
		t.Fatalf("remaining: %v", remaining)
	}

	// Beta survived on an Unknown parent coding, so state 1 cannot be
	// shown to hold for every remaining item and venation is suppressed.
	proposal, err := e.Propose(s, nil)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if proposal != nil {
		t.Fatalf("expected no candidate, got character %d", proposal.Character.Number)
	}
}

func TestCharacterValues(t *testing.T) {
	e := newEngine(t)

	values, err := e.CharacterValues(session.New(), 6)
	if err != nil {
		t.Fatalf("CharacterValues: %v", err)
	}
	want := []string{"damp grassland", "dry heath", "woodland litter"}
	if len(values) != len(want) {
		t.Fatalf("values: %+v", values)
	}
	for i, vc := range values {
		if vc.Value.Text() != want[i] || vc.Count != 1 {
			t.Fatalf("value %d: %+v", i, vc)
		}
	}

	if _, err := e.CharacterValues(session.New(), 42); err == nil {
		t.Fatal("expected error for unknown character")
	}
}

func TestSpecimenCountExample(t *testing.T) {
	chars := `#1. number of specimens/
#2. locality/
`
	specs := "*CHARACTER TYPES 1,TE 2,TE\n"
	items := `# Taxon A/
1 1<0> 2<same place>

# Taxon B/
2 1<Carabus granulatus> 2<same place>
`
	db, err := delta.Parse(chars, specs, items)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	e := engine.New(dataset.New(db), nil)
	s := session.New()

	proposal, err := e.Propose(s, nil)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if proposal == nil || proposal.Character.Number != 1 {
		t.Fatalf("proposal: %+v", proposal)
	}
	if proposal.DistinctValues != 2 || proposal.Selectivity != 2 || proposal.RemainingItems != 2 {
		t.Fatalf("proposal stats: %+v", proposal)
	}

	remaining, err := e.ApplyFilter(s, 1, "0")
	if err != nil {
		t.Fatalf("ApplyFilter: %v", err)
	}
	if len(remaining) != 1 || remaining[0] != 1 {
		t.Fatalf("remaining: %v", remaining)
	}
	if len(s.Filters) != 1 {
		t.Fatalf("history: %v", s.Filters)
	}

	restored, err := e.Undo(s)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(restored) != 2 || len(s.Filters) != 0 {
		t.Fatalf("undo: remaining=%v filters=%v", restored, s.Filters)
	}
}

func TestRunAuto(t *testing.T) {
	e := newEngine(t)
	s := session.New()

	steps, err := e.RunAuto(s, 10)
	if err != nil {
		t.Fatalf("RunAuto: %v", err)
	}
	if len(steps) == 0 {
		t.Fatal("expected at least one step")
	}
	first := steps[0]
	if first.Character != 2 || first.Value != "1" {
		t.Fatalf("first step should take the lowest value of character 2: %+v", first)
	}
	last := steps[len(steps)-1]
	if last.Remaining > 1 {
		t.Fatalf("auto run should narrow to one item: %+v", steps)
	}

	if _, err := e.RunAuto(session.New(), 0); err == nil {
		t.Fatal("expected error for non-positive step bound")
	}
}
