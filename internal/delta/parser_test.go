package delta_test

import (
	"errors"
	"strings"
	"testing"

	"deltakey/internal/delta"
)

const (
	beetleChars = `*SHOW Carabid beetle key

#1. number of elytral spots/
#2. pronotum colour/
    1. black/
    2. metallic green/
    3. reddish/
#3. body length/
    mm/
#4. wings <development>/
    1. full/
    2. reduced/
#5. wing venation/
    1. complete/
    2. interrupted/
#6. habitat notes/
`

	beetleSpecs = `*CHARACTER TYPES 1,IN 2,UM 3,RN 4,UM 5,OM 6,TE
*NUMBERS OF STATES 2,3 4-5,2
*MANDATORY CHARACTERS 2
*OMIT CHARACTERS FROM KEY 6
*IMPLICIT VALUES 2,1
*DEPENDENT CHARACTERS 4,1:5
`

	beetleItems = `# \i{}Agonum\i0{} sexpunctatum/ <six-spotted>
1 1,6 2,2 3,7.5-9 4,1 5,1
6<damp grassland>

# Pterostichus niger/
2 1,0 2,1 3,15-21
4,2 5,- 6<woodland litter>

# Amara aenea/
3 1,U 2,2&3 3,6-8.5 4,1 5,2 6<dry heath>
`
)

func parseBeetles(t *testing.T) *delta.Database {
	t.Helper()
	db, err := delta.Parse(beetleChars, beetleSpecs, beetleItems)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return db
}

func TestParseCharacters(t *testing.T) {
	db := parseBeetles(t)

	if len(db.Characters) != 6 {
		t.Fatalf("expected 6 characters, got %d", len(db.Characters))
	}
	wantTypes := map[int]delta.CharacterType{
		1: delta.TypeInteger,
		2: delta.TypeUnorderedMultistate,
		3: delta.TypeReal,
		4: delta.TypeUnorderedMultistate,
		5: delta.TypeOrderedMultistate,
		6: delta.TypeText,
	}
	for _, c := range db.Characters {
		if c.Type != wantTypes[c.Number] {
			t.Errorf("character %d: type %s, want %s", c.Number, c.Type, wantTypes[c.Number])
		}
	}

	colour := db.Characters[1]
	if colour.Description != "pronotum colour" {
		t.Errorf("character 2 description: %q", colour.Description)
	}
	if len(colour.States) != 3 || colour.States[2].Description != "reddish" {
		t.Errorf("character 2 states: %+v", colour.States)
	}
	if !colour.Mandatory || colour.Implicit != 1 || colour.MaxStates != 3 {
		t.Errorf("character 2 flags: mandatory=%v implicit=%d max=%d", colour.Mandatory, colour.Implicit, colour.MaxStates)
	}

	if db.Characters[2].Units != "mm" {
		t.Errorf("character 3 units: %q", db.Characters[2].Units)
	}
	if db.Characters[3].Description != "wings <development>" {
		t.Errorf("character 4 markup not preserved: %q", db.Characters[3].Description)
	}
	if !db.Characters[5].OmitFromKey {
		t.Error("character 6 should be omitted from key")
	}
}

func TestParseDependencies(t *testing.T) {
	db := parseBeetles(t)
	want := delta.Dependency{ParentCharacter: 4, ParentState: 1, DependentCharacter: 5}
	if len(db.Dependencies) != 1 || db.Dependencies[0] != want {
		t.Fatalf("dependencies = %+v, want [%+v]", db.Dependencies, want)
	}
}

func TestParseItems(t *testing.T) {
	db := parseBeetles(t)

	if len(db.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(db.Items))
	}
	first := db.Items[0]
	if first.Number != 1 || !strings.Contains(first.Name, `\i{}Agonum\i0{}`) {
		t.Errorf("item 1 header: %+v", first)
	}
	if first.Comment != "six-spotted" {
		t.Errorf("item 1 comment: %q", first.Comment)
	}

	attr := func(item, char int) delta.Value {
		for _, a := range db.Attributes {
			if a.Item == item && a.Character == char {
				return a.Value
			}
		}
		t.Fatalf("no attribute for item %d character %d", item, char)
		return delta.Value{}
	}

	if got := attr(1, 3).String(); got != "7.5-9" {
		t.Errorf("item 1 length: %q", got)
	}
	if got := attr(3, 2).String(); got != "2&3" {
		t.Errorf("item 3 colour: %q", got)
	}
	if v := attr(3, 1); v.Pseudo() != delta.PseudoUnknown {
		t.Errorf("item 3 spots should be unknown, got %s", v)
	}
	if v := attr(2, 5); v.Pseudo() != delta.PseudoNotApplicable {
		t.Errorf("item 2 venation should be not applicable, got %s", v)
	}
	if got := attr(2, 6).Text(); got != "woodland litter" {
		t.Errorf("item 2 habitat: %q", got)
	}
	if got := attr(2, 1).Integer(); got != 0 {
		t.Errorf("item 2 spots: %d", got)
	}
}

func TestParseCollectsAllErrors(t *testing.T) {
	chars := `#1. first/
    1. one/
    1. duplicated/
#2. second <unterminated
`
	specs := `*CHARACTER TYPES 1,XX 9,IN
*DEPENDENT CHARACTERS 1,1:7
`
	items := `2 2,1

# Broken coding/
1 1,9-7 1,1 8,1
`
	_, err := delta.Parse(chars, specs, items)
	if err == nil {
		t.Fatal("expected parse errors")
	}
	var list delta.ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("expected ErrorList, got %T", err)
	}

	wants := []struct {
		section delta.Section
		substr  string
	}{
		{delta.SectionCharacters, "unique state number"},
		{delta.SectionCharacters, "closing '>'"},
		{delta.SectionSpecs, "character type code"},
		{delta.SectionSpecs, "declared character number"},
		{delta.SectionSpecs, "declared dependent character"},
		{delta.SectionItems, "item header before codings"},
		{delta.SectionItems, "value for character 1"},
		{delta.SectionItems, "declared character number"},
	}
	for _, w := range wants {
		found := false
		for _, e := range list {
			if e.Section == w.section && strings.Contains(e.Error(), w.substr) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing %s error containing %q in:\n%v", w.section, w.substr, err)
		}
	}
}

func TestParseDuplicateCoding(t *testing.T) {
	chars := "#1. size/\n"
	specs := "*CHARACTER TYPES 1,IN\n"
	items := "# A/\n1 1,2 1,3\n"
	_, err := delta.Parse(chars, specs, items)
	if err == nil || !strings.Contains(err.Error(), "single coding per item and character") {
		t.Fatalf("expected duplicate coding error, got %v", err)
	}
}

func TestParseUndeclaredState(t *testing.T) {
	chars := "#1. colour/\n    1. pale/\n    2. dark/\n"
	specs := "*CHARACTER TYPES 1,UM\n"
	items := "# A/\n1 1,5\n"
	_, err := delta.Parse(chars, specs, items)
	if err == nil || !strings.Contains(err.Error(), "declared state of character 1") {
		t.Fatalf("expected undeclared state error, got %v", err)
	}
}

func TestParseUnterminatedTextValue(t *testing.T) {
	chars := "#1. notes/\n"
	specs := "*CHARACTER TYPES 1,TE\n"
	items := "# A/\n1 1<never closed\n"
	_, err := delta.Parse(chars, specs, items)
	if err == nil || !strings.Contains(err.Error(), "closing '>' for text value") {
		t.Fatalf("expected unterminated text error, got %v", err)
	}
}

func TestParseMultilineDescription(t *testing.T) {
	chars := "#1. shape of the\n    pronotal margin/\n    1. straight/\n    2. sinuate/\n"
	specs := "*CHARACTER TYPES 1,UM\n"
	items := "# A/\n1 1,2\n"
	db, err := delta.Parse(chars, specs, items)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := db.Characters[0].Description; got != "shape of the pronotal margin" {
		t.Fatalf("joined description: %q", got)
	}
}
