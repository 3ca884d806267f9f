package delta_test

import (
	"testing"

	"deltakey/internal/delta"
)

func TestParseValuePseudoTokensTakePrecedence(t *testing.T) {
	for _, token := range []string{"U", "V", "-"} {
		for _, ctype := range []delta.CharacterType{delta.TypeText, delta.TypeInteger, delta.TypeReal, delta.TypeUnorderedMultistate} {
			v, err := delta.ParseValue(token, ctype)
			if err != nil {
				t.Fatalf("ParseValue(%q, %s) failed: %v", token, ctype, err)
			}
			if !v.IsPseudo() {
				t.Fatalf("ParseValue(%q, %s): expected pseudo value, got kind %d", token, ctype, v.Kind())
			}
			if v.String() != token {
				t.Fatalf("pseudo token round-trip: got %q, want %q", v.String(), token)
			}
		}
	}
}

func TestParseValueScalars(t *testing.T) {
	v, err := delta.ParseValue("5", delta.TypeInteger)
	if err != nil {
		t.Fatalf("integer parse failed: %v", err)
	}
	if v.Kind() != delta.KindInteger || v.Integer() != 5 {
		t.Fatalf("unexpected integer value: %#v", v)
	}

	v, err = delta.ParseValue("7.25", delta.TypeReal)
	if err != nil {
		t.Fatalf("real parse failed: %v", err)
	}
	if v.Kind() != delta.KindReal || v.Real() != 7.25 {
		t.Fatalf("unexpected real value: %#v", v)
	}

	v, err = delta.ParseValue("  dark brown  ", delta.TypeText)
	if err != nil {
		t.Fatalf("text parse failed: %v", err)
	}
	if v.Text() != "dark brown" {
		t.Fatalf("text not trimmed: %q", v.Text())
	}

	if _, err := delta.ParseValue("abc", delta.TypeInteger); err == nil {
		t.Fatal("expected error for non-numeric integer value")
	}
	if _, err := delta.ParseValue("", delta.TypeText); err == nil {
		t.Fatal("expected error for empty value")
	}
}

func TestParseValueRanges(t *testing.T) {
	v, err := delta.ParseValue("2-5", delta.TypeInteger)
	if err != nil {
		t.Fatalf("integer range parse failed: %v", err)
	}
	lo, hi := v.Range()
	if v.Kind() != delta.KindRange || lo != 2 || hi != 5 {
		t.Fatalf("unexpected range: %#v", v)
	}
	if v.String() != "2-5" {
		t.Fatalf("canonical integer range: got %q, want 2-5", v.String())
	}

	v, err = delta.ParseValue("7.5-9", delta.TypeReal)
	if err != nil {
		t.Fatalf("real range parse failed: %v", err)
	}
	if v.String() != "7.5-9" {
		t.Fatalf("canonical real range: got %q, want 7.5-9", v.String())
	}

	if _, err := delta.ParseValue("5-2", delta.TypeInteger); err == nil {
		t.Fatal("expected error for reversed range bounds")
	}
}

func TestParseValueMultistate(t *testing.T) {
	v, err := delta.ParseValue("3&1&3", delta.TypeUnorderedMultistate)
	if err != nil {
		t.Fatalf("multistate parse failed: %v", err)
	}
	states := v.States()
	if len(states) != 2 || states[0] != 1 || states[1] != 3 {
		t.Fatalf("expected sorted deduplicated states [1 3], got %v", states)
	}
	if v.String() != "1&3" {
		t.Fatalf("canonical multistate: got %q, want 1&3", v.String())
	}

	if _, err := delta.ParseValue("1&x", delta.TypeOrderedMultistate); err == nil {
		t.Fatal("expected error for non-numeric state")
	}
}

func TestValueMatches(t *testing.T) {
	span, err := delta.RangeValue(7.5, 9, false)
	if err != nil {
		t.Fatalf("RangeValue failed: %v", err)
	}
	cases := []struct {
		name   string
		attr   delta.Value
		filter delta.Value
		want   bool
	}{
		{"scalar in range", span, delta.IntegerValue(8), true},
		{"inclusive upper bound", span, delta.RealValue(9), true},
		{"scalar outside range", span, delta.IntegerValue(10), false},
		{"text equality", delta.TextValue("woodland"), delta.TextValue("woodland"), true},
		{"text mismatch", delta.TextValue("woodland"), delta.TextValue("heath"), false},
		{"numeric equality", delta.IntegerValue(4), delta.IntegerValue(4), true},
		{"pseudo never matches", delta.PseudoValue(delta.PseudoUnknown), delta.IntegerValue(4), false},
	}
	for _, tc := range cases {
		if got := tc.attr.Matches(tc.filter); got != tc.want {
			t.Fatalf("%s: Matches = %v, want %v", tc.name, got, tc.want)
		}
	}

	a, _ := delta.RangeValue(7, 8.5, false)
	b, _ := delta.RangeValue(8, 9, false)
	if !a.Matches(b) {
		t.Fatal("overlapping ranges should match")
	}
	c, _ := delta.RangeValue(9.1, 10, false)
	if a.Matches(c) {
		t.Fatal("disjoint ranges should not match")
	}

	set, _ := delta.StatesValue(1, 3)
	probe, _ := delta.StatesValue(3)
	miss, _ := delta.StatesValue(2)
	if !set.Matches(probe) {
		t.Fatal("state membership should match")
	}
	if set.Matches(miss) {
		t.Fatal("absent state should not match")
	}
}

func TestValueCompatibility(t *testing.T) {
	set, _ := delta.StatesValue(1)
	span, _ := delta.RangeValue(1, 2, true)
	cases := []struct {
		value delta.Value
		ctype delta.CharacterType
		want  bool
	}{
		{delta.TextValue("x"), delta.TypeText, true},
		{delta.TextValue("x"), delta.TypeInteger, false},
		{span, delta.TypeReal, true},
		{span, delta.TypeText, false},
		{set, delta.TypeUnorderedMultistate, true},
		{set, delta.TypeReal, false},
		{delta.PseudoValue(delta.PseudoVariable), delta.TypeText, true},
	}
	for _, tc := range cases {
		if got := tc.value.CompatibleWith(tc.ctype); got != tc.want {
			t.Fatalf("CompatibleWith(%s, %s) = %v, want %v", tc.value, tc.ctype, got, tc.want)
		}
	}
}

func TestStripMarkup(t *testing.T) {
	in := `\i{}Agonum\i0{} sexpunctatum <sensu lato>`
	if got := delta.StripMarkup(in); got != "Agonum sexpunctatum" {
		t.Fatalf("StripMarkup = %q", got)
	}
}
