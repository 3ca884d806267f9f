package delta

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CharacterType identifies the value domain of a character using the
// two-letter DELTA type codes.
type CharacterType string

const (
	TypeText                CharacterType = "TE"
	TypeInteger             CharacterType = "IN"
	TypeReal                CharacterType = "RN"
	TypeUnorderedMultistate CharacterType = "UM"
	TypeOrderedMultistate   CharacterType = "OM"
)

var characterTypes = map[CharacterType]string{
	TypeText:                "text",
	TypeInteger:             "integer",
	TypeReal:                "real",
	TypeUnorderedMultistate: "unordered multistate",
	TypeOrderedMultistate:   "ordered multistate",
}

// ParseCharacterType validates a raw type code. Codes are matched
// case-sensitively; anything but the five known codes is rejected.
func ParseCharacterType(code string) (CharacterType, bool) {
	t := CharacterType(code)
	_, ok := characterTypes[t]
	return t, ok
}

// Numeric reports whether the type carries integer or real values.
func (t CharacterType) Numeric() bool {
	return t == TypeInteger || t == TypeReal
}

// Multistate reports whether the type carries state-set values.
func (t CharacterType) Multistate() bool {
	return t == TypeUnorderedMultistate || t == TypeOrderedMultistate
}

// Label returns a human-readable name for the type code.
func (t CharacterType) Label() string {
	if label, ok := characterTypes[t]; ok {
		return label
	}
	return string(t)
}

// Pseudo is a non-concrete coding that never discriminates against an item.
type Pseudo string

const (
	PseudoUnknown       Pseudo = "U"
	PseudoVariable      Pseudo = "V"
	PseudoNotApplicable Pseudo = "-"
)

// ParsePseudo recognizes the literal pseudo-value tokens.
func ParsePseudo(token string) (Pseudo, bool) {
	switch Pseudo(token) {
	case PseudoUnknown, PseudoVariable, PseudoNotApplicable:
		return Pseudo(token), true
	}
	return "", false
}

// ValueKind discriminates the populated shape of a Value.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindText
	KindInteger
	KindReal
	KindRange
	KindStates
	KindPseudo
)

// Value is a tagged union over the shapes an attribute coding can take:
// an exact scalar (text, integer, or real), a numeric range, a set of
// state numbers, or a pseudo-value. Exactly one shape is populated;
// construct values through the shape constructors or ParseValue so the
// shape always agrees with the owning character's type.
type Value struct {
	kind    ValueKind
	text    string
	integer int64
	real    float64
	lo, hi  float64
	whole   bool // range bounds were written as integers
	states  []int
	pseudo  Pseudo
}

// TextValue builds an exact text scalar.
func TextValue(s string) Value {
	return Value{kind: KindText, text: s}
}

// IntegerValue builds an exact integer scalar.
func IntegerValue(n int64) Value {
	return Value{kind: KindInteger, integer: n}
}

// RealValue builds an exact real scalar.
func RealValue(f float64) Value {
	return Value{kind: KindReal, real: f}
}

// RangeValue builds an inclusive numeric range. Reversed bounds are
// rejected rather than silently swapped.
func RangeValue(lo, hi float64, whole bool) (Value, error) {
	if lo > hi {
		return Value{}, fmt.Errorf("range bounds reversed: %v > %v", lo, hi)
	}
	return Value{kind: KindRange, lo: lo, hi: hi, whole: whole}, nil
}

// StatesValue builds a multistate set from one or more state numbers.
// Duplicates are collapsed and the set is kept sorted.
func StatesValue(states ...int) (Value, error) {
	if len(states) == 0 {
		return Value{}, fmt.Errorf("multistate value needs at least one state")
	}
	set := make(map[int]struct{}, len(states))
	for _, s := range states {
		set[s] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Ints(out)
	return Value{kind: KindStates, states: out}, nil
}

// PseudoValue builds an Unknown, Variable, or NotApplicable coding.
func PseudoValue(p Pseudo) Value {
	return Value{kind: KindPseudo, pseudo: p}
}

// Kind returns the populated shape of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsZero reports whether the value carries no shape at all.
func (v Value) IsZero() bool { return v.kind == KindNone }

// IsPseudo reports whether the value is a pseudo coding.
func (v Value) IsPseudo() bool { return v.kind == KindPseudo }

// Text returns the text scalar.
func (v Value) Text() string { return v.text }

// Integer returns the integer scalar.
func (v Value) Integer() int64 { return v.integer }

// Real returns the real scalar.
func (v Value) Real() float64 { return v.real }

// Range returns the inclusive bounds of a range value.
func (v Value) Range() (lo, hi float64) { return v.lo, v.hi }

// States returns the sorted state numbers of a multistate value. The
// returned slice is shared; callers must not mutate it.
func (v Value) States() []int { return v.states }

// Pseudo returns the pseudo coding.
func (v Value) Pseudo() Pseudo { return v.pseudo }

// CompatibleWith reports whether the value's shape may be stored against
// a character of the given type.
func (v Value) CompatibleWith(t CharacterType) bool {
	switch v.kind {
	case KindPseudo:
		return true
	case KindText:
		return t == TypeText
	case KindInteger:
		// Real characters may carry whole-number scalars.
		return t.Numeric()
	case KindReal:
		return t == TypeReal
	case KindRange:
		return t.Numeric()
	case KindStates:
		return t.Multistate()
	}
	return false
}

// String renders the canonical token form of the value, matching the
// source syntax: "7.5-9" for ranges, "1&3" for state sets, the literal
// pseudo token, or the scalar itself. Canonical tokens double as
// distinctness keys in the engine.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindInteger:
		return strconv.FormatInt(v.integer, 10)
	case KindReal:
		return formatReal(v.real)
	case KindRange:
		if v.whole {
			return strconv.FormatInt(int64(v.lo), 10) + "-" + strconv.FormatInt(int64(v.hi), 10)
		}
		return formatReal(v.lo) + "-" + formatReal(v.hi)
	case KindStates:
		parts := make([]string, len(v.states))
		for i, s := range v.states {
			parts[i] = strconv.Itoa(s)
		}
		return strings.Join(parts, "&")
	case KindPseudo:
		return string(v.pseudo)
	}
	return ""
}

// Matches evaluates a concrete attribute value against a filter value.
// Pseudo and absent handling is the engine's concern; Matches only
// compares concrete shapes:
//
//   - text against text: exact string equality
//   - numeric scalar against scalar: numeric equality
//   - range against scalar: scalar within the inclusive bounds
//   - range against range (and scalar against range): interval overlap
//   - state set against state set: non-empty intersection
func (v Value) Matches(filter Value) bool {
	if v.kind == KindPseudo || filter.kind == KindPseudo {
		return false
	}
	switch v.kind {
	case KindText:
		return filter.kind == KindText && v.text == filter.text
	case KindInteger, KindReal, KindRange:
		alo, ahi, ok := v.numericBounds()
		if !ok {
			return false
		}
		flo, fhi, ok := filter.numericBounds()
		if !ok {
			return false
		}
		return alo <= fhi && flo <= ahi
	case KindStates:
		if filter.kind != KindStates {
			return false
		}
		for _, want := range filter.states {
			for _, have := range v.states {
				if want == have {
					return true
				}
			}
		}
		return false
	}
	return false
}

// HasState reports whether a multistate value includes the given state,
// or a numeric scalar equals it. Used for dependency gating.
func (v Value) HasState(state int) bool {
	switch v.kind {
	case KindStates:
		for _, s := range v.states {
			if s == state {
				return true
			}
		}
		return false
	case KindInteger:
		return v.integer == int64(state)
	case KindReal:
		return v.real == float64(state)
	}
	return false
}

func (v Value) numericBounds() (lo, hi float64, ok bool) {
	switch v.kind {
	case KindInteger:
		f := float64(v.integer)
		return f, f, true
	case KindReal:
		return v.real, v.real, true
	case KindRange:
		return v.lo, v.hi, true
	}
	return 0, 0, false
}

// SortKey orders values for deterministic enumeration: numeric shapes by
// their lower bound, state sets by their lowest state. Text values
// compare equal here and are collated separately by the caller.
func (v Value) SortKey() (float64, bool) {
	switch v.kind {
	case KindInteger:
		return float64(v.integer), true
	case KindReal:
		return v.real, true
	case KindRange:
		return v.lo, true
	case KindStates:
		if len(v.states) > 0 {
			return float64(v.states[0]), true
		}
	}
	return 0, false
}

// ParseValue parses a raw attribute token against the owning character's
// declared type. The pseudo tokens U, V, and - take precedence over any
// numeric interpretation.
func ParseValue(raw string, t CharacterType) (Value, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return Value{}, fmt.Errorf("empty value")
	}
	if p, ok := ParsePseudo(token); ok {
		return PseudoValue(p), nil
	}

	switch t {
	case TypeText:
		return TextValue(token), nil
	case TypeInteger:
		if lo, hi, ok := splitRange(token); ok {
			nlo, err1 := strconv.ParseInt(lo, 10, 64)
			nhi, err2 := strconv.ParseInt(hi, 10, 64)
			if err1 != nil || err2 != nil {
				return Value{}, fmt.Errorf("integer range %q: bounds must be integers", token)
			}
			return RangeValue(float64(nlo), float64(nhi), true)
		}
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("integer value %q: %w", token, err)
		}
		return IntegerValue(n), nil
	case TypeReal:
		if lo, hi, ok := splitRange(token); ok {
			flo, err1 := strconv.ParseFloat(lo, 64)
			fhi, err2 := strconv.ParseFloat(hi, 64)
			if err1 != nil || err2 != nil {
				return Value{}, fmt.Errorf("real range %q: bounds must be numbers", token)
			}
			whole := !strings.Contains(lo, ".") && !strings.Contains(hi, ".")
			return RangeValue(flo, fhi, whole)
		}
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return Value{}, fmt.Errorf("real value %q: %w", token, err)
		}
		if !strings.Contains(token, ".") {
			return IntegerValue(int64(f)), nil
		}
		return RealValue(f), nil
	case TypeUnorderedMultistate, TypeOrderedMultistate:
		parts := strings.Split(token, "&")
		states := make([]int, 0, len(parts))
		for _, part := range parts {
			s, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return Value{}, fmt.Errorf("multistate value %q: state %q is not a number", token, part)
			}
			states = append(states, s)
		}
		return StatesValue(states...)
	}
	return Value{}, fmt.Errorf("unknown character type %q", t)
}

// splitRange recognizes "a-b" numeric range tokens. A leading hyphen is
// not a range separator, so negative scalars still parse as scalars.
func splitRange(token string) (lo, hi string, ok bool) {
	idx := strings.Index(token[1:], "-")
	if idx < 0 {
		return "", "", false
	}
	idx++
	lo = strings.TrimSpace(token[:idx])
	hi = strings.TrimSpace(token[idx+1:])
	if lo == "" || hi == "" {
		return "", "", false
	}
	if !numericToken(lo) || !numericToken(hi) {
		return "", "", false
	}
	return lo, hi, true
}

func numericToken(s string) bool {
	if s == "" {
		return false
	}
	dots := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
			if dots > 1 {
				return false
			}
		case r == '-' && i == 0:
		default:
			return false
		}
	}
	return true
}

func formatReal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
