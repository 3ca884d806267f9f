package delta

import (
	"fmt"
	"strings"
)

// Section names the source file a parse error was found in.
type Section string

const (
	SectionCharacters Section = "characters"
	SectionSpecs      Section = "specs"
	SectionItems      Section = "items"
)

// ParseError describes one malformed construct: where it was found, what
// the parser expected, and the offending token.
type ParseError struct {
	Section  Section
	Line     int
	Expected string
	Token    string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d: expected %s", e.Section, e.Line, e.Expected)
	if e.Token != "" {
		fmt.Fprintf(&b, ", got %q", e.Token)
	}
	return b.String()
}

// ErrorList aggregates every recoverable parse error found in a pass so
// callers see all structural problems at once.
type ErrorList []*ParseError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no parse errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d parse errors:", len(l))
	for _, e := range l {
		b.WriteString("\n\t")
		b.WriteString(e.Error())
	}
	return b.String()
}

// ErrorOrNil returns the list as an error when it is non-empty.
func (l ErrorList) ErrorOrNil() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
