package delta

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Parser accumulates records across the three DELTA source files. Parse
// the characters file first, then the specs file, then the items file;
// Finish resolves cross references and reports every collected error.
//
// Recoverable errors (a bad value, an undeclared reference, a malformed
// directive entry) are collected so a whole file's problems surface in
// one run. Lines that destroy record boundaries, such as an item block
// without a header, skip the block and record a single error for it.
type Parser struct {
	chars     map[int]*Character
	charOrder []int
	items     map[int]*Item
	itemOrder []int
	rawAttrs  []rawAttribute
	deps      []Dependency
	depSeen   map[Dependency]struct{}
	errs      ErrorList
}

type rawAttribute struct {
	item  int
	char  int
	token string
	line  int
}

// NewParser returns an empty parser.
func NewParser() *Parser {
	return &Parser{
		chars:   make(map[int]*Character),
		items:   make(map[int]*Item),
		depSeen: make(map[Dependency]struct{}),
	}
}

// Parse runs all three passes and resolution in source order.
func Parse(chars, specs, items string) (*Database, error) {
	p := NewParser()
	p.ParseCharacters(chars)
	p.ParseSpecs(specs)
	p.ParseItems(items)
	return p.Finish()
}

var (
	charHeaderRe = regexp.MustCompile(`^#\s*(\d+)\.\s*(.*)$`)
	stateLineRe  = regexp.MustCompile(`^\s*(\d+)\.\s*(.*?)/?\s*$`)
	itemHeaderRe = regexp.MustCompile(`^#\s*(.+?)/\s*(?:<(.*)>)?\s*$`)
	attrTokenRe  = regexp.MustCompile(`(\d+)(?:,([^\s<]+)|<([^>]*)>)`)
	specPairRe   = regexp.MustCompile(`(\d+(?:-\d+)?),([A-Za-z\d-]+)`)
	specNumRe    = regexp.MustCompile(`\d+(?:-\d+)?`)
	depGroupRe   = regexp.MustCompile(`(\d+),(\d+):([\d:]+)`)
)

// ParseCharacters consumes the character definition file: `#N. description`
// headers optionally spanning lines until a terminating `/`, numbered state
// lines `M. text/`, and an optional units line for numeric characters.
// Embedded markup is preserved verbatim in stored descriptions.
func (p *Parser) ParseCharacters(src string) {
	var (
		current   *Character
		descDone  bool
		depth     int
		openLine  int
		seenState bool
	)

	closeBlock := func() {
		if current != nil && depth > 0 {
			p.fail(SectionCharacters, openLine, "closing '>' for comment opened here", "")
		}
		current = nil
		depth = 0
		seenState = false
	}

	for i, line := range splitLines(src) {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "*") {
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			closeBlock()
			m := charHeaderRe.FindStringSubmatch(trimmed)
			if m == nil {
				p.fail(SectionCharacters, lineNum, "character header '#<number>. <description>'", trimmed)
				continue
			}
			number, _ := strconv.Atoi(m[1])
			if _, dup := p.chars[number]; dup {
				p.fail(SectionCharacters, lineNum, "unique character number", m[1])
				continue
			}
			desc := m[2]
			descDone = strings.HasSuffix(desc, "/")
			current = &Character{
				Number:      number,
				Type:        TypeUnorderedMultistate, // default until the specs file declares a type
				Description: strings.TrimSuffix(desc, "/"),
			}
			p.chars[number] = current
			p.charOrder = append(p.charOrder, number)
			depth, openLine = angleDepth(desc, depth, openLine, lineNum)
			continue
		}

		if current == nil {
			p.fail(SectionCharacters, lineNum, "character header before content", trimmed)
			continue
		}
		depth, openLine = angleDepth(trimmed, depth, openLine, lineNum)

		if !descDone {
			current.Description += " " + strings.TrimSuffix(trimmed, "/")
			descDone = strings.HasSuffix(trimmed, "/")
			continue
		}

		if m := stateLineRe.FindStringSubmatch(line); m != nil {
			number, _ := strconv.Atoi(m[1])
			if current.HasState(number) {
				p.fail(SectionCharacters, lineNum, "unique state number within character", m[1])
				continue
			}
			current.States = append(current.States, CharacterState{Number: number, Description: m[2]})
			seenState = true
			continue
		}

		if strings.HasSuffix(trimmed, "/") && !seenState && current.Units == "" {
			current.Units = strings.TrimSpace(strings.TrimSuffix(trimmed, "/"))
			continue
		}
		p.fail(SectionCharacters, lineNum, "state definition '<number>. <text>/'", trimmed)
	}
	closeBlock()
}

// ParseSpecs consumes the specifications file. Directives start with `*`
// and may continue over following lines until the next directive. Unknown
// directives are skipped; the recognized set is CHARACTER TYPES, NUMBERS
// OF STATES, IMPLICIT VALUES, MANDATORY CHARACTERS, OMIT CHARACTERS FROM
// KEY, and DEPENDENT CHARACTERS.
func (p *Parser) ParseSpecs(src string) {
	var directive string

	for i, line := range splitLines(src) {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "*") {
			rest := strings.TrimPrefix(trimmed, "*")
			directive, rest = splitDirective(rest)
			p.applySpecLine(directive, rest, lineNum)
			continue
		}
		if directive == "" {
			p.fail(SectionSpecs, lineNum, "directive line '*<NAME> ...'", trimmed)
			continue
		}
		p.applySpecLine(directive, trimmed, lineNum)
	}
}

func splitDirective(rest string) (name, tail string) {
	i := 0
	for i < len(rest) {
		r := rest[i]
		if (r >= 'A' && r <= 'Z') || r == ' ' {
			i++
			continue
		}
		break
	}
	return strings.TrimSpace(rest[:i]), strings.TrimSpace(rest[i:])
}

func (p *Parser) applySpecLine(directive, text string, line int) {
	if text == "" {
		return
	}
	switch directive {
	case "CHARACTER TYPES":
		for _, m := range specPairRe.FindAllStringSubmatch(text, -1) {
			ctype, ok := ParseCharacterType(m[2])
			if !ok {
				p.fail(SectionSpecs, line, "character type code TE, IN, RN, UM, or OM", m[2])
				continue
			}
			p.eachDeclared(m[1], line, func(c *Character) { c.Type = ctype })
		}
	case "NUMBERS OF STATES":
		for _, m := range specPairRe.FindAllStringSubmatch(text, -1) {
			count, err := strconv.Atoi(m[2])
			if err != nil {
				p.fail(SectionSpecs, line, "state count", m[2])
				continue
			}
			p.eachDeclared(m[1], line, func(c *Character) {
				c.MinStates = 1
				c.MaxStates = count
			})
		}
	case "IMPLICIT VALUES":
		for _, m := range specPairRe.FindAllStringSubmatch(text, -1) {
			state, err := strconv.Atoi(m[2])
			if err != nil {
				p.fail(SectionSpecs, line, "implicit state number", m[2])
				continue
			}
			p.eachDeclared(m[1], line, func(c *Character) { c.Implicit = state })
		}
	case "MANDATORY CHARACTERS":
		for _, tok := range specNumRe.FindAllString(text, -1) {
			p.eachDeclared(tok, line, func(c *Character) { c.Mandatory = true })
		}
	case "OMIT CHARACTERS FROM KEY":
		for _, tok := range specNumRe.FindAllString(text, -1) {
			p.eachDeclared(tok, line, func(c *Character) { c.OmitFromKey = true })
		}
	case "DEPENDENT CHARACTERS":
		for _, m := range depGroupRe.FindAllStringSubmatch(text, -1) {
			parent, _ := strconv.Atoi(m[1])
			state, _ := strconv.Atoi(m[2])
			if _, ok := p.chars[parent]; !ok {
				p.fail(SectionSpecs, line, "declared parent character", m[1])
				continue
			}
			for _, depTok := range strings.Split(m[3], ":") {
				dependent, err := strconv.Atoi(depTok)
				if err != nil {
					continue
				}
				if _, ok := p.chars[dependent]; !ok {
					p.fail(SectionSpecs, line, "declared dependent character", depTok)
					continue
				}
				edge := Dependency{ParentCharacter: parent, ParentState: state, DependentCharacter: dependent}
				if _, dup := p.depSeen[edge]; dup {
					continue
				}
				p.depSeen[edge] = struct{}{}
				p.deps = append(p.deps, edge)
			}
		}
	}
}

// eachDeclared applies fn to every character in a "n" or "a-b" range
// token, recording an error for numbers that were never declared.
func (p *Parser) eachDeclared(token string, line int, fn func(*Character)) {
	lo, hi := token, token
	if i := strings.Index(token, "-"); i > 0 {
		lo, hi = token[:i], token[i+1:]
	}
	start, err1 := strconv.Atoi(lo)
	end, err2 := strconv.Atoi(hi)
	if err1 != nil || err2 != nil || end < start {
		p.fail(SectionSpecs, line, "character number or range", token)
		return
	}
	for n := start; n <= end; n++ {
		c, ok := p.chars[n]
		if !ok {
			p.fail(SectionSpecs, line, "declared character number", strconv.Itoa(n))
			continue
		}
		fn(c)
	}
}

// ParseItems consumes the item description file: `# <name>/` headers
// followed by the item number and `char,value` or `char<text>` codings.
// Attribute values are held raw here; Finish resolves them against the
// declared characters so declaration order across files does not matter.
func (p *Parser) ParseItems(src string) {
	var (
		current   *Item
		numbered  bool
		skipBlock bool
	)

	for i, line := range splitLines(src) {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "*") {
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			current = nil
			numbered = false
			skipBlock = false
			m := itemHeaderRe.FindStringSubmatch(trimmed)
			if m == nil {
				p.fail(SectionItems, lineNum, "item header '# <name>/'", trimmed)
				skipBlock = true
				continue
			}
			current = &Item{Name: strings.TrimSpace(m[1]), Comment: m[2]}
			continue
		}

		if skipBlock {
			continue
		}
		if current == nil {
			p.fail(SectionItems, lineNum, "item header before codings", trimmed)
			skipBlock = true
			continue
		}

		rest := trimmed
		if !numbered {
			fields := strings.SplitN(trimmed, " ", 2)
			number, err := strconv.Atoi(fields[0])
			if err != nil {
				p.fail(SectionItems, lineNum, "item number", fields[0])
				skipBlock = true
				continue
			}
			if _, dup := p.items[number]; dup {
				p.fail(SectionItems, lineNum, "unique item number", fields[0])
				skipBlock = true
				continue
			}
			current.Number = number
			p.items[number] = current
			p.itemOrder = append(p.itemOrder, number)
			numbered = true
			if len(fields) == 1 {
				continue
			}
			rest = fields[1]
		}
		p.scanAttributes(current.Number, rest, lineNum)
	}
}

// scanAttributes extracts `char,value` and `char<text>` codings from one
// line of an item block.
func (p *Parser) scanAttributes(item int, text string, line int) {
	if open := strings.LastIndex(text, "<"); open >= 0 && !strings.Contains(text[open:], ">") {
		p.fail(SectionItems, line, "closing '>' for text value opened here", text[open:])
		text = text[:open]
	}

	matches := attrTokenRe.FindAllStringSubmatch(text, -1)
	for _, m := range matches {
		char, _ := strconv.Atoi(m[1])
		token := m[2]
		if token == "" {
			token = m[3]
		}
		if strings.TrimSpace(token) == "" {
			continue
		}
		p.rawAttrs = append(p.rawAttrs, rawAttribute{item: item, char: char, token: token, line: line})
	}
}

// Finish resolves raw attribute codings against the declared characters,
// validates state references and value shapes, and returns the assembled
// database. When any error was collected the database is withheld and
// the full list is returned instead.
func (p *Parser) Finish() (*Database, error) {
	attrs := make([]Attribute, 0, len(p.rawAttrs))
	seen := make(map[[2]int]struct{}, len(p.rawAttrs))

	for _, raw := range p.rawAttrs {
		char, ok := p.chars[raw.char]
		if !ok {
			p.fail(SectionItems, raw.line, "declared character number", strconv.Itoa(raw.char))
			continue
		}
		key := [2]int{raw.item, raw.char}
		if _, dup := seen[key]; dup {
			p.fail(SectionItems, raw.line, "single coding per item and character", raw.token)
			continue
		}
		seen[key] = struct{}{}

		value, err := ParseValue(raw.token, char.Type)
		if err != nil {
			p.fail(SectionItems, raw.line, char.Type.Label()+" value for character "+strconv.Itoa(raw.char), raw.token)
			continue
		}
		if value.Kind() == KindStates {
			bad := false
			for _, s := range value.States() {
				if !char.HasState(s) {
					p.fail(SectionItems, raw.line, "declared state of character "+strconv.Itoa(raw.char), strconv.Itoa(s))
					bad = true
				}
			}
			if bad {
				continue
			}
		}
		attrs = append(attrs, Attribute{Item: raw.item, Character: raw.char, Value: value})
	}

	if err := p.errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	db := &Database{
		Characters:   make([]*Character, 0, len(p.chars)),
		Items:        make([]*Item, 0, len(p.items)),
		Attributes:   attrs,
		Dependencies: p.deps,
	}
	charNumbers := append([]int(nil), p.charOrder...)
	sort.Ints(charNumbers)
	for _, n := range charNumbers {
		c := p.chars[n]
		sort.Slice(c.States, func(i, j int) bool { return c.States[i].Number < c.States[j].Number })
		db.Characters = append(db.Characters, c)
	}
	itemNumbers := append([]int(nil), p.itemOrder...)
	sort.Ints(itemNumbers)
	for _, n := range itemNumbers {
		db.Items = append(db.Items, p.items[n])
	}
	return db, nil
}

// Errors returns the errors collected so far.
func (p *Parser) Errors() ErrorList {
	return p.errs
}

func (p *Parser) fail(section Section, line int, expected, token string) {
	p.errs = append(p.errs, &ParseError{Section: section, Line: line, Expected: expected, Token: token})
}

// splitLines normalizes line endings; callers derive 1-based line numbers
// from the slice index.
func splitLines(src string) []string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// angleDepth tracks unbalanced angle-bracket comments across the lines of
// a character block, remembering where the first unmatched '<' opened.
func angleDepth(line string, depth, openLine, lineNum int) (int, int) {
	for _, r := range line {
		switch r {
		case '<':
			if depth == 0 {
				openLine = lineNum
			}
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		}
	}
	return depth, openLine
}
