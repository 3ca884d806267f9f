package delta

// Character describes one descriptive trait used to distinguish taxa.
// Characters are immutable once parsed.
type Character struct {
	Number      int
	Type        CharacterType
	Description string
	Units       string
	States      []CharacterState
	MinStates   int
	MaxStates   int
	Implicit    int // implicit state number; 0 means none
	Mandatory   bool
	OmitFromKey bool
	Comment     string
}

// State returns the declared state with the given number.
func (c *Character) State(number int) (CharacterState, bool) {
	for _, s := range c.States {
		if s.Number == number {
			return s, true
		}
	}
	return CharacterState{}, false
}

// HasState reports whether the character declares the given state number.
func (c *Character) HasState(number int) bool {
	_, ok := c.State(number)
	return ok
}

// CharacterState is one discrete value of a multistate character. State
// numbers are unique within their character.
type CharacterState struct {
	Number      int
	Description string
}

// Dependency records that a character is only applicable when its parent
// character was coded with a specific state.
type Dependency struct {
	ParentCharacter    int
	ParentState        int
	DependentCharacter int
}

// Item is one taxon being identified.
type Item struct {
	Number    int
	Name      string
	Authority string
	Comment   string
}

// Attribute is the recorded value of one character for one item. The
// (Item, Character) pair is unique and the value shape always agrees
// with the character's declared type.
type Attribute struct {
	Item      int
	Character int
	Value     Value
}

// Database is the full record set produced by one parse: every declared
// character, item, attribute coding, and dependency edge. Characters and
// items are ordered by number.
type Database struct {
	Characters   []*Character
	Items        []*Item
	Attributes   []Attribute
	Dependencies []Dependency
}
