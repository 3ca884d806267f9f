package dataset

import (
	"sort"

	"deltakey/internal/delta"
)

// Index provides read-only lookups over a parsed DELTA database. Build one
// with New and share it freely; none of the methods mutate state.
type Index struct {
	characters []*delta.Character
	items      []*delta.Item
	charByNum  map[int]*delta.Character
	itemByNum  map[int]*delta.Item
	attrs      map[[2]int]delta.Value
	attrCount  int
	deps       []delta.Dependency
	controls   map[int][]delta.Dependency
}

// New builds an Index from a parsed database.
func New(db *delta.Database) *Index {
	idx := &Index{
		characters: db.Characters,
		items:      db.Items,
		charByNum:  make(map[int]*delta.Character, len(db.Characters)),
		itemByNum:  make(map[int]*delta.Item, len(db.Items)),
		attrs:      make(map[[2]int]delta.Value, len(db.Attributes)),
		controls:   make(map[int][]delta.Dependency),
	}
	for _, c := range db.Characters {
		idx.charByNum[c.Number] = c
	}
	for _, it := range db.Items {
		idx.itemByNum[it.Number] = it
	}
	for _, a := range db.Attributes {
		idx.attrs[[2]int{a.Item, a.Character}] = a.Value
	}
	idx.attrCount = len(db.Attributes)
	idx.deps = db.Dependencies
	for _, d := range db.Dependencies {
		idx.controls[d.DependentCharacter] = append(idx.controls[d.DependentCharacter], d)
	}
	return idx
}

// Character returns the character with the given number.
func (x *Index) Character(number int) (*delta.Character, bool) {
	c, ok := x.charByNum[number]
	return c, ok
}

// Characters returns all characters in ascending number order.
func (x *Index) Characters() []*delta.Character {
	return x.characters
}

// Item returns the item with the given number.
func (x *Index) Item(number int) (*delta.Item, bool) {
	it, ok := x.itemByNum[number]
	return it, ok
}

// Items returns all items in ascending number order.
func (x *Index) Items() []*delta.Item {
	return x.items
}

// ItemNumbers returns a fresh ascending slice of all item numbers. Callers
// may mutate the result.
func (x *Index) ItemNumbers() []int {
	numbers := make([]int, 0, len(x.items))
	for _, it := range x.items {
		numbers = append(numbers, it.Number)
	}
	return numbers
}

// Attribute returns the coded value of character for item. The second
// return is false when the item never coded the character.
func (x *Index) Attribute(item, character int) (delta.Value, bool) {
	v, ok := x.attrs[[2]int{item, character}]
	return v, ok
}

// ControllingDependencies returns the dependency edges whose dependent side
// is character, in declaration order. A character with no edges is always
// applicable.
func (x *Index) ControllingDependencies(character int) []delta.Dependency {
	return x.controls[character]
}

// Dependencies returns every dependency edge in the dataset.
func (x *Index) Dependencies() []delta.Dependency {
	return x.deps
}

// Stats summarizes dataset shape for status output.
type Stats struct {
	Characters   int
	States       int
	Items        int
	Attributes   int
	Dependencies int
}

// Stats counts the records held by the index.
func (x *Index) Stats() Stats {
	s := Stats{
		Characters:   len(x.characters),
		Items:        len(x.items),
		Attributes:   x.attrCount,
		Dependencies: len(x.deps),
	}
	for _, c := range x.characters {
		s.States += len(c.States)
	}
	return s
}

// CharacterNumbers returns a fresh ascending slice of all character numbers.
func (x *Index) CharacterNumbers() []int {
	numbers := make([]int, 0, len(x.characters))
	for _, c := range x.characters {
		numbers = append(numbers, c.Number)
	}
	sort.Ints(numbers)
	return numbers
}
