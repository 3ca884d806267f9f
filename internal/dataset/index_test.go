package dataset_test

import (
	"testing"

	"deltakey/internal/delta"
	"deltakey/internal/testsupport"
)

func TestIndexLookups(t *testing.T) {
	idx := testsupport.BuildIndex(t)

	c, ok := idx.Character(3)
	if !ok || c.Units != "mm" || c.Type != delta.TypeReal {
		t.Fatalf("character 3 lookup: %+v ok=%v", c, ok)
	}
	if _, ok := idx.Character(99); ok {
		t.Fatal("character 99 should not exist")
	}

	it, ok := idx.Item(2)
	if !ok || it.Name != "Pterostichus niger" {
		t.Fatalf("item 2 lookup: %+v ok=%v", it, ok)
	}

	v, ok := idx.Attribute(1, 3)
	if !ok || v.String() != "7.5-9" {
		t.Fatalf("attribute (1,3): %s ok=%v", v, ok)
	}
	if _, ok := idx.Attribute(2, 99); ok {
		t.Fatal("attribute (2,99) should not exist")
	}
}

func TestIndexItemNumbersAreFresh(t *testing.T) {
	idx := testsupport.BuildIndex(t)

	first := idx.ItemNumbers()
	if len(first) != 3 || first[0] != 1 || first[2] != 3 {
		t.Fatalf("item numbers: %v", first)
	}
	first[0] = 99
	if again := idx.ItemNumbers(); again[0] != 1 {
		t.Fatal("ItemNumbers should not share backing storage")
	}
}

func TestIndexDependencies(t *testing.T) {
	idx := testsupport.BuildIndex(t)

	edges := idx.ControllingDependencies(5)
	if len(edges) != 1 {
		t.Fatalf("dependencies for character 5: %v", edges)
	}
	edge := edges[0]
	if edge.ParentCharacter != 4 || edge.ParentState != 1 {
		t.Fatalf("unexpected edge: %+v", edge)
	}
	if got := idx.ControllingDependencies(3); len(got) != 0 {
		t.Fatalf("character 3 should have no controlling edges: %v", got)
	}
}

func TestIndexStats(t *testing.T) {
	idx := testsupport.BuildIndex(t)

	stats := idx.Stats()
	if stats.Characters != 6 || stats.Items != 3 {
		t.Fatalf("stats: %+v", stats)
	}
	if stats.States != 7 {
		t.Fatalf("expected 7 states, got %d", stats.States)
	}
	if stats.Attributes != 18 {
		t.Fatalf("expected 18 attributes, got %d", stats.Attributes)
	}
	if stats.Dependencies != 1 {
		t.Fatalf("expected 1 dependency, got %d", stats.Dependencies)
	}
}
