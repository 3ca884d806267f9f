package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"deltakey/internal/dataset"
	"deltakey/internal/delta"
)

// The fixture dataset is a small carabid beetle key exercising every
// character type: an integer count, a mandatory multistate with an implicit
// value, a real range with units, a dependency-controlled multistate, and a
// text character omitted from the key.
const (
	FixtureCharacters = `#1. number of elytral spots/
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

	FixtureSpecs = `*CHARACTER TYPES 1,IN 2,UM 3,RN 4,UM 5,OM 6,TE
*NUMBERS OF STATES 2,3 4-5,2
*MANDATORY CHARACTERS 2
*OMIT CHARACTERS FROM KEY 6
*IMPLICIT VALUES 2,1
*DEPENDENT CHARACTERS 4,1:5
`

	FixtureItems = `# \i{}Agonum\i0{} sexpunctatum/ <six-spotted>
1 1,6 2,2 3,7.5-9 4,1 5,1 6<damp grassland>

# Pterostichus niger/
2 1,0 2,1 3,15-21 4,2 5,- 6<woodland litter>

# Amara aenea/
3 1,U 2,2&3 3,6-8.5 4,1 5,2 6<dry heath>
`
)

// ParseFixture parses the fixture dataset.
func ParseFixture(t testing.TB) *delta.Database {
	t.Helper()

	db, err := delta.Parse(FixtureCharacters, FixtureSpecs, FixtureItems)
	if err != nil {
		t.Fatalf("parse fixture dataset: %v", err)
	}
	return db
}

// BuildIndex parses the fixture dataset and wraps it in an index.
func BuildIndex(t testing.TB) *dataset.Index {
	t.Helper()
	return dataset.New(ParseFixture(t))
}

// WriteDataset writes the three fixture source files into dir using the
// default file names and returns dir.
func WriteDataset(t testing.TB, dir string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create fixture dir: %v", err)
	}

	files := map[string]string{
		"chars": FixtureCharacters,
		"specs": FixtureSpecs,
		"items": FixtureItems,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}
	return dir
}
