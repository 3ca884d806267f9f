package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"deltakey/internal/config"
	"deltakey/internal/dataset"
	"deltakey/internal/delta"
)

// ErrNoDataset reports that the database holds no loaded dataset yet.
var ErrNoDataset = errors.New("no dataset loaded")

// Store persists a parsed DELTA dataset in SQLite. Attribute values are
// stored as their canonical source tokens and reparsed against the owning
// character's type on load, so the value parser stays the single source
// of truth for value semantics.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the dataset database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	dbPath := cfg.Paths.DatabasePath
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Replace swaps the stored dataset for db in one transaction.
func (s *Store) Replace(ctx context.Context, db *delta.Database) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"item_attributes", "items", "character_dependencies", "character_states", "characters"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, c := range db.Characters {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO characters (
				number, type, description, units, min_states, max_states,
				implicit_state, mandatory, omit_from_key, comment
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.Number, string(c.Type), c.Description, c.Units, c.MinStates, c.MaxStates,
			c.Implicit, boolInt(c.Mandatory), boolInt(c.OmitFromKey), c.Comment,
		); err != nil {
			return fmt.Errorf("insert character %d: %w", c.Number, err)
		}
		for _, state := range c.States {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO character_states (character_number, state_number, description) VALUES (?, ?, ?)",
				c.Number, state.Number, state.Description,
			); err != nil {
				return fmt.Errorf("insert state %d.%d: %w", c.Number, state.Number, err)
			}
		}
	}

	for _, d := range db.Dependencies {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO character_dependencies (parent_character, parent_state, dependent_character) VALUES (?, ?, ?)",
			d.ParentCharacter, d.ParentState, d.DependentCharacter,
		); err != nil {
			return fmt.Errorf("insert dependency %d,%d:%d: %w", d.ParentCharacter, d.ParentState, d.DependentCharacter, err)
		}
	}

	for _, it := range db.Items {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO items (number, name, authority, comment) VALUES (?, ?, ?, ?)",
			it.Number, it.Name, it.Authority, it.Comment,
		); err != nil {
			return fmt.Errorf("insert item %d: %w", it.Number, err)
		}
	}

	for _, a := range db.Attributes {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO item_attributes (item_number, character_number, value) VALUES (?, ?, ?)",
			a.Item, a.Character, a.Value.String(),
		); err != nil {
			return fmt.Errorf("insert attribute %d.%d: %w", a.Item, a.Character, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// Load reads the stored dataset back into memory. Returns ErrNoDataset
// when no characters have been stored.
func (s *Store) Load(ctx context.Context) (*delta.Database, error) {
	db := &delta.Database{}
	charTypes := make(map[int]delta.CharacterType)

	rows, err := s.db.QueryContext(ctx,
		`SELECT number, type, description, units, min_states, max_states,
			implicit_state, mandatory, omit_from_key, comment
		FROM characters ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("query characters: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			c                      delta.Character
			ctype                  string
			mandatory, omitFromKey int
		)
		if err := rows.Scan(&c.Number, &ctype, &c.Description, &c.Units, &c.MinStates, &c.MaxStates,
			&c.Implicit, &mandatory, &omitFromKey, &c.Comment); err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		parsed, ok := delta.ParseCharacterType(ctype)
		if !ok {
			return nil, fmt.Errorf("stored character %d has unknown type %q", c.Number, ctype)
		}
		c.Type = parsed
		c.Mandatory = mandatory != 0
		c.OmitFromKey = omitFromKey != 0
		charTypes[c.Number] = c.Type
		db.Characters = append(db.Characters, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate characters: %w", err)
	}
	if len(db.Characters) == 0 {
		return nil, ErrNoDataset
	}

	if err := s.loadStates(ctx, db); err != nil {
		return nil, err
	}
	if err := s.loadDependencies(ctx, db); err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, db); err != nil {
		return nil, err
	}
	if err := s.loadAttributes(ctx, db, charTypes); err != nil {
		return nil, err
	}
	return db, nil
}

// LoadIndex loads the stored dataset and wraps it in a lookup index.
func (s *Store) LoadIndex(ctx context.Context) (*dataset.Index, error) {
	db, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return dataset.New(db), nil
}

func (s *Store) loadStates(ctx context.Context, db *delta.Database) error {
	byNumber := make(map[int]*delta.Character, len(db.Characters))
	for _, c := range db.Characters {
		byNumber[c.Number] = c
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT character_number, state_number, description FROM character_states ORDER BY character_number, state_number")
	if err != nil {
		return fmt.Errorf("query states: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			char  int
			state delta.CharacterState
		)
		if err := rows.Scan(&char, &state.Number, &state.Description); err != nil {
			return fmt.Errorf("scan state: %w", err)
		}
		c, ok := byNumber[char]
		if !ok {
			return fmt.Errorf("stored state references unknown character %d", char)
		}
		c.States = append(c.States, state)
	}
	return rows.Err()
}

func (s *Store) loadDependencies(ctx context.Context, db *delta.Database) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT parent_character, parent_state, dependent_character FROM character_dependencies ORDER BY parent_character, parent_state, dependent_character")
	if err != nil {
		return fmt.Errorf("query dependencies: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d delta.Dependency
		if err := rows.Scan(&d.ParentCharacter, &d.ParentState, &d.DependentCharacter); err != nil {
			return fmt.Errorf("scan dependency: %w", err)
		}
		db.Dependencies = append(db.Dependencies, d)
	}
	return rows.Err()
}

func (s *Store) loadItems(ctx context.Context, db *delta.Database) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT number, name, authority, comment FROM items ORDER BY number")
	if err != nil {
		return fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it delta.Item
		if err := rows.Scan(&it.Number, &it.Name, &it.Authority, &it.Comment); err != nil {
			return fmt.Errorf("scan item: %w", err)
		}
		db.Items = append(db.Items, &it)
	}
	return rows.Err()
}

func (s *Store) loadAttributes(ctx context.Context, db *delta.Database, charTypes map[int]delta.CharacterType) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT item_number, character_number, value FROM item_attributes ORDER BY item_number, character_number")
	if err != nil {
		return fmt.Errorf("query attributes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			item, char int
			raw        string
		)
		if err := rows.Scan(&item, &char, &raw); err != nil {
			return fmt.Errorf("scan attribute: %w", err)
		}
		ctype, ok := charTypes[char]
		if !ok {
			return fmt.Errorf("stored attribute references unknown character %d", char)
		}
		value, err := delta.ParseValue(raw, ctype)
		if err != nil {
			return fmt.Errorf("stored attribute %d.%d: %w", item, char, err)
		}
		db.Attributes = append(db.Attributes, delta.Attribute{Item: item, Character: char, Value: value})
	}
	return rows.Err()
}

// Stats counts stored records without loading the full dataset.
func (s *Store) Stats(ctx context.Context) (dataset.Stats, error) {
	var stats dataset.Stats
	counts := []struct {
		query string
		dst   *int
	}{
		{"SELECT COUNT(1) FROM characters", &stats.Characters},
		{"SELECT COUNT(1) FROM character_states", &stats.States},
		{"SELECT COUNT(1) FROM items", &stats.Items},
		{"SELECT COUNT(1) FROM item_attributes", &stats.Attributes},
		{"SELECT COUNT(1) FROM character_dependencies", &stats.Dependencies},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return dataset.Stats{}, fmt.Errorf("count records: %w", err)
		}
	}
	return stats, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
