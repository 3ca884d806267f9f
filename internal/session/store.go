package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

// ErrNotFound reports that no session with the requested ID exists.
var ErrNotFound = errors.New("session not found")

// Store persists sessions as one JSON file per session under a directory.
// Concurrent processes coordinate through a directory-level file lock, so
// the CLI and API server can safely share a session directory.
type Store struct {
	dir string

	// mu serializes goroutines in this process; the file lock only
	// coordinates across processes and is idempotent within one.
	mu   sync.Mutex
	lock *flock.Flock
}

// NewStore creates the session directory if needed and returns a store.
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("session directory must be set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &Store{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, ".lock")),
	}, nil
}

// Save writes the session atomically.
func (st *Store) Save(s *Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := st.lock.Lock(); err != nil {
		return fmt.Errorf("lock session directory: %w", err)
	}
	defer st.lock.Unlock()

	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	path := st.path(s.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

// Load reads a session by ID. Returns ErrNotFound when absent.
func (st *Store) Load(id string) (*Session, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := st.lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock session directory: %w", err)
	}
	defer st.lock.Unlock()

	raw, err := os.ReadFile(st.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	if s.ID == "" {
		s.ID = id
	}
	return &s, nil
}

// Delete removes a session file. Deleting a missing session is not an error.
func (st *Store) Delete(id string) error {
	if err := validID(id); err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := st.lock.Lock(); err != nil {
		return fmt.Errorf("lock session directory: %w", err)
	}
	defer st.lock.Unlock()

	if err := os.Remove(st.path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// List returns the IDs of all stored sessions in lexical order.
func (st *Store) List() ([]string, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := st.lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock session directory: %w", err)
	}
	defer st.lock.Unlock()

	entries, err := os.ReadDir(st.dir)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func (st *Store) path(id string) string {
	return filepath.Join(st.dir, id+".json")
}

// validID rejects IDs that could escape the session directory.
func validID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	if strings.ContainsAny(id, "/\\") || id != filepath.Base(id) {
		return fmt.Errorf("invalid session id %q", id)
	}
	return nil
}
