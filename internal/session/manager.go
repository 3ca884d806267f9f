package session

import (
	"sync"
)

// Manager serializes access to stored sessions within one process. The API
// server routes every mutation through Update so two requests against the
// same session cannot interleave between load and save.
type Manager struct {
	store *Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager wraps a store.
func NewManager(store *Store) *Manager {
	return &Manager{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// Create makes, persists, and returns a new empty session.
func (m *Manager) Create() (*Session, error) {
	s := New()
	if err := m.store.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get loads a session copy for read-only use.
func (m *Manager) Get(id string) (*Session, error) {
	lock := m.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()
	return m.store.Load(id)
}

// Update loads the session, applies fn, and persists the result while
// holding the per-session lock. The mutated session is returned.
func (m *Manager) Update(id string, fn func(*Session) error) (*Session, error) {
	lock := m.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	s, err := m.store.Load(id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := m.store.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete removes a session.
func (m *Manager) Delete(id string) error {
	lock := m.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	if err := m.store.Delete(id); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.locks, id)
	m.mu.Unlock()
	return nil
}

// List returns stored session IDs.
func (m *Manager) List() ([]string, error) {
	return m.store.List()
}

func (m *Manager) sessionLock(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[id] = lock
	}
	return lock
}
