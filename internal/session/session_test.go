package session_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"deltakey/internal/session"
)

func newStore(t *testing.T) *session.Store {
	t.Helper()
	store, err := session.NewStore(filepath.Join(t.TempDir(), "sessions"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestSessionHistory(t *testing.T) {
	s := session.New()
	if s.ID == "" {
		t.Fatal("expected generated session ID")
	}

	s.Apply(session.Filter{Character: 2, Value: "1"})
	s.Apply(session.Filter{Character: 3, Value: "8"})
	if len(s.Filters) != 2 {
		t.Fatalf("filters: %v", s.Filters)
	}

	if !s.Undo() {
		t.Fatal("Undo should succeed with history present")
	}
	if len(s.Filters) != 1 || s.Filters[0].Character != 2 {
		t.Fatalf("filters after undo: %v", s.Filters)
	}

	s.Reset()
	if len(s.Filters) != 0 {
		t.Fatalf("filters after reset: %v", s.Filters)
	}
	if s.Undo() {
		t.Fatal("Undo on empty history should report false")
	}
}

func TestSessionClone(t *testing.T) {
	s := session.New()
	s.Apply(session.Filter{Character: 1, Value: "6"})

	clone := s.Clone()
	clone.Filters[0].Value = "0"
	if s.Filters[0].Value != "6" {
		t.Fatal("Clone should not share filter storage")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := newStore(t)

	s := session.New()
	s.Apply(session.Filter{Character: 4, Value: "1"})
	if err := store.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(s.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ID != s.ID || len(loaded.Filters) != 1 || loaded.Filters[0] != s.Filters[0] {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}

	ids, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 1 || ids[0] != s.ID {
		t.Fatalf("List: %v", ids)
	}

	if err := store.Delete(s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(s.ID); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStoreRejectsPathTraversal(t *testing.T) {
	store := newStore(t)
	if _, err := store.Load("../escape"); err == nil || errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected invalid id error, got %v", err)
	}
}

func TestStorePersistsOnlyIDAndFilters(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sessions")
	store, err := session.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	s := session.New()
	s.Apply(session.Filter{Character: 2, Value: "1&2"})
	if err := store.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, s.ID+".json"))
	if err != nil {
		t.Fatalf("read session file: %v", err)
	}
	body := string(raw)
	for _, key := range []string{"session_id", "filters", "character", "value"} {
		if !strings.Contains(body, `"`+key+`"`) {
			t.Fatalf("session file missing %q: %s", key, body)
		}
	}
	if strings.Contains(body, "remaining") {
		t.Fatalf("session file must not persist derived state: %s", body)
	}
}

func TestManagerUpdateSerializes(t *testing.T) {
	store := newStore(t)
	mgr := session.NewManager(store)

	s, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mgr.Update(s.ID, func(cur *session.Session) error {
				cur.Apply(session.Filter{Character: 1, Value: "6"})
				return nil
			})
			if err != nil {
				t.Errorf("Update: %v", err)
			}
		}()
	}
	wg.Wait()

	final, err := mgr.Get(s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(final.Filters) != workers {
		t.Fatalf("expected %d filters, got %d", workers, len(final.Filters))
	}
}

func TestManagerUpdateMissingSession(t *testing.T) {
	mgr := session.NewManager(newStore(t))
	_, err := mgr.Update("no-such-session", func(*session.Session) error { return nil })
	if !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
