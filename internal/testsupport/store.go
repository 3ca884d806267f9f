package testsupport

import (
	"context"
	"testing"

	"deltakey/internal/config"
	"deltakey/internal/store"
)

// MustOpenStore opens a dataset store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedStore replaces the store contents with the fixture dataset.
func SeedStore(t testing.TB, st *store.Store) {
	t.Helper()

	if err := st.Replace(context.Background(), ParseFixture(t)); err != nil {
		t.Fatalf("store.Replace: %v", err)
	}
}
