package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poolup/poolup/internal/models"
	"github.com/poolup/poolup/internal/storage"
	"github.com/poolup/poolup/internal/storage/sqlite"
)

// setupStore creates a fresh sqlite store for a test.
func setupStore(t *testing.T) storage.Store {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store storage.Store, username string) *models.User {
	t.Helper()

	user := models.NewUser(username, username+"@example.com", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}
