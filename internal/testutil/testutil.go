// Package testutil provides shared test helpers for building vault
// fixtures.
package testutil

import (
	"testing"

	"github.com/starford/raido/internal/storage"
)

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// Note writes a note with the given frontmatter type and body.
// An empty noteType omits the frontmatter block entirely.
func Note(t *testing.T, store storage.Provider, path, noteType, body string) {
	t.Helper()
	content := body
	if noteType != "" {
		content = "---\ntype: " + noteType + "\n---\n\n" + body
	}
	if err := store.Write(path, []byte(content)); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
