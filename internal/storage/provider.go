// Package storage defines the vault file-system abstraction.
package storage

import "github.com/starford/raido/internal/models"

// Provider is the interface for vault file operations. All paths are
// vault-relative; implementations must reject traversal outside the
// vault root.
type Provider interface {
	// List walks dir (relative to the vault root) and returns metadata
	// for every note file in lexicographic walk order.
	List(dir string) ([]models.NoteMeta, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent
	// directories as needed.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Move renames oldPath to newPath, creating target directories.
	Move(oldPath, newPath string) error
	// Exists reports whether a file or directory exists at path.
	Exists(path string) bool
	// Root returns the absolute path of the vault root.
	Root() string
}
