// Package backup creates and restores full timestamped snapshots of the
// vault. Snapshots are plain directory copies: write-once, read-many,
// consumed wholesale by rollback and never partially restored.
package backup

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/starford/raido/internal/apperr"
)

const stampLayout = "20060102150405"

// Manager snapshots one vault root into a backup root.
type Manager struct {
	root       string // absolute vault root
	backupRoot string // absolute snapshot parent directory

	now func() time.Time // overridable in tests
}

// NewManager creates a Manager for the given vault and backup roots.
func NewManager(root, backupRoot string) (*Manager, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("backup: resolve root: %w", err)
	}
	absBackup, err := filepath.Abs(backupRoot)
	if err != nil {
		return nil, fmt.Errorf("backup: resolve backup root: %w", err)
	}
	return &Manager{root: absRoot, backupRoot: absBackup, now: time.Now}, nil
}

// CreateBackup copies the entire vault, hidden files included, into
// <backup-root>/<root-name>-<YYYYMMDDHHMMSS>/ and returns the snapshot
// path. Two calls within the same second get distinct names via a
// numeric suffix.
func (m *Manager) CreateBackup() (string, error) {
	info, err := os.Stat(m.root)
	if err != nil {
		return "", &apperr.BackupError{Op: "create", Path: m.root, Err: err}
	}
	if !info.IsDir() {
		return "", &apperr.BackupError{Op: "create", Path: m.root, Err: fmt.Errorf("not a directory")}
	}
	if err := os.MkdirAll(m.backupRoot, 0o755); err != nil {
		return "", &apperr.BackupError{Op: "create", Path: m.backupRoot, Err: err}
	}

	base := filepath.Base(m.root) + "-" + m.now().UTC().Format(stampLayout)
	snapshot := filepath.Join(m.backupRoot, base)
	for n := 2; ; n++ {
		if _, err := os.Stat(snapshot); os.IsNotExist(err) {
			break
		}
		snapshot = filepath.Join(m.backupRoot, fmt.Sprintf("%s-%d", base, n))
	}

	// Mkdir (not MkdirAll) doubles as a writability probe for the
	// backup root.
	if err := os.Mkdir(snapshot, 0o755); err != nil {
		return "", &apperr.BackupError{Op: "create", Path: snapshot, Err: err}
	}
	if err := copyTree(m.root, snapshot, m.backupRoot); err != nil {
		return "", &apperr.BackupError{Op: "create", Path: snapshot, Err: err}
	}
	return snapshot, nil
}

// Rollback replaces the vault's contents with the snapshot's contents.
// It accepts either a snapshot name or a full path, and is idempotent:
// restoring the same snapshot twice leaves the vault identical.
func (m *Manager) Rollback(snapshot string) error {
	path := m.Resolve(snapshot)
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("not a directory")
		}
		return &apperr.BackupError{Op: "rollback", Path: path, Err: err}
	}

	if err := m.clearRoot(); err != nil {
		return &apperr.BackupError{Op: "rollback", Path: m.root, Err: err}
	}
	if err := copyTree(path, m.root, m.backupRoot); err != nil {
		return &apperr.BackupError{Op: "rollback", Path: path, Err: err}
	}
	return nil
}

// Resolve turns a snapshot name into its path under the backup root.
// Inputs that already name an existing path are returned as-is.
func (m *Manager) Resolve(snapshot string) string {
	if _, err := os.Stat(snapshot); err == nil {
		return snapshot
	}
	return filepath.Join(m.backupRoot, snapshot)
}

// ListSnapshots returns snapshot paths for this vault root, oldest first.
func (m *Manager) ListSnapshots() ([]string, error) {
	entries, err := os.ReadDir(m.backupRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("backup: read backup root: %w", err)
	}
	prefix := filepath.Base(m.root) + "-"
	var out []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			out = append(out, filepath.Join(m.backupRoot, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// clearRoot deletes everything under the vault root, keeping the backup
// root subtree intact when it is nested inside the vault at any depth.
func (m *Manager) clearRoot() error {
	return m.clearDir(m.root)
}

func (m *Manager) clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	sep := string(filepath.Separator)
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if p == m.backupRoot {
			continue
		}
		if e.IsDir() && strings.HasPrefix(m.backupRoot+sep, p+sep) {
			// The backup root lives somewhere below this directory;
			// descend and clear around it instead of removing it wholesale.
			if err := m.clearDir(p); err != nil {
				return err
			}
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	return nil
}

// copyTree copies src into dst byte-for-byte, preserving relative
// structure and file modes. A nested skip directory (the backup root
// inside the vault) is excluded so snapshots never contain snapshots.
func copyTree(src, dst, skip string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if skip != "" && p == skip {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			return os.MkdirAll(target, info.Mode().Perm())
		}
		return copyFile(p, target, info.Mode().Perm())
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
