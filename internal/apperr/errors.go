// Package apperr defines the error taxonomy shared across the organizer.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a missing note or snapshot.
	ErrNotFound = errors.New("not found")
	// ErrConflictsPresent blocks execution while the plan carries conflicts.
	ErrConflictsPresent = errors.New("plan has unresolved conflicts")
	// ErrStalePlan reports that the vault changed between planning and execution.
	ErrStalePlan = errors.New("plan is stale: vault changed since planning")
)

// BackupError is fatal: the surrounding operation aborts before any
// vault mutation.
type BackupError struct {
	Op   string // "create" or "rollback"
	Path string
	Err  error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("backup %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *BackupError) Unwrap() error { return e.Err }
