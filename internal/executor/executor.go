// Package executor applies a MovePlan to the vault as a guarded batch:
// conflict gating, optional snapshot, stale-plan protection, per-item
// error capture, and rollback or partial-failure semantics.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/backup"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/planner"
	"github.com/starford/raido/internal/storage"
)

// Options controls one Execute call.
type Options struct {
	// CreateBackup snapshots the vault before any mutation. Running
	// without a backup is legal but unsafe: a mid-run failure then has
	// nothing to roll back to.
	CreateBackup bool
	// ValidateFirst re-plans against the live vault and aborts with
	// zero mutation when the fresh plan disagrees with the supplied one.
	ValidateFirst bool
	// RollbackOnError restores the snapshot on the first item failure.
	// Without a snapshot the batch degrades to continue-and-report.
	RollbackOnError bool
	// Progress, when non-nil, is invoked after each item, failed
	// items included.
	Progress func(done, total int, path string)
}

// Executor applies plans to a single vault.
type Executor struct {
	store   storage.Provider
	backups *backup.Manager
	planner *planner.Planner
	logger  *slog.Logger
}

// New creates an Executor. A nil logger falls back to slog.Default.
func New(store storage.Provider, backups *backup.Manager, pl *planner.Planner, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{store: store, backups: backups, planner: pl, logger: logger}
}

// Execute applies the plan's moves and link rewrites.
//
// It refuses to touch the vault while the plan carries conflicts, and a
// failed backup aborts before any move. Per-item failures never raise:
// they are recorded in the result, and policy decides between rollback
// and partial_failure.
func (e *Executor) Execute(_ context.Context, plan *models.MovePlan, opts Options) (*models.ExecutionResult, error) {
	start := time.Now()

	if len(plan.Conflicts) > 0 {
		return nil, fmt.Errorf("executor: %d conflicts: %w", len(plan.Conflicts), apperr.ErrConflictsPresent)
	}

	res := &models.ExecutionResult{Status: models.StatusSuccess}

	if opts.CreateBackup {
		snapshot, err := e.backups.CreateBackup()
		if err != nil {
			return nil, err
		}
		res.BackupPath = snapshot
		e.logger.Info("backup created", slog.String("snapshot", snapshot))
	}

	if opts.ValidateFirst {
		fresh, err := e.planner.Plan(nil)
		if err != nil {
			return nil, fmt.Errorf("executor: re-plan: %w", err)
		}
		if planner.Differ(plan, fresh) {
			return nil, apperr.ErrStalePlan
		}
	}

	items := make([]models.MoveItem, len(plan.Items))
	copy(items, plan.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].Source < items[j].Source })

	rewritesFor := make(map[string][]models.LinkRewrite)
	for _, rw := range plan.Rewrites {
		rewritesFor[rw.MovedTarget] = append(rewritesFor[rw.MovedTarget], rw)
	}

	moved := make(map[string]string, len(items))
	touched := make(map[string]struct{})
	total := len(items)

	for i, it := range items {
		err := e.applyItem(it, rewritesFor[it.Source], moved, touched)
		if opts.Progress != nil {
			opts.Progress(i+1, total, it.Source)
		}
		if err != nil {
			res.ItemErrors = append(res.ItemErrors, models.ItemError{Path: it.Source, Error: err.Error()})
			e.logger.Warn("move failed",
				slog.String("source", it.Source),
				slog.String("target", it.Target),
				slog.String("error", err.Error()))

			if opts.RollbackOnError && res.BackupPath != "" {
				if rbErr := e.backups.Rollback(res.BackupPath); rbErr != nil {
					res.ItemErrors = append(res.ItemErrors, models.ItemError{
						Path:  res.BackupPath,
						Error: rbErr.Error(),
					})
					res.Status = models.StatusPartialFailure
				} else {
					res.Status = models.StatusRolledBack
					res.RolledBackReason = fmt.Sprintf("move %s failed: %v", it.Source, err)
				}
				res.MovesExecuted = 0
				res.FilesProcessed = 0
				res.Elapsed = time.Since(start)
				return res, nil
			}
			continue
		}
		res.MovesExecuted++
	}

	if len(res.ItemErrors) > 0 {
		res.Status = models.StatusPartialFailure
	}
	res.FilesProcessed = len(touched)
	res.Elapsed = time.Since(start)
	return res, nil
}

// applyItem moves one note, then applies the rewrites that track it.
// moved and touched accumulate across the batch so later rewrites find
// referencing notes at their current location.
func (e *Executor) applyItem(it models.MoveItem, rewrites []models.LinkRewrite, moved map[string]string, touched map[string]struct{}) error {
	if err := e.store.Move(it.Source, it.Target); err != nil {
		return err
	}
	moved[it.Source] = it.Target
	touched[it.Target] = struct{}{}

	for _, rw := range rewrites {
		loc := rw.Source
		if current, ok := moved[rw.Source]; ok {
			loc = current
		}
		data, err := e.store.Read(loc)
		if err != nil {
			return fmt.Errorf("rewrite %s: %w", loc, err)
		}
		content := strings.ReplaceAll(string(data), rw.OldText, rw.NewText)
		if content == string(data) {
			continue
		}
		if err := e.store.Write(loc, []byte(content)); err != nil {
			return fmt.Errorf("rewrite %s: %w", loc, err)
		}
		touched[loc] = struct{}{}
		e.logger.Debug("link rewritten",
			slog.String("note", loc),
			slog.String("old", rw.OldText),
			slog.String("new", rw.NewText))
	}
	return nil
}
