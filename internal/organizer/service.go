// Package organizer composes planning, execution, and validation into
// the two user-facing operations: a read-only PlanMoves and a guarded
// ExecuteWithValidation with automatic rollback.
package organizer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/raido/internal/backup"
	"github.com/starford/raido/internal/executor"
	"github.com/starford/raido/internal/links"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/planner"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/validate"
)

// Options controls one ExecuteWithValidation call.
type Options struct {
	executor.Options
	// ValidateAfter re-walks the vault once the moves are applied.
	ValidateAfter bool
	// AutoRollback restores the execution snapshot when validation
	// fails. Requires CreateBackup; without a snapshot the failure is
	// surfaced in the report for the caller to act on.
	AutoRollback bool
}

// Service coordinates the organizer components over a single vault.
// Operations are synchronous and assume exclusive access to the tree
// for their duration; callers serialize invocations.
type Service struct {
	store     storage.Provider
	planner   *planner.Planner
	executor  *executor.Executor
	backups   *backup.Manager
	validator *validate.Validator
	logger    *slog.Logger
}

// NewService creates a Service. A nil logger falls back to slog.Default.
func NewService(store storage.Provider, backups *backup.Manager, pl *planner.Planner, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		planner:   pl,
		executor:  executor.New(store, backups, pl, logger),
		backups:   backups,
		validator: validate.New(store),
		logger:    logger,
	}
}

// PlanMoves walks the vault and returns a fresh MovePlan. Read-only and
// safe to call repeatedly; nothing is cached between calls.
func (s *Service) PlanMoves(_ context.Context) (*models.MovePlan, error) {
	ix, err := links.Build(s.store)
	if err != nil {
		return nil, fmt.Errorf("organizer: build link index: %w", err)
	}
	return s.planner.Plan(ix)
}

// ExecuteWithValidation plans against the live vault, executes, and
// optionally validates the result, rolling back on validation failure
// when configured. The returned result embeds the validation report.
func (s *Service) ExecuteWithValidation(ctx context.Context, opts Options) (*models.ExecutionResult, error) {
	ix, err := links.Build(s.store)
	if err != nil {
		return nil, fmt.Errorf("organizer: build link index: %w", err)
	}
	plan, err := s.planner.Plan(ix)
	if err != nil {
		return nil, err
	}

	res, err := s.executor.Execute(ctx, plan, opts.Options)
	if err != nil {
		return nil, err
	}
	if res.Status == models.StatusRolledBack || !opts.ValidateAfter {
		return res, nil
	}

	report, err := s.validator.Validate(ix, plan.Rewrites)
	if err != nil {
		return res, fmt.Errorf("organizer: validation: %w", err)
	}
	res.Validation = report

	if !report.Passed && opts.AutoRollback && res.BackupPath != "" {
		if err := s.backups.Rollback(res.BackupPath); err != nil {
			return res, err
		}
		res.Status = models.StatusRolledBack
		res.RolledBackReason = fmt.Sprintf("validation failed: %d errors, %d broken links",
			len(report.Errors), len(report.BrokenLinks))
		s.logger.Warn("execution rolled back",
			slog.String("snapshot", res.BackupPath),
			slog.String("reason", res.RolledBackReason))
	}
	return res, nil
}

// Rollback restores a snapshot by name or path.
func (s *Service) Rollback(snapshot string) error {
	return s.backups.Rollback(snapshot)
}
