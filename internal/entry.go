// Package internal assembles the organizer components from configuration.
package internal

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/starford/raido/internal/backup"
	"github.com/starford/raido/internal/journal"
	"github.com/starford/raido/internal/organizer"
	"github.com/starford/raido/internal/planner"
	"github.com/starford/raido/internal/storage"
)

// App holds the wired application components for one invocation.
type App struct {
	Config    *Config
	Logger    *slog.Logger
	Store     storage.Provider
	Backups   *backup.Manager
	Organizer *organizer.Service
	Journal   *journal.DB // nil when disabled
}

// NewApp builds the application with the given options.
func NewApp(opts ...Option) (*App, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	// Structured JSON logger on stderr; stdout is for command output.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	backups, err := backup.NewManager(cfg.Vault.Path, cfg.Backup.Root)
	if err != nil {
		return nil, fmt.Errorf("init backups: %w", err)
	}

	var jdb *journal.DB
	if cfg.Journal.Path != "" {
		jdb, err = journal.Open(cfg.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("init journal: %w", err)
		}
	}

	svc := organizer.NewService(store, backups, planner.New(store, cfg.Vault.Types), logger)

	logger.Debug("configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("backup_root", cfg.Backup.Root),
		slog.String("journal_path", cfg.Journal.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Backups:   backups,
		Organizer: svc,
		Journal:   jdb,
	}, nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.Journal != nil {
		return a.Journal.Close()
	}
	return nil
}

// RecordRun writes one journal row, when the journal is enabled.
// Journal failures are logged, never fatal.
func (a *App) RecordRun(kind, status string, summary any, started time.Time) {
	if a.Journal == nil {
		return
	}
	if err := a.Journal.Record(kind, status, summary, started, time.Now()); err != nil {
		a.Logger.Warn("journal record failed",
			slog.String("kind", kind),
			slog.String("error", err.Error()))
	}
}
