package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/raido/internal"
	"github.com/starford/raido/internal/executor"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/organizer"
	pkgconfig "github.com/starford/raido/pkg/config"
)

func loadApp(cmd *cli.Command) (*internal.App, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if cmd.IsSet("config") {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	return internal.NewApp(internal.WithConfig(cfg))
}

func planAction(ctx context.Context, cmd *cli.Command) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	started := time.Now()
	plan, err := app.Organizer.PlanMoves(ctx)
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}
	printPlan(plan)
	app.RecordRun("plan", "", plan.Summary, started)
	return nil
}

func printPlan(p *models.MovePlan) {
	s := p.Summary
	fmt.Printf("Scanned %d files (%d with metadata)\n", s.TotalFiles, s.WithMetadata)
	fmt.Printf("  correctly placed: %d\n", s.CorrectlyPlaced)
	fmt.Printf("  planned moves:    %d\n", s.Planned)
	fmt.Printf("  conflicts:        %d\n", s.Conflicts)
	fmt.Printf("  unknown type:     %d\n", s.UnknownType)
	fmt.Printf("  malformed:        %d\n", s.Malformed)
	fmt.Printf("Links: %d scanned, %d resolved, %d unresolved\n",
		s.LinksScanned, s.LinksResolved, s.LinksUnresolved)
	for _, stem := range s.AmbiguousStems {
		fmt.Printf("  warning: multiple notes share the name %q; references resolve to the first match\n", stem)
	}
	for _, it := range p.Items {
		fmt.Printf("move      %s -> %s\n", it.Source, it.Target)
	}
	for _, rw := range p.Rewrites {
		fmt.Printf("rewrite   %s: %s -> %s\n", rw.Source, rw.OldText, rw.NewText)
	}
	for _, c := range p.Conflicts {
		fmt.Printf("conflict  %s -> %s: %s\n", c.Source, c.Target, c.Reason)
	}
	for _, d := range p.UnknownTyped {
		fmt.Printf("unknown   %s: %s\n", d.Path, d.Detail)
	}
	for _, d := range p.Malformed {
		fmt.Printf("malformed %s: %s\n", d.Path, d.Detail)
	}
}

func executeAction(ctx context.Context, cmd *cli.Command) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	started := time.Now()
	opts := organizer.Options{
		Options: executor.Options{
			CreateBackup:    cmd.Bool("backup"),
			ValidateFirst:   true,
			RollbackOnError: cmd.Bool("auto-rollback"),
			Progress: func(done, total int, path string) {
				fmt.Printf("[%d/%d] %s\n", done, total, path)
			},
		},
		ValidateAfter: cmd.Bool("validate"),
		AutoRollback:  cmd.Bool("auto-rollback"),
	}

	res, err := app.Organizer.ExecuteWithValidation(ctx, opts)
	if err != nil {
		app.RecordRun("execute", "error", map[string]string{"error": err.Error()}, started)
		return fmt.Errorf("execution failed: %w", err)
	}
	printResult(res)
	app.RecordRun("execute", string(res.Status), res, started)

	switch res.Status {
	case models.StatusRolledBack:
		return cli.Exit(fmt.Sprintf("execution rolled back: %s", res.RolledBackReason), 1)
	case models.StatusPartialFailure:
		return cli.Exit(fmt.Sprintf("execution completed with %d failures", len(res.ItemErrors)), 2)
	}
	return nil
}

func printResult(res *models.ExecutionResult) {
	fmt.Printf("Status: %s\n", res.Status)
	fmt.Printf("  moves executed:  %d\n", res.MovesExecuted)
	fmt.Printf("  files processed: %d\n", res.FilesProcessed)
	fmt.Printf("  elapsed:         %s\n", res.Elapsed.Round(time.Millisecond))
	if res.BackupPath != "" {
		fmt.Printf("  backup:          %s\n", res.BackupPath)
	}
	for _, ie := range res.ItemErrors {
		fmt.Printf("  failed: %s: %s\n", ie.Path, ie.Error)
	}
	if v := res.Validation; v != nil {
		fmt.Printf("Validation: files %d/%d readable, links %d/%d valid\n",
			v.FilesReadable, v.FilesChecked, v.LinksValid, v.LinksChecked)
		for _, b := range v.BrokenLinks {
			fmt.Printf("  broken link: %s\n", b)
		}
		for _, w := range v.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
		for _, r := range v.Recommendations {
			fmt.Printf("  recommendation: %s\n", r)
		}
	}
}

func rollbackAction(_ context.Context, cmd *cli.Command) error {
	snapshot := cmd.Args().First()
	if snapshot == "" {
		return fmt.Errorf("usage: raido rollback <snapshot>")
	}

	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	started := time.Now()
	if err := app.Organizer.Rollback(snapshot); err != nil {
		app.RecordRun("rollback", "error", map[string]string{"snapshot": snapshot, "error": err.Error()}, started)
		return fmt.Errorf("rollback failed: %w", err)
	}
	app.RecordRun("rollback", "success", map[string]string{"snapshot": snapshot}, started)
	fmt.Printf("Restored snapshot %s\n", snapshot)
	return nil
}

func historyAction(_ context.Context, cmd *cli.Command) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	if app.Journal == nil {
		return fmt.Errorf("journal disabled: set journal.path in the config file")
	}
	runs, err := app.Journal.Recent(int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	for _, r := range runs {
		status := r.Status
		if status == "" {
			status = "-"
		}
		fmt.Printf("%-5d %-19s %-10s %-15s %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Kind, status, r.Summary)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "raido",
		Usage: "Safety-first vault organizer: moves notes into the directory their declared type demands, with backup, link-safe rewriting, and post-move validation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("RAIDO_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "plan",
				Usage:  "Compute and print the reorganization plan without touching the vault",
				Action: planAction,
			},
			{
				Name:  "execute",
				Usage: "Apply the plan: back up, move notes, rewrite links, validate",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "backup",
						Usage: "Snapshot the vault before moving anything (disabling this is unsafe)",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "validate",
						Usage: "Re-check file and link integrity after the moves",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "auto-rollback",
						Usage: "Restore the snapshot when a move or validation fails",
						Value: true,
					},
				},
				Action: executeAction,
			},
			{
				Name:      "rollback",
				Usage:     "Restore a backup snapshot by name or path",
				ArgsUsage: "<snapshot>",
				Action:    rollbackAction,
			},
			{
				Name:  "history",
				Usage: "List recorded organizer runs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
				},
				Action: historyAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		var coder cli.ExitCoder
		if errors.As(err, &coder) {
			if msg := coder.Error(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			os.Exit(coder.ExitCode())
		}
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
