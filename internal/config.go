package internal

import (
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Vault   VaultConfig       `yaml:"vault"`
	Backup  BackupConfig      `yaml:"backup"`
	Journal JournalConfig     `yaml:"journal"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	return c.Backup.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return nil
}

// VaultConfig holds the vault location and the type-to-directory
// mapping that drives move planning. An empty mapping uses the
// planner's defaults.
type VaultConfig struct {
	Path  string            `yaml:"path"`
	Types map[string]string `yaml:"types"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	); err != nil {
		return err
	}
	for typ, dir := range c.Types {
		if strings.TrimSpace(typ) == "" {
			return fmt.Errorf("vault: empty type in mapping")
		}
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("vault: type %q maps to an empty directory", typ)
		}
	}
	return nil
}

// BackupConfig holds the snapshot parent directory.
type BackupConfig struct {
	Root string `yaml:"root"`
}

// Validate validates the backup configuration.
func (c *BackupConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
	)
}

// JournalConfig holds the run-journal database location. An empty path
// disables the journal.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Vault: VaultConfig{
			Path: "./vault",
		},
		Backup: BackupConfig{
			Root: "./backups",
		},
	}
}
