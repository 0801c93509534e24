package models

import "time"

// ExecStatus is the overall outcome of one execution.
type ExecStatus string

const (
	StatusSuccess        ExecStatus = "success"
	StatusRolledBack     ExecStatus = "rolled_back"
	StatusPartialFailure ExecStatus = "partial_failure"
)

// ItemError records a per-item move failure. Item failures never abort
// the batch on their own; policy (rollback vs continue) is the caller's.
type ItemError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// ExecutionResult reports the outcome of applying a MovePlan.
type ExecutionResult struct {
	MovesExecuted    int               `json:"moves_executed"`
	FilesProcessed   int               `json:"files_processed"`
	BackupPath       string            `json:"backup_path,omitempty"`
	Elapsed          time.Duration     `json:"elapsed"`
	Status           ExecStatus        `json:"status"`
	ItemErrors       []ItemError       `json:"item_errors,omitempty"`
	RolledBackReason string            `json:"rolled_back_reason,omitempty"`
	Validation       *ValidationReport `json:"validation,omitempty"`
}

// ValidationReport is the outcome of the post-move integrity check.
// Passed is true iff there are no errors and no newly broken links.
type ValidationReport struct {
	FilesChecked  int `json:"files_checked"`
	FilesReadable int `json:"files_readable"`

	LinksChecked int      `json:"links_checked"`
	LinksValid   int      `json:"links_valid"`
	BrokenLinks  []string `json:"broken_links,omitempty"`

	Errors          []string `json:"errors,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`

	Passed bool `json:"passed"`
}
