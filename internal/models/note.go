// Package models defines the domain types for Raido.
package models

import "time"

// NoteMeta is a lightweight description of one note file on disk.
// Path is vault-relative with forward slashes and serves as the note's
// identity for the duration of one planning pass.
type NoteMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LinkReference is one cross-document reference found in a note body.
type LinkReference struct {
	Source  string `json:"source"`           // note containing the reference
	RawText string `json:"raw_text"`         // reference target as written, alias/anchor stripped
	Literal string `json:"literal"`          // full [[...]] literal as it appears in the body
	Target  string `json:"target,omitempty"` // resolved vault-relative path, empty when unresolved
}

// Resolved reports whether the reference points at a known note.
func (r LinkReference) Resolved() bool { return r.Target != "" }

// LinkRewrite is a single text substitution that keeps a path-literal
// reference resolving after its target moves.
type LinkRewrite struct {
	Source      string `json:"source"`       // referencing note (pre-move path)
	MovedTarget string `json:"moved_target"` // pre-move path of the note being moved
	OldText     string `json:"old_text"`
	NewText     string `json:"new_text"`
}
