// Package validate re-checks the vault after an execution: every note
// must still be readable and every reference that resolved before the
// moves must still resolve after them.
package validate

import (
	"fmt"

	"github.com/starford/raido/internal/links"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

// Validator walks the post-move vault and compares link resolution
// against the pre-move index.
type Validator struct {
	store storage.Provider
}

// New creates a Validator.
func New(store storage.Provider) *Validator {
	return &Validator{store: store}
}

// Validate re-walks the vault. References that were already unresolved
// before the move stay warnings (pre-existing issues, not regressions);
// references that resolved before but not after are errors. rewrites
// holds the text substitutions the execution applied, so a rewritten
// reference is judged by its pre-rewrite form against the pre-move
// index. Passed is false iff there are unreadable files or newly
// broken links.
func (v *Validator) Validate(before *links.Index, rewrites []models.LinkRewrite) (*models.ValidationReport, error) {
	rep := &models.ValidationReport{}

	rewrittenFrom := make(map[string]string, len(rewrites))
	for _, rw := range rewrites {
		rewrittenFrom[rw.NewText] = rw.OldText
	}
	beforeResolved := make(map[string]bool)
	for _, r := range before.References() {
		if r.Resolved() {
			beforeResolved[r.Literal] = true
		}
	}

	metas, err := v.store.List("")
	if err != nil {
		return nil, fmt.Errorf("validate: walk vault: %w", err)
	}
	for _, m := range metas {
		rep.FilesChecked++
		if _, err := v.store.Read(m.Path); err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("unreadable file %s: %v", m.Path, err))
			continue
		}
		rep.FilesReadable++
	}

	after, err := links.Build(v.store)
	if err != nil {
		return nil, fmt.Errorf("validate: rebuild link index: %w", err)
	}

	for _, ref := range after.References() {
		rep.LinksChecked++
		if ref.Resolved() {
			rep.LinksValid++
			continue
		}
		_, wasResolvable := before.Resolve(ref.RawText)
		if !wasResolvable {
			if old, ok := rewrittenFrom[ref.Literal]; ok {
				wasResolvable = beforeResolved[old]
			}
		}
		if wasResolvable {
			rep.BrokenLinks = append(rep.BrokenLinks,
				fmt.Sprintf("%s in %s", ref.Literal, ref.Source))
			continue
		}
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("pre-existing unresolved reference %s in %s", ref.Literal, ref.Source))
	}

	if n := len(rep.BrokenLinks); n > 0 {
		rep.Recommendations = append(rep.Recommendations,
			fmt.Sprintf("resolve %d newly broken links before relying on this vault", n))
	}
	if n := rep.FilesChecked - rep.FilesReadable; n > 0 {
		rep.Recommendations = append(rep.Recommendations,
			fmt.Sprintf("%d files are unreadable; restore the most recent backup", n))
	}
	if n := len(rep.Warnings); n > 0 {
		rep.Recommendations = append(rep.Recommendations,
			fmt.Sprintf("%d references were unresolved before the move; fix them when convenient", n))
	}
	if len(rep.Recommendations) == 0 {
		rep.Recommendations = append(rep.Recommendations, "no action needed")
	}

	rep.Passed = len(rep.Errors) == 0 && len(rep.BrokenLinks) == 0
	return rep, nil
}
