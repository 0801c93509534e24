// Package planner computes the reorganization plan: for every note it
// compares the declared frontmatter type against the note's physical
// directory and decides whether and where it should move.
package planner

import (
	"fmt"
	"path"
	"strings"

	"github.com/starford/raido/internal/links"
	"github.com/starford/raido/internal/metadata"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

// DefaultTypeDirs maps the recognized declared types to their canonical
// directories.
var DefaultTypeDirs = map[string]string{
	"permanent":  "Permanent Notes",
	"literature": "Literature Notes",
	"fleeting":   "Fleeting Notes",
	"project":    "Project Notes",
	"structure":  "Structure Notes",
}

// Planner classifies notes against a type-to-directory mapping.
type Planner struct {
	store storage.Provider
	types map[string]string
}

// New creates a Planner. An empty mapping falls back to DefaultTypeDirs.
func New(store storage.Provider, types map[string]string) *Planner {
	if len(types) == 0 {
		types = DefaultTypeDirs
	}
	normalized := make(map[string]string, len(types))
	for k, v := range types {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &Planner{store: store, types: normalized}
}

// candidate is a note that passed classification and wants to move.
type candidate struct {
	source   string
	target   string
	noteType string
	checksum string
}

// Plan walks the vault and produces an immutable MovePlan. Each note is
// classified in a fixed order so results are deterministic: malformed
// metadata, then unknown type, then correctly placed, then conflict,
// then planned. The link index supplies rewrite computation and link
// statistics; a nil index skips both (used by the stale-plan re-check).
func (p *Planner) Plan(ix *links.Index) (*models.MovePlan, error) {
	metas, err := p.store.List("")
	if err != nil {
		return nil, fmt.Errorf("planner: walk vault: %w", err)
	}

	plan := &models.MovePlan{Checksums: make(map[string]string)}
	var candidates []candidate

	for _, m := range metas {
		plan.Summary.TotalFiles++

		data, err := p.store.Read(m.Path)
		if err != nil {
			plan.Malformed = append(plan.Malformed, models.Diagnostic{
				Path:   m.Path,
				Detail: fmt.Sprintf("unreadable: %v", err),
			})
			continue
		}

		fields, _, err := metadata.Parse(string(data))
		if err != nil {
			plan.Malformed = append(plan.Malformed, models.Diagnostic{
				Path:   m.Path,
				Detail: err.Error(),
			})
			continue
		}
		if fields.Len() > 0 {
			plan.Summary.WithMetadata++
		}

		declared := strings.ToLower(fields.Type())
		if declared == "" {
			plan.UnknownTyped = append(plan.UnknownTyped, models.Diagnostic{
				Path:   m.Path,
				Detail: "type field missing",
			})
			continue
		}
		canonical, ok := p.types[declared]
		if !ok {
			plan.UnknownTyped = append(plan.UnknownTyped, models.Diagnostic{
				Path:   m.Path,
				Detail: fmt.Sprintf("unrecognized type %q", declared),
			})
			continue
		}

		curDir := path.Dir(m.Path)
		if curDir == "." {
			curDir = ""
		}
		if curDir == canonical {
			plan.Summary.CorrectlyPlaced++
			continue
		}

		target := path.Join(canonical, path.Base(m.Path))
		if target != m.Path && p.store.Exists(target) {
			plan.Conflicts = append(plan.Conflicts, models.Conflict{
				Source: m.Path,
				Target: target,
				Reason: "target already occupied",
			})
			continue
		}

		candidates = append(candidates, candidate{
			source:   m.Path,
			target:   target,
			noteType: declared,
			checksum: m.Checksum,
		})
	}

	// Two candidates mapping to the same target conflict with each
	// other; both sides are reported, not just the later one.
	byTarget := make(map[string]int, len(candidates))
	for _, c := range candidates {
		byTarget[c.target]++
	}
	for _, c := range candidates {
		if byTarget[c.target] > 1 {
			plan.Conflicts = append(plan.Conflicts, models.Conflict{
				Source: c.source,
				Target: c.target,
				Reason: "target claimed by multiple notes",
			})
			continue
		}
		plan.Items = append(plan.Items, models.MoveItem{
			Source:   c.source,
			Target:   c.target,
			NoteType: c.noteType,
		})
		plan.Checksums[c.source] = c.checksum
	}

	plan.Summary.Planned = len(plan.Items)
	plan.Summary.Conflicts = len(plan.Conflicts)
	plan.Summary.UnknownType = len(plan.UnknownTyped)
	plan.Summary.Malformed = len(plan.Malformed)

	if ix != nil {
		scanned, resolved, unresolved := ix.Stats()
		plan.Summary.LinksScanned = scanned
		plan.Summary.LinksResolved = resolved
		plan.Summary.LinksUnresolved = unresolved
		plan.Summary.AmbiguousStems = ix.AmbiguousStems()
		plan.Rewrites = links.Rewrites(ix, plan.Items)
	}
	return plan, nil
}

// Differ reports whether two plans disagree on what would be moved:
// different move sets, different conflict sets, or changed source
// content. Summary counters are deliberately ignored so that unrelated
// vault changes (a new correctly-placed note) do not invalidate a plan.
func Differ(a, b *models.MovePlan) bool {
	if len(a.Items) != len(b.Items) || len(a.Conflicts) != len(b.Conflicts) {
		return true
	}
	moves := make(map[string]string, len(a.Items))
	for _, it := range a.Items {
		moves[it.Source] = it.Target
	}
	for _, it := range b.Items {
		if moves[it.Source] != it.Target {
			return true
		}
		if a.Checksums[it.Source] != b.Checksums[it.Source] {
			return true
		}
	}
	conflicts := make(map[string]string, len(a.Conflicts))
	for _, c := range a.Conflicts {
		conflicts[c.Source] = c.Target
	}
	for _, c := range b.Conflicts {
		if got, ok := conflicts[c.Source]; !ok || got != c.Target {
			return true
		}
	}
	return false
}
