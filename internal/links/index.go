// Package links scans note bodies for cross-document references and
// resolves them against the vault. An Index is built fresh for every
// planning pass and discarded afterwards; nothing here caches across
// operations.
package links

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/starford/raido/internal/metadata"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

// wikilinkRe matches [[target]], [[target#anchor]] and [[target|alias]].
// Group 1 is the bare target; anchor and alias are stripped before
// resolution.
var wikilinkRe = regexp.MustCompile(`\[\[([^\]\[|#]+)(#[^\]|]*)?(\|[^\]]*)?\]\]`)

// Index holds one pass's references and the filename lookup tables used
// to resolve them.
type Index struct {
	refs []models.LinkReference

	// stems maps a lowercased filename stem to the first note with that
	// stem in walk order. Duplicate stems are recorded as ambiguous and
	// surfaced as warnings, not errors.
	stems     map[string]string
	paths     map[string]string // lowercased path minus extension -> actual path
	ambiguous map[string]struct{}

	resolved   int
	unresolved int
}

// Build walks the vault and scans every note for references.
func Build(store storage.Provider) (*Index, error) {
	metas, err := store.List("")
	if err != nil {
		return nil, err
	}

	ix := &Index{
		stems:     make(map[string]string, len(metas)),
		paths:     make(map[string]string, len(metas)),
		ambiguous: make(map[string]struct{}),
	}

	for _, m := range metas {
		stem := strings.ToLower(strings.TrimSuffix(path.Base(m.Path), storage.NoteExt))
		if _, dup := ix.stems[stem]; dup {
			ix.ambiguous[stem] = struct{}{}
		} else {
			ix.stems[stem] = m.Path
		}
		noExt := strings.ToLower(strings.TrimSuffix(m.Path, storage.NoteExt))
		ix.paths[noExt] = m.Path
	}

	for _, m := range metas {
		data, err := store.Read(m.Path)
		if err != nil {
			// The validator reports unreadable files; scanning skips them.
			continue
		}
		ix.scan(m.Path, string(data))
	}
	return ix, nil
}

// scan extracts references from one note. Malformed frontmatter does
// not prevent scanning: the raw text is searched instead of the body.
func (ix *Index) scan(notePath, text string) {
	_, body, err := metadata.Parse(text)
	if err != nil {
		body = text
	}

	for _, loc := range wikilinkRe.FindAllStringSubmatchIndex(body, -1) {
		literal := body[loc[0]:loc[1]]
		raw := strings.TrimSpace(body[loc[2]:loc[3]])
		if raw == "" {
			continue
		}
		target, _ := ix.Resolve(raw)
		ref := models.LinkReference{
			Source:  notePath,
			RawText: raw,
			Literal: literal,
			Target:  target,
		}
		if ref.Resolved() {
			ix.resolved++
		} else {
			ix.unresolved++
		}
		ix.refs = append(ix.refs, ref)
	}
}

// Resolve matches reference text against note filenames. Bare names
// resolve by stem (first match in walk order wins); references that
// contain a path separator resolve by full vault-relative path. The
// extension is optional either way. Matching is case-insensitive.
func (ix *Index) Resolve(raw string) (string, bool) {
	key := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(raw), storage.NoteExt))
	if key == "" {
		return "", false
	}
	if strings.Contains(key, "/") {
		p, ok := ix.paths[key]
		return p, ok
	}
	p, ok := ix.stems[key]
	return p, ok
}

// References returns every reference found, in walk order.
func (ix *Index) References() []models.LinkReference {
	out := make([]models.LinkReference, len(ix.refs))
	copy(out, ix.refs)
	return out
}

// Unresolved returns the references that matched no note.
func (ix *Index) Unresolved() []models.LinkReference {
	var out []models.LinkReference
	for _, r := range ix.refs {
		if !r.Resolved() {
			out = append(out, r)
		}
	}
	return out
}

// AmbiguousStems returns the sorted stems shared by more than one note.
func (ix *Index) AmbiguousStems() []string {
	out := make([]string, 0, len(ix.ambiguous))
	for s := range ix.ambiguous {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Stats returns scanned, resolved, and unresolved reference counts.
func (ix *Index) Stats() (scanned, resolved, unresolved int) {
	return len(ix.refs), ix.resolved, ix.unresolved
}
