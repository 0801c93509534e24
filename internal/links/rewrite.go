package links

import (
	"strings"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

// Rewrites computes the text substitutions needed so every reference
// still resolves after the given moves.
//
// Bare document-name references resolve by filename, so they survive a
// move of either endpoint untouched; that invariant is what makes moves
// safe. Only path-literal references (those containing a separator)
// encode a location and must be rewritten to the target's new
// vault-relative path. Anchor and alias suffixes are preserved.
func Rewrites(ix *Index, items []models.MoveItem) []models.LinkRewrite {
	if len(items) == 0 {
		return nil
	}
	moved := make(map[string]string, len(items))
	for _, it := range items {
		moved[it.Source] = it.Target
	}

	var out []models.LinkRewrite
	seen := make(map[string]struct{})
	for _, ref := range ix.refs {
		if !ref.Resolved() {
			continue
		}
		newTarget, ok := moved[ref.Target]
		if !ok {
			continue
		}
		if !strings.Contains(ref.RawText, "/") {
			// Document-name reference: move-invariant, no rewrite.
			continue
		}

		newRaw := strings.TrimSuffix(newTarget, storage.NoteExt)
		if strings.HasSuffix(ref.RawText, storage.NoteExt) {
			newRaw = newTarget
		}
		newLiteral := rebuildLiteral(ref.Literal, newRaw)
		if newLiteral == ref.Literal {
			continue
		}

		key := ref.Source + "\x00" + ref.Literal + "\x00" + newLiteral
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		out = append(out, models.LinkRewrite{
			Source:      ref.Source,
			MovedTarget: ref.Target,
			OldText:     ref.Literal,
			NewText:     newLiteral,
		})
	}
	return out
}

// rebuildLiteral swaps the target portion of a [[...]] literal for
// newRaw, keeping any #anchor or |alias suffix.
func rebuildLiteral(literal, newRaw string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(literal, "[["), "]]")
	suffix := ""
	if i := strings.IndexAny(inner, "#|"); i >= 0 {
		suffix = inner[i:]
	}
	return "[[" + newRaw + suffix + "]]"
}
