package metadata

import (
	"strings"
	"testing"
)

func TestParseBasic(t *testing.T) {
	text := "---\ntype: permanent\ncreated: 2025-01-02\n---\n\n# Heading\nBody text.\n"
	fields, body, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := fields.Type(); got != "permanent" {
		t.Errorf("Type() = %q, want %q", got, "permanent")
	}
	if !strings.HasPrefix(body, "# Heading") {
		t.Errorf("body = %q", body)
	}
}

func TestParseNoFrontmatter(t *testing.T) {
	text := "just a body\nwith two lines\n"
	fields, body, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if fields.Len() != 0 {
		t.Errorf("Len() = %d, want 0", fields.Len())
	}
	if body != text {
		t.Errorf("body = %q, want original text", body)
	}
}

func TestParseUnterminatedBlock(t *testing.T) {
	if _, _, err := Parse("---\ntype: permanent\nno closing delimiter\n"); err == nil {
		t.Fatal("expected error for unterminated frontmatter")
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, _, err := Parse("---\ntype: [unclosed\n---\nbody\n"); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestParseNonMappingBlock(t *testing.T) {
	if _, _, err := Parse("---\n- just\n- a list\n---\nbody\n"); err == nil {
		t.Fatal("expected error for non-mapping frontmatter")
	}
}

func TestParseEmptyBlock(t *testing.T) {
	fields, body, err := Parse("---\n---\nbody\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if fields.Len() != 0 {
		t.Errorf("Len() = %d, want 0", fields.Len())
	}
	if body != "body\n" {
		t.Errorf("body = %q", body)
	}
}

func TestTags(t *testing.T) {
	fields, _, err := Parse("---\ntype: literature\ntags:\n  - zettel\n  - reading\n---\nbody\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tags := fields.Tags()
	if len(tags) != 2 || tags[0] != "zettel" || tags[1] != "reading" {
		t.Errorf("Tags() = %v", tags)
	}
}

func TestTagsScalar(t *testing.T) {
	fields, _, err := Parse("---\ntags: solo\n---\nbody\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tags := fields.Tags(); len(tags) != 1 || tags[0] != "solo" {
		t.Errorf("Tags() = %v", tags)
	}
}

func TestRoundTripPreservesOrderAndUnknownKeys(t *testing.T) {
	text := "---\ntype: permanent\ncustom_field: kept\nstatus: draft\nzz_last: true\n---\n\nbody line\n"
	fields, body, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	rendered := Render(fields, body)
	fields2, body2, err := Parse(rendered)
	if err != nil {
		t.Fatalf("Parse rendered: %v", err)
	}
	if body2 != body {
		t.Errorf("body changed: %q vs %q", body2, body)
	}

	wantKeys := []string{"type", "custom_field", "status", "zz_last"}
	pairs := fields2.Pairs()
	if len(pairs) != len(wantKeys) {
		t.Fatalf("got %d fields, want %d", len(pairs), len(wantKeys))
	}
	for i, k := range wantKeys {
		if pairs[i].Key != k {
			t.Errorf("pairs[%d].Key = %q, want %q", i, pairs[i].Key, k)
		}
	}
	if v, _ := fields2.Get("custom_field"); v != "kept" {
		t.Errorf("custom_field = %v", v)
	}
}

func TestRenderEmptyFields(t *testing.T) {
	if got := Render(&Fields{}, "only body\n"); got != "only body\n" {
		t.Errorf("Render = %q", got)
	}
	if got := Render(nil, "only body\n"); got != "only body\n" {
		t.Errorf("Render(nil) = %q", got)
	}
}

func TestSetAppendsAndReplaces(t *testing.T) {
	f := &Fields{}
	f.Set("type", "fleeting")
	f.Set("type", "permanent")
	f.Set("status", "new")
	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}
	if got := f.Type(); got != "permanent" {
		t.Errorf("Type() = %q", got)
	}
}
