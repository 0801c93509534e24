package planner

import (
	"testing"

	"github.com/starford/raido/internal/links"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/testutil"
)

func plan(t *testing.T, store storage.Provider) *models.MovePlan {
	t.Helper()
	ix, err := links.Build(store)
	if err != nil {
		t.Fatalf("links.Build: %v", err)
	}
	p, err := New(store, nil).Plan(ix)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	return p
}

func TestMisplacedNotePlanned(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.Note(t, store, "Inbox/a.md", "permanent", "body\n")

	p := plan(t, store)
	if len(p.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(p.Items))
	}
	it := p.Items[0]
	if it.Source != "Inbox/a.md" || it.Target != "Permanent Notes/a.md" || it.NoteType != "permanent" {
		t.Errorf("item = %+v", it)
	}
	if len(p.Conflicts) != 0 {
		t.Errorf("conflicts = %v", p.Conflicts)
	}
	if p.Checksums["Inbox/a.md"] == "" {
		t.Error("checksum missing for planned source")
	}
}

func TestCorrectlyPlacedNoteSkipped(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.Note(t, store, "Permanent Notes/a.md", "permanent", "body\n")

	p := plan(t, store)
	if len(p.Items) != 0 {
		t.Errorf("items = %v, want none", p.Items)
	}
	if p.Summary.CorrectlyPlaced != 1 {
		t.Errorf("correctly placed = %d, want 1", p.Summary.CorrectlyPlaced)
	}
}

func TestOccupiedTargetIsConflict(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.Note(t, store, "Inbox/b.md", "permanent", "incoming\n")
	testutil.Note(t, store, "Permanent Notes/b.md", "permanent", "already here\n")

	p := plan(t, store)
	if len(p.Items) != 0 {
		t.Errorf("items = %v, want none", p.Items)
	}
	if len(p.Conflicts) != 1 {
		t.Fatalf("conflicts = %d, want 1", len(p.Conflicts))
	}
	c := p.Conflicts[0]
	if c.Source != "Inbox/b.md" || c.Target != "Permanent Notes/b.md" || c.Reason != "target already occupied" {
		t.Errorf("conflict = %+v", c)
	}
}

func TestBothSidesOfTargetCollisionReported(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.Note(t, store, "Inbox/c.md", "permanent", "one\n")
	testutil.Note(t, store, "Drafts/c.md", "permanent", "two\n")

	p := plan(t, store)
	if len(p.Items) != 0 {
		t.Errorf("items = %v, want none", p.Items)
	}
	if len(p.Conflicts) != 2 {
		t.Fatalf("conflicts = %d, want both sides", len(p.Conflicts))
	}
	sources := map[string]bool{}
	for _, c := range p.Conflicts {
		sources[c.Source] = true
		if c.Target != "Permanent Notes/c.md" {
			t.Errorf("conflict target = %q", c.Target)
		}
	}
	if !sources["Inbox/c.md"] || !sources["Drafts/c.md"] {
		t.Errorf("conflict sources = %v", sources)
	}
}

func TestMalformedMetadataReported(t *testing.T) {
	_, store := testutil.TestVault(t)
	if err := store.Write("Inbox/bad.md", []byte("---\ntype: [broken\n---\nbody\n")); err != nil {
		t.Fatal(err)
	}

	p := plan(t, store)
	if len(p.Malformed) != 1 || p.Malformed[0].Path != "Inbox/bad.md" {
		t.Fatalf("malformed = %v", p.Malformed)
	}
	if len(p.Items) != 0 || len(p.Conflicts) != 0 {
		t.Error("malformed note must not appear in moves or conflicts")
	}
}

func TestUnknownAndMissingType(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.Note(t, store, "Inbox/weird.md", "alien", "body\n")
	testutil.Note(t, store, "Inbox/untyped.md", "", "no frontmatter\n")

	p := plan(t, store)
	if len(p.UnknownTyped) != 2 {
		t.Fatalf("unknown typed = %v", p.UnknownTyped)
	}
	if p.Summary.WithMetadata != 1 {
		t.Errorf("with metadata = %d, want 1", p.Summary.WithMetadata)
	}
}

func TestEachNoteClassifiedExactlyOnce(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.Note(t, store, "Inbox/a.md", "permanent", "\n")
	testutil.Note(t, store, "Permanent Notes/ok.md", "permanent", "\n")
	testutil.Note(t, store, "Inbox/b.md", "permanent", "\n")
	testutil.Note(t, store, "Permanent Notes/b.md", "permanent", "\n")
	testutil.Note(t, store, "Inbox/odd.md", "alien", "\n")
	if err := store.Write("Inbox/bad.md", []byte("---\n: [\n---\n")); err != nil {
		t.Fatal(err)
	}

	p := plan(t, store)
	classified := len(p.Items) + len(p.Conflicts) + len(p.UnknownTyped) + len(p.Malformed) +
		p.Summary.CorrectlyPlaced
	if classified != p.Summary.TotalFiles {
		t.Errorf("classified %d of %d files", classified, p.Summary.TotalFiles)
	}
}

func TestCustomTypeMapping(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.Note(t, store, "Inbox/a.md", "evergreen", "\n")

	ix, err := links.Build(store)
	if err != nil {
		t.Fatal(err)
	}
	p, err := New(store, map[string]string{"Evergreen": "Garden"}).Plan(ix)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(p.Items) != 1 || p.Items[0].Target != "Garden/a.md" {
		t.Errorf("items = %v", p.Items)
	}
}

func TestLinkStatsInSummary(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.Note(t, store, "Inbox/a.md", "permanent", "[[b]] [[ghost]]\n")
	testutil.Note(t, store, "Permanent Notes/b.md", "permanent", "\n")

	p := plan(t, store)
	if p.Summary.LinksScanned != 2 || p.Summary.LinksResolved != 1 || p.Summary.LinksUnresolved != 1 {
		t.Errorf("link stats = %+v", p.Summary)
	}
}

func TestDiffer(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.Note(t, store, "Inbox/a.md", "permanent", "v1\n")

	pl := New(store, nil)
	first, err := pl.Plan(nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := pl.Plan(nil)
	if err != nil {
		t.Fatal(err)
	}
	if Differ(first, second) {
		t.Error("identical vault should produce equal plans")
	}

	// Content change to a planned source invalidates the plan.
	testutil.Note(t, store, "Inbox/a.md", "permanent", "v2 changed\n")
	third, err := pl.Plan(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !Differ(first, third) {
		t.Error("changed source content should make plans differ")
	}

	// An unrelated correctly-placed note does not.
	testutil.Note(t, store, "Permanent Notes/new.md", "permanent", "\n")
	fourth, err := pl.Plan(nil)
	if err != nil {
		t.Fatal(err)
	}
	if Differ(third, fourth) {
		t.Error("unrelated correctly-placed note should not invalidate the plan")
	}
}
