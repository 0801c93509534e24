package validate

import (
	"strings"
	"testing"

	"github.com/starford/raido/internal/links"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/testutil"
)

func buildIndex(t *testing.T, store storage.Provider) *links.Index {
	t.Helper()
	ix, err := links.Build(store)
	if err != nil {
		t.Fatal(err)
	}
	return ix
}

func TestValidationPassesOnHealthyVault(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.Note(t, store, "a.md", "permanent", "[[b]]\n")
	testutil.Note(t, store, "b.md", "permanent", "\n")

	before := buildIndex(t, store)
	rep, err := New(store).Validate(before, nil)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !rep.Passed {
		t.Errorf("report = %+v, want passed", rep)
	}
	if rep.FilesChecked != 2 || rep.FilesReadable != 2 {
		t.Errorf("files = %d/%d", rep.FilesReadable, rep.FilesChecked)
	}
	if rep.LinksChecked != 1 || rep.LinksValid != 1 {
		t.Errorf("links = %d/%d", rep.LinksValid, rep.LinksChecked)
	}
	if len(rep.Recommendations) != 1 || rep.Recommendations[0] != "no action needed" {
		t.Errorf("recommendations = %v", rep.Recommendations)
	}
}

func TestMovedTargetStillResolves(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.Note(t, store, "ref.md", "permanent", "[[a]]\n")
	testutil.Note(t, store, "Inbox/a.md", "permanent", "\n")

	before := buildIndex(t, store)
	// Simulate an executed move: bare-name references are move-invariant.
	if err := store.Move("Inbox/a.md", "Permanent Notes/a.md"); err != nil {
		t.Fatal(err)
	}

	rep, err := New(store).Validate(before, nil)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !rep.Passed || len(rep.BrokenLinks) != 0 {
		t.Errorf("report = %+v, want zero broken links", rep)
	}
}

func TestNewlyBrokenLinkIsError(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.Note(t, store, "ref.md", "permanent", "[[a]]\n")
	testutil.Note(t, store, "a.md", "permanent", "\n")

	before := buildIndex(t, store)
	if err := store.Delete("a.md"); err != nil {
		t.Fatal(err)
	}

	rep, err := New(store).Validate(before, nil)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if rep.Passed {
		t.Error("validation should fail with a newly broken link")
	}
	if len(rep.BrokenLinks) != 1 || !strings.Contains(rep.BrokenLinks[0], "[[a]]") {
		t.Errorf("broken = %v", rep.BrokenLinks)
	}
	if len(rep.Recommendations) == 0 || !strings.Contains(rep.Recommendations[0], "newly broken") {
		t.Errorf("recommendations = %v", rep.Recommendations)
	}
}

func TestRewrittenReferenceLosingItsTargetIsError(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.Note(t, store, "ref.md", "permanent", "see [[Inbox/a]]\n")
	testutil.Note(t, store, "Inbox/a.md", "permanent", "\n")

	before := buildIndex(t, store)
	// Simulate an execution where the link was rewritten for the move
	// but the moved note itself was lost: the reference now carries the
	// new text yet resolves nowhere.
	testutil.Note(t, store, "ref.md", "permanent", "see [[Permanent Notes/a]]\n")
	if err := store.Delete("Inbox/a.md"); err != nil {
		t.Fatal(err)
	}
	rewrites := []models.LinkRewrite{{
		Source:      "ref.md",
		MovedTarget: "Inbox/a.md",
		OldText:     "[[Inbox/a]]",
		NewText:     "[[Permanent Notes/a]]",
	}}

	rep, err := New(store).Validate(before, rewrites)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if rep.Passed {
		t.Error("a rewritten reference with a missing target must fail validation")
	}
	if len(rep.BrokenLinks) != 1 || !strings.Contains(rep.BrokenLinks[0], "[[Permanent Notes/a]]") {
		t.Errorf("broken = %v", rep.BrokenLinks)
	}
	if len(rep.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", rep.Warnings)
	}
}

func TestPreExistingUnresolvedStaysWarning(t *testing.T) {
	_, store := testutil.TestVault(t)
	testutil.Note(t, store, "ref.md", "permanent", "[[never existed]]\n")

	before := buildIndex(t, store)
	rep, err := New(store).Validate(before, nil)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !rep.Passed {
		t.Errorf("pre-existing unresolved reference must not fail validation: %+v", rep)
	}
	if len(rep.Warnings) != 1 {
		t.Errorf("warnings = %v", rep.Warnings)
	}
	if len(rep.BrokenLinks) != 0 {
		t.Errorf("broken = %v", rep.BrokenLinks)
	}
}
