package models

// MoveItem is one planned relocation of a note to its canonical directory.
type MoveItem struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	NoteType string `json:"note_type"`
}

// Conflict is a relocation blocked because the target path is occupied.
// Conflicts are never auto-resolved; any conflict blocks execution.
type Conflict struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Reason string `json:"reason"`
}

// Diagnostic flags a note excluded from moves (unknown type, malformed
// metadata) for manual triage.
type Diagnostic struct {
	Path   string `json:"path"`
	Detail string `json:"detail"`
}

// PlanSummary aggregates counts for one planning pass.
type PlanSummary struct {
	TotalFiles      int `json:"total_files"`
	WithMetadata    int `json:"with_metadata"`
	CorrectlyPlaced int `json:"correctly_placed"`
	Planned         int `json:"planned"`
	Conflicts       int `json:"conflicts"`
	UnknownType     int `json:"unknown_type"`
	Malformed       int `json:"malformed"`

	LinksScanned    int      `json:"links_scanned"`
	LinksResolved   int      `json:"links_resolved"`
	LinksUnresolved int      `json:"links_unresolved"`
	AmbiguousStems  []string `json:"ambiguous_stems,omitempty"`
}

// MovePlan is the immutable outcome of one planning pass. It is created
// once per PlanMoves call and never mutated afterwards.
type MovePlan struct {
	Items        []MoveItem    `json:"items"`
	Conflicts    []Conflict    `json:"conflicts"`
	UnknownTyped []Diagnostic  `json:"unknown_typed"`
	Malformed    []Diagnostic  `json:"malformed"`
	Rewrites     []LinkRewrite `json:"rewrites"`
	// Checksums captures each move source's content digest at plan time,
	// used for stale-plan detection before execution.
	Checksums map[string]string `json:"checksums"`
	Summary   PlanSummary       `json:"summary"`
}

// Empty reports whether the plan contains no moves and no diagnostics.
func (p *MovePlan) Empty() bool {
	return len(p.Items) == 0 && len(p.Conflicts) == 0 &&
		len(p.UnknownTyped) == 0 && len(p.Malformed) == 0
}
