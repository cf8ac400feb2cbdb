package model

import "time"

// Label is the final accept/reject output for one backstory
type Label int

const (
	LabelReject Label = 0
	LabelAccept Label = 1
)

// Canned rationales. The decision table emits exactly one of these.
const (
	RationaleCoreContradicted     = "Core backstory claim contradicted by narrative evidence"
	RationaleMultipleContradicted = "Multiple backstory claims contradicted"
	RationaleNoContradictions     = "No decisive contradictions found"
)

// Decision is the backstory-level output of the aggregator
type Decision struct {
	Label     Label  `json:"label"`
	Rationale string `json:"rationale"`
}

// Report is the complete result of checking one backstory against one book
type Report struct {
	Book      string    `json:"book"`       // Narrative name (file stem)
	Source    string    `json:"source"`     // Resolved narrative path
	CheckedAt time.Time `json:"checked_at"` // When the check ran
	Passages  int       `json:"passages"`   // Passage count in the ingested narrative

	Claims   []Claim   `json:"claims"`
	Verdicts []Verdict `json:"verdicts"`
	Decision Decision  `json:"decision"`

	// Optional LLM explanation (separate, never affects the decision)
	LLM *ExplainerSummary `json:"llm,omitempty"`
}

// ExplainerSummary contains an optional LLM-generated explanation of the
// verdict table. CRITICAL: it never changes the label or rationale.
type ExplainerSummary struct {
	Enabled    bool   `json:"enabled"`
	Provider   string `json:"provider,omitempty"`
	Model      string `json:"model,omitempty"`
	Text       string `json:"text,omitempty"`
	TokensUsed int    `json:"tokens_used,omitempty"`
}
