package model

// Passage is one overlapping chunk of the ingested narrative
type Passage struct {
	ChunkID   string `json:"chunk_id"`   // Stable id derived from text + position
	Position  int    `json:"position"`   // Ordinal position in the narrative
	Text      string `json:"text"`       // Paragraph plus trailing overlap
	CharStart int    `json:"char_start"` // Offset of the first paragraph in the source
	CharEnd   int    `json:"char_end"`   // Offset past the last paragraph in the source
}

// EvidenceItem is a narrative passage scored for relevance to one claim.
// Scores are comparable only within a single retrieval call.
type EvidenceItem struct {
	ChunkID        string  `json:"chunk_id"`
	Text           string  `json:"text"`
	Position       int     `json:"position"`
	RelevanceScore float64 `json:"relevance_score"`
}

// VerdictStatus classifies the outcome of evaluating one claim
type VerdictStatus string

const (
	StatusPass    VerdictStatus = "PASS"    // At least two supporting passages, no contradiction
	StatusFail    VerdictStatus = "FAIL"    // At least one contradicting passage
	StatusUnknown VerdictStatus = "UNKNOWN" // Evidence insufficient either way
)

// Verdict is the outcome of evaluating one claim against retrieved evidence.
// Contradiction dominates: a non-empty Contradicting list forces FAIL
// regardless of how many supporting items were found.
type Verdict struct {
	ClaimID       string         `json:"claim_id"`
	Status        VerdictStatus  `json:"status"`
	Supporting    []EvidenceItem `json:"supporting_evidence"`
	Contradicting []EvidenceItem `json:"contradicting_evidence"`

	// Carried from the claim so the aggregator can apply the core-trait veto
	CoreTrait        bool    `json:"core_trait"`
	ImportanceWeight float64 `json:"importance_weight,omitempty"`
}
