package model

// ClaimType categorizes what a backstory claim asserts about the character
type ClaimType string

const (
	ClaimEarlyLifeEvent       ClaimType = "early_life_event"
	ClaimFormativeExperience  ClaimType = "formative_experience"
	ClaimBeliefAboutWorld     ClaimType = "belief_about_world"
	ClaimFearOrConstraint     ClaimType = "fear_or_psychological_constraint"
	ClaimMotivationOrAmbition ClaimType = "motivation_or_ambition"
	ClaimBehavioralTendency   ClaimType = "behavioral_tendency"
	ClaimSkillOrCapability    ClaimType = "skill_or_capability"
	ClaimMoralConstraint      ClaimType = "moral_or_narrative_constraint"
)

// ClaimTypes returns every category in declaration order. The order is a
// contract: the decomposer resolves category scoring ties to the earliest
// entry in this list.
func ClaimTypes() []ClaimType {
	return []ClaimType{
		ClaimEarlyLifeEvent,
		ClaimFormativeExperience,
		ClaimBeliefAboutWorld,
		ClaimFearOrConstraint,
		ClaimMotivationOrAmbition,
		ClaimBehavioralTendency,
		ClaimSkillOrCapability,
		ClaimMoralConstraint,
	}
}

// Valid reports whether t is one of the fixed claim categories
func (t ClaimType) Valid() bool {
	switch t {
	case ClaimEarlyLifeEvent, ClaimFormativeExperience, ClaimBeliefAboutWorld,
		ClaimFearOrConstraint, ClaimMotivationOrAmbition, ClaimBehavioralTendency,
		ClaimSkillOrCapability, ClaimMoralConstraint:
		return true
	}
	return false
}

// Claim represents an atomic assertion extracted from a character backstory
type Claim struct {
	ID         string    `json:"claim_id"`   // Stable id derived from text + position
	Type       ClaimType `json:"claim_type"` // One of the 8 fixed categories
	Text       string    `json:"claim_text"` // Single-clause assertion
	Confidence float64   `json:"confidence"` // [0,1], linguistic certainty of the wording
	CoreTrait  bool      `json:"core_trait"` // Central to character identity

	// ImportanceWeight is assigned after validation; [0,1].
	// The decision table does not consult it yet, but reports carry it.
	ImportanceWeight float64 `json:"importance_weight,omitempty"`
}
