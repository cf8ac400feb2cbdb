package score

import "github.com/ppiankov/fabula/internal/model"

// Base weights by category. Psychological and motivational claims carry the
// most weight; skills the least.
var categoryBaseWeights = map[model.ClaimType]float64{
	model.ClaimFearOrConstraint:     0.55,
	model.ClaimMotivationOrAmbition: 0.50,
	model.ClaimBeliefAboutWorld:     0.45,
	model.ClaimEarlyLifeEvent:       0.40,
	model.ClaimFormativeExperience:  0.35,
	model.ClaimBehavioralTendency:   0.30,
	model.ClaimMoralConstraint:      0.25,
	model.ClaimSkillOrCapability:    0.20,
}

const (
	defaultBaseWeight    = 0.5
	coreTraitBoost       = 0.4
	confidenceAdjustment = 0.1
)

// ImportanceWeight maps a validated claim to a weight in [0,1]: category base
// weight, plus the core-trait boost, plus a small linear adjustment around
// the 0.7 confidence baseline. Deterministic, no failure modes.
func ImportanceWeight(c model.Claim) float64 {
	weight, ok := categoryBaseWeights[c.Type]
	if !ok {
		weight = defaultBaseWeight
	}

	if c.CoreTrait {
		weight += coreTraitBoost
	}
	weight += (c.Confidence - 0.7) * confidenceAdjustment

	if weight < 0 {
		return 0
	}
	if weight > 1 {
		return 1
	}
	return weight
}

// AssignWeights enriches every claim in place with its importance weight
func AssignWeights(claims []model.Claim) {
	for i := range claims {
		claims[i].ImportanceWeight = ImportanceWeight(claims[i])
	}
}
