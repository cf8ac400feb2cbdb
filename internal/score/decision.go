package score

import "github.com/ppiankov/fabula/internal/model"

// Decide aggregates per-claim verdicts into the backstory-level decision.
// Strict three-branch table, checked in order:
//  1. any failed core-trait claim rejects outright
//  2. two or more failed non-core claims reject
//  3. otherwise accept
//
// The order matters: a single core contradiction must produce the core
// rationale even when other failures exist.
func Decide(verdicts []model.Verdict) model.Decision {
	failedCore := 0
	failedNonCore := 0

	for _, v := range verdicts {
		if v.Status != model.StatusFail {
			continue
		}
		if v.CoreTrait {
			failedCore++
		} else {
			failedNonCore++
		}
	}

	if failedCore > 0 {
		return model.Decision{
			Label:     model.LabelReject,
			Rationale: model.RationaleCoreContradicted,
		}
	}

	if failedNonCore >= 2 {
		return model.Decision{
			Label:     model.LabelReject,
			Rationale: model.RationaleMultipleContradicted,
		}
	}

	return model.Decision{
		Label:     model.LabelAccept,
		Rationale: model.RationaleNoContradictions,
	}
}
